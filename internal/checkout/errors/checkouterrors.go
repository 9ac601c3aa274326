package checkouterrors

import "errors"

var (
	ErrIllegalTransition = errors.New("action is not legal in the current state")
	ErrSessionExpired    = errors.New("verification session has expired")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidDraft      = errors.New("order draft failed validation")
	ErrInvalidCode       = errors.New("code must be a full-length numeric string")
	ErrResendCooldown    = errors.New("resend is not available yet")
	ErrStaleGeneration   = errors.New("result belongs to an abandoned session")
)
