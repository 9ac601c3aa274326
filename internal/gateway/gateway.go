package gateway

import (
	"context"
	"time"

	"github.com/boighor/bookshop/internal/domain/models"
)

//go:generate mockgen -source=gateway.go -destination=./mocks/gateway_mock.go -package=mocks

type FaultKind string

const (
	FaultNetworkUnavailable FaultKind = "NETWORK_UNAVAILABLE"
	FaultInvalidSession     FaultKind = "INVALID_SESSION"
	FaultWrongCode          FaultKind = "WRONG_CODE"
	FaultAttemptsExhausted  FaultKind = "ATTEMPTS_EXHAUSTED"
	FaultSessionExpired     FaultKind = "SESSION_EXPIRED"
	FaultServerError        FaultKind = "SERVER_ERROR"
)

// Fault is the closed representation of everything that can go wrong
// on the far side of the wire. Raw transport errors never leave this
// package.
type Fault struct {
	Kind   FaultKind
	Detail string
	// AttemptsRemaining is meaningful only for WRONG_CODE.
	AttemptsRemaining int
}

func (f *Fault) Retriable() bool {
	return f != nil && f.Kind == FaultWrongCode && f.AttemptsRemaining > 0
}

type InitiateResult struct {
	SessionToken string
	ExpiresAt    time.Time
	OTPLength    int
	Fault        *Fault
}

func (r InitiateResult) Ok() bool { return r.Fault == nil }

type VerifyResult struct {
	Order *models.Order
	Fault *Fault
}

func (r VerifyResult) Ok() bool { return r.Fault == nil }

type ResendResult struct {
	ExpiresAt time.Time
	Fault     *Fault
}

func (r ResendResult) Ok() bool { return r.Fault == nil }

// VerificationGateway covers the three remote calls of the order
// verification flow. Implementations report failures as in-band
// faults, never as errors.
type VerificationGateway interface {
	Initiate(ctx context.Context, draft models.OrderDraft) InitiateResult
	Verify(ctx context.Context, sessionToken, code string) VerifyResult
	Resend(ctx context.Context, sessionToken string) ResendResult
}
