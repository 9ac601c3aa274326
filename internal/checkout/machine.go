package checkout

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/boighor/bookshop/internal/cart"
	checkouterrors "github.com/boighor/bookshop/internal/checkout/errors"
	"github.com/boighor/bookshop/internal/domain/models"
	"github.com/boighor/bookshop/internal/gateway"
	"github.com/boighor/bookshop/internal/logger"
)

const defaultResendCooldown = 60 * time.Second

// Machine is the state machine for one order attempt. It never calls
// the network itself: user intents (Submit, Verify, Resend) move it
// into an in-flight state and return a generation number; the driver
// performs the gateway call and hands the result back to the matching
// Resolve method. Results tagged with an old generation are rejected,
// so a response that arrives after the flow was abandoned or restarted
// can never touch a newer session.
//
// All methods must be called from a single goroutine.
type Machine struct {
	state State
	cart  *cart.Store
	draft *models.OrderDraft

	token             string
	expiresAt         time.Time
	attemptsRemaining int
	resendAvailableAt time.Time

	otpLength int
	digits    []byte

	gen   uint64
	fault *gateway.Fault
	order *models.Order

	now            func() time.Time
	resendCooldown time.Duration
	valid          *validator.Validate
}

type Option func(*Machine)

// WithClock replaces the wall clock, so expiry is testable.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

func WithResendCooldown(d time.Duration) Option {
	return func(m *Machine) { m.resendCooldown = d }
}

// WithOTPLength sets the expected code length used until the server
// advertises its own.
func WithOTPLength(n int) Option {
	return func(m *Machine) {
		if n > 0 {
			m.otpLength = n
		}
	}
}

func New(store *cart.Store, opts ...Option) *Machine {
	m := &Machine{
		state:             StateDraft,
		cart:              store,
		attemptsRemaining: -1,
		otpLength:         6,
		now:               time.Now,
		resendCooldown:    defaultResendCooldown,
		valid:             validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.digits = make([]byte, m.otpLength)
	return m
}

func (m *Machine) State() State          { return m.state }
func (m *Machine) Generation() uint64    { return m.gen }
func (m *Machine) SessionToken() string  { return m.token }
func (m *Machine) ExpiresAt() time.Time  { return m.expiresAt }
func (m *Machine) OTPLength() int        { return m.otpLength }
func (m *Machine) Cart() *cart.Store     { return m.cart }
func (m *Machine) Order() *models.Order  { return m.order }
func (m *Machine) Fault() *gateway.Fault { return m.fault }

func (m *Machine) Draft() *models.OrderDraft { return m.draft }

// AttemptsRemaining mirrors the server's counter for display only;
// -1 means the server has not reported one yet.
func (m *Machine) AttemptsRemaining() int { return m.attemptsRemaining }

// Remaining is the countdown until session expiry.
func (m *Machine) Remaining() time.Duration {
	if m.expiresAt.IsZero() {
		return 0
	}
	d := m.expiresAt.Sub(m.now())
	if d < 0 {
		return 0
	}
	return d
}

// ResendAvailableIn is the cooldown left before resend becomes legal.
func (m *Machine) ResendAvailableIn() time.Duration {
	d := m.resendAvailableAt.Sub(m.now())
	if d < 0 {
		return 0
	}
	return d
}

// Submit validates the draft and moves Draft -> Submitting. The
// returned generation must accompany the gateway result into
// ResolveSubmit.
func (m *Machine) Submit(draft models.OrderDraft) (uint64, error) {
	if m.state != StateDraft {
		return 0, checkouterrors.ErrIllegalTransition
	}
	if len(draft.Items) == 0 {
		return 0, checkouterrors.ErrEmptyCart
	}
	if err := m.valid.Struct(draft); err != nil {
		return 0, fmt.Errorf("%w: %w", checkouterrors.ErrInvalidDraft, err)
	}
	m.draft = &draft
	m.fault = nil
	m.state = StateSubmitting
	log := logger.Get()
	log.Debug().Str("phone", draft.PhoneNumber).Msg("order submitted")
	return m.gen, nil
}

func (m *Machine) ResolveSubmit(gen uint64, res gateway.InitiateResult) error {
	if gen != m.gen {
		return checkouterrors.ErrStaleGeneration
	}
	if m.state != StateSubmitting {
		return checkouterrors.ErrIllegalTransition
	}
	if !res.Ok() {
		m.fault = res.Fault
		m.state = StateFailed
		log := logger.Get()
		log.Debug().Str("kind", string(res.Fault.Kind)).Msg("order initiation failed")
		return nil
	}
	m.token = res.SessionToken
	m.expiresAt = res.ExpiresAt
	if res.OTPLength > 0 {
		m.otpLength = res.OTPLength
	}
	m.digits = make([]byte, m.otpLength)
	m.resendAvailableAt = m.now().Add(m.resendCooldown)
	m.state = StateAwaitingVerification
	return nil
}

// EnterDigit writes one slot of the pending code buffer. Purely local.
func (m *Machine) EnterDigit(index int, value byte) error {
	if m.state != StateAwaitingVerification {
		return checkouterrors.ErrIllegalTransition
	}
	if index < 0 || index >= len(m.digits) || value < '0' || value > '9' {
		return checkouterrors.ErrInvalidCode
	}
	m.digits[index] = value
	return nil
}

func (m *Machine) ClearDigit(index int) {
	if index >= 0 && index < len(m.digits) {
		m.digits[index] = 0
	}
}

func (m *Machine) ClearDigits() {
	m.digits = make([]byte, m.otpLength)
}

// Code returns the buffer contents; empty slots come back as spaces so
// completeness is checked with CodeComplete.
func (m *Machine) Code() string {
	out := make([]byte, len(m.digits))
	for i, b := range m.digits {
		if b == 0 {
			out[i] = ' '
		} else {
			out[i] = b
		}
	}
	return string(out)
}

func (m *Machine) CodeComplete() bool {
	for _, b := range m.digits {
		if b == 0 {
			return false
		}
	}
	return len(m.digits) > 0
}

// Verify moves AwaitingVerification -> Verifying after checking the
// code shape locally; a malformed code never reaches the wire.
func (m *Machine) Verify(code string) (uint64, error) {
	switch m.state {
	case StateAwaitingVerification:
	case StateExpired:
		return 0, checkouterrors.ErrSessionExpired
	default:
		return 0, checkouterrors.ErrIllegalTransition
	}
	if m.expired() {
		m.expire()
		return 0, checkouterrors.ErrSessionExpired
	}
	if !validCode(code, m.otpLength) {
		return 0, checkouterrors.ErrInvalidCode
	}
	m.fault = nil
	m.state = StateVerifying
	return m.gen, nil
}

func (m *Machine) ResolveVerify(gen uint64, res gateway.VerifyResult) error {
	if gen != m.gen {
		return checkouterrors.ErrStaleGeneration
	}
	if m.state != StateVerifying {
		return checkouterrors.ErrIllegalTransition
	}
	if res.Ok() {
		m.order = res.Order
		m.dropSession()
		m.state = StateVerified
		m.cart.Clear()
		log := logger.Get()
		log.Info().Str("oid", res.Order.OID).Msg("order confirmed")
		return nil
	}
	if res.Fault.Retriable() {
		m.attemptsRemaining = res.Fault.AttemptsRemaining
		m.ClearDigits()
		m.fault = res.Fault
		m.state = StateAwaitingVerification
		return nil
	}
	m.fault = res.Fault
	m.state = StateFailed
	log := logger.Get()
	log.Debug().Str("kind", string(res.Fault.Kind)).Msg("verification failed")
	return nil
}

// Resend is cooldown-gated: it becomes legal only once the resend
// countdown reaches zero, so two resends can never be outstanding.
func (m *Machine) Resend() (uint64, error) {
	switch m.state {
	case StateAwaitingVerification:
	case StateExpired:
		return 0, checkouterrors.ErrSessionExpired
	default:
		return 0, checkouterrors.ErrIllegalTransition
	}
	if m.expired() {
		m.expire()
		return 0, checkouterrors.ErrSessionExpired
	}
	if m.now().Before(m.resendAvailableAt) {
		return 0, checkouterrors.ErrResendCooldown
	}
	m.fault = nil
	m.state = StateResending
	return m.gen, nil
}

// ResolveResend keeps the existing session on fault: a failed resend
// never invalidates a code the user may still receive. The attempts
// mirror is preserved either way.
func (m *Machine) ResolveResend(gen uint64, res gateway.ResendResult) error {
	if gen != m.gen {
		return checkouterrors.ErrStaleGeneration
	}
	if m.state != StateResending {
		return checkouterrors.ErrIllegalTransition
	}
	if res.Ok() {
		m.expiresAt = res.ExpiresAt
		m.resendAvailableAt = m.now().Add(m.resendCooldown)
		m.ClearDigits()
	} else {
		m.fault = res.Fault
	}
	m.state = StateAwaitingVerification
	return nil
}

// Tick applies autonomous expiry. It acts only while awaiting
// verification, so an in-flight verify always resolves before the
// deadline is enforced. Returns true when the session just expired.
func (m *Machine) Tick(now time.Time) bool {
	if m.state != StateAwaitingVerification {
		return false
	}
	if m.expiresAt.IsZero() || now.Before(m.expiresAt) {
		return false
	}
	m.expire()
	return true
}

// Restart abandons a finished attempt and returns to Draft. The cart
// survives unless the order was confirmed (Clear already ran then).
func (m *Machine) Restart() error {
	if !m.state.IsTerminal() {
		return checkouterrors.ErrIllegalTransition
	}
	m.gen++
	m.dropSession()
	m.draft = nil
	m.fault = nil
	m.order = nil
	m.state = StateDraft
	return nil
}

// Abandon invalidates the current generation so a late gateway
// resolution is ignored. Used when the UI navigates away mid-flight;
// an active session is marked Failed rather than left dangling.
func (m *Machine) Abandon() {
	m.gen++
	if !m.state.IsTerminal() && m.state != StateDraft {
		m.dropSession()
		m.state = StateFailed
	}
}

func (m *Machine) expired() bool {
	return !m.expiresAt.IsZero() && !m.now().Before(m.expiresAt)
}

func (m *Machine) expire() {
	m.dropSession()
	m.state = StateExpired
	log := logger.Get()
	log.Debug().Msg("verification session expired")
}

func (m *Machine) dropSession() {
	m.token = ""
	m.expiresAt = time.Time{}
	m.resendAvailableAt = time.Time{}
	m.attemptsRemaining = -1
	m.ClearDigits()
}

func validCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
