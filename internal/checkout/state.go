package checkout

type State string

const (
	StateDraft                State = "DRAFT"
	StateSubmitting           State = "SUBMITTING"
	StateAwaitingVerification State = "AWAITING_VERIFICATION"
	StateVerifying            State = "VERIFYING"
	StateResending            State = "RESENDING"
	StateVerified             State = "VERIFIED"
	StateFailed               State = "FAILED"
	StateExpired              State = "EXPIRED"
)

// IsTerminal reports whether only a restart is legal from here.
func (s State) IsTerminal() bool {
	return s == StateVerified || s == StateFailed || s == StateExpired
}

// InFlight reports whether a gateway call is outstanding.
func (s State) InFlight() bool {
	return s == StateSubmitting || s == StateVerifying || s == StateResending
}

func (s State) String() string {
	return string(s)
}
