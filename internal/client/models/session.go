package models

// State is the session lifecycle state.
type State int

const (
	StateUnchecked State = iota
	StateGuest
	StateRegistered
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateRegistered:
		return "registered"
	default:
		return "unchecked"
	}
}

// Session is a projection of identity and usage; it is recomputed on every
// change and never persisted.
type Session struct {
	State    State
	Identity *UserProfile
	Usage    Usage
	CanUse   bool
}

// NewSession builds the projection for identity and the used count.
func NewSession(state State, identity *UserProfile, used int) Session {
	u := NewUsage(used, identity != nil)
	return Session{
		State:    state,
		Identity: identity.Clone(),
		Usage:    u,
		CanUse:   u.CanUse(),
	}
}

// IsAuthenticated reports whether an identity is active.
func (s Session) IsAuthenticated() bool {
	return s.Identity != nil
}

// LimitStatus is the answer to a quota check made right before a gated action.
type LimitStatus struct {
	CanProceed   bool
	LimitReached bool
	IsRegistered bool
	Used         int
	Limit        int
}

// NewLimitStatus evaluates used against the tier limit.
func NewLimitStatus(used int, registered bool) LimitStatus {
	u := NewUsage(used, registered)
	return LimitStatus{
		CanProceed:   u.CanUse(),
		LimitReached: !u.CanUse(),
		IsRegistered: registered,
		Used:         u.Used,
		Limit:        u.Limit,
	}
}
