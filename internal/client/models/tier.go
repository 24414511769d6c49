package models

// Daily analysis quotas per tier.
const (
	GuestDailyLimit      = 1
	RegisteredDailyLimit = 5
)

// DailyLimit is the only place the tier → quota mapping lives. Both the
// gating check and the displayed "used/limit" read from it.
func DailyLimit(authenticated bool) int {
	if authenticated {
		return RegisteredDailyLimit
	}
	return GuestDailyLimit
}

// Usage is the used/limit pair shown to the user and used for gating.
type Usage struct {
	Used  int
	Limit int
}

// NewUsage derives the limit from the tier. Negative counts clamp to zero.
func NewUsage(used int, authenticated bool) Usage {
	if used < 0 {
		used = 0
	}
	return Usage{Used: used, Limit: DailyLimit(authenticated)}
}

// CanUse reports whether another analysis fits into today's quota.
func (u Usage) CanUse() bool {
	return u.Used < u.Limit
}

// Remaining returns how many analyses are left today.
func (u Usage) Remaining() int {
	if u.Used >= u.Limit {
		return 0
	}
	return u.Limit - u.Used
}
