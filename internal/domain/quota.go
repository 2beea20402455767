package domain

// Daily message allowances per audience. If these are ever retuned, the
// ordering guest < free < recruiter must be preserved.
const (
	AllowanceGuest     = 3
	AllowanceFree      = 5
	AllowanceRecruiter = 20
)

// Allowance returns the daily message ceiling for a caller.
func Allowance(guest bool, tier Tier) int {
	if guest {
		return AllowanceGuest
	}
	switch tier {
	case TierRecruiter:
		return AllowanceRecruiter
	default:
		return AllowanceFree
	}
}

// Usage is a point-in-time snapshot of a caller's daily quota.
type Usage struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
	Limit     int  `json:"limit"`
}
