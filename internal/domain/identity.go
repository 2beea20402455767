package domain

// Tier enumerates subscription tiers.
type Tier string

const (
	TierFree      Tier = "free"
	TierRecruiter Tier = "recruiter"
)

// Identity denotes a caller for quota purposes. The key is the provider-issued
// user id for authenticated callers, or the apparent network origin for
// guests. Guest keys are not unique behind shared NAT or proxies; callers on
// the same origin share a quota.
type Identity struct {
	Key   string
	Guest bool
}

// AuthenticatedIdentity builds the identity for a signed-in user.
func AuthenticatedIdentity(userID string) Identity {
	return Identity{Key: userID}
}

// GuestIdentity builds the identity for an anonymous caller.
func GuestIdentity(origin string) Identity {
	return Identity{Key: origin, Guest: true}
}
