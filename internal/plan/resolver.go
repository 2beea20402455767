package plan

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

// Profile is the subset of an identity-provider user record consulted for
// tier resolution.
type Profile struct {
	// OrganizationPlans holds the plan markers of every organization the user
	// belongs to.
	OrganizationPlans []string
	// PublicPlan is the individual plan marker from public metadata
	// (manual overrides).
	PublicPlan string
	// PrivatePlan is the individual plan marker from private metadata
	// (billing webhooks).
	PrivatePlan string
}

// Provider is the external identity/subscription directory.
type Provider interface {
	Profile(ctx context.Context, userID string) (*Profile, error)
}

// Source attempts to derive a tier from one provider signal. Tier can be
// assigned through organizational billing, a manual metadata override, or a
// billing webhook, so no single source of truth exists; sources are tried in
// order and the first match wins.
type Source func(p *Profile) (domain.Tier, bool)

// Resolver determines the subscription tier of an authenticated user. It
// fails closed: any provider error or malformed payload downgrades to the
// free tier rather than propagating.
type Resolver struct {
	provider Provider
	sources  []Source
	logger   zerolog.Logger
}

func NewResolver(provider Provider, logger zerolog.Logger) *Resolver {
	return &Resolver{
		provider: provider,
		sources:  []Source{organizationPlan, publicPlan, privatePlan},
		logger:   logger,
	}
}

func (r *Resolver) Resolve(ctx context.Context, userID string) domain.Tier {
	if r.provider == nil {
		return domain.TierFree
	}
	profile, err := r.provider.Profile(ctx, userID)
	if err != nil {
		r.logger.Warn().Err(err).Str("user_id", userID).Msg("plan lookup failed, defaulting to free")
		return domain.TierFree
	}
	for _, source := range r.sources {
		if tier, ok := source(profile); ok {
			return tier
		}
	}
	return domain.TierFree
}

func organizationPlan(p *Profile) (domain.Tier, bool) {
	for _, marker := range p.OrganizationPlans {
		if isRecruiter(marker) {
			return domain.TierRecruiter, true
		}
	}
	return "", false
}

func publicPlan(p *Profile) (domain.Tier, bool) {
	if isRecruiter(p.PublicPlan) {
		return domain.TierRecruiter, true
	}
	return "", false
}

func privatePlan(p *Profile) (domain.Tier, bool) {
	if isRecruiter(p.PrivatePlan) {
		return domain.TierRecruiter, true
	}
	return "", false
}

func isRecruiter(marker string) bool {
	return strings.EqualFold(strings.TrimSpace(marker), string(domain.TierRecruiter))
}
