package handlers

import (
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/middleware"
)

type sessionResponse struct {
	ClientSecret string `json:"client_secret"`
	Remaining    int    `json:"remaining"`
	Limit        int    `json:"limit"`
	Tier         string `json:"tier"`
}

type usageResponse struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
	Tier      string `json:"tier"`
}

// resolveCaller never fails: unauthenticated requests become guests and any
// tier lookup problem has already been downgraded to free by the resolver.
func (a *App) resolveCaller(r *http.Request) (domain.Identity, domain.Tier) {
	id, guest := identity.Resolve(r)
	tier := domain.TierFree
	if !guest && a.Plans != nil {
		tier = a.Plans.Resolve(r.Context(), id.Key)
	}
	return id, tier
}

func (a *App) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, tier := a.resolveCaller(r)
	sess, err := a.Sessions.Provision(r.Context(), id, tier)
	if err != nil {
		a.provisionError(w, r, err)
		return
	}
	a.json(w, http.StatusOK, sessionResponse{
		ClientSecret: sess.ClientSecret,
		Remaining:    sess.Usage.Remaining,
		Limit:        sess.Usage.Limit,
		Tier:         string(sess.Tier),
	})
}

func (a *App) MessageUsage(w http.ResponseWriter, r *http.Request) {
	id, tier := a.resolveCaller(r)
	limit := domain.Allowance(id.Guest, tier)
	snapshot, err := a.Tracker.Check(r.Context(), id, limit)
	if err != nil {
		a.error(w, http.StatusServiceUnavailable, "store_unavailable", "usage store unavailable, try again shortly")
		return
	}
	a.json(w, http.StatusOK, usageResponse{
		Allowed:   snapshot.Allowed,
		Remaining: snapshot.Remaining,
		Limit:     snapshot.Limit,
		Tier:      string(tier),
	})
}

func (a *App) CurrentPlan(w http.ResponseWriter, r *http.Request) {
	_, tier := a.resolveCaller(r)
	a.json(w, http.StatusOK, map[string]string{"tier": string(tier)})
}

func (a *App) provisionError(w http.ResponseWriter, r *http.Request, err error) {
	var qerr *domain.QuotaExceededError
	var cerr *domain.ConfigError
	var uerr *domain.UpstreamError
	switch {
	case errors.As(err, &qerr):
		locale := middleware.LocaleFromContext(r.Context())
		a.error(w, http.StatusForbidden, "quota_exceeded", quotaMessage(locale, qerr))
	case errors.As(err, &cerr):
		a.Logger.Error().Err(err).Msg("chat provider not configured")
		a.error(w, http.StatusInternalServerError, "config_error", "chat is not configured")
	case errors.Is(err, domain.ErrStoreUnavailable):
		a.Logger.Error().Err(err).Msg("usage store unavailable")
		a.error(w, http.StatusServiceUnavailable, "store_unavailable", "usage store unavailable, try again shortly")
	case errors.As(err, &uerr):
		a.Logger.Error().Err(err).Str("service", uerr.Service).Msg("upstream provisioning failed")
		a.error(w, http.StatusBadGateway, "upstream_error", "chat provider unavailable, try again shortly")
	default:
		a.Logger.Error().Err(err).Msg("session provisioning failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to create chat session")
	}
}

// quotaMessage is the only place user-facing quota text is produced. The
// next step differs per audience: guests can sign in, free users can
// upgrade, recruiters can only wait for the daily reset.
func quotaMessage(locale string, e *domain.QuotaExceededError) string {
	indonesian := locale == "id"
	switch {
	case e.Guest:
		if indonesian {
			return "Batas harian tamu tercapai. Masuk untuk mendapatkan lebih banyak pesan."
		}
		return "Daily guest limit reached. Sign in to get more messages."
	case e.Tier == domain.TierRecruiter:
		if indonesian {
			return "Batas harian tercapai. Kuota Anda direset tengah malam UTC."
		}
		return "Daily limit reached. Your quota resets at midnight UTC."
	default:
		if indonesian {
			return "Batas harian tercapai. Tingkatkan ke paket recruiter untuk lebih banyak pesan."
		}
		return "Daily limit reached. Upgrade to the recruiter plan for more messages."
	}
}
