package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/infra/clerkauth"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/session"
	"server/internal/usage"
)

// SessionService provisions quota-gated chat sessions.
type SessionService interface {
	Provision(ctx context.Context, id domain.Identity, tier domain.Tier) (*session.Session, error)
}

// PlanService resolves an authenticated user's subscription tier.
type PlanService interface {
	Resolve(ctx context.Context, userID string) domain.Tier
}

// FitService scores a job description against the candidate profile.
type FitService interface {
	Analyze(ctx context.Context, jobDescription string) (*domain.JobFitAssessment, error)
}

type App struct {
	SQL       infra.SQLExecutor
	Logger    zerolog.Logger
	Metrics   metrics.Recorder
	JWTSecret string
	Clerk     *clerkauth.Verifier
	Plans     PlanService
	Tracker   *usage.Tracker
	Sessions  SessionService
	Fit       FitService
}

func NewApp(sql infra.SQLExecutor, logger zerolog.Logger) *App {
	return &App{SQL: sql, Logger: logger, Metrics: metrics.Noop{}}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{
			"code":    errCode,
			"message": message,
		},
	})
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
