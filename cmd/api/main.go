package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"server/internal/fitscore"
	"server/internal/http/handlers"
	httpapi "server/internal/http/httpapi"
	"server/internal/identity"
	"server/internal/infra"
	"server/internal/infra/clerkauth"
	"server/internal/infra/credentials"
	"server/internal/infra/geoip"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/plan"
	"server/internal/session"
	"server/internal/usage"
)

const usageRetentionDays = 7

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}

	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	store := usage.NewPostgresStore(sqlRunner)
	tracker := usage.NewTracker(store)
	events := usage.NewEventLog(sqlRunner)

	// Counters for past days are dead keys; sweep them on boot.
	if err := store.PurgeBefore(ctx, time.Now().UTC().AddDate(0, 0, -usageRetentionDays)); err != nil {
		logger.Warn().Err(err).Msg("failed to purge stale usage counters")
	}

	collector := metrics.NewCollector(nil)

	var plans handlers.PlanService
	if cfg.ClerkSecretKey != "" {
		clerkClient, err := plan.NewClerkClient(plan.ClerkOptions{
			SecretKey: cfg.ClerkSecretKey,
			BaseURL:   cfg.ClerkBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build clerk client")
		}
		plans = plan.NewResolver(clerkClient, logger)
	} else {
		logger.Warn().Msg("CLERK_SECRET_KEY not set; all authenticated users resolve to the free tier")
		plans = plan.NewResolver(nil, logger)
	}

	var verifier *clerkauth.Verifier
	if cfg.ClerkIssuer != "" {
		verifier = clerkauth.NewVerifier(cfg.ClerkIssuer, cfg.AllowedOrigins)
	}

	openAIKey := resolveOpenAIKey(ctx, cfg, sqlRunner, logger)

	var issuer session.Issuer
	if openAIKey != "" && cfg.ChatKitWorkflowID != "" {
		chatkit, err := session.NewChatKitClient(session.ChatKitOptions{
			APIKey:     openAIKey,
			WorkflowID: cfg.ChatKitWorkflowID,
			BaseURL:    cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build chatkit client")
		}
		issuer = chatkit
	} else {
		logger.Warn().Msg("chat provider not fully configured; session creation will fail")
	}
	provisioner := session.NewProvisioner(issuer, tracker, identity.NewRandomGuestIDs(), events, logger, collector)

	var fit handlers.FitService
	if openAIKey != "" {
		scorer, err := fitscore.NewScorer(fitscore.Options{
			APIKey:  openAIKey,
			Model:   cfg.OpenAIModel,
			BaseURL: cfg.OpenAIBaseURL,
		})
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to build fit scorer")
		}
		fit = scorer
	}

	var country middleware.CountryLookup
	if cfg.GeoIPDBPath != "" {
		geo, err := geoip.NewResolver(cfg.GeoIPDBPath)
		if err != nil {
			logger.Warn().Err(err).Msg("geoip database unavailable; locale falls back to headers")
		} else {
			defer func() {
				_ = geo.Close()
			}()
			country = geo.CountryCode
		}
	}

	app := handlers.NewApp(sqlRunner, logger)
	app.Metrics = collector
	app.JWTSecret = cfg.JWTSecret
	app.Clerk = verifier
	app.Plans = plans
	app.Tracker = tracker
	app.Sessions = provisioner
	app.Fit = fit

	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin)
	defer limiter.Stop()

	router := httpapi.NewRouter(app, httpapi.RouterOptions{
		Logger:         logger,
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.AllowedOrigins,
		Country:        country,
		RateLimiter:    limiter,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on %s", server.Addr())
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

// resolveOpenAIKey prefers the environment; the database copy exists so the
// key can be rotated without a redeploy (see cmd/openaikey).
func resolveOpenAIKey(ctx context.Context, cfg *infra.Config, sql infra.SQLExecutor, logger zerolog.Logger) string {
	if cfg.OpenAIAPIKey != "" {
		return cfg.OpenAIAPIKey
	}
	key, err := credentials.NewStore(sql).OpenAIAPIKey(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("no stored openai key")
		return ""
	}
	return key
}
