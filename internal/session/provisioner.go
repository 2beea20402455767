package session

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/identity"
	"server/internal/metrics"
	"server/internal/middleware"
	"server/internal/usage"
)

// Issuer mints chat session credentials.
type Issuer interface {
	CreateSession(ctx context.Context, user string) (string, error)
}

// EventRecorder appends usage audit events. Satisfied by *usage.EventLog.
type EventRecorder interface {
	Record(ctx context.Context, identity, requestID, eventType string, success bool, latency time.Duration, props map[string]any) error
}

// Session is a freshly provisioned chat session together with the caller's
// post-provisioning quota snapshot.
type Session struct {
	ClientSecret string
	Tier         domain.Tier
	Usage        domain.Usage
}

// Provisioner gates session creation behind the daily quota. The ordering is
// fixed: allowance, read-only check, atomic reservation, external call,
// audit. A failed external call releases the reservation so quota is never
// consumed for a session the caller did not get.
type Provisioner struct {
	issuer  Issuer
	tracker *usage.Tracker
	guests  identity.GuestIDGenerator
	events  EventRecorder
	logger  zerolog.Logger
	metrics metrics.Recorder
}

func NewProvisioner(issuer Issuer, tracker *usage.Tracker, guests identity.GuestIDGenerator, events EventRecorder, logger zerolog.Logger, recorder metrics.Recorder) *Provisioner {
	if recorder == nil {
		recorder = metrics.Noop{}
	}
	return &Provisioner{
		issuer:  issuer,
		tracker: tracker,
		guests:  guests,
		events:  events,
		logger:  logger,
		metrics: recorder,
	}
}

func (p *Provisioner) Provision(ctx context.Context, id domain.Identity, tier domain.Tier) (*Session, error) {
	if p.issuer == nil {
		return nil, &domain.ConfigError{Missing: "OPENAI_API_KEY or CHATKIT_WORKFLOW_ID"}
	}

	limit := domain.Allowance(id.Guest, tier)

	snapshot, err := p.tracker.Check(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	if !snapshot.Allowed {
		p.metrics.RecordQuotaRejection(tier, id.Guest)
		return nil, &domain.QuotaExceededError{Limit: limit, Tier: tier, Guest: id.Guest}
	}

	if err := p.tracker.Reserve(ctx, id, limit); err != nil {
		if errors.Is(err, domain.ErrQuotaExceeded) {
			p.metrics.RecordQuotaRejection(tier, id.Guest)
			return nil, &domain.QuotaExceededError{Limit: limit, Tier: tier, Guest: id.Guest}
		}
		return nil, err
	}

	user := id.Key
	if id.Guest {
		user = p.guests.NewGuestID()
	}

	started := time.Now()
	secret, err := p.issuer.CreateSession(ctx, user)
	if err != nil {
		p.metrics.RecordUpstreamFailure("chatkit")
		if rerr := p.tracker.Release(ctx, id); rerr != nil {
			p.logger.Error().Err(rerr).Str("identity", id.Key).Msg("failed to release quota reservation")
		}
		p.recordEvent(ctx, id, "session_create", false, time.Since(started))
		return nil, err
	}

	p.metrics.RecordSessionIssued(tier, id.Guest)
	p.recordEvent(ctx, id, "session_create", true, time.Since(started))

	after, err := p.tracker.Check(ctx, id, limit)
	if err != nil {
		// The session exists; a stale snapshot is preferable to failing now.
		p.logger.Warn().Err(err).Str("identity", id.Key).Msg("post-provision usage check failed")
		after = domain.Usage{Allowed: snapshot.Remaining > 1, Remaining: snapshot.Remaining - 1, Limit: limit}
	}

	return &Session{ClientSecret: secret, Tier: tier, Usage: after}, nil
}

func (p *Provisioner) recordEvent(ctx context.Context, id domain.Identity, eventType string, success bool, latency time.Duration) {
	if p.events == nil {
		return
	}
	props := map[string]any{"guest": id.Guest}
	requestID := middleware.RequestIDFromContext(ctx)
	if err := p.events.Record(ctx, id.Key, requestID, eventType, success, latency, props); err != nil {
		p.logger.Warn().Err(err).Msg("failed to record usage event")
	}
}
