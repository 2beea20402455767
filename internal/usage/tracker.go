package usage

import (
	"context"
	"fmt"
	"time"

	"server/internal/domain"
)

// Store is the external counter the tracker leans on. IncrementBelow must be
// atomic with respect to concurrent callers for the same key: when one slot
// remains, exactly one caller may win it.
type Store interface {
	Count(ctx context.Context, identity, day string) (int, error)
	IncrementBelow(ctx context.Context, identity, day string, ceiling int) (int, bool, error)
	Decrement(ctx context.Context, identity, day string) error
}

// Tracker records per-identity, per-day message consumption. Day boundaries
// are evaluated in UTC; a new day starts from a fresh zero count and rows for
// past days are simply abandoned.
type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

// WithClock overrides the tracker's clock. Intended for tests.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

func (t *Tracker) today() string {
	return t.now().UTC().Format("2006-01-02")
}

// Check reads the current count without mutating state.
func (t *Tracker) Check(ctx context.Context, id domain.Identity, limit int) (domain.Usage, error) {
	count, err := t.store.Count(ctx, id.Key, t.today())
	if err != nil {
		return domain.Usage{}, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return domain.Usage{Allowed: count < limit, Remaining: remaining, Limit: limit}, nil
}

// Reserve consumes one message slot, failing with ErrQuotaExceeded when the
// identity is already at its ceiling. The check-and-increment happens in a
// single store operation.
func (t *Tracker) Reserve(ctx context.Context, id domain.Identity, limit int) error {
	if limit <= 0 {
		return domain.ErrQuotaExceeded
	}
	_, ok, err := t.store.IncrementBelow(ctx, id.Key, t.today(), limit)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if !ok {
		return domain.ErrQuotaExceeded
	}
	return nil
}

// Release hands back a reserved slot. Used when the gated action fails after
// reservation so an upstream failure never consumes quota.
func (t *Tracker) Release(ctx context.Context, id domain.Identity) error {
	if err := t.store.Decrement(ctx, id.Key, t.today()); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}
