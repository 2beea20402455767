package usage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"server/internal/domain"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCheckFreshIdentity(t *testing.T) {
	tracker := NewTracker(NewMemoryStore())
	id := domain.GuestIdentity("203.0.113.1")

	got, err := tracker.Check(context.Background(), id, 5)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !got.Allowed || got.Remaining != 5 || got.Limit != 5 {
		t.Fatalf("unexpected snapshot: %+v", got)
	}
}

func TestReserveUntilExhausted(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore())
	id := domain.AuthenticatedIdentity("user_1")
	limit := 5

	for i := 0; i < limit; i++ {
		if err := tracker.Reserve(ctx, id, limit); err != nil {
			t.Fatalf("Reserve %d returned error: %v", i+1, err)
		}
	}

	snapshot, err := tracker.Check(ctx, id, limit)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if snapshot.Allowed || snapshot.Remaining != 0 {
		t.Fatalf("expected exhausted quota, got %+v", snapshot)
	}

	if err := tracker.Reserve(ctx, id, limit); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
}

func TestReserveZeroLimitAlwaysRejected(t *testing.T) {
	tracker := NewTracker(NewMemoryStore())
	id := domain.GuestIdentity("203.0.113.1")

	if err := tracker.Reserve(context.Background(), id, 0); !errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded for zero limit, got %v", err)
	}
}

func TestReleaseRestoresSlot(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore())
	id := domain.AuthenticatedIdentity("user_1")

	if err := tracker.Reserve(ctx, id, 1); err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if err := tracker.Release(ctx, id); err != nil {
		t.Fatalf("Release returned error: %v", err)
	}

	snapshot, err := tracker.Check(ctx, id, 1)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !snapshot.Allowed || snapshot.Remaining != 1 {
		t.Fatalf("expected restored quota, got %+v", snapshot)
	}
}

func TestDayRolloverResetsCount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	dayOne := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	tracker := NewTracker(store).WithClock(fixedClock(dayOne))
	id := domain.AuthenticatedIdentity("user_1")
	limit := 3

	for i := 0; i < limit; i++ {
		if err := tracker.Reserve(ctx, id, limit); err != nil {
			t.Fatalf("Reserve returned error: %v", err)
		}
	}
	if snapshot, _ := tracker.Check(ctx, id, limit); snapshot.Allowed {
		t.Fatalf("expected exhausted quota on day one, got %+v", snapshot)
	}

	tracker.WithClock(fixedClock(dayOne.Add(2 * time.Hour))) // crosses UTC midnight

	snapshot, err := tracker.Check(ctx, id, limit)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !snapshot.Allowed || snapshot.Remaining != limit {
		t.Fatalf("expected fresh quota after rollover, got %+v", snapshot)
	}
}

func TestConcurrentReservesNeverOverAdmit(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(NewMemoryStore())
	id := domain.AuthenticatedIdentity("user_1")
	limit := 5
	attempts := limit + 7

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- tracker.Reserve(ctx, id, limit)
		}()
	}
	wg.Wait()
	close(results)

	admitted, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			admitted++
		case errors.Is(err, domain.ErrQuotaExceeded):
			rejected++
		default:
			t.Fatalf("unexpected error kind: %v", err)
		}
	}
	if admitted != limit || rejected != attempts-limit {
		t.Fatalf("admitted=%d rejected=%d, want %d/%d", admitted, rejected, limit, attempts-limit)
	}
}

type failingStore struct{}

func (failingStore) Count(context.Context, string, string) (int, error) {
	return 0, errors.New("connection refused")
}

func (failingStore) IncrementBelow(context.Context, string, string, int) (int, bool, error) {
	return 0, false, errors.New("connection refused")
}

func (failingStore) Decrement(context.Context, string, string) error {
	return errors.New("connection refused")
}

func TestStoreFailureIsDistinctFromQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	tracker := NewTracker(failingStore{})
	id := domain.GuestIdentity("203.0.113.1")

	if _, err := tracker.Check(ctx, id, 3); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("Check: expected ErrStoreUnavailable, got %v", err)
	}

	err := tracker.Reserve(ctx, id, 3)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("Reserve: expected ErrStoreUnavailable, got %v", err)
	}
	if errors.Is(err, domain.ErrQuotaExceeded) {
		t.Fatal("store failure must not read as quota exhaustion")
	}
}
