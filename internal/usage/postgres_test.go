package usage

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubSQL struct {
	scanErr error
	count   int
	execErr error
}

func (s *stubSQL) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, s.execErr
}

func (s *stubSQL) QueryRow(context.Context, string, ...any) pgx.Row {
	return stubRow{err: s.scanErr, count: s.count}
}

func (s *stubSQL) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

type stubRow struct {
	err   error
	count int
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*int); ok {
		*p = r.count
	}
	return nil
}

func TestPostgresCountMissingRowIsZero(t *testing.T) {
	store := NewPostgresStore(&stubSQL{scanErr: pgx.ErrNoRows})

	count, err := store.Count(context.Background(), "user_1", "2026-03-14")
	if err != nil {
		t.Fatalf("Count returned error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero count for missing row, got %d", count)
	}
}

func TestPostgresCountPropagatesFailure(t *testing.T) {
	boom := errors.New("connection refused")
	store := NewPostgresStore(&stubSQL{scanErr: boom})

	if _, err := store.Count(context.Background(), "user_1", "2026-03-14"); !errors.Is(err, boom) {
		t.Fatalf("expected store failure, got %v", err)
	}
}

func TestPostgresIncrementBelowAtCeiling(t *testing.T) {
	// The conditional upsert yields no row once the counter is at the ceiling.
	store := NewPostgresStore(&stubSQL{scanErr: pgx.ErrNoRows})

	_, ok, err := store.IncrementBelow(context.Background(), "user_1", "2026-03-14", 5)
	if err != nil {
		t.Fatalf("IncrementBelow returned error: %v", err)
	}
	if ok {
		t.Fatal("expected increment to be refused at ceiling")
	}
}

func TestPostgresIncrementBelowReturnsNewCount(t *testing.T) {
	store := NewPostgresStore(&stubSQL{count: 3})

	count, ok, err := store.IncrementBelow(context.Background(), "user_1", "2026-03-14", 5)
	if err != nil {
		t.Fatalf("IncrementBelow returned error: %v", err)
	}
	if !ok || count != 3 {
		t.Fatalf("unexpected result: count=%d ok=%v", count, ok)
	}
}
