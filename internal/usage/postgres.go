package usage

import (
	"context"
	"time"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// PostgresStore keeps daily usage counters in Postgres. The ceiling check and
// the increment run inside one conditional upsert, so the atomicity contract
// holds across concurrent connections.
type PostgresStore struct {
	sql infra.SQLExecutor
}

func NewPostgresStore(sql infra.SQLExecutor) *PostgresStore {
	return &PostgresStore{sql: sql}
}

func (s *PostgresStore) Count(ctx context.Context, identity, day string) (int, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QSelectUsageCount, identity, day)
	var count int
	if err := row.Scan(&count); err != nil {
		if infra.IsNoRows(err) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *PostgresStore) IncrementBelow(ctx context.Context, identity, day string, ceiling int) (int, bool, error) {
	row := s.sql.QueryRow(ctx, sqlinline.QIncrementUsageBelow, identity, day, ceiling)
	var count int
	if err := row.Scan(&count); err != nil {
		if infra.IsNoRows(err) {
			// The conditional upsert returned no row: the counter is at the
			// ceiling already.
			return 0, false, nil
		}
		return 0, false, err
	}
	return count, true, nil
}

func (s *PostgresStore) Decrement(ctx context.Context, identity, day string) error {
	_, err := s.sql.Exec(ctx, sqlinline.QDecrementUsage, identity, day)
	return err
}

// PurgeBefore deletes counters older than the given day. Rows are otherwise
// abandoned at day rollover; this keeps the table from growing unbounded.
func (s *PostgresStore) PurgeBefore(ctx context.Context, day time.Time) error {
	_, err := s.sql.Exec(ctx, sqlinline.QPurgeUsageBefore, day.UTC().Format("2006-01-02"))
	return err
}

var _ Store = (*PostgresStore)(nil)
