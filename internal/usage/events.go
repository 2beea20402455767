package usage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"server/internal/infra"
	"server/internal/sqlinline"
)

// EventLog appends an audit trail of quota-gated actions to usage_events.
// Recording is best-effort; callers log failures but never fail the request
// over a missing audit row.
type EventLog struct {
	sql infra.SQLExecutor
}

func NewEventLog(sql infra.SQLExecutor) *EventLog {
	return &EventLog{sql: sql}
}

func (l *EventLog) Record(ctx context.Context, identity, requestID, eventType string, success bool, latency time.Duration, props map[string]any) error {
	if l == nil || l.sql == nil {
		return nil
	}
	payload := props
	if payload == nil {
		payload = map[string]any{}
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = l.sql.Exec(ctx, sqlinline.QInsertUsageEvent,
		uuid.NewString(), identity, requestID, eventType, success, latency.Milliseconds(), raw)
	return err
}
