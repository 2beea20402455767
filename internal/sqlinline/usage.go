package sqlinline

const QSelectUsageCount = `--sql a567688f-e361-4b6d-8419-4c5b59723184
select count from usage_counters where identity = $1::text and day = $2::date;
`

// The conditional upsert is the atomic check-and-increment: the ceiling is
// enforced inside a single statement, so concurrent callers cannot both slip
// past the last remaining slot.
const QIncrementUsageBelow = `--sql e045f709-c6c3-464a-b51d-510207bdcbca
insert into usage_counters(identity, day, count) values ($1::text, $2::date, 1)
on conflict (identity, day) do update
set count = usage_counters.count + 1, updated_at = now()
where usage_counters.count < $3::int
returning count;
`

const QDecrementUsage = `--sql 9d30ab32-c74c-44f4-ad6e-6667d5a86205
update usage_counters
set count = greatest(count - 1, 0), updated_at = now()
where identity = $1::text and day = $2::date;
`

const QPurgeUsageBefore = `--sql 99aa7524-6464-42f7-a996-f62f4dbe7d2c
delete from usage_counters where day < $1::date;
`

const QResetUsage = `--sql 3f8c2c41-9be2-4f07-8d14-72adbe51c0e6
delete from usage_counters where identity = $1::text and day = $2::date;
`

const QInsertUsageEvent = `--sql 54c317d2-4307-49f3-b5f1-358804215dc8
insert into usage_events(id, identity, request_id, event_type, success, latency_ms, created_at, properties)
values ($1::uuid, $2::text, $3::text, $4::text, $5::boolean, $6::int, now(), coalesce($7::jsonb, '{}'::jsonb));
`
