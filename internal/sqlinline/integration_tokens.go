package sqlinline

const QSelectIntegrationToken = `--sql 2f3164f8-953c-4133-8cab-911cbd976f11
select token from integration_tokens where provider = $1::text;
`

const QUpsertIntegrationToken = `--sql 7b8f0f9a-51d4-4bd0-9a4e-1f2a3c4d5e6f
insert into integration_tokens(provider, token, properties, updated_at)
values ($1::text, $2::text, coalesce($3::jsonb, '{}'::jsonb), now())
on conflict (provider) do update
set token = excluded.token, properties = excluded.properties, updated_at = now();
`
