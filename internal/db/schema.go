package db

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id          TEXT PRIMARY KEY,
    username    TEXT UNIQUE NOT NULL,
    password    TEXT NOT NULL,
    role        TEXT NOT NULL DEFAULT 'customer'
);

CREATE TABLE IF NOT EXISTS order_snapshots (
    order_id    TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL,
    status      TEXT NOT NULL,
    courier_id  TEXT,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS order_status_history (
    id          BIGSERIAL PRIMARY KEY,
    order_id    TEXT NOT NULL,
    status      TEXT NOT NULL,
    note        TEXT NOT NULL DEFAULT '',
    changed_at  TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_status_history_order
    ON order_status_history (order_id, changed_at);

CREATE TABLE IF NOT EXISTS outbox_tasks (
    id           UUID PRIMARY KEY,
    status       TEXT NOT NULL,
    payload      JSONB NOT NULL,
    topic        TEXT NOT NULL,
    attempts     INT NOT NULL DEFAULT 0,
    last_error   TEXT,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    completed_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_outbox_tasks_status
    ON outbox_tasks (status, updated_at);
`

// InitSchema creates the gateway's local tables. Safe to run on every start.
func InitSchema(ctx context.Context, database DB) error {
	_, err := database.Exec(ctx, schema)
	return err
}
