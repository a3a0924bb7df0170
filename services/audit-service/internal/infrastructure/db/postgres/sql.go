package postgres

// schemaSQL creates audit_logs and forbids UPDATE/DELETE on it.
// event_id is indexed but not unique: duplicate deliveries are stored as separate rows.
// Contract fields are free-form, so every string column is unbounded TEXT and
// changes/payload are kept as the serialized text received.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS audit_logs (
  id             UUID PRIMARY KEY,
  event_id       UUID NOT NULL,
  event_type     TEXT NOT NULL,
  occurred_at    TIMESTAMPTZ NOT NULL,
  producer       TEXT NOT NULL,
  actor_user_id  TEXT NOT NULL,
  actor_roles    TEXT NULL,
  target_type    TEXT NULL,
  target_id      TEXT NULL,
  reason         TEXT NULL,
  changes        TEXT NULL,
  payload        TEXT NULL,
  correlation_id TEXT NULL,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Tables created with bounded VARCHAR/JSONB columns are widened to TEXT.
DO $$
DECLARE
  col TEXT;
BEGIN
  FOREACH col IN ARRAY ARRAY[
    'event_type', 'producer', 'actor_user_id', 'target_type', 'target_id',
    'reason', 'changes', 'payload', 'correlation_id'
  ] LOOP
    IF EXISTS (
      SELECT 1 FROM information_schema.columns
      WHERE table_schema = current_schema()
        AND table_name = 'audit_logs'
        AND column_name = col
        AND data_type <> 'text'
    ) THEN
      EXECUTE format('ALTER TABLE audit_logs ALTER COLUMN %I TYPE TEXT USING %I::text', col, col);
    END IF;
  END LOOP;
END
$$;

CREATE INDEX IF NOT EXISTS idx_audit_logs_event_id ON audit_logs (event_id);
CREATE INDEX IF NOT EXISTS idx_audit_logs_target ON audit_logs (target_type, target_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_audit_logs_actor ON audit_logs (actor_user_id, created_at DESC);

CREATE OR REPLACE FUNCTION audit_logs_immutable() RETURNS trigger AS $$
BEGIN
  RAISE EXCEPTION 'audit_logs is append-only';
END;
$$ LANGUAGE plpgsql;

DROP TRIGGER IF EXISTS trg_audit_logs_immutable ON audit_logs;
CREATE TRIGGER trg_audit_logs_immutable
  BEFORE UPDATE OR DELETE ON audit_logs
  FOR EACH ROW EXECUTE FUNCTION audit_logs_immutable();
`

const insertRecordSQL = `
INSERT INTO audit_logs (
  id, event_id, event_type, occurred_at, producer,
  actor_user_id, actor_roles, target_type, target_id, reason,
  changes, payload, correlation_id, created_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
`

const selectRecordSQL = `
SELECT id, event_id, event_type, occurred_at, producer,
       actor_user_id, actor_roles, target_type, target_id, reason,
       changes, payload, correlation_id, created_at
FROM audit_logs
`
