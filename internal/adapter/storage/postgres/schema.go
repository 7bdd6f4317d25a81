package postgres

// Schema is the ledger's PostgreSQL schema. ledger_records and admin_events
// are append-only; credit_batches and holdings are projections rebuilt from
// them on replay.
const Schema = `
CREATE TABLE IF NOT EXISTS ledger_records (
	seq               BIGINT PRIMARY KEY,
	kind              TEXT NOT NULL,
	batch_id          BIGINT NOT NULL,
	from_identity     TEXT NOT NULL,
	to_identity       TEXT NOT NULL,
	amount            NUMERIC(78, 0) NOT NULL,
	actor             TEXT NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL,
	facility          TEXT NOT NULL DEFAULT '',
	hydrogen_amount   NUMERIC(78, 0) NOT NULL DEFAULT 0,
	verification_hash TEXT NOT NULL DEFAULT '',
	prev_hash         TEXT NOT NULL,
	hash              TEXT NOT NULL UNIQUE
);
CREATE INDEX IF NOT EXISTS idx_ledger_records_batch ON ledger_records (batch_id, seq);
CREATE INDEX IF NOT EXISTS idx_ledger_records_from ON ledger_records (from_identity, seq);
CREATE INDEX IF NOT EXISTS idx_ledger_records_to ON ledger_records (to_identity, seq);

CREATE TABLE IF NOT EXISTS admin_events (
	seq        BIGINT PRIMARY KEY,
	kind       TEXT NOT NULL,
	subject    TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT '',
	actor      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS credit_batches (
	id                  BIGINT PRIMARY KEY,
	owner               TEXT NOT NULL,
	production_facility TEXT NOT NULL DEFAULT '',
	hydrogen_amount     NUMERIC(78, 0) NOT NULL,
	credit_amount       NUMERIC(78, 0) NOT NULL CHECK (credit_amount >= 0),
	issued_amount       NUMERIC(78, 0) NOT NULL,
	verification_hash   TEXT NOT NULL DEFAULT '',
	certifier           TEXT NOT NULL,
	is_retired          BOOLEAN NOT NULL DEFAULT FALSE,
	issuance_date       TIMESTAMPTZ NOT NULL,
	retired_at          TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS holdings (
	batch_id BIGINT NOT NULL REFERENCES credit_batches (id),
	holder   TEXT NOT NULL,
	amount   NUMERIC(78, 0) NOT NULL CHECK (amount > 0),
	PRIMARY KEY (batch_id, holder)
);

CREATE TABLE IF NOT EXISTS audit_logs (
	id            UUID PRIMARY KEY,
	actor         TEXT NOT NULL DEFAULT '',
	action        TEXT NOT NULL,
	resource_type TEXT NOT NULL,
	resource_id   TEXT NOT NULL DEFAULT '',
	http_status   INTEGER NOT NULL,
	error_code    TEXT NOT NULL DEFAULT '',
	details       TEXT NOT NULL DEFAULT '',
	ip_address    TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs (created_at DESC);
`
