package sqlite

const schema = `
CREATE TABLE IF NOT EXISTS leads (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL DEFAULT '',
	dedup_key   TEXT NOT NULL DEFAULT '',
	name        TEXT NOT NULL DEFAULT '',
	email       TEXT NOT NULL DEFAULT '',
	phone       TEXT NOT NULL DEFAULT '',
	company     TEXT NOT NULL DEFAULT '',
	source      TEXT NOT NULL DEFAULT '',
	notes       TEXT NOT NULL DEFAULT '',
	summary     TEXT NOT NULL DEFAULT '',
	tags        TEXT NOT NULL DEFAULT '[]',
	status      TEXT NOT NULL DEFAULT 'new',
	ingested_at TEXT NOT NULL DEFAULT '',
	raw_data    TEXT NOT NULL DEFAULT '{}',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leads_dedup_key ON leads(dedup_key);
CREATE INDEX IF NOT EXISTS idx_leads_run_id ON leads(run_id);

CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	fetched          INTEGER NOT NULL DEFAULT 0,
	normalized       INTEGER NOT NULL DEFAULT 0,
	unique_count     INTEGER NOT NULL DEFAULT 0,
	duplicates       INTEGER NOT NULL DEFAULT 0,
	enriched         INTEGER NOT NULL DEFAULT 0,
	written          INTEGER NOT NULL DEFAULT 0,
	notified         INTEGER NOT NULL DEFAULT 0,
	duration_seconds REAL NOT NULL DEFAULT 0,
	created_at       TEXT NOT NULL
);
`
