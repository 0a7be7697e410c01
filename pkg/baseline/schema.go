package baseline

// SchemaVersion is the current database schema version.
const SchemaVersion = 1

// Schema creates the baseline tables.
const Schema = `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS snapshots (
    id TEXT PRIMARY KEY,
    created_at INTEGER NOT NULL,
    root TEXT NOT NULL,
    commit_sha TEXT,
    finding_count INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS entries (
    snapshot_id TEXT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
    fingerprint TEXT NOT NULL,
    rule TEXT NOT NULL,
    severity TEXT NOT NULL,
    path TEXT NOT NULL,
    line INTEGER NOT NULL,
    message TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_snapshot ON entries(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);
`

const (
	insertSchemaVersion = `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	getSchemaVersion    = `SELECT MAX(version) FROM schema_version`

	insertSnapshot = `INSERT INTO snapshots (id, created_at, root, commit_sha, finding_count) VALUES (?, ?, ?, ?, ?)`
	insertEntry    = `INSERT INTO entries (snapshot_id, fingerprint, rule, severity, path, line, message) VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectLatest    = `SELECT id, created_at, root, commit_sha, finding_count FROM snapshots ORDER BY created_at DESC, rowid DESC LIMIT 1`
	selectSnapshots = `SELECT id, created_at, root, commit_sha, finding_count FROM snapshots ORDER BY created_at DESC, rowid DESC`
	selectEntries   = `SELECT fingerprint, rule, severity, path, line, message FROM entries WHERE snapshot_id = ? ORDER BY path, line, rule`
)
