// Package baseline persists accepted findings so later runs report only
// what is new.
//
// A snapshot records the fingerprint of every finding present when it was
// saved. A fingerprint hashes the rule, the path relative to the lint root
// and the message; line numbers are left out so unrelated edits above a
// finding do not resurface it.
package baseline

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"mercator-hq/modlint/pkg/config"
	"mercator-hq/modlint/pkg/lint/finding"
)

// ErrNoBaseline is returned when no snapshot has been saved.
var ErrNoBaseline = errors.New("no baseline saved")

// Snapshot describes one saved baseline.
type Snapshot struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Root         string    `json:"root"`
	Commit       string    `json:"commit,omitempty"`
	FindingCount int       `json:"finding_count"`
}

// Entry is one accepted finding.
type Entry struct {
	Fingerprint string           `json:"fingerprint"`
	Rule        string           `json:"rule"`
	Severity    finding.Severity `json:"severity"`
	Path        string           `json:"path"`
	Line        int              `json:"line"`
	Message     string           `json:"message"`
}

// Store is a SQLite-backed baseline store.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens or creates the baseline database described by cfg.
func Open(cfg *config.BaselineConfig, logger *slog.Logger) (*Store, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("baseline path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	busyTimeout := cfg.BusyTimeout
	if busyTimeout == 0 {
		busyTimeout = config.DefaultBaselineBusyTimeout
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create baseline directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		cfg.Path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{
		db:     db,
		path:   cfg.Path,
		logger: logger.With("component", "baseline"),
	}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	s.logger.Debug("baseline store opened", "path", cfg.Path)
	return s, nil
}

func (s *Store) initSchema() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := s.db.Exec(insertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("insert schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(getSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("expected schema version %d, got %d", SchemaVersion, version)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Fingerprint identifies f independently of its line. root is the
// directory paths are made relative to.
func Fingerprint(f finding.Finding, root string) string {
	h := sha256.New()
	h.Write([]byte(f.Rule))
	h.Write([]byte{'|'})
	h.Write([]byte(relPath(root, f.Path)))
	h.Write([]byte{'|'})
	h.Write([]byte(f.Message))
	return hex.EncodeToString(h.Sum(nil))
}

func relPath(root, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return filepath.ToSlash(path)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Save records findings as a new snapshot.
func (s *Store) Save(ctx context.Context, root, commit string, findings []finding.Finding) (*Snapshot, error) {
	snap := &Snapshot{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Root:         root,
		Commit:       commit,
		FindingCount: len(findings),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var commitVal any
	if commit != "" {
		commitVal = commit
	}
	if _, err := tx.ExecContext(ctx, insertSnapshot,
		snap.ID, snap.CreatedAt.UnixNano(), snap.Root, commitVal, snap.FindingCount,
	); err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insertEntry)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range findings {
		if _, err := stmt.ExecContext(ctx,
			snap.ID, Fingerprint(f, root), f.Rule, string(f.Severity),
			relPath(root, f.Path), f.Span.Start.Line, f.Message,
		); err != nil {
			return nil, fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	s.logger.Info("baseline saved", "snapshot_id", snap.ID, "findings", snap.FindingCount)
	return snap, nil
}

// Latest returns the most recently saved snapshot.
func (s *Store) Latest(ctx context.Context) (*Snapshot, error) {
	snap, err := scanSnapshot(s.db.QueryRowContext(ctx, selectLatest))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoBaseline
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	return snap, nil
}

// List returns every snapshot, newest first.
func (s *Store) List(ctx context.Context) ([]*Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, selectSnapshots)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	var out []*Snapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, snap)
	}
	return out, rows.Err()
}

// Entries returns the accepted findings of a snapshot ordered by path.
func (s *Store) Entries(ctx context.Context, snapshotID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, selectEntries, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var sev string
		if err := rows.Scan(&e.Fingerprint, &e.Rule, &sev, &e.Path, &e.Line, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		e.Severity = finding.Severity(sev)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Load returns the fingerprint multiset of the latest snapshot.
func (s *Store) Load(ctx context.Context) (Set, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, err
	}
	entries, err := s.Entries(ctx, snap.ID)
	if err != nil {
		return nil, err
	}
	set := make(Set, len(entries))
	for _, e := range entries {
		set[e.Fingerprint]++
	}
	return set, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*Snapshot, error) {
	var snap Snapshot
	var created int64
	var commit sql.NullString
	if err := row.Scan(&snap.ID, &created, &snap.Root, &commit, &snap.FindingCount); err != nil {
		return nil, err
	}
	snap.CreatedAt = time.Unix(0, created).UTC()
	snap.Commit = commit.String
	return &snap, nil
}

// Set counts accepted occurrences per fingerprint.
type Set map[string]int

// Filter returns the findings not covered by the set. Each accepted
// occurrence covers one finding, so a second copy of an accepted finding is
// still reported.
func (set Set) Filter(findings []finding.Finding, root string) []finding.Finding {
	remaining := make(map[string]int, len(set))
	for fp, n := range set {
		remaining[fp] = n
	}

	out := make([]finding.Finding, 0, len(findings))
	for _, f := range findings {
		fp := Fingerprint(f, root)
		if remaining[fp] > 0 {
			remaining[fp]--
			continue
		}
		out = append(out, f)
	}
	return out
}
