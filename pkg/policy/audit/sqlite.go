package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"spend-hq/ganymede/pkg/policy/ast"
)

// schemaVersion is the current audit database schema version.
const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS mutations (
    id TEXT PRIMARY KEY,
    time TIMESTAMP NOT NULL,
    command TEXT NOT NULL,
    container_id TEXT,
    target_id TEXT,
    outcome TEXT NOT NULL,
    detail TEXT,
    version INTEGER
);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_mutations_time ON mutations(time);
CREATE INDEX IF NOT EXISTS idx_mutations_container_id ON mutations(container_id);
CREATE INDEX IF NOT EXISTS idx_mutations_outcome ON mutations(outcome);
`

const insertSchemaVersion = `
INSERT INTO schema_version (version, applied_at)
VALUES (?, datetime('now'))
ON CONFLICT(version) DO NOTHING;
`

const getSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`

// SQLiteConfig contains configuration for the SQLite audit log.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// MaxOpenConns is the maximum number of open connections to the database.
	// Default: 10
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections.
	// Default: 5
	MaxIdleConns int

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite audit configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:         "data/audit.db",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		WALMode:      true,
		BusyTimeout:  5 * time.Second,
	}
}

// SQLiteLog implements Log using SQLite.
type SQLiteLog struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewSQLiteLog creates a new SQLite-backed audit log.
// It initializes the database schema and enables WAL mode if configured.
func NewSQLiteLog(config *SQLiteConfig) (*SQLiteLog, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "audit.sqlite")

	db, err := sql.Open("sqlite3", config.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	l := &SQLiteLog{
		db:     db,
		config: config,
		logger: logger,
	}

	if err := l.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit log initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return l, nil
}

// initialize sets up the database schema and enables WAL mode.
func (l *SQLiteLog) initialize() error {
	if l.config.WALMode {
		if _, err := l.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	busyTimeoutMs := l.config.BusyTimeout.Milliseconds()
	if busyTimeoutMs == 0 {
		busyTimeoutMs = 5000
	}
	if _, err := l.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := l.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := l.db.Exec(insertSchemaVersion, schemaVersion); err != nil {
		return fmt.Errorf("failed to insert schema version: %w", err)
	}

	var version int
	err := l.db.QueryRow(getSchemaVersion).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", schemaVersion, version)
	}

	return nil
}

// Record appends an entry to the log.
func (l *SQLiteLog) Record(ctx context.Context, entry *Entry) error {
	if entry == nil {
		return fmt.Errorf("entry cannot be nil")
	}
	if entry.Command == "" {
		return fmt.Errorf("command cannot be empty")
	}
	if entry.ID == "" {
		entry.ID = ast.NewID()
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	_, err := l.db.ExecContext(ctx, `
		INSERT INTO mutations (id, time, command, container_id, target_id, outcome, detail, version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.Time.UTC(),
		entry.Command,
		entry.ContainerID,
		entry.TargetID,
		string(entry.Outcome),
		entry.Detail,
		entry.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to record entry: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (l *SQLiteLog) Recent(ctx context.Context, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, time, command, container_id, target_id, outcome, detail, version
		FROM mutations
		ORDER BY time DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByContainer returns entries that targeted the given container, newest first.
func (l *SQLiteLog) ByContainer(ctx context.Context, containerID string) ([]*Entry, error) {
	if containerID == "" {
		return nil, fmt.Errorf("container id cannot be empty")
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, time, command, container_id, target_id, outcome, detail, version
		FROM mutations
		WHERE container_id = ?
		ORDER BY time DESC, id DESC`, containerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Prune removes entries older than the cutoff.
func (l *SQLiteLog) Prune(ctx context.Context, olderThan time.Time) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result, err := l.db.ExecContext(ctx, `DELETE FROM mutations WHERE time < ?`, olderThan.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune entries: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if removed > 0 {
		l.logger.Debug("pruned audit entries", "removed", removed, "older_than", olderThan)
	}
	return int(removed), nil
}

// Close releases any resources held by the log.
func (l *SQLiteLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.db.Close()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	entries := []*Entry{}
	for rows.Next() {
		var (
			e       Entry
			outcome string
		)
		if err := rows.Scan(&e.ID, &e.Time, &e.Command, &e.ContainerID, &e.TargetID, &outcome, &e.Detail, &e.Version); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.Outcome = Outcome(outcome)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return entries, nil
}
