package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteBackend implements Backend using SQLite for persistence.
// This backend is suitable for single-instance deployments where document
// history must survive restarts.
//
// SQLiteBackend uses a write-ahead log (WAL) for better concurrent
// performance and periodic checkpointing to balance write performance with
// durability.
type SQLiteBackend struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	saveStmt     *sql.Stmt
	loadStmt     *sql.Stmt
	loadVerStmt  *sql.Stmt
	versionsStmt *sql.Stmt
	pruneStmt    *sql.Stmt
}

// SQLiteBackendConfig configures the SQLite backend.
type SQLiteBackendConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// NewSQLiteBackend creates a new SQLite storage backend with default
// settings.
func NewSQLiteBackend(dbPath string) (*SQLiteBackend, error) {
	return NewSQLiteBackendWithConfig(SQLiteBackendConfig{
		DBPath:             dbPath,
		CheckpointInterval: 5 * time.Minute,
		BusyTimeout:        5 * time.Second,
	})
}

// NewSQLiteBackendWithConfig creates a new SQLite backend with custom
// configuration.
func NewSQLiteBackendWithConfig(cfg SQLiteBackendConfig) (*SQLiteBackend, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	backend := &SQLiteBackend{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := backend.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := backend.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go backend.checkpointLoop()

	return backend, nil
}

// initSchema creates the database schema if it doesn't exist.
func (s *SQLiteBackend) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS policy_documents (
		name TEXT NOT NULL,
		version INTEGER NOT NULL,
		document BLOB NOT NULL,
		saved_at INTEGER NOT NULL,
		PRIMARY KEY (name, version)
	);

	CREATE INDEX IF NOT EXISTS idx_saved_at ON policy_documents(saved_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteBackend) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO policy_documents (name, version, document, saved_at)
		VALUES (?, COALESCE((SELECT MAX(version) FROM policy_documents WHERE name = ?), 0) + 1, ?, ?)
		RETURNING version
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT name, version, document, saved_at
		FROM policy_documents
		WHERE name = ?
		ORDER BY version DESC
		LIMIT 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.loadVerStmt, err = s.db.Prepare(`
		SELECT name, version, document, saved_at
		FROM policy_documents
		WHERE name = ? AND version = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load version statement: %w", err)
	}

	s.versionsStmt, err = s.db.Prepare(`
		SELECT name, version, saved_at
		FROM policy_documents
		WHERE name = ?
		ORDER BY version DESC
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare versions statement: %w", err)
	}

	s.pruneStmt, err = s.db.Prepare(`
		DELETE FROM policy_documents
		WHERE name = ? AND version <= (SELECT MAX(version) FROM policy_documents WHERE name = ?) - ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare prune statement: %w", err)
	}

	return nil
}

// Save appends a new version of the named document.
func (s *SQLiteBackend) Save(ctx context.Context, name string, document []byte) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("name cannot be empty")
	}
	if len(document) == 0 {
		return 0, fmt.Errorf("document cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var version int64
	err := s.saveStmt.QueryRowContext(ctx, name, name, document, time.Now().Unix()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to save document: %w", err)
	}
	return version, nil
}

// Load retrieves the newest version of the named document.
func (s *SQLiteBackend) Load(ctx context.Context, name string) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanRecord(s.loadStmt.QueryRowContext(ctx, name))
}

// LoadVersion retrieves a specific version of the named document.
func (s *SQLiteBackend) LoadVersion(ctx context.Context, name string, version int64) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return scanRecord(s.loadVerStmt.QueryRowContext(ctx, name, version))
}

// Versions returns the stored versions of the named document, newest first,
// without document bodies.
func (s *SQLiteBackend) Versions(ctx context.Context, name string) ([]*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.versionsStmt.QueryContext(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions: %w", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		var (
			rec     Record
			savedAt int64
		)
		if err := rows.Scan(&rec.Name, &rec.Version, &savedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec.SavedAt = time.Unix(savedAt, 0)
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// Prune removes versions of the named document older than keep.
func (s *SQLiteBackend) Prune(ctx context.Context, name string, keep int) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("name cannot be empty")
	}
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.pruneStmt.ExecContext(ctx, name, name, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune: %w", err)
	}
	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(removed), nil
}

// Close releases any resources held by the backend.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteBackend) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		for _, stmt := range []*sql.Stmt{s.saveStmt, s.loadStmt, s.loadVerStmt, s.versionsStmt, s.pruneStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			// Run final checkpoint.
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteBackend) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}

func scanRecord(row *sql.Row) (*Record, error) {
	var (
		rec     Record
		savedAt int64
	)
	err := row.Scan(&rec.Name, &rec.Version, &rec.Document, &savedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	rec.SavedAt = time.Unix(savedAt, 0)
	return &rec, nil
}
