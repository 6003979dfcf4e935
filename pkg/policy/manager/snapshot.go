package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"spend-hq/ganymede/pkg/policy/audit"
	"spend-hq/ganymede/pkg/policy/store"
)

// SnapshotConfig controls the scheduled maintenance cycle.
type SnapshotConfig struct {
	// Schedule is a standard cron expression (e.g. "0 3 * * *" for daily
	// at 3 AM). Empty disables the snapshotter.
	Schedule string

	// Keep is the number of document versions retained per document.
	Keep int

	// RetentionDays is how long audit entries are kept. Zero disables
	// audit pruning.
	RetentionDays int
}

// Snapshotter runs scheduled maintenance: it prunes old document versions
// from storage and expired entries from the audit log.
type Snapshotter struct {
	name     string
	config   SnapshotConfig
	storage  store.Backend
	auditLog audit.Log
	cron     *cron.Cron
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSnapshotter creates a snapshotter for the named document.
func NewSnapshotter(name string, cfg SnapshotConfig, storage store.Backend, auditLog audit.Log, logger *slog.Logger) *Snapshotter {
	if logger == nil {
		logger = slog.Default()
	}
	if auditLog == nil {
		auditLog = audit.NopLog{}
	}
	return &Snapshotter{
		name:     name,
		config:   cfg,
		storage:  storage,
		auditLog: auditLog,
		cron:     cron.New(),
		logger:   logger.With("component", "policy.snapshotter"),
	}
}

// Start begins the scheduled maintenance cycle. If no schedule is
// configured, Start does nothing.
func (s *Snapshotter) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.Schedule == "" {
		s.logger.Info("snapshot schedule not configured, skipping")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", s.config.Schedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runCycle(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule snapshot cycle: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("snapshotter started",
		"schedule", s.config.Schedule,
		"keep_versions", s.config.Keep,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runCycle executes one maintenance cycle.
func (s *Snapshotter) runCycle(ctx context.Context) {
	s.logger.Info("starting scheduled maintenance cycle")

	if s.config.Keep > 0 {
		removed, err := s.storage.Prune(ctx, s.name, s.config.Keep)
		switch {
		case err != nil:
			s.logger.Error("document version pruning failed", "error", err)
		case removed > 0:
			s.logger.Info("document versions pruned",
				"document", s.name,
				"removed", removed,
			)
		default:
			s.logger.Debug("document version pruning completed, nothing removed")
		}
	}

	if s.config.RetentionDays > 0 {
		cutoff := time.Now().AddDate(0, 0, -s.config.RetentionDays)
		removed, err := s.auditLog.Prune(ctx, cutoff)
		switch {
		case err != nil:
			s.logger.Error("audit pruning failed", "error", err)
		case removed > 0:
			s.logger.Info("audit entries pruned",
				"cutoff", cutoff.Format(time.RFC3339),
				"removed", removed,
			)
		default:
			s.logger.Debug("audit pruning completed, nothing removed")
		}
	}
}

// Stop stops the snapshotter and waits for any running cycle to complete.
func (s *Snapshotter) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.running = false
		s.logger.Info("snapshotter stopped")
	}
}

// IsRunning returns true if the snapshotter is running.
func (s *Snapshotter) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the time of the next scheduled cycle, or the zero time if
// the snapshotter is not running.
func (s *Snapshotter) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
