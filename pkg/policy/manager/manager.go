package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"spend-hq/ganymede/pkg/config"
	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/audit"
	"spend-hq/ganymede/pkg/policy/engine"
	"spend-hq/ganymede/pkg/policy/parser"
	"spend-hq/ganymede/pkg/policy/store"
	"spend-hq/ganymede/pkg/policy/translate"
	"spend-hq/ganymede/pkg/telemetry/metrics"
)

// Manager owns the live policy document. It is the single writer: every
// mutation goes through Dispatch or ApplyTranslation, which serialize on an
// internal mutex, persist each applied change as a new document version,
// and record the outcome in the audit log.
type Manager struct {
	name     string
	filePath string

	storage  store.Backend
	auditLog audit.Log
	metrics  *metrics.Collector
	parser   *parser.Parser
	logger   *slog.Logger

	mu      sync.RWMutex
	current *ast.Policy
	version int64
}

// Options configures a Manager. Zero-valued fields fall back to working
// defaults: in-memory storage, no-op audit log, disabled metrics.
type Options struct {
	// Storage persists document versions.
	Storage store.Backend

	// Audit records mutation outcomes.
	Audit audit.Log

	// Metrics records mutation and document metrics.
	Metrics *metrics.Collector

	// Logger receives structured log output.
	Logger *slog.Logger

	// FilePath is an optional YAML document to seed from when storage
	// holds no version yet, and the file the watcher reloads from.
	FilePath string
}

// New creates a manager for the named document.
//
// The initial document comes from the first of these that yields one: the
// newest stored version, the seed file at Options.FilePath, or a fresh
// default document (one condition container with one default condition).
// Whatever the source, the result is persisted so storage and memory agree.
func New(ctx context.Context, name string, opts Options) (*Manager, error) {
	if name == "" {
		return nil, fmt.Errorf("document name cannot be empty")
	}

	if opts.Storage == nil {
		opts.Storage = store.NewMemoryBackend()
	}
	if opts.Audit == nil {
		opts.Audit = audit.NopLog{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(&config.MetricsConfig{Enabled: false}, nil)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	m := &Manager{
		name:     name,
		filePath: opts.FilePath,
		storage:  opts.Storage,
		auditLog: opts.Audit,
		metrics:  opts.Metrics,
		parser:   parser.NewParser(),
		logger:   opts.Logger.With("component", "policy.manager"),
	}

	if err := m.load(ctx); err != nil {
		return nil, err
	}
	return m, nil
}

// load establishes the initial document.
func (m *Manager) load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.storage.Load(ctx, m.name)
	switch {
	case err == nil:
		doc, perr := m.parser.ParseBytes(rec.Document)
		if perr != nil {
			return fmt.Errorf("stored document %q version %d is invalid: %w", m.name, rec.Version, perr)
		}
		m.current = doc
		m.version = rec.Version
		m.logger.Info("document loaded from storage",
			"document", m.name,
			"version", rec.Version,
		)
		m.updateShapeLocked()
		return nil

	case errors.Is(err, store.ErrNotFound):
		// Fall through to file seed or default document.

	default:
		return fmt.Errorf("failed to load document %q: %w", m.name, err)
	}

	if m.filePath != "" {
		doc, perr := m.parser.Parse(m.filePath)
		if perr != nil {
			return fmt.Errorf("seed document %q is invalid: %w", m.filePath, perr)
		}
		m.current = doc
		m.logger.Info("document seeded from file",
			"document", m.name,
			"path", m.filePath,
		)
	} else {
		m.current = ast.NewPolicy()
		m.logger.Info("document initialized with defaults", "document", m.name)
	}

	return m.persistLocked(ctx)
}

// Document returns a deep copy of the current document.
func (m *Manager) Document() *ast.Policy {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// Version returns the current document version.
func (m *Manager) Version() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.version
}

// Dispatch applies a single mutation command. On success it returns a copy
// of the new document and the version it was persisted as. On rejection the
// document is unchanged and the engine's error is returned.
func (m *Manager) Dispatch(ctx context.Context, cmd Command) (*ast.Policy, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()
	next, err := m.apply(cmd)
	if err != nil {
		m.metrics.RecordMutation(cmd.Op, string(audit.OutcomeRejected), time.Since(start))
		m.recordAudit(ctx, cmd, audit.OutcomeRejected, err.Error(), 0)
		m.logger.Debug("command rejected",
			"op", cmd.Op,
			"container", cmd.ContainerID,
			"error", err,
		)
		return nil, 0, err
	}

	m.current = next
	if err := m.persistLocked(ctx); err != nil {
		return nil, 0, err
	}

	m.metrics.RecordMutation(cmd.Op, string(audit.OutcomeApplied), time.Since(start))
	m.recordAudit(ctx, cmd, audit.OutcomeApplied, "", m.version)

	return m.current.Clone(), m.version, nil
}

// apply maps a command onto the engine. Caller holds the write lock.
func (m *Manager) apply(cmd Command) (*ast.Policy, error) {
	p := m.current
	switch cmd.Op {
	case OpAddContainer:
		return engine.AddContainer(p, cmd.Kind)
	case OpRemoveContainer:
		return engine.RemoveContainer(p, cmd.ContainerID), nil
	case OpAddCondition:
		return engine.AddCondition(p, cmd.ContainerID)
	case OpRemoveCondition:
		return engine.RemoveCondition(p, cmd.ContainerID, cmd.ConditionID), nil
	case OpChangeSubject:
		return engine.ChangeConditionSubject(p, cmd.ContainerID, cmd.ConditionID, cmd.Subject)
	case OpChangeOperator:
		return engine.ChangeOperator(p, cmd.ContainerID, cmd.ConditionID, cmd.Operator)
	case OpChangeTeam:
		return engine.ChangeTeam(p, cmd.ContainerID, cmd.ConditionID, cmd.Value)
	case OpChangeCardUser:
		return engine.ChangeCardUser(p, cmd.ContainerID, cmd.ConditionID, cmd.Value)
	case OpChangeCard:
		return engine.ChangeCard(p, cmd.ContainerID, cmd.ConditionID, cmd.Value)
	case OpSetAmount:
		return engine.SetAmount(p, cmd.ContainerID, cmd.ConditionID, cmd.Value)
	case OpAddApproval:
		return engine.AddApprovalAction(p, cmd.ContainerID)
	case OpRemoveApproval:
		return engine.RemoveApprovalAction(p, cmd.ContainerID, cmd.ActionID), nil
	case OpAddNotification:
		return engine.AddNotificationAction(p, cmd.ContainerID)
	case OpRemoveNotification:
		return engine.RemoveNotificationAction(p, cmd.ContainerID, cmd.ActionID), nil
	case OpAddAutoApprove:
		return engine.AddAutoApproveAction(p, cmd.ContainerID)
	case OpRemoveAutoApprove:
		return engine.RemoveAutoApproveAction(p, cmd.ContainerID, cmd.ActionID), nil
	case OpToggleApprover:
		return engine.ToggleApprover(p, cmd.ContainerID, cmd.ActionID, cmd.Value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

// ApplyTranslation installs the rule fragments from a translation response,
// replacing the current container set. The response passes through the
// client's last-request-wins gate first: a stale response is dropped and
// the method reports false with the document untouched.
func (m *Manager) ApplyTranslation(ctx context.Context, client *translate.Client, resp *translate.Response) (bool, error) {
	if resp == nil {
		return false, fmt.Errorf("response cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if !client.Apply(resp) {
		m.metrics.RecordTranslationStale()
		m.logger.Debug("stale translation response dropped", "seq", resp.Seq)
		return false, nil
	}

	next := &ast.Policy{Containers: make([]*ast.Container, 0, len(resp.Containers))}
	for _, c := range resp.Containers {
		next.Containers = append(next.Containers, c.Clone())
	}

	m.current = next
	if err := m.persistLocked(ctx); err != nil {
		return false, err
	}

	entry := &audit.Entry{
		Command: "apply_translation",
		Outcome: audit.OutcomeApplied,
		Detail:  resp.Explanation,
		Version: m.version,
	}
	if err := m.auditLog.Record(ctx, entry); err != nil {
		m.logger.Warn("failed to record audit entry", "error", err)
	}

	return true, nil
}

// Reload re-reads the seed file and replaces the current document. Used by
// the file watcher. A document that fails to parse is rejected and the
// previous document kept.
func (m *Manager) Reload(ctx context.Context) error {
	if m.filePath == "" {
		return fmt.Errorf("no document file configured")
	}

	doc, err := m.parser.Parse(m.filePath)
	if err != nil {
		m.logger.Error("reload failed, keeping previous document",
			"path", m.filePath,
			"error", err,
		)
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = doc
	if err := m.persistLocked(ctx); err != nil {
		return err
	}

	m.logger.Info("document reloaded",
		"path", m.filePath,
		"version", m.version,
	)
	return nil
}

// persistLocked writes the current document to storage as a new version and
// refreshes the document gauges. Caller holds the write lock.
func (m *Manager) persistLocked(ctx context.Context) error {
	data, err := parser.Encode(m.current)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	version, err := m.storage.Save(ctx, m.name, data)
	if err != nil {
		return fmt.Errorf("failed to persist document: %w", err)
	}
	m.version = version

	m.metrics.RecordDocumentSave()
	m.updateShapeLocked()
	return nil
}

// updateShapeLocked refreshes the document gauges. Caller holds the lock.
func (m *Manager) updateShapeLocked() {
	conditions := 0
	for _, c := range m.current.Containers {
		conditions += len(c.Conditions)
	}
	m.metrics.UpdateDocumentShape(m.version, m.current.ContainerCount(), conditions)
}

func (m *Manager) recordAudit(ctx context.Context, cmd Command, outcome audit.Outcome, detail string, version int64) {
	entry := &audit.Entry{
		Command:     cmd.Op,
		ContainerID: cmd.ContainerID,
		TargetID:    cmd.targetID(),
		Outcome:     outcome,
		Detail:      detail,
		Version:     version,
	}
	if err := m.auditLog.Record(ctx, entry); err != nil {
		m.logger.Warn("failed to record audit entry", "error", err)
	}
}

// HealthCheck verifies the storage backend by loading the current document
// head. Suitable for registration with a health checker.
func (m *Manager) HealthCheck(ctx context.Context) error {
	_, err := m.storage.Load(ctx, m.name)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("storage unavailable: %w", err)
	}
	return nil
}
