package manager

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"spend-hq/ganymede/pkg/policy/ast"
	"spend-hq/ganymede/pkg/policy/audit"
	"spend-hq/ganymede/pkg/policy/parser"
	"spend-hq/ganymede/pkg/policy/store"
	"spend-hq/ganymede/pkg/policy/translate"
)

// recordingLog captures audit entries in memory for assertions.
type recordingLog struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (l *recordingLog) Record(ctx context.Context, entry *audit.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	return nil
}

func (l *recordingLog) Recent(ctx context.Context, limit int) ([]*audit.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit > len(l.entries) {
		limit = len(l.entries)
	}
	out := make([]*audit.Entry, 0, limit)
	for i := len(l.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

func (l *recordingLog) ByContainer(ctx context.Context, containerID string) ([]*audit.Entry, error) {
	return nil, nil
}

func (l *recordingLog) Prune(ctx context.Context, olderThan time.Time) (int, error) { return 0, nil }

func (l *recordingLog) Close() error { return nil }

func (l *recordingLog) last() *audit.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.entries) == 0 {
		return nil
	}
	return l.entries[len(l.entries)-1]
}

func newTestManager(t *testing.T) (*Manager, *recordingLog) {
	t.Helper()
	log := &recordingLog{}
	m, err := New(context.Background(), "default", Options{Audit: log})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return m, log
}

func TestNew_DefaultDocument(t *testing.T) {
	m, _ := newTestManager(t)

	doc := m.Document()
	if got := doc.ContainerCount(); got != 1 {
		t.Errorf("ContainerCount() = %d, want 1", got)
	}
	if got := doc.First().Kind; got != ast.KindCondition {
		t.Errorf("first container kind = %q, want %q", got, ast.KindCondition)
	}
	if got := m.Version(); got != 1 {
		t.Errorf("Version() = %d, want 1 after initial persist", got)
	}
}

func TestNew_EmptyName(t *testing.T) {
	if _, err := New(context.Background(), "", Options{}); err == nil {
		t.Fatal("New() with empty name succeeded, want error")
	}
}

func TestNew_LoadsNewestStoredVersion(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemoryBackend()

	p := ast.NewPolicy()
	p.Containers = append(p.Containers, ast.NewContainer(ast.KindExclusion))
	data, err := parser.Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := backend.Save(ctx, "default", data); err != nil {
			t.Fatalf("Save() failed: %v", err)
		}
	}

	m, err := New(ctx, "default", Options{Storage: backend})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := m.Version(); got != 3 {
		t.Errorf("Version() = %d, want 3", got)
	}
	if got := m.Document().ContainerCount(); got != 2 {
		t.Errorf("ContainerCount() = %d, want 2", got)
	}
}

func TestNew_SeedsFromFile(t *testing.T) {
	ctx := context.Background()

	p := ast.NewPolicy()
	p.Containers = append(p.Containers, ast.NewContainer(ast.KindExclusion))
	data, err := parser.Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	m, err := New(ctx, "default", Options{FilePath: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if got := m.Document().ContainerCount(); got != 2 {
		t.Errorf("ContainerCount() = %d, want 2 from seed file", got)
	}
	if got := m.Version(); got != 1 {
		t.Errorf("Version() = %d, want 1 after seeding", got)
	}
}

func TestNew_InvalidSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte("containers: [{kind: bogus}]"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if _, err := New(context.Background(), "default", Options{FilePath: path}); err == nil {
		t.Fatal("New() with invalid seed file succeeded, want error")
	}
}

func TestDispatch_AddContainer(t *testing.T) {
	ctx := context.Background()
	m, log := newTestManager(t)

	doc, version, err := m.Dispatch(ctx, Command{Op: OpAddContainer, Kind: ast.KindExclusion})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	if got := doc.ContainerCount(); got != 2 {
		t.Errorf("ContainerCount() = %d, want 2", got)
	}
	if version != 2 {
		t.Errorf("version = %d, want 2", version)
	}

	entry := log.last()
	if entry == nil {
		t.Fatal("no audit entry recorded")
	}
	if entry.Command != OpAddContainer {
		t.Errorf("audit command = %q, want %q", entry.Command, OpAddContainer)
	}
	if entry.Outcome != audit.OutcomeApplied {
		t.Errorf("audit outcome = %q, want %q", entry.Outcome, audit.OutcomeApplied)
	}
	if entry.Version != 2 {
		t.Errorf("audit version = %d, want 2", entry.Version)
	}
}

func TestDispatch_SetAmount(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	first := m.Document().First()
	cmd := Command{
		Op:          OpSetAmount,
		ContainerID: first.ID,
		ConditionID: first.Conditions[0].ID,
		Value:       "1,234.50",
	}

	doc, _, err := m.Dispatch(ctx, cmd)
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}

	got := doc.First().Conditions[0].Amount
	if got != "$1,234.50" {
		t.Errorf("amount = %q, want %q", got, "$1,234.50")
	}
}

func TestDispatch_RejectedLeavesDocumentUnchanged(t *testing.T) {
	ctx := context.Background()
	m, log := newTestManager(t)

	before := m.Version()

	_, _, err := m.Dispatch(ctx, Command{Op: OpAddCondition, ContainerID: "no-such-container"})
	if err == nil {
		t.Fatal("Dispatch() with unknown container succeeded, want error")
	}

	if got := m.Version(); got != before {
		t.Errorf("Version() = %d after rejection, want %d", got, before)
	}

	entry := log.last()
	if entry == nil {
		t.Fatal("no audit entry recorded")
	}
	if entry.Outcome != audit.OutcomeRejected {
		t.Errorf("audit outcome = %q, want %q", entry.Outcome, audit.OutcomeRejected)
	}
	if entry.Detail == "" {
		t.Error("rejected audit entry has empty detail")
	}
}

func TestDispatch_UnknownOp(t *testing.T) {
	m, _ := newTestManager(t)

	_, _, err := m.Dispatch(context.Background(), Command{Op: "explode"})
	if !errors.Is(err, ErrUnknownOp) {
		t.Errorf("Dispatch() error = %v, want ErrUnknownOp", err)
	}
}

func TestDispatch_RemoveOpsNeverFail(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	before := m.Version()

	// Removing a nonexistent target is a no-op that still persists.
	_, version, err := m.Dispatch(ctx, Command{Op: OpRemoveContainer, ContainerID: "missing"})
	if err != nil {
		t.Fatalf("Dispatch() failed: %v", err)
	}
	if version != before+1 {
		t.Errorf("version = %d, want %d", version, before+1)
	}
}

func TestApplyTranslation(t *testing.T) {
	ctx := context.Background()
	m, log := newTestManager(t)

	client := translate.NewClient(translate.New(), translate.WithTransport(func(ctx context.Context) error {
		return nil
	}))

	resp, err := client.Generate(ctx, "require approval from any manager when a transaction is over $500")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	applied, err := m.ApplyTranslation(ctx, client, resp)
	if err != nil {
		t.Fatalf("ApplyTranslation() failed: %v", err)
	}
	if !applied {
		t.Fatal("ApplyTranslation() = false, want true for current response")
	}

	doc := m.Document()
	if got := doc.ContainerCount(); got != len(resp.Containers) {
		t.Errorf("ContainerCount() = %d, want %d", got, len(resp.Containers))
	}

	entry := log.last()
	if entry == nil {
		t.Fatal("no audit entry recorded")
	}
	if entry.Command != "apply_translation" {
		t.Errorf("audit command = %q, want %q", entry.Command, "apply_translation")
	}
}

func TestApplyTranslation_DropsStaleResponse(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	client := translate.NewClient(translate.New(), translate.WithTransport(func(ctx context.Context) error {
		return nil
	}))

	stale, err := client.Generate(ctx, "spend over $100")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if _, err := client.Generate(ctx, "spend over $200"); err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	before := m.Version()

	applied, err := m.ApplyTranslation(ctx, client, stale)
	if err != nil {
		t.Fatalf("ApplyTranslation() failed: %v", err)
	}
	if applied {
		t.Error("ApplyTranslation() = true for stale response, want false")
	}
	if got := m.Version(); got != before {
		t.Errorf("Version() = %d after stale response, want %d", got, before)
	}
}

func TestReload(t *testing.T) {
	ctx := context.Background()

	p := ast.NewPolicy()
	data, err := parser.Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	m, err := New(ctx, "default", Options{FilePath: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	p.Containers = append(p.Containers, ast.NewContainer(ast.KindExclusion))
	data, err = parser.Encode(p)
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if err := m.Reload(ctx); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if got := m.Document().ContainerCount(); got != 2 {
		t.Errorf("ContainerCount() = %d after reload, want 2", got)
	}
	if got := m.Version(); got != 2 {
		t.Errorf("Version() = %d after reload, want 2", got)
	}
}

func TestReload_InvalidFileKeepsPrevious(t *testing.T) {
	ctx := context.Background()

	data, err := parser.Encode(ast.NewPolicy())
	if err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	m, err := New(ctx, "default", Options{FilePath: path})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	before := m.Version()

	if err := os.WriteFile(path, []byte("containers: [{kind: bogus}]"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	if err := m.Reload(ctx); err == nil {
		t.Fatal("Reload() with invalid file succeeded, want error")
	}
	if got := m.Version(); got != before {
		t.Errorf("Version() = %d after failed reload, want %d", got, before)
	}
	if got := m.Document().ContainerCount(); got != 1 {
		t.Errorf("ContainerCount() = %d after failed reload, want 1", got)
	}
}

func TestHealthCheck(t *testing.T) {
	m, _ := newTestManager(t)

	if err := m.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}
