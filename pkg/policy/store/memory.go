package store

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryBackend implements Backend using in-memory storage.
// All data is lost when the process exits.
//
// MemoryBackend is thread-safe and supports concurrent access using
// sync.RWMutex.
type MemoryBackend struct {
	// versions maps document name to its stored versions, oldest first.
	versions map[string][]*Record

	// maxVersions bounds how many versions are kept per document.
	maxVersions int

	mu sync.RWMutex
}

// MemoryBackendConfig configures the memory backend.
type MemoryBackendConfig struct {
	// MaxVersions is the maximum number of versions to keep per document.
	// The oldest version is dropped when the limit is reached.
	// Default: 100
	MaxVersions int
}

// NewMemoryBackend creates a new in-memory storage backend with default
// settings.
func NewMemoryBackend() *MemoryBackend {
	return NewMemoryBackendWithConfig(MemoryBackendConfig{MaxVersions: 100})
}

// NewMemoryBackendWithConfig creates a new in-memory backend with custom
// configuration.
func NewMemoryBackendWithConfig(cfg MemoryBackendConfig) *MemoryBackend {
	if cfg.MaxVersions == 0 {
		cfg.MaxVersions = 100
	}
	return &MemoryBackend{
		versions:    make(map[string][]*Record),
		maxVersions: cfg.MaxVersions,
	}
}

// Save appends a new version of the named document.
func (m *MemoryBackend) Save(ctx context.Context, name string, document []byte) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("name cannot be empty")
	}
	if len(document) == 0 {
		return 0, fmt.Errorf("document cannot be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.versions[name]
	var version int64 = 1
	if n := len(history); n > 0 {
		version = history[n-1].Version + 1
	}

	body := make([]byte, len(document))
	copy(body, document)

	history = append(history, &Record{
		Name:     name,
		Version:  version,
		Document: body,
		SavedAt:  time.Now(),
	})
	if len(history) > m.maxVersions {
		history = history[len(history)-m.maxVersions:]
	}
	m.versions[name] = history

	return version, nil
}

// Load retrieves the newest version of the named document.
func (m *MemoryBackend) Load(ctx context.Context, name string) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.versions[name]
	if len(history) == 0 {
		return nil, ErrNotFound
	}
	return copyRecord(history[len(history)-1]), nil
}

// LoadVersion retrieves a specific version of the named document.
func (m *MemoryBackend) LoadVersion(ctx context.Context, name string, version int64) (*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, rec := range m.versions[name] {
		if rec.Version == version {
			return copyRecord(rec), nil
		}
	}
	return nil, ErrNotFound
}

// Versions returns the stored versions of the named document, newest first,
// without document bodies.
func (m *MemoryBackend) Versions(ctx context.Context, name string) ([]*Record, error) {
	if name == "" {
		return nil, fmt.Errorf("name cannot be empty")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.versions[name]
	records := make([]*Record, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		records = append(records, &Record{
			Name:    history[i].Name,
			Version: history[i].Version,
			SavedAt: history[i].SavedAt,
		})
	}
	return records, nil
}

// Prune removes versions of the named document older than keep.
func (m *MemoryBackend) Prune(ctx context.Context, name string, keep int) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("name cannot be empty")
	}
	if keep < 1 {
		keep = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.versions[name]
	if len(history) <= keep {
		return 0, nil
	}
	removed := len(history) - keep
	m.versions[name] = history[removed:]
	return removed, nil
}

// Close releases any resources held by the backend.
func (m *MemoryBackend) Close() error {
	return nil
}

// Size returns the total number of stored versions across all documents.
// This is useful for monitoring and testing.
func (m *MemoryBackend) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, history := range m.versions {
		total += len(history)
	}
	return total
}

func copyRecord(rec *Record) *Record {
	dup := &Record{
		Name:    rec.Name,
		Version: rec.Version,
		SavedAt: rec.SavedAt,
	}
	if rec.Document != nil {
		dup.Document = make([]byte, len(rec.Document))
		copy(dup.Document, rec.Document)
	}
	return dup
}
