package audit

import (
	"context"
	"time"
)

// Outcome describes how the engine handled a command.
type Outcome string

const (
	// OutcomeApplied means the command produced a new document revision.
	OutcomeApplied Outcome = "applied"

	// OutcomeRejected means the engine refused the command.
	OutcomeRejected Outcome = "rejected"
)

// Entry is a single record in the mutation log.
type Entry struct {
	// ID uniquely identifies the entry.
	ID string `json:"id"`

	// Time is when the command was dispatched.
	Time time.Time `json:"time"`

	// Command is the operation name (for example "add_container").
	Command string `json:"command"`

	// ContainerID is the container the command targeted, if any.
	ContainerID string `json:"containerId,omitempty"`

	// TargetID is the condition or action the command targeted, if any.
	TargetID string `json:"targetId,omitempty"`

	// Outcome records whether the command was applied or rejected.
	Outcome Outcome `json:"outcome"`

	// Detail carries the rejection reason or a short summary of the change.
	Detail string `json:"detail,omitempty"`

	// Version is the document version after the command, zero when
	// rejected.
	Version int64 `json:"version,omitempty"`
}

// Log is an append-only store of mutation entries.
// Implementations must be thread-safe.
type Log interface {
	// Record appends an entry to the log.
	Record(ctx context.Context, entry *Entry) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]*Entry, error)

	// ByContainer returns entries that targeted the given container,
	// newest first.
	ByContainer(ctx context.Context, containerID string) ([]*Entry, error)

	// Prune removes entries older than the cutoff and returns how many
	// were removed.
	Prune(ctx context.Context, olderThan time.Time) (int, error)

	// Close releases any resources held by the log.
	Close() error
}

// NopLog discards everything. It stands in when auditing is disabled.
type NopLog struct{}

func (NopLog) Record(ctx context.Context, entry *Entry) error { return nil }

func (NopLog) Recent(ctx context.Context, limit int) ([]*Entry, error) { return nil, nil }

func (NopLog) ByContainer(ctx context.Context, containerID string) ([]*Entry, error) {
	return nil, nil
}

func (NopLog) Prune(ctx context.Context, olderThan time.Time) (int, error) { return 0, nil }

func (NopLog) Close() error { return nil }
