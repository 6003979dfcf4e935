// Package store persists approval policy documents.
//
// A Backend holds versioned snapshots of serialized policy documents keyed
// by document name. Every Save appends a new version; Load returns the
// newest one, so a crashed process resumes from its last saved state and
// older versions remain available for inspection and rollback.
//
// Two implementations are provided: MemoryBackend for tests and ephemeral
// deployments, and SQLiteBackend for durable single-instance deployments.
package store
