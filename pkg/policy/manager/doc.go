// Package manager owns the live policy document and coordinates everything
// around it.
//
// A Manager holds the current document behind a mutex and is the only
// writer. Mutations arrive as Commands, are dispatched to the pure engine,
// and on success the resulting document replaces the current one, is
// persisted to the storage backend as a new version, recorded in the audit
// log, and reflected in metrics. Rejected commands leave the document
// untouched and are recorded as rejections.
//
// The package also provides the supporting machinery for keeping the
// document in sync: a debounced fsnotify file watcher for hot-reloading a
// document file, and a cron-driven snapshotter that prunes document history
// and expired audit entries.
package manager
