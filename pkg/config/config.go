package config

import "time"

// Config is the root configuration for the Ganymede policy service.
type Config struct {
	// Server configures the HTTP API server.
	Server ServerConfig `yaml:"server"`

	// Policy configures the policy document and how it is kept in sync.
	Policy PolicyConfig `yaml:"policy"`

	// Storage configures document persistence.
	Storage StorageConfig `yaml:"storage"`

	// Audit configures the mutation log.
	Audit AuditConfig `yaml:"audit"`

	// Translate configures the text-to-rule translation client.
	Translate TranslateConfig `yaml:"translate"`

	// Telemetry configures logging, metrics, and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (host:port).
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on a
	// keep-alive connection.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// MaxHeaderBytes limits request header size.
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// ShutdownTimeout is how long to wait for in-flight requests on
	// shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PolicyConfig contains policy document settings.
type PolicyConfig struct {
	// DocumentName identifies the document in the storage backend.
	DocumentName string `yaml:"document_name"`

	// FilePath is an optional YAML policy document on disk. When set, the
	// document is loaded from this file at startup if the storage backend
	// holds no newer version.
	FilePath string `yaml:"file_path"`

	// Watch reloads the document when the file at FilePath changes.
	Watch bool `yaml:"watch"`
}

// StorageConfig contains document persistence settings.
type StorageConfig struct {
	// Backend selects the storage backend: "memory" or "sqlite".
	Backend string `yaml:"backend"`

	// SQLitePath is the database file path for the sqlite backend.
	SQLitePath string `yaml:"sqlite_path"`

	// MaxVersions bounds the per-document history in the memory backend.
	MaxVersions int `yaml:"max_versions"`

	// Snapshot configures scheduled history pruning.
	Snapshot SnapshotConfig `yaml:"snapshot"`
}

// SnapshotConfig contains scheduled pruning settings.
type SnapshotConfig struct {
	// Enabled turns the snapshot schedule on.
	Enabled bool `yaml:"enabled"`

	// Schedule is a cron expression for when pruning runs.
	Schedule string `yaml:"schedule"`

	// Keep is how many document versions to retain.
	Keep int `yaml:"keep"`
}

// AuditConfig contains mutation log settings.
type AuditConfig struct {
	// Enabled turns mutation logging on.
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file path.
	SQLitePath string `yaml:"sqlite_path"`

	// RetentionDays is how long entries are kept; zero keeps them forever.
	RetentionDays int `yaml:"retention_days"`
}

// TranslateConfig contains translation client settings.
type TranslateConfig struct {
	// Latency is the simulated backend latency for the default transport.
	Latency time.Duration `yaml:"latency"`
}

// TelemetryConfig contains observability settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`

	// AddSource includes file and line number in logs.
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled turns metrics collection on.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name namespace.
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name subsystem.
	Subsystem string `yaml:"subsystem"`

	// Path is the HTTP path the metrics endpoint is served on.
	Path string `yaml:"path"`

	// DurationBuckets are histogram buckets for operation durations in
	// seconds.
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled turns distributed tracing on.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`

	// Insecure disables transport security on the exporter connection.
	Insecure bool `yaml:"insecure"`

	// SampleRatio is the fraction of requests to sample (0.0 to 1.0).
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName identifies this service in traces.
	ServiceName string `yaml:"service_name"`
}
