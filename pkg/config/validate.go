package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the configuration for errors.
// It collects all problems instead of stopping at the first one.
func Validate(cfg *Config) error {
	var errs []string

	if err := validateServer(&cfg.Server); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.Policy.DocumentName == "" {
		errs = append(errs, "policy: document_name cannot be empty")
	}
	if cfg.Policy.Watch && cfg.Policy.FilePath == "" {
		errs = append(errs, "policy: watch requires file_path")
	}
	if cfg.Audit.Enabled && cfg.Audit.SQLitePath == "" {
		errs = append(errs, "audit: sqlite_path cannot be empty when enabled")
	}
	if cfg.Audit.RetentionDays < 0 {
		errs = append(errs, "audit: retention_days cannot be negative")
	}
	if cfg.Translate.Latency < 0 {
		errs = append(errs, "translate: latency cannot be negative")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("server: invalid listen_address %q: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("server: timeouts cannot be negative")
	}
	if cfg.MaxHeaderBytes < 0 {
		return fmt.Errorf("server: max_header_bytes cannot be negative")
	}
	return nil
}

func validateStorage(cfg *StorageConfig) error {
	switch cfg.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("storage: unknown backend %q (expected \"memory\" or \"sqlite\")", cfg.Backend)
	}
	if cfg.Backend == "sqlite" && cfg.SQLitePath == "" {
		return fmt.Errorf("storage: sqlite_path cannot be empty for the sqlite backend")
	}
	if cfg.MaxVersions < 1 {
		return fmt.Errorf("storage: max_versions must be at least 1")
	}
	if cfg.Snapshot.Enabled && cfg.Snapshot.Keep < 1 {
		return fmt.Errorf("storage: snapshot.keep must be at least 1")
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("telemetry: unknown logging level %q", cfg.Logging.Level)
	}
	switch cfg.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("telemetry: unknown logging format %q", cfg.Logging.Format)
	}
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("telemetry: metrics path %q must start with /", cfg.Metrics.Path)
	}
	if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
		return fmt.Errorf("telemetry: tracing sample_ratio must be between 0.0 and 1.0")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return fmt.Errorf("telemetry: tracing endpoint cannot be empty when enabled")
	}
	return nil
}
