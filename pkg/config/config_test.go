package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != "127.0.0.1:8080" {
		t.Errorf("ListenAddress = %q, want 127.0.0.1:8080", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Backend != "memory" {
		t.Errorf("Storage.Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Policy.DocumentName != "default" {
		t.Errorf("Policy.DocumentName = %q, want default", cfg.Policy.DocumentName)
	}
	if cfg.Translate.Latency != 300*time.Millisecond {
		t.Errorf("Translate.Latency = %v, want 300ms", cfg.Translate.Latency)
	}
	if cfg.Telemetry.Logging.Level != "info" || cfg.Telemetry.Logging.Format != "json" {
		t.Errorf("logging defaults = %s/%s, want info/json",
			cfg.Telemetry.Logging.Level, cfg.Telemetry.Logging.Format)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default configuration does not validate: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "0.0.0.0:9090"
  read_timeout: 15s
storage:
  backend: sqlite
  sqlite_path: /tmp/policy.db
audit:
  enabled: true
telemetry:
  logging:
    level: debug
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9090" {
		t.Errorf("ListenAddress = %q, want 0.0.0.0:9090", cfg.Server.ListenAddress)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, want sqlite", cfg.Storage.Backend)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled = false, want true")
	}
	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("WriteTimeout = %v, want default 30s", cfg.Server.WriteTimeout)
	}
	if cfg.Telemetry.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q, want default /metrics", cfg.Telemetry.Metrics.Path)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("LoadConfig() succeeded for a missing file")
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "bad backend",
			content: "storage:\n  backend: redis\n",
			wantErr: "unknown backend",
		},
		{
			name:    "bad listen address",
			content: "server:\n  listen_address: not-an-address\n",
			wantErr: "listen_address",
		},
		{
			name:    "bad log level",
			content: "telemetry:\n  logging:\n    level: loud\n",
			wantErr: "logging level",
		},
		{
			name:    "watch without file",
			content: "policy:\n  watch: true\n",
			wantErr: "watch requires file_path",
		},
		{
			name:    "sample ratio out of range",
			content: "telemetry:\n  tracing:\n    sample_ratio: 1.5\n",
			wantErr: "sample_ratio",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tt.content))
			if err == nil {
				t.Fatal("LoadConfig() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigWithEnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:8080"
`)

	t.Setenv("GANYMEDE_SERVER_LISTEN_ADDRESS", "0.0.0.0:7070")
	t.Setenv("GANYMEDE_STORAGE_BACKEND", "sqlite")
	t.Setenv("GANYMEDE_AUDIT_ENABLED", "true")
	t.Setenv("GANYMEDE_TRANSLATE_LATENCY", "50ms")
	t.Setenv("GANYMEDE_TELEMETRY_LOGGING_LEVEL", "warn")

	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		t.Fatalf("LoadConfigWithEnvOverrides() failed: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:7070" {
		t.Errorf("ListenAddress = %q, env override lost", cfg.Server.ListenAddress)
	}
	if cfg.Storage.Backend != "sqlite" {
		t.Errorf("Storage.Backend = %q, env override lost", cfg.Storage.Backend)
	}
	if !cfg.Audit.Enabled {
		t.Error("Audit.Enabled env override lost")
	}
	if cfg.Translate.Latency != 50*time.Millisecond {
		t.Errorf("Translate.Latency = %v, env override lost", cfg.Translate.Latency)
	}
	if cfg.Telemetry.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, env override lost", cfg.Telemetry.Logging.Level)
	}
}

func TestLoadConfigWithEnvOverrides_InvalidOverride(t *testing.T) {
	path := writeConfigFile(t, "")

	t.Setenv("GANYMEDE_STORAGE_BACKEND", "redis")

	if _, err := LoadConfigWithEnvOverrides(path); err == nil {
		t.Fatal("LoadConfigWithEnvOverrides() accepted an invalid override")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "redis"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() succeeded, want error")
	}
	for _, want := range []string{"unknown backend", "logging level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err missing %q: %v", want, err)
		}
	}
}
