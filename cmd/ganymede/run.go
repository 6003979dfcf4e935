package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"spend-hq/ganymede/pkg/config"
	"spend-hq/ganymede/pkg/policy/audit"
	"spend-hq/ganymede/pkg/policy/manager"
	"spend-hq/ganymede/pkg/policy/store"
	"spend-hq/ganymede/pkg/policy/translate"
	"spend-hq/ganymede/pkg/server"
	"spend-hq/ganymede/pkg/telemetry/health"
	"spend-hq/ganymede/pkg/telemetry/logging"
	"spend-hq/ganymede/pkg/telemetry/metrics"
	"spend-hq/ganymede/pkg/telemetry/tracing"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Ganymede policy server",
	Long: `Start the Ganymede policy server with the specified configuration.

The server exposes the policy document, the mutation command endpoint, the
text-to-rule translator, and the builder option catalogs over HTTP.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Override listen address
  ganymede run --listen 0.0.0.0:8080

  # Validate config without starting the server
  ganymede run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Ganymede v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tracer, err := tracing.New(&cfg.Telemetry.Tracing)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Storage backend
	var backend store.Backend
	switch cfg.Storage.Backend {
	case "sqlite":
		backend, err = store.NewSQLiteBackend(cfg.Storage.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open document store: %w", err)
		}
	case "memory", "":
		backend = store.NewMemoryBackendWithConfig(store.MemoryBackendConfig{
			MaxVersions: cfg.Storage.MaxVersions,
		})
	default:
		return fmt.Errorf("unsupported storage backend: %s", cfg.Storage.Backend)
	}
	defer backend.Close()
	fmt.Printf("✓ Document store initialized (%s)\n", cfg.Storage.Backend)

	// Audit log
	var auditLog audit.Log = audit.NopLog{}
	if cfg.Audit.Enabled {
		auditCfg := audit.DefaultSQLiteConfig()
		if cfg.Audit.SQLitePath != "" {
			auditCfg.Path = cfg.Audit.SQLitePath
		}
		auditLog, err = audit.NewSQLiteLog(auditCfg)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		fmt.Println("✓ Audit log initialized")
	}
	defer auditLog.Close()

	// Translation client
	client := translate.NewClient(translate.New(), translate.WithLatency(cfg.Translate.Latency))

	// Policy manager
	mgr, err := manager.New(ctx, cfg.Policy.DocumentName, manager.Options{
		Storage:  backend,
		Audit:    auditLog,
		Metrics:  collector,
		Logger:   logger,
		FilePath: cfg.Policy.FilePath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize policy manager: %w", err)
	}
	fmt.Printf("✓ Policy document loaded (version %d)\n", mgr.Version())

	// File watcher
	if cfg.Policy.Watch && cfg.Policy.FilePath != "" {
		watchCfg := manager.DefaultFileWatcherConfig()
		watchCfg.Path = cfg.Policy.FilePath

		watcher, err := manager.NewFileWatcher(watchCfg, logger)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx, func() error {
				return mgr.Reload(ctx)
			}); err != nil {
				logger.Error("file watcher exited", "error", err)
			}
		}()
		defer func() {
			if err := watcher.Stop(); err != nil {
				logger.Warn("watcher stop failed", "error", err)
			}
		}()
		fmt.Printf("✓ Watching %s for changes\n", cfg.Policy.FilePath)
	}

	// Scheduled maintenance
	if cfg.Storage.Snapshot.Enabled {
		snap := manager.NewSnapshotter(cfg.Policy.DocumentName, manager.SnapshotConfig{
			Schedule:      cfg.Storage.Snapshot.Schedule,
			Keep:          cfg.Storage.Snapshot.Keep,
			RetentionDays: cfg.Audit.RetentionDays,
		}, backend, auditLog, logger)
		if err := snap.Start(ctx); err != nil {
			return fmt.Errorf("failed to start snapshotter: %w", err)
		}
		defer snap.Stop()
		if next := snap.NextRun(); !next.IsZero() {
			slog.Debug("snapshotter started", "next_run", next)
		}
	}

	// Health checks
	checker := health.New(0)
	checker.RegisterCheck("storage", mgr.HealthCheck)

	srv, err := server.NewServer(server.Options{
		Config:    cfg,
		Manager:   mgr,
		Translate: client,
		Storage:   backend,
		AuditLog:  auditLog,
		Metrics:   collector,
		Health:    checker,
		Logger:    logger,
		Build: server.BuildInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Blocks until signal, context cancellation, or server error.
	return srv.Start(ctx)
}
