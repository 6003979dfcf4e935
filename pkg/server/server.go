package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"spend-hq/ganymede/pkg/config"
	"spend-hq/ganymede/pkg/policy/audit"
	"spend-hq/ganymede/pkg/policy/manager"
	"spend-hq/ganymede/pkg/policy/store"
	"spend-hq/ganymede/pkg/policy/translate"
	"spend-hq/ganymede/pkg/telemetry/health"
	"spend-hq/ganymede/pkg/telemetry/metrics"
)

// BuildInfo identifies the running binary on the version endpoint.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Options wires a Server to the rest of the system.
type Options struct {
	Config       *config.Config
	Manager      *manager.Manager
	Translate    *translate.Client
	Storage      store.Backend
	AuditLog     audit.Log
	Metrics      *metrics.Collector
	Health       *health.Checker
	Build        BuildInfo
	Logger       *slog.Logger
	DocumentName string
}

// Server is the HTTP front end over the policy manager.
type Server struct {
	config       *config.ServerConfig
	manager      *manager.Manager
	translate    *translate.Client
	storage      store.Backend
	auditLog     audit.Log
	metrics      *metrics.Collector
	health       *health.Checker
	build        BuildInfo
	logger       *slog.Logger
	metricsPath  string
	documentName string

	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates the HTTP server. Manager, Translate, Storage, and
// Config are required; the rest default to disabled or no-op stand-ins.
func NewServer(opts Options) (*Server, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Manager == nil {
		return nil, fmt.Errorf("manager is required")
	}
	if opts.Translate == nil {
		return nil, fmt.Errorf("translate client is required")
	}
	if opts.Storage == nil {
		return nil, fmt.Errorf("storage backend is required")
	}
	if opts.AuditLog == nil {
		opts.AuditLog = audit.NopLog{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(&config.MetricsConfig{Enabled: false}, nil)
	}
	if opts.Health == nil {
		opts.Health = health.New(0)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.DocumentName == "" {
		opts.DocumentName = opts.Config.Policy.DocumentName
	}

	metricsPath := opts.Config.Telemetry.Metrics.Path
	if metricsPath == "" {
		metricsPath = "/metrics"
	}

	return &Server{
		config:       &opts.Config.Server,
		manager:      opts.Manager,
		translate:    opts.Translate,
		storage:      opts.Storage,
		auditLog:     opts.AuditLog,
		metrics:      opts.Metrics,
		health:       opts.Health,
		build:        opts.Build,
		logger:       opts.Logger.With("component", "server"),
		metricsPath:  metricsPath,
		documentName: opts.DocumentName,
		shutdownChan: make(chan struct{}),
	}, nil
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		s.logger.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		s.logger.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("server stopped")
	})

	return shutdownErr
}

// setupRoutes configures the routes and middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/policy", s.handlePolicy)
	mux.HandleFunc("POST /api/v1/policy/commands", s.handleCommands)
	mux.HandleFunc("GET /api/v1/policy/versions", s.handleVersions)
	mux.HandleFunc("GET /api/v1/catalog", s.handleCatalog)
	mux.HandleFunc("POST /api/v1/translate", s.handleTranslate)
	mux.HandleFunc("GET /api/v1/audit", s.handleAudit)

	mux.Handle("/healthz", s.health.LivenessHandler())
	mux.Handle("/readyz", s.health.ReadinessHandler())
	mux.Handle("/version", health.VersionHandler(s.build.Version, s.build.Commit, s.build.BuildTime))
	mux.Handle(s.metricsPath, s.metrics.Handler())

	var handler http.Handler = mux
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(handler)

	return handler
}

// Handler returns the configured HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
