package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"dashpulse/internal/config"
	"dashpulse/internal/errors"
	"dashpulse/internal/indicators"
	"dashpulse/internal/infrastructure"
	custommw "dashpulse/internal/middleware"
	"dashpulse/internal/services"
	handlers "dashpulse/internal/transport/http"
)

const (
	// Version is the application version reported by /healthz
	Version = "1.0.0"
	// AppName is the human-readable application name
	AppName = "DashPulse"
)

// Application is the main application container. All components are
// wired together here at startup.
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Metrics   *infrastructure.Metrics
	Dashboard *services.DashboardService
	Elections *services.ElectionService
}

// NewApplication creates an application instance with all services wired
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig creates an application from an already-loaded
// configuration. Used by tests to inject fixture config.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("application starting",
		slog.String("name", AppName),
		slog.String("version", Version))

	metrics, err := infrastructure.NewMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}

	app := &Application{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices wires the data services
func (a *Application) initializeServices() {
	pipeline := indicators.NewPipeline(a.Config.Sources, a.Logger, a.Metrics)
	a.Dashboard = services.NewDashboardService(pipeline, a.Logger)
	a.Elections = services.NewElectionService(a.Config.Elections, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	r.Group(func(r chi.Router) {
		r.Use(custommw.StructuredLogger(a.Logger))
		r.Use(custommw.Recoverer(a.Logger))
		r.Use(custommw.SecurityHeaders)
		r.Use(custommw.Compress(5))
		if a.Config.Server.RateLimitRPS > 0 {
			r.Use(custommw.NewRateLimiter(
				a.Config.Server.RateLimitRPS,
				a.Config.Server.RateLimitBurst,
				a.Logger,
			).Handler)
		}

		errorHandler := errors.NewErrorHandler(a.Logger)
		r.NotFound(errorHandler.NotFound)
		r.MethodNotAllowed(errorHandler.MethodNotAllowed)

		healthHandler := handlers.NewHealthHandler(a.Dashboard, Version)
		r.Mount("/healthz", healthHandler.Routes())

		r.Route("/api", func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			indicatorsHandler := handlers.NewIndicatorsHandler(a.Dashboard, a.Logger, errorHandler)
			r.Mount("/indicators", indicatorsHandler.Routes())

			electionsHandler := handlers.NewElectionsHandler(a.Elections, a.Logger, errorHandler)
			r.Mount("/elections", electionsHandler.Routes())
		})
	})

	// Prometheus scrape endpoint stays outside the middleware group
	if a.Metrics.Handler != nil {
		r.Handle("/metrics", a.Metrics.Handler)
	}

	a.Router = r
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         a.Config.Server.GetAddress(),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Start starts the HTTP server and warms the indicators snapshot in the
// background. A failed warm load is logged, not fatal; the first request
// will retry it.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting server",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("level", a.Config.Logging.Level))

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go func() {
		warmCtx, warmCancel := context.WithTimeout(ctx, a.Config.Sources.FetchTimeout)
		defer warmCancel()
		if _, err := a.Dashboard.Dataset(warmCtx); err != nil {
			a.Logger.WarnContext(warmCtx, "snapshot warm load failed",
				slog.String("error", err.Error()))
		}
	}()

	a.Logger.InfoContext(ctx, "server started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))
	return nil
}

// Stop gracefully shuts down the HTTP server
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	a.Logger.InfoContext(ctx, "shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
	}

	// Detach shutdown from the cancelled run context
	return a.Stop(context.Background())
}
