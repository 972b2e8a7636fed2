package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/HaroldK3/Student-Tracker/common/httputil"
	"github.com/HaroldK3/Student-Tracker/common/logger"
	"github.com/HaroldK3/Student-Tracker/common/telemetry"
	"github.com/HaroldK3/Student-Tracker/internal/assignment"
	"github.com/HaroldK3/Student-Tracker/internal/attendance"
	"github.com/HaroldK3/Student-Tracker/internal/cache"
	"github.com/HaroldK3/Student-Tracker/internal/config"
	"github.com/HaroldK3/Student-Tracker/internal/dashboard"
	"github.com/HaroldK3/Student-Tracker/internal/db"
	"github.com/HaroldK3/Student-Tracker/internal/db/migrations"
	"github.com/HaroldK3/Student-Tracker/internal/events"
	"github.com/HaroldK3/Student-Tracker/internal/feedback"
	"github.com/HaroldK3/Student-Tracker/internal/health"
	"github.com/HaroldK3/Student-Tracker/internal/location"
	"github.com/HaroldK3/Student-Tracker/internal/metrics"
	"github.com/HaroldK3/Student-Tracker/internal/middleware"
	"github.com/HaroldK3/Student-Tracker/internal/position"
	"github.com/HaroldK3/Student-Tracker/internal/resource"
	"github.com/HaroldK3/Student-Tracker/internal/storage"
	"github.com/HaroldK3/Student-Tracker/internal/student"
	"github.com/HaroldK3/Student-Tracker/internal/user"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
)

type App struct {
	config    *config.Config
	router    chi.Router
	server    *http.Server
	logger    *slog.Logger
	db        *bun.DB
	telemetry *telemetry.Telemetry
	publisher events.Publisher
	cache     cache.Cache
}

// New loads configuration from files and the environment and builds the app.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	slogLogger := logger.NewWithServiceContext(ServiceName, Version, cfg.Env)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("config loaded", "env", cfg.Env)

	return NewWithConfig(ctx, cfg, slogLogger)
}

// NewWithConfig connects every dependency named by cfg, applies pending
// migrations and registers all routes.
func NewWithConfig(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*App, error) {
	slogLogger.Info("initializing application", "version", Version, "commit", GitCommit)

	a := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	tel, err := telemetry.Init(ctx, cfg.Telemetry.OTLPEndpoint, ServiceName, Version, cfg.Env, slogLogger)
	if err != nil {
		return nil, fmt.Errorf("init telemetry: %w", err)
	}
	a.telemetry = tel

	database, err := db.New(ctx, cfg.Database, slogLogger)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("connect database: %w", err)
	}
	a.db = database

	meter := otel.Meter(ServiceName)
	if err := tel.Metrics.Database.RegisterDB(database.DB, meter); err != nil {
		slogLogger.Warn("failed to register connection pool metrics", "error", err)
	}

	if err := migrations.Migrate(ctx, database, slogLogger); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	domainMetrics, err := metrics.New(meter)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("init domain metrics: %w", err)
	}

	publisher, err := events.New(cfg.Events, tel.Metrics.Events, slogLogger)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("init event publisher: %w", err)
	}
	a.publisher = publisher

	store, err := storage.New(cfg.Storage, slogLogger)
	if err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("init file storage: %w", err)
	}

	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			slogLogger.Warn("redis unavailable, dashboard caching disabled", "error", err)
		} else {
			slogLogger.Info("redis cache connected")
			a.cache = redisCache
		}
	}

	a.setupRoutes(tel, domainMetrics, store)

	slogLogger.Info("application initialized successfully")

	return a, nil
}

func (a *App) setupRoutes(tel *telemetry.Telemetry, domainMetrics *metrics.Metrics, store storage.Storage) {
	cfg := a.config
	infra := tel.Metrics

	a.router.Use(chimiddleware.RequestID)
	a.router.Use(chimiddleware.RealIP)
	a.router.Use(middleware.RequestLogger(a.logger))
	a.router.Use(chimiddleware.Recoverer)
	a.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	a.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Student tracker api running"})
	})

	checkers := map[string]health.Checker{"postgres": health.CheckerFunc(a.db.PingContext)}
	if a.cache != nil {
		checkers["redis"] = a.cache
	}
	health.NewHandler(checkers, infra.Health, a.logger).RegisterRoutes(a.router)

	if local := cfg.Storage.Local; cfg.Storage.Driver == config.StorageDriverLocal && strings.HasPrefix(local.BaseURL, "/") {
		prefix := strings.TrimRight(local.BaseURL, "/")
		a.router.Handle(prefix+"/*", http.StripPrefix(prefix+"/", http.FileServer(http.Dir(local.Path))))
	}

	userRepo := user.NewRepository(a.db, infra)
	studentRepo := student.NewRepository(a.db, infra)
	positionRepo := position.NewRepository(a.db, infra)

	user.NewHandler(user.NewService(userRepo), a.logger, domainMetrics).RegisterRoutes(a.router)
	student.NewHandler(student.NewService(studentRepo), a.logger, domainMetrics).RegisterRoutes(a.router)
	position.NewHandler(position.NewService(positionRepo), a.logger).RegisterRoutes(a.router)

	assignmentService := assignment.NewService(assignment.NewRepository(a.db, infra), studentRepo, userRepo, positionRepo)
	assignment.NewHandler(assignmentService, a.logger).RegisterRoutes(a.router)

	attendanceService := attendance.NewService(attendance.NewRepository(a.db, infra), studentRepo, a.publisher, a.logger)
	attendance.NewHandler(attendanceService, a.logger, domainMetrics).RegisterRoutes(a.router)

	locationService := location.NewService(location.NewRepository(a.db, infra), studentRepo, a.publisher, a.logger)
	location.NewHandler(locationService, a.logger, domainMetrics).RegisterRoutes(a.router)

	feedbackService := feedback.NewService(feedback.NewRepository(a.db, infra), studentRepo, positionRepo)
	feedback.NewHandler(feedbackService, a.logger).RegisterRoutes(a.router)

	resourceService := resource.NewService(resource.NewRepository(a.db, infra), store, a.logger)
	resource.NewHandler(resourceService, a.logger, cfg.Server.MaxUploadMB).RegisterRoutes(a.router)

	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	dashboardService := dashboard.NewService(dashboard.NewRepository(a.db, infra), a.cache, ttl, a.logger)
	dashboard.NewHandler(dashboardService, a.logger).RegisterRoutes(a.router)
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  time.Duration(a.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(a.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(a.config.Server.IdleTimeout) * time.Second,
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires and then releases the publisher, cache, database and telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var err error
	if a.server != nil {
		err = a.server.Shutdown(ctx)
	}
	a.close(ctx)
	return err
}

func (a *App) close(ctx context.Context) {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close cache", "error", err)
		}
	}
	db.Close(a.db)
	if err := a.telemetry.Shutdown(ctx, a.logger); err != nil {
		a.logger.Error("failed to shutdown telemetry", "error", err)
	}
}
