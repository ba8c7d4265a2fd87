package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	analyticsapp "github.com/bizsuite/backend/internal/application/analytics"
	commerceapp "github.com/bizsuite/backend/internal/application/commerce"
	companyapp "github.com/bizsuite/backend/internal/application/company"
	coreapp "github.com/bizsuite/backend/internal/application/core"
	fieldserviceapp "github.com/bizsuite/backend/internal/application/fieldservice"
	financeapp "github.com/bizsuite/backend/internal/application/finance"
	identityapp "github.com/bizsuite/backend/internal/application/identity"
	marketingapp "github.com/bizsuite/backend/internal/application/marketing"
	projectapp "github.com/bizsuite/backend/internal/application/project"
	"github.com/bizsuite/backend/internal/application/resource"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/cache"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/bizsuite/backend/internal/infrastructure/i18n"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/persistence"
	"github.com/bizsuite/backend/internal/infrastructure/persistence/models"
	"github.com/bizsuite/backend/internal/infrastructure/scheduler"
	"github.com/bizsuite/backend/internal/infrastructure/storage"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/bizsuite/backend/internal/interfaces/http/handler"
	"github.com/bizsuite/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//	@title			Business Suite API
//	@version		1.0
//	@description	Multi-tenant business suite: companies, commerce, finance, marketing, projects, field service and analytics.

//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if providers.Logs != nil {
		log = telemetry.BridgeLogger(log, providers.Logs, zapcore.InfoLevel)
	}

	profiler, err := telemetry.NewProfiler(cfg.Profiling, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	defer func() {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}()
	if cfg.Profiling.SpanProfiles && profiler.Enabled() {
		providers.EnableSpanProfiles()
	}

	meter := providers.MeterOrNoop(cfg.Telemetry.ServiceName)
	instruments, err := telemetry.NewInstruments(meter)
	if err != nil {
		log.Fatal("Failed to create metric instruments", zap.Error(err))
	}

	log.Info("Starting business suite backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.InstrumentDB(db.DB, telemetry.DBConfig{
		Tracing:            cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		DBSystem:           dbSystem(cfg.Database.Driver),
		SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
	}, meter, log); err != nil {
		log.Fatal("Failed to instrument database", zap.Error(err))
	}
	if cfg.Database.AutoMigrate {
		if err := models.AutoMigrate(db.DB); err != nil {
			log.Fatal("Failed to migrate database", zap.Error(err))
		}
		log.Info("Database schema migrated")
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))
	store := persistence.NewGormStore(db.DB)

	// Caches
	backend := cache.NewBackend(ctx, cfg.Redis, log)
	defer func() {
		if err := backend.Close(); err != nil {
			log.Error("Error closing cache", zap.Error(err))
		}
	}()
	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if backend.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(backend.Client, cfg.Redis.KeyPrefix)
	}

	// Identity
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(store, jwtService, blacklist, nil)
	principals := identityapp.NewPrincipalResolver(store, backend.Memberships)

	// Resource groups
	registry := resource.NewRegistry()
	groups := handler.Groups{
		Core:         coreapp.NewServices(store, nil),
		Company:      companyapp.NewServices(store, nil),
		Commerce:     commerceapp.NewServices(store, nil),
		Finance:      financeapp.NewServices(store, nil),
		Marketing:    marketingapp.NewServices(store, nil),
		Project:      projectapp.NewServices(store, nil),
		FieldService: fieldserviceapp.NewServices(store, nil),
		Analytics:    analyticsapp.NewServices(store, nil, registry),
	}
	groups.Register(registry)
	groups.Company.OnMembershipChange(principals.Forget)
	groups.Company.CascadeDeletes(models.CompanyOwned()...)

	// Export storage
	var files analyticsapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to create object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare export bucket", zap.Error(err))
		}
		files = s3
		log.Info("Object storage ready", zap.String("bucket", s3.Bucket()))
	} else {
		files = storage.NewMemoryStorage()
		log.Warn("Object storage disabled, exports are kept in memory")
	}
	exports := analyticsapp.NewExportRunner(groups.Analytics.Exports, registry, store, files, nil).
		WithMetrics(instruments)

	// Scheduled exports
	if cfg.Scheduler.Enabled {
		scheduled := analyticsapp.NewScheduledExports(store, exports, principals)
		jobs := scheduler.NewScheduler(scheduler.Config{
			Workers:       cfg.Scheduler.Workers,
			JobTimeout:    cfg.Scheduler.JobTimeout,
			RetryAttempts: cfg.Scheduler.RetryAttempts,
			RetryDelay:    cfg.Scheduler.RetryDelay,
		}, scheduled, log)
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start export scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping export scheduler", zap.Error(err))
			}
		}()
		trigger := scheduler.NewTrigger(cfg.Scheduler.CheckInterval, scheduled, jobs, log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start export trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping export trigger", zap.Error(err))
			}
		}()
		log.Info("Export scheduler started",
			zap.Int("workers", cfg.Scheduler.Workers),
			zap.Duration("check_interval", cfg.Scheduler.CheckInterval),
		)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine, stopLimiters := router.New(router.Deps{
		Config:      cfg,
		Logger:      log,
		Translator:  i18n.New(cfg.App.DefaultLanguage),
		Tokens:      jwtService,
		Auth:        authService,
		Principals:  principals,
		Instruments: instruments,
		Database:    db,
		Groups:      groups,
		Exports:     exports,
		Version:     version,
	})
	defer stopLimiters()

	srv := router.Server(":"+cfg.App.Port, engine, cfg.HTTP)

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	log.Info("Server exited")
}

func dbSystem(driver string) string {
	if driver == "sqlite" {
		return "sqlite"
	}
	return "postgresql"
}
