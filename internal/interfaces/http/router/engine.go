package router

import (
	"net/http"
	"time"

	_ "github.com/bizsuite/backend/docs"
	"github.com/bizsuite/backend/internal/application/analytics"
	"github.com/bizsuite/backend/internal/application/identity"
	"github.com/bizsuite/backend/internal/infrastructure/auth"
	"github.com/bizsuite/backend/internal/infrastructure/config"
	"github.com/bizsuite/backend/internal/infrastructure/i18n"
	"github.com/bizsuite/backend/internal/infrastructure/logger"
	"github.com/bizsuite/backend/internal/infrastructure/telemetry"
	"github.com/bizsuite/backend/internal/interfaces/http/dto"
	"github.com/bizsuite/backend/internal/interfaces/http/handler"
	"github.com/bizsuite/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Deps are the services behind the HTTP surface.
type Deps struct {
	Config      *config.Config
	Logger      *zap.Logger
	Translator  *i18n.Translator
	Tokens      *auth.JWTService
	Auth        *identity.AuthService
	Principals  middleware.PrincipalSource
	Instruments *telemetry.Instruments
	Database    handler.Pinger
	Groups      handler.Groups
	Exports     *analytics.ExportRunner
	Version     string
}

// New builds the engine with the full middleware chain and every route.
// stop releases the rate limiters and must be called on shutdown.
func New(d Deps) (engine *gin.Engine, stop func()) {
	cfg := d.Config
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	tr := d.Translator
	if tr == nil {
		tr = i18n.New(cfg.App.DefaultLanguage)
	}

	middleware.SetupValidator()
	engine = gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
		SkipPaths:   []string{"/health"},
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(d.Instruments))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsConfig(cfg.HTTP)))
	// Locale runs before any middleware that can reject the request.
	engine.Use(middleware.Locale(tr))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var limiters []*middleware.RateLimiter
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		limiters = append(limiters, limiter)
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}
	authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
	limiters = append(limiters, authLimiter)

	health := handler.NewHealthHandler(d.Database, cfg.App.Name, d.Version)
	engine.GET("/health", health.Health)

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.DocsAccess(cfg.Swagger.AllowedIPs),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	jwtConfig := middleware.DefaultJWTConfig(d.Tokens)
	jwtConfig.Revocation = d.Auth
	jwtConfig.Logger = log

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Use(
		middleware.JWTAuthMiddlewareWithConfig(jwtConfig),
		middleware.Principal(d.Principals),
		middleware.TracingAttributeInjector(),
	)
	r.Register(health, handler.NewAuthHandler(d.Auth, authLimiter))
	for _, h := range handler.ResourceHandlers(d.Groups) {
		r.Register(h)
	}
	if d.Exports != nil {
		r.Register(handler.NewExportHandler(d.Exports))
	}
	r.Setup()

	engine.NoRoute(func(c *gin.Context) {
		middleware.Abort(c, dto.ErrCodeNotFound, "Resource not found")
	})

	return engine, func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
}

func corsConfig(h config.HTTPConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = h.CORSAllowOrigins
	if len(h.CORSAllowMethods) > 0 {
		cors.AllowMethods = h.CORSAllowMethods
	}
	if len(h.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = h.CORSAllowHeaders
	}
	cors.MaxAge = 12 * time.Hour
	return cors
}

// Server wraps engine in an http.Server configured from h.
func Server(addr string, engine http.Handler, h config.HTTPConfig) *http.Server {
	return &http.Server{
		Addr:           addr,
		Handler:        engine,
		ReadTimeout:    h.ReadTimeout,
		WriteTimeout:   h.WriteTimeout,
		IdleTimeout:    h.IdleTimeout,
		MaxHeaderBytes: h.MaxHeaderBytes,
	}
}
