package api

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/api/handler"
	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/service"
	"github.com/taskhive/task-tracker/internal/core/token"
	"github.com/taskhive/task-tracker/internal/infrastructure/db/postgres"
	redisdb "github.com/taskhive/task-tracker/internal/infrastructure/db/redis"
	"github.com/taskhive/task-tracker/internal/pkg/config"
	"github.com/taskhive/task-tracker/internal/pkg/password"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// All dependency wiring happens here: one config, constructed once, injected
// by reference into the codecs and services.
func NewRouter(cfg *config.Config, pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("task_tracker"))

	// --- Token codecs: distinct secrets and windows per class ---
	accessCodec, err := token.NewCodec(
		cfg.Token.AccessSecret, cfg.Token.Algorithm,
		cfg.Token.Issuer, cfg.Token.Audience, cfg.Token.Subject,
		cfg.Token.AccessTTL(),
	)
	if err != nil {
		return nil, err
	}
	refreshCodec, err := token.NewCodec(
		cfg.Token.RefreshSecret, cfg.Token.Algorithm,
		cfg.Token.Issuer, cfg.Token.Audience, cfg.Token.Subject,
		cfg.Token.RefreshTTL(),
	)
	if err != nil {
		return nil, err
	}

	// --- Dependencies ---
	accountRepo := postgres.NewAccountRepository(pool)
	taskRepo := postgres.NewTaskRepository(pool)
	hasher := password.NewHasher(0, log)

	sessionService := service.NewSessionService(accountRepo, taskRepo, hasher, accessCodec, refreshCodec, cfg.Token.Scheme, log)
	taskService := service.NewTaskService(taskRepo, log)

	accountHandler := handler.NewAccountHandler(sessionService)
	taskHandler := handler.NewTaskHandler(taskService)

	gate := middleware.Auth(accessCodec, cfg.Token.Scheme, accountRepo)
	loginLimiter := middleware.RateLimit(
		redisdb.NewLoginLimiter(rdb, cfg.RateLimit.LoginAttempts, cfg.RateLimit.Window()),
		log,
	)

	// --- Account routes ---
	accounts := e.Group("/api/v1/accounts")
	accounts.POST("/register", accountHandler.Register)
	accounts.POST("/login", accountHandler.Login, loginLimiter)
	accounts.GET("/renew-access-token", accountHandler.Refresh)
	accounts.GET("/logout", accountHandler.Logout, gate)
	accounts.PUT("/me", accountHandler.UpdateMe, gate)
	accounts.DELETE("/me", accountHandler.DeleteMe, gate)
	accounts.GET("", accountHandler.List, gate, middleware.RBAC(domain.RoleAdmin))

	// --- Task routes (all behind the gate) ---
	tasks := e.Group("/api/v1/tasks", gate)
	tasks.POST("/create/", taskHandler.Create)
	tasks.GET("/", taskHandler.List)
	tasks.GET("/:task_id", taskHandler.Get)
	tasks.PUT("/update/:task_id", taskHandler.Update)
	tasks.DELETE("/remove/:task_id", taskHandler.Delete)

	// --- Health probes & metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(pool, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e, nil
}
