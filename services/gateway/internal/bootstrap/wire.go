package bootstrap

import (
	"context"
	"net/http"

	"github.com/recrutment/hireai/internal/logger"
	mq "github.com/recrutment/hireai/internal/messaging/rabbitmq"
	"github.com/recrutment/hireai/services/gateway/internal/application/admin"
	"github.com/recrutment/hireai/services/gateway/internal/auditlog"
	"github.com/recrutment/hireai/services/gateway/internal/config"
	"github.com/recrutment/hireai/services/gateway/internal/infrastructure/keycloak"
	"github.com/recrutment/hireai/services/gateway/internal/infrastructure/redis"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/handlers"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/middleware"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/response"
	"github.com/recrutment/hireai/services/gateway/internal/transport/http/router"
)

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

// Directory is the admin directory plus a readiness check.
type Directory interface {
	admin.Directory
	Ready(ctx context.Context) error
}

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewPublisher func(cfg *config.Config) (admin.EventPublisher, func(), error)
	NewDirectory func(cfg *config.Config) (Directory, error)
	NewRedis     func(addr, password string, db int) *redis.Client
}

func defaultDeps() Deps {
	return Deps{
		LoadConfig:   config.Load,
		NewPublisher: newPublisher,
		NewDirectory: func(cfg *config.Config) (Directory, error) {
			return keycloak.New(keycloak.Config{
				BaseURL:      cfg.KeycloakBaseURL,
				Realm:        cfg.KeycloakRealm,
				ClientID:     cfg.KeycloakClientID,
				ClientSecret: cfg.KeycloakClientSecret,
				SafetyMargin: cfg.KeycloakSafetyMargin,
				HTTPTimeout:  cfg.KeycloakHTTPTimeout,
			}, keycloak.WithLogger(logger.Component("keycloak")))
		},
		NewRedis: redis.New,
	}
}

// newPublisher connects to RabbitMQ; without a URL (dev only) events are dropped.
func newPublisher(cfg *config.Config) (admin.EventPublisher, func(), error) {
	if cfg.RabbitURL == "" {
		logger.Logger.Warn().Msg("RABBIT_URL not set, audit events will not be published")
		return mq.NoopPublisher{Log: logger.Logger}, func() {}, nil
	}
	p, err := mq.NewPublisher(cfg.RabbitURL, cfg.Producer,
		mq.WithExchange(cfg.RabbitExchange),
		mq.WithTimeout(cfg.PublishTimeout),
		mq.WithLogger(logger.Logger),
	)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

func newServer(deps Deps) (*http.Server, func(), error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	pub, closePub, err := deps.NewPublisher(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanupFns = append(cleanupFns, closePub)

	dir, err := deps.NewDirectory(cfg)
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	adminSvc := admin.NewService(dir, pub, admin.Config{Producer: cfg.Producer}).
		WithAudit(auditlog.New(logger.Logger).Record).
		WithLogger(logger.Component("admin"))

	checks := []handlers.Check{{Name: "directory", Fn: dir.Ready}}

	var adminRL func(http.Handler) http.Handler
	if cfg.RedisAddr != "" {
		rc := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cleanupFns = append(cleanupFns, func() { _ = rc.Close() })

		if err := rc.Ping(context.Background()); err != nil {
			// limiter fails open; keep serving
			logger.Logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup")
		}
		checks = append(checks, handlers.Check{Name: "redis", Fn: rc.Ping, Optional: true})

		adminRL = middleware.RateLimitFixedWindow(
			redis.NewFixedWindowLimiter(rc),
			middleware.FixedWindowConfig{RouteKey: "admin", Limit: cfg.RLAdminLimit, Window: cfg.RLAdminWindow},
			response.WriteError,
		)
	}

	httpHandler, err := router.New(router.Deps{
		Health:         handlers.NewHealthHandler(checks...),
		Admin:          handlers.NewAdminHandler(adminSvc),
		AdminRateLimit: adminRL,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return srv, func() { runCleanup(cleanupFns) }, nil
}

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
