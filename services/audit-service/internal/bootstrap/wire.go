package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/recrutment/hireai/internal/logger"
	mq "github.com/recrutment/hireai/internal/messaging/rabbitmq"
	"github.com/recrutment/hireai/services/audit-service/internal/application/ingest"
	"github.com/recrutment/hireai/services/audit-service/internal/application/records"
	"github.com/recrutment/hireai/services/audit-service/internal/config"
	"github.com/recrutment/hireai/services/audit-service/internal/infrastructure/db/postgres"
	"github.com/recrutment/hireai/services/audit-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/recrutment/hireai/services/audit-service/internal/transport/http/handlers"
	"github.com/recrutment/hireai/services/audit-service/internal/transport/http/router"
)

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

// Consumer is the lifecycle surface of the audit queue consumer.
type Consumer interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Ready() bool
}

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string, debug bool) (*sql.DB, error)

	NewConsumer func(cfg rabbitmq.Config, h rabbitmq.Handler, lg zerolog.Logger) Consumer
}

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      config.NewDB,
		NewConsumer: func(cfg rabbitmq.Config, h rabbitmq.Handler, lg zerolog.Logger) Consumer {
			return rabbitmq.NewConsumer(cfg, h, lg)
		},
	}
}

func newServer(deps Deps) (*http.Server, func(), error) {
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	db, err := deps.NewDB(cfg.DatabaseURL, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	repo := postgres.New(db)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := repo.EnsureSchema(ctx)
		cancel()
		if err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	ingestSvc := ingest.NewService(repo, ingest.SystemClock{}, logger.Logger)

	consumer := deps.NewConsumer(rabbitmq.Config{
		RabbitURL: cfg.RabbitURL,
		Topology: mq.Topology{
			Exchange:   cfg.RabbitExchange,
			Queue:      cfg.AuditQueue,
			BindingKey: cfg.RoutingPattern,
		},
		Prefetch:      1,
		Tag:           cfg.ConsumerTag,
		HandleTimeout: cfg.HandleTimeout,
	}, ingestSvc, logger.Logger)

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	if err := consumer.Start(consumerCtx); err != nil {
		cancelConsumer()
		runCleanup(cleanupFns)
		return nil, nil, err
	}
	cleanupFns = append(cleanupFns, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := consumer.Stop(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("consumer stop timed out")
		}
		cancelConsumer()
	})

	h := handlers.NewRecordsHandler(records.NewService(repo))
	z := handlers.NewHealthHandler(db, consumer.Ready)

	httpHandler := router.New(h, z, router.RateLimit{
		Enabled: cfg.RLEnabled,
		Limit:   cfg.RLLimit,
		Window:  cfg.RLWindow,
	})

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
