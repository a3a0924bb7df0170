package bootstrap

import (
	"net/http"

	"github.com/recrutment/hireai/internal/logger"
	mq "github.com/recrutment/hireai/internal/messaging/rabbitmq"
	"github.com/recrutment/hireai/services/job-service/internal/application/job"
	"github.com/recrutment/hireai/services/job-service/internal/config"
	"github.com/recrutment/hireai/services/job-service/internal/infrastructure/memory"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/handlers"
	"github.com/recrutment/hireai/services/job-service/internal/transport/http/router"
)

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

type Deps struct {
	LoadConfig   func() (*config.Config, error)
	NewPublisher func(cfg *config.Config) (job.EventPublisher, func(), error)
	NewRepo      func() job.JobRepo
}

func defaultDeps() Deps {
	return Deps{
		LoadConfig:   config.Load,
		NewPublisher: newPublisher,
		NewRepo:      func() job.JobRepo { return memory.New() },
	}
}

// newPublisher connects to RabbitMQ; without a URL (dev only) events are dropped.
func newPublisher(cfg *config.Config) (job.EventPublisher, func(), error) {
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

	pub, closePub, err := deps.NewPublisher(cfg)
	if err != nil {
		return nil, nil, err
	}

	svc := job.NewService(deps.NewRepo(), pub, cfg.Producer).
		WithLogger(logger.Component("jobs"))

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.New(handlers.NewJobsHandler(svc), handlers.HealthHandler{}),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
	return srv, closePub, nil
}
