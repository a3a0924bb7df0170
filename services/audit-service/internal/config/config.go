package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/recrutment/hireai/internal/contracts/audit"
)

type Config struct {
	AppEnv string

	HTTPAddr    string
	DatabaseURL string
	DBDebug     bool

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string
	AuditQueue     string
	RoutingPattern string
	ConsumerTag    string
	HandleTimeout  time.Duration

	// Rate limiting for the read API
	RLEnabled bool
	RLLimit   int
	RLWindow  time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8085")
	cfg.DatabaseURL = getEnv("DATABASE_URL", "")
	cfg.DBDebug = getEnv("DB_DEBUG", "false") == "true"

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", audit.DefaultExchange)
	cfg.AuditQueue = getEnv("AUDIT_QUEUE", audit.DefaultQueue)
	cfg.RoutingPattern = getEnv("AUDIT_ROUTING_PATTERN", audit.BindingPattern)
	cfg.ConsumerTag = getEnv("AUDIT_CONSUMER_TAG", "audit-service")

	var err error
	if cfg.HandleTimeout, err = getDuration("AUDIT_HANDLE_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.RLEnabled = getEnv("RL_ENABLED", "true") == "true"
	if cfg.RLLimit, err = getInt("RL_IP_LIMIT", 120); err != nil {
		return nil, err
	}
	if cfg.RLWindow, err = getDuration("RL_IP_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing DATABASE_URL")
	}
	if cfg.RabbitURL == "" {
		return nil, fmt.Errorf("missing RABBIT_URL")
	}

	return cfg, nil
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %s=%q: %w", key, v, err)
	}
	return d, nil
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int %s=%q: %w", key, v, err)
	}
	return i, nil
}
