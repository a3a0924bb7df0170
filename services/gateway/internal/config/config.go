package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/recrutment/hireai/internal/contracts/audit"
	"github.com/recrutment/hireai/services/gateway/internal/application/admin"
)

type Config struct {
	AppEnv   string
	HTTPAddr string

	// Producer is stamped on emitted audit events.
	Producer string

	// RabbitMQ
	RabbitURL      string
	RabbitExchange string
	PublishTimeout time.Duration

	// Identity directory (Keycloak admin API)
	KeycloakBaseURL      string
	KeycloakRealm        string
	KeycloakClientID     string
	KeycloakClientSecret string
	KeycloakSafetyMargin time.Duration
	KeycloakHTTPTimeout  time.Duration

	// Redis-backed admin rate limit; empty RedisAddr disables it.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RLAdminLimit  int
	RLAdminWindow time.Duration

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
}

func (c *Config) IsDev() bool { return c.AppEnv == "dev" }

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.AppEnv = getEnv("APP_ENV", "dev")
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.Producer = getEnv("PRODUCER_NAME", admin.DefaultProducer)

	cfg.RabbitURL = getEnv("RABBIT_URL", "")
	cfg.RabbitExchange = getEnv("RABBIT_EXCHANGE", audit.DefaultExchange)

	var err error
	if cfg.PublishTimeout, err = getDuration("PUBLISH_TIMEOUT", 2*time.Second); err != nil {
		return nil, err
	}

	cfg.KeycloakBaseURL = getEnv("KEYCLOAK_BASE_URL", "")
	cfg.KeycloakRealm = getEnv("KEYCLOAK_REALM", "")
	cfg.KeycloakClientID = getEnv("KEYCLOAK_CLIENT_ID", "")
	cfg.KeycloakClientSecret = getEnv("KEYCLOAK_CLIENT_SECRET", "")
	if cfg.KeycloakSafetyMargin, err = getDuration("KEYCLOAK_TOKEN_SAFETY_MARGIN", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.KeycloakHTTPTimeout, err = getDuration("KEYCLOAK_HTTP_TIMEOUT", 0); err != nil {
		return nil, err
	}

	cfg.RedisAddr = getEnv("REDIS_ADDR", "")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RLAdminLimit, err = getInt("RL_ADMIN_LIMIT", 60); err != nil {
		return nil, err
	}
	if cfg.RLAdminWindow, err = getDuration("RL_ADMIN_WINDOW", time.Minute); err != nil {
		return nil, err
	}

	if cfg.HTTPReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.HTTPIdleTimeout, err = getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}

	for k, v := range map[string]string{
		"KEYCLOAK_BASE_URL":      cfg.KeycloakBaseURL,
		"KEYCLOAK_REALM":         cfg.KeycloakRealm,
		"KEYCLOAK_CLIENT_ID":     cfg.KeycloakClientID,
		"KEYCLOAK_CLIENT_SECRET": cfg.KeycloakClientSecret,
	} {
		if v == "" {
			return nil, fmt.Errorf("missing %s", k)
		}
	}
	if cfg.RabbitURL == "" && !cfg.IsDev() {
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
