package config

import (
	"log"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Application struct {
		Name        string        `env:"APP_NAME" envDefault:"tm-analytics"`
		Environment string        `env:"APP_ENVIRONMENT" envDefault:"development"`
		Timeout     time.Duration `env:"APP_TIMEOUT" envDefault:"30s"`
		Debug       bool          `env:"APP_DEBUG" envDefault:"false"`
	}

	PostgreSQL struct {
		Host     string `env:"POSTGRESQL_HOST" envDefault:"localhost"`
		Port     int    `env:"POSTGRESQL_PORT" envDefault:"5432"`
		User     string `env:"POSTGRESQL_USER" envDefault:"postgres"`
		Password string `env:"POSTGRESQL_PASSWORD"`
		Name     string `env:"POSTGRESQL_NAME" envDefault:"tm_analytics"`
		SSLMode  string `env:"POSTGRESQL_SSL_MODE" envDefault:"disable"`

		MaxOpenConnections int           `env:"POSTGRESQL_MAX_OPEN_CONNECTIONS" envDefault:"10"`
		MaxIdleConnections int           `env:"POSTGRESQL_MAX_IDLE_CONNECTIONS" envDefault:"5"`
		ConnMaxLifetime    time.Duration `env:"POSTGRESQL_CONN_MAX_LIFETIME" envDefault:"30m"`
	}

	OpenTelemetry struct {
		Endpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	}
}

var (
	once sync.Once
	c    *Config
)

func Get() *Config {
	once.Do(func() {
		// A missing .env is fine, the environment may be set by the runtime.
		_ = godotenv.Load()

		c = &Config{}
		if err := env.Parse(c); err != nil {
			log.Fatalf("config: %v", err)
		}
	})

	return c
}
