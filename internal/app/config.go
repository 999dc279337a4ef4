package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config — конфигурация сервиса из переменных окружения.
// PostgresDSN, RedisAddr и KafkaBrokers опциональны: без них сервис
// работает на in-memory хранилище, без кеша и без публикации событий.
type Config struct {
	HTTPAddr        string
	MetricsAddr     string
	PostgresDSN     string
	RedisAddr       string
	KafkaBrokers    []string
	ShutdownTimeout time.Duration
	LogLevel        string
}

const (
	defaultHTTPAddr        = ":8080"
	defaultMetricsAddr     = ":9090"
	defaultShutdownTimeout = 15 * time.Second
	defaultLogLevel        = "info"
)

// LoadConfig читает .env (если есть) и собирает конфигурацию.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("не удалось прочитать .env")
	}

	cfg := Config{
		HTTPAddr:        envOrDefault("COMMERCE_HTTP_ADDR", defaultHTTPAddr),
		MetricsAddr:     envOrDefault("COMMERCE_METRICS_ADDR", defaultMetricsAddr),
		PostgresDSN:     os.Getenv("COMMERCE_POSTGRES_DSN"),
		RedisAddr:       os.Getenv("COMMERCE_REDIS_ADDR"),
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        envOrDefault("COMMERCE_LOG_LEVEL", defaultLogLevel),
	}

	if brokers := os.Getenv("COMMERCE_KAFKA_BROKERS"); brokers != "" {
		for _, broker := range strings.Split(brokers, ",") {
			broker = strings.TrimSpace(broker)
			if broker != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, broker)
			}
		}
	}

	if timeout := os.Getenv("COMMERCE_SHUTDOWN_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.ShutdownTimeout = d
		} else {
			log.WithField("value", timeout).Warn("некорректный COMMERCE_SHUTDOWN_TIMEOUT, используется значение по умолчанию")
		}
	}

	return cfg
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
