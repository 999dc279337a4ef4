package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/app"
	"github.com/windikite/MP5-E-CommerceAPI/internal/version"
)

// setupLogger настраивает формат и уровень логирования для сервиса.
func setupLogger(level string) *log.Logger {
	logger := log.New()
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
		logger.WithField("level", level).Warn("неизвестный уровень логирования, используется info")
	}
	logger.SetLevel(parsed)

	return logger
}

func main() {
	cfg := app.LoadConfig()
	logger := setupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.WithFields(log.Fields{
		"http_addr":    cfg.HTTPAddr,
		"metrics_addr": cfg.MetricsAddr,
		"version":      version.String(),
	}).Info("запускаем commerce-api")

	if err := app.Run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("приложение завершилось с ошибкой")
	}

	logger.Info("commerce-api остановлен")
}
