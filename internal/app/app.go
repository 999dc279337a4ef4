package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/windikite/MP5-E-CommerceAPI/internal/domain"
	"github.com/windikite/MP5-E-CommerceAPI/internal/health"
	"github.com/windikite/MP5-E-CommerceAPI/internal/httpapi"
	"github.com/windikite/MP5-E-CommerceAPI/internal/messaging/kafka"
	"github.com/windikite/MP5-E-CommerceAPI/internal/metrics"
	"github.com/windikite/MP5-E-CommerceAPI/internal/service/orders"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/cache"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/memory"
	"github.com/windikite/MP5-E-CommerceAPI/internal/storage/postgres"
	"github.com/windikite/MP5-E-CommerceAPI/internal/version"
)

// dependencies — собранный граф зависимостей сервиса.
type dependencies struct {
	customers   domain.CustomerRepository
	products    domain.ProductRepository
	accounts    domain.AccountRepository
	orders      domain.OrderRepository
	timeline    domain.TimelineRepository
	idempotency domain.IdempotencyRepository
	healthz     *health.Handler
	producer    *kafka.Producer
	closers     []func() error
}

// buildDependencies выбирает хранилище по конфигурации: PostgreSQL при
// заданном DSN, иначе in-memory. Redis-кеш и Kafka подключаются только
// если указаны их адреса.
func buildDependencies(ctx context.Context, cfg Config, logger *log.Logger) (*dependencies, error) {
	deps := &dependencies{
		healthz: health.NewHandler(version.String()),
	}

	if cfg.PostgresDSN != "" {
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("apply migrations: %w", err)
		}
		deps.closers = append(deps.closers, store.Close)

		deps.customers = postgres.NewCustomerRepository(store)
		deps.products = postgres.NewProductRepository(store)
		deps.accounts = postgres.NewAccountRepository(store)
		deps.orders = postgres.NewOrderRepository(store)
		deps.timeline = postgres.NewTimelineRepository(store)
		// Состояние idempotency-ключей живёт рядом с данными: ретрай после
		// перезапуска или на другой реплике получит replay, а не второй заказ.
		deps.idempotency = postgres.NewIdempotencyRepository(store)
		deps.healthz.RegisterChecker("postgres", health.NewSimpleChecker("postgres", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return store.Ping(checkCtx)
		}))

		logger.Info("хранилище: PostgreSQL")
	} else {
		store := memory.NewStore()
		deps.customers = store.Customers
		deps.products = store.Products
		deps.accounts = store.Accounts
		deps.orders = store.Orders
		deps.timeline = store.Timeline
		deps.idempotency = memory.NewIdempotencyRepository()

		logger.Warn("хранилище: in-memory, данные не переживут перезапуск")
	}

	if cfg.RedisAddr != "" {
		client, err := cache.Connect(cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		deps.closers = append(deps.closers, client.Close)
		deps.products = cache.NewProductCache(deps.products, client, logger)
		deps.healthz.RegisterChecker("redis", health.NewSimpleChecker("redis", func() error {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(checkCtx).Err()
		}))

		logger.Info("кеш товаров: Redis")
	}

	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, logger)
		if err != nil {
			return nil, fmt.Errorf("connect kafka: %w", err)
		}
		deps.producer = producer
		deps.closers = append(deps.closers, producer.Close)

		logger.WithField("brokers", cfg.KafkaBrokers).Info("события заказов: Kafka")
	}

	return deps, nil
}

func (d *dependencies) close(logger *log.Logger) {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			logger.WithError(err).Warn("ошибка при закрытии зависимости")
		}
	}
}

// Run собирает зависимости, запускает API и сопутствующий сервер
// метрик/health и блокируется до отмены контекста.
func Run(ctx context.Context, cfg Config, logger *log.Logger) error {
	deps, err := buildDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	orderMetrics := metrics.NewOrderMetrics(prometheus.DefaultRegisterer)
	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	var orderService *orders.Service
	if deps.producer != nil {
		orderService = orders.NewServiceWithPublisher(
			deps.customers, deps.products, deps.orders, deps.timeline,
			logger, orderMetrics, deps.producer,
		)
	} else {
		orderService = orders.NewService(
			deps.customers, deps.products, deps.orders, deps.timeline,
			logger, orderMetrics,
		)
	}

	apiServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpapi.NewServer(httpapi.ServerConfig{
			Customers:   deps.customers,
			Products:    deps.products,
			Accounts:    deps.accounts,
			Orders:      orderService,
			Idempotency: deps.idempotency,
			Logger:      logger,
			HTTPMetrics: httpMetrics,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sidecarMux := http.NewServeMux()
	sidecarMux.Handle("/metrics", promhttp.Handler())
	sidecarMux.Handle("/health", deps.healthz)
	sidecarMux.HandleFunc("/health/live", health.LivenessHandler)
	sidecarMux.HandleFunc("/health/ready", deps.healthz.ReadinessHandler)
	sidecarServer := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           sidecarMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("API сервер запущен")
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()
	go func() {
		logger.WithField("addr", cfg.MetricsAddr).Info("сервер метрик запущен")
		if err := sidecarServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("API сервер остановлен с ошибкой")
	}
	if err := sidecarServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("сервер метрик остановлен с ошибкой")
	}

	logger.Info("сервис остановлен")
	return nil
}
