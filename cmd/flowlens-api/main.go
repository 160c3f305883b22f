package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Flowlens/internal/api"
	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/mq"
	"github.com/shaiso/Flowlens/internal/store"
	"github.com/shaiso/Flowlens/internal/telemetry"
)

var (
	startTime = time.Now()
	reqTotal  = promauto.NewCounter(prometheus.CounterOpts{
		Name: "flowlens_api_http_requests_total",
		Help: "Total HTTP requests handled by flowlens_api",
	})
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting flowlens-api")

	// In-memory хранилище проверок
	validationStore := store.NewValidationStore()

	// Политика сопоставления разделяемых видов
	policy := engine.MatchAllProducers
	if os.Getenv("MATCH_POLICY") == "first" {
		policy = engine.MatchFirstProducer
	}

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// RabbitMQ опционален: без него проверки выполняются синхронно
	var publisher *mq.Publisher
	var mqConn *mq.Connection
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL != "" {
		var err error
		mqConn, err = mq.NewConnection(mqURL, logger)
		if err != nil {
			logger.Warn("RabbitMQ not available, validations will run synchronously", "error", err)
		} else {
			defer mqConn.Close()
			logger.Info("RabbitMQ connected")

			// Создаём топологию
			if err := mq.SetupTopology(ctx, mqConn); err != nil {
				logger.Warn("failed to setup topology", "error", err)
			}

			publisher = mq.NewPublisher(mqConn, logger)
		}
	}

	// Создаём API handler
	handler := api.NewHandler(api.Config{
		Store:     validationStore,
		Publisher: publisher,
		Policy:    policy,
		Logger:    logger,
	})

	// Если RabbitMQ доступен — слушаем validations.completed и
	// обновляем хранилище по результатам worker'ов.
	if mqConn != nil {
		completedConsumer := mq.NewConsumer(mqConn, logger, mq.ConsumerConfig{
			Queue:   string(mq.QueueValidationsCompleted),
			Handler: handler.HandleValidationCompleted,
		})
		go func() {
			if err := completedConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("completed consumer error", "error", err)
			}
		}()
		defer completedConsumer.Stop()
	}

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		reqTotal.Inc()
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("/metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler.RegisterRoutes(mux)

	addr := ":8080"
	if v := os.Getenv("API_PORT"); v != "" {
		addr = ":" + v
	}

	// Создаём HTTP сервер с возможностью graceful shutdown
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()
	logger.Info("shutting down")

	// Graceful shutdown с таймаутом 10 секунд
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}

	logger.Info("stopped")
}
