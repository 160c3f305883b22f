// Flowlens Worker — выполняет проверки pipeline-спецификаций.
//
// Worker:
//   - Получает запросы на проверку из RabbitMQ
//   - Прогоняет спецификацию через движок и строит граф
//   - Публикует результат обратно в validations.completed
//
// Workers масштабируются горизонтально: проверки независимы друг от друга.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/mq"
	"github.com/shaiso/Flowlens/internal/telemetry"
	"github.com/shaiso/Flowlens/internal/worker"
)

func main() {
	// Инициализируем structured logging
	logger := telemetry.SetupLogger()
	logger.Info("starting flowlens-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Политика сопоставления разделяемых видов
	policy := engine.MatchAllProducers
	if os.Getenv("MATCH_POLICY") == "first" {
		policy = engine.MatchFirstProducer
	}

	// RabbitMQ — обязателен для worker'а
	mqURL := os.Getenv("RABBITMQ_URL")
	if mqURL == "" {
		mqURL = mq.DefaultURL()
	}

	mqConn, err := mq.NewConnection(mqURL, logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	// Создаём топологию
	if err := mq.SetupTopology(ctx, mqConn); err != nil {
		logger.Warn("failed to setup topology", "error", err)
	}

	publisher := mq.NewPublisher(mqConn, logger)

	// Создаём worker
	w := worker.New(worker.Config{
		Publisher: publisher,
		Conn:      mqConn,
		Policy:    policy,
		Logger:    logger,
	})

	// Запускаем worker
	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	// Останавливаем worker
	w.Stop()
	logger.Info("flowlens-worker stopped")
}
