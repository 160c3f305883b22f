package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/mq"
)

// Default configuration values.
const (
	defaultPrefetch = 5
)

// Worker выполняет проверки pipeline.
type Worker struct {
	// MQ
	publisher *mq.Publisher
	conn      *mq.Connection

	// Политика сопоставления разделяемых видов
	policy engine.MatchPolicy

	// Consumer
	consumer *mq.Consumer

	// Lifecycle
	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	stoppedMu  sync.RWMutex
}

// Config — конфигурация Worker.
type Config struct {
	// MQ
	Publisher *mq.Publisher
	Conn      *mq.Connection

	// Policy — политика сопоставления разделяемых видов
	// (default: MatchAllProducers).
	Policy engine.MatchPolicy

	// Prefetch — количество сообщений для предварительной загрузки.
	Prefetch int

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Worker.
func New(cfg Config) *Worker {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		publisher: cfg.Publisher,
		conn:      cfg.Conn,
		policy:    cfg.Policy,
		logger:    logger,
	}
}

// Start запускает Worker: consumer для validations.requested.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.logger.Info("starting worker")

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    string(mq.QueueValidationsRequested),
		Handler:  w.handleValidationRequested,
		Prefetch: defaultPrefetch,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("validation consumer error", "error", err)
		}
	}()

	w.logger.Info("worker started")
	return nil
}

// Stop останавливает Worker.
func (w *Worker) Stop() {
	w.stoppedMu.Lock()
	w.stopped = true
	w.stoppedMu.Unlock()

	w.logger.Info("stopping worker...")

	if w.cancelFunc != nil {
		w.cancelFunc()
	}

	if w.consumer != nil {
		w.consumer.Stop()
	}

	// Ждём завершения горутин
	w.wg.Wait()

	w.logger.Info("worker stopped")
}

// IsStopped проверяет, остановлен ли Worker.
func (w *Worker) IsStopped() bool {
	w.stoppedMu.RLock()
	defer w.stoppedMu.RUnlock()
	return w.stopped
}
