package api

import (
	"log/slog"

	"github.com/shaiso/Flowlens/internal/engine"
	"github.com/shaiso/Flowlens/internal/export"
	"github.com/shaiso/Flowlens/internal/mq"
	"github.com/shaiso/Flowlens/internal/store"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	store     *store.ValidationStore
	exporters *export.Registry
	publisher *mq.Publisher
	policy    engine.MatchPolicy
	logger    *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	Store     *store.ValidationStore
	Exporters *export.Registry

	// Publisher — опционален: без него проверки выполняются
	// синхронно в обработчике.
	Publisher *mq.Publisher

	// Policy — политика сопоставления разделяемых видов.
	Policy engine.MatchPolicy

	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	exporters := cfg.Exporters
	if exporters == nil {
		exporters = export.DefaultRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		store:     cfg.Store,
		exporters: exporters,
		publisher: cfg.Publisher,
		policy:    cfg.Policy,
		logger:    logger,
	}
}
