package bootstrap

import (
	"context"

	"einvoice_server/config"
	"einvoice_server/internal/stream"
	"einvoice_server/pkg/logger"
)

// Worker runs the Redis Stream consumer driving the ingestion pipeline.
type Worker struct {
	consumer *stream.Consumer
	cancel   context.CancelFunc
}

func NewWorker(cfg *config.Config) (*Worker, func(), error) {
	logLevel := logger.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = logger.LevelDebug
	}
	logger.Init(logger.Config{
		Level:   logLevel,
		Service: "einvoice-worker",
	})

	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize dependencies")
		return nil, nil, err
	}

	handler := NewWorkerHandler(deps)
	consumer := stream.NewConsumer(deps.Stream, handler, cfg.WorkerID)

	return &Worker{consumer: consumer}, cleanup, nil
}

func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.consumer.Start(ctx)
	logger.Info("Worker started")
}

func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	logger.Info("Worker stopped")
}
