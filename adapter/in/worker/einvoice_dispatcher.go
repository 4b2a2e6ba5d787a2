package worker

import (
	"context"

	"einvoice_server/pkg/logger"
)

type Handler struct {
	ingestProcessor *IngestProcessor
}

func NewHandler(ingestProcessor *IngestProcessor) *Handler {
	return &Handler{
		ingestProcessor: ingestProcessor,
	}
}

func (h *Handler) Process(ctx context.Context, msg *Message) error {
	logger.Debug("Processing message: %s", msg.Type)

	switch msg.Type {
	case JobIngest:
		return h.ingestProcessor.ProcessIngest(ctx, msg)

	default:
		logger.Warn("Unknown job type: %s", msg.Type)
		return nil
	}
}
