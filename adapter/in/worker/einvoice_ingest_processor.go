package worker

import (
	"context"

	"einvoice_server/core/domain"
	"einvoice_server/core/service/ingest"
	"einvoice_server/pkg/apperr"
	"einvoice_server/pkg/logger"
)

// IngestProcessor runs the ingestion pipeline for queued notification
// events.
type IngestProcessor struct {
	pipeline *ingest.Pipeline
}

func NewIngestProcessor(pipeline *ingest.Pipeline) *IngestProcessor {
	return &IngestProcessor{pipeline: pipeline}
}

func (p *IngestProcessor) ProcessIngest(ctx context.Context, msg *Message) error {
	payload, err := ParsePayload[IngestPayload](msg)
	if err != nil {
		logger.Error("[IngestProcessor.ProcessIngest] invalid payload for %s: %v", msg.ID, err)
		return err
	}

	event := &domain.NotificationEvent{
		EmailAddress: payload.EmailAddress,
		HistoryID:    payload.HistoryID,
	}

	if err := p.pipeline.Run(ctx, event); err != nil {
		// A push for an address we never authorized is expected when the
		// watch outlives the stored grant. Ack and drop.
		if apperr.IsUnknownUser(err) {
			logger.Warn("[IngestProcessor.ProcessIngest] no credential for %s, dropping job %s", payload.EmailAddress, msg.ID)
			return nil
		}
		logger.WithError(err).Error("[IngestProcessor.ProcessIngest] ingestion failed for %s", payload.EmailAddress)
		return err
	}
	return nil
}
