// Package messaging implements the Redis Stream producer for ingestion
// jobs.
package messaging

import (
	"context"

	"einvoice_server/adapter/in/worker"
	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/internal/stream"
)

// RedisProducer publishes jobs onto the ingestion stream.
type RedisProducer struct {
	stream *stream.RedisStream
}

var _ out.MessageProducerPort = (*RedisProducer)(nil)

func NewRedisProducer(s *stream.RedisStream) *RedisProducer {
	return &RedisProducer{stream: s}
}

func (p *RedisProducer) PublishIngest(ctx context.Context, event *domain.NotificationEvent) error {
	msg := worker.NewMessage(worker.JobIngest, map[string]any{
		"emailAddress": event.EmailAddress,
		"historyId":    event.HistoryID,
	})
	_, err := p.stream.Publish(ctx, stream.StreamIngest, msg)
	return err
}
