package stream

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"einvoice_server/adapter/in/worker"
	"einvoice_server/pkg/logger"
)

// Job is the wire envelope on the stream.
type Job struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	CreatedAt time.Time      `json:"created_at"`
}

type Consumer struct {
	stream  *RedisStream
	handler *worker.Handler
	name    string
}

func NewConsumer(stream *RedisStream, handler *worker.Handler, name string) *Consumer {
	return &Consumer{
		stream:  stream,
		handler: handler,
		name:    name,
	}
}

func (c *Consumer) Start(ctx context.Context) {
	if err := c.stream.CreateGroup(ctx, StreamIngest); err != nil {
		logger.Error("[Consumer.Start] failed to create group for %s: %v", StreamIngest, err)
	}

	go c.consume(ctx, StreamIngest)
}

func (c *Consumer) consume(ctx context.Context, stream string) {
	c.stream.Consume(ctx, stream, c.name, func(id string, data []byte) error {
		var job Job
		if err := json.Unmarshal(data, &job); err != nil {
			logger.Error("[Consumer.consume] failed to unmarshal job: %v", err)
			return err
		}

		msg := &worker.Message{
			ID:        job.ID,
			Type:      job.Type,
			Payload:   job.Payload,
			CreatedAt: job.CreatedAt,
		}

		return c.handler.Process(ctx, msg)
	})
}
