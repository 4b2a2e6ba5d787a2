package out

import (
	"context"

	"einvoice_server/core/domain"
)

// MessageProducerPort queues ingestion jobs for the worker.
type MessageProducerPort interface {
	PublishIngest(ctx context.Context, event *domain.NotificationEvent) error
}
