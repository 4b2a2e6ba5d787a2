// Package out defines outbound ports (driven ports) for the application.
package out

import (
	"context"
	"time"

	"golang.org/x/oauth2"

	"einvoice_server/core/domain"
)

// MailProviderPort is the outbound port for the mail provider (Gmail).
type MailProviderPort interface {
	// ListMessageIDs returns message IDs newest-first for the
	// authenticated mailbox.
	ListMessageIDs(ctx context.Context, token *oauth2.Token) ([]string, error)

	// GetMessage fetches a message with headers and body part metadata.
	GetMessage(ctx context.Context, token *oauth2.Token, messageID string) (*domain.MailMessage, error)

	// GetAttachment fetches attachment bytes, returned in the provider's
	// URL-safe base64 encoding.
	GetAttachment(ctx context.Context, token *oauth2.Token, messageID, attachmentID string) (string, error)

	// Watch registers an INBOX push watch toward the given Pub/Sub topic
	// and returns the watch expiration.
	Watch(ctx context.Context, token *oauth2.Token, topic string) (time.Time, error)

	// GetProfileEmail resolves the authenticated account's address.
	GetProfileEmail(ctx context.Context, token *oauth2.Token) (string, error)
}
