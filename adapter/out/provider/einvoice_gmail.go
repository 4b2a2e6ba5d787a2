package provider

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
)

// GmailAdapter implements out.MailProviderPort against the Gmail API.
// Services are built per call from the caller's token; the adapter holds
// no per-user state.
type GmailAdapter struct {
	config *oauth2.Config
	cb     *gobreaker.CircuitBreaker
}

var _ out.MailProviderPort = (*GmailAdapter)(nil)

func NewGmailAdapter(config *oauth2.Config) *GmailAdapter {
	return &GmailAdapter{
		config: config,
		cb:     newBreaker("gmail-api"),
	}
}

func (a *GmailAdapter) newService(ctx context.Context, token *oauth2.Token) (*gmail.Service, error) {
	client := a.config.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, apperr.RemoteService("gmail", err)
	}
	return service, nil
}

func (a *GmailAdapter) ListMessageIDs(ctx context.Context, token *oauth2.Token) ([]string, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Users.Messages.List("me").Context(ctx).Do()
	})
	if err != nil {
		return nil, apperr.RemoteService("gmail", err)
	}

	list := resp.(*gmail.ListMessagesResponse)
	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (a *GmailAdapter) GetMessage(ctx context.Context, token *oauth2.Token, messageID string) (*domain.MailMessage, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return nil, err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Users.Messages.Get("me", messageID).Format("full").Context(ctx).Do()
	})
	if err != nil {
		return nil, apperr.RemoteService("gmail", err)
	}

	return toDomainMessage(resp.(*gmail.Message)), nil
}

func (a *GmailAdapter) GetAttachment(ctx context.Context, token *oauth2.Token, messageID, attachmentID string) (string, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return "", err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Users.Messages.Attachments.Get("me", messageID, attachmentID).Context(ctx).Do()
	})
	if err != nil {
		return "", apperr.RemoteService("gmail", err)
	}

	return resp.(*gmail.MessagePartBody).Data, nil
}

func (a *GmailAdapter) Watch(ctx context.Context, token *oauth2.Token, topic string) (time.Time, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return time.Time{}, err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Users.Watch("me", &gmail.WatchRequest{
			LabelIds:  []string{"INBOX"},
			TopicName: topic,
		}).Context(ctx).Do()
	})
	if err != nil {
		return time.Time{}, apperr.RemoteService("gmail", err)
	}

	watch := resp.(*gmail.WatchResponse)
	return time.UnixMilli(watch.Expiration), nil
}

func (a *GmailAdapter) GetProfileEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	service, err := a.newService(ctx, token)
	if err != nil {
		return "", err
	}

	resp, err := a.cb.Execute(func() (interface{}, error) {
		return service.Users.GetProfile("me").Context(ctx).Do()
	})
	if err != nil {
		return "", apperr.RemoteService("gmail", err)
	}

	return resp.(*gmail.Profile).EmailAddress, nil
}

// toDomainMessage flattens the Gmail payload tree into headers plus the
// parts carrying attachment IDs. The notification mails are flat
// multiparts, so one level of nesting is enough.
func toDomainMessage(msg *gmail.Message) *domain.MailMessage {
	result := &domain.MailMessage{ID: msg.Id}
	if msg.Payload == nil {
		return result
	}

	for _, h := range msg.Payload.Headers {
		result.Headers = append(result.Headers, domain.Header{Name: h.Name, Value: h.Value})
	}
	for _, part := range collectParts(msg.Payload.Parts) {
		p := domain.MessagePart{
			MimeType: part.MimeType,
			Filename: part.Filename,
		}
		if part.Body != nil {
			p.AttachmentID = part.Body.AttachmentId
		}
		result.Parts = append(result.Parts, p)
	}
	return result
}

func collectParts(parts []*gmail.MessagePart) []*gmail.MessagePart {
	var flat []*gmail.MessagePart
	for _, part := range parts {
		flat = append(flat, part)
		if len(part.Parts) > 0 {
			flat = append(flat, collectParts(part.Parts)...)
		}
	}
	return flat
}
