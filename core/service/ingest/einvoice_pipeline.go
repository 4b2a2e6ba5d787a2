package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"

	"einvoice_server/adapter/out/persistence"
	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
	"einvoice_server/pkg/logger"
)

// CredentialSource yields a usable OAuth token for an account, refreshing
// it when needed. Implemented by auth.OAuthService.
type CredentialSource interface {
	GetValidToken(ctx context.Context, email string) (*oauth2.Token, error)
}

// Pipeline runs one notification event end to end: credential bind,
// newest-message fetch, subject validation, CSV extraction, destination
// resolution, sheet write. Stateless across events; safe for concurrent
// invocations on different addresses.
type Pipeline struct {
	creds     CredentialSource
	mail      out.MailProviderPort
	bindings  out.BindingRepositoryPort
	sheets    out.SheetProviderPort
	validator *SubjectValidator
	decoder   *AttachmentDecoder
	resolver  *DestinationResolver
	timeout   time.Duration
}

func NewPipeline(
	creds CredentialSource,
	mail out.MailProviderPort,
	bindings out.BindingRepositoryPort,
	sheets out.SheetProviderPort,
	validator *SubjectValidator,
	decoder *AttachmentDecoder,
	resolver *DestinationResolver,
	timeout time.Duration,
) *Pipeline {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Pipeline{
		creds:     creds,
		mail:      mail,
		bindings:  bindings,
		sheets:    sheets,
		validator: validator,
		decoder:   decoder,
		resolver:  resolver,
		timeout:   timeout,
	}
}

// rangeForRows builds the write range for n rows; the summary CSV has 10
// columns.
func rangeForRows(n int) string {
	return fmt.Sprintf("A1:J%d", n)
}

// Run processes one notification event. A skip (non-matching subject,
// empty mailbox) returns nil; UnknownUser is returned for the caller to
// treat as recoverable; everything else aborts without partial writes.
func (p *Pipeline) Run(ctx context.Context, event *domain.NotificationEvent) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	log := logger.WithField("email", event.EmailAddress)

	token, err := p.creds.GetValidToken(ctx, event.EmailAddress)
	if err != nil {
		return err
	}

	ids, err := p.mail.ListMessageIDs(ctx, token)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		log.Info("[Pipeline.Run] mailbox has no messages, nothing to do")
		return nil
	}

	msg, err := p.mail.GetMessage(ctx, token, ids[0])
	if err != nil {
		return err
	}

	if !p.validator.Matches(msg) {
		log.Debug("[Pipeline.Run] message %s is not an e-invoice notification, skipping", msg.ID)
		return nil
	}

	parsed, err := p.decoder.ExtractCSV(ctx, token, msg)
	if err != nil {
		return err
	}

	binding, err := p.bindings.Get(ctx, event.EmailAddress)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return apperr.UnknownUser(event.EmailAddress)
		}
		return apperr.DatabaseError("get folder binding", err)
	}

	spreadsheetID, err := p.resolver.ResolveSpreadsheet(ctx, token, binding.FolderID, parsed.Filename)
	if err != nil {
		return err
	}

	if err := p.sheets.UpdateValues(ctx, token, spreadsheetID, rangeForRows(len(parsed.Rows)), parsed.Rows); err != nil {
		return err
	}

	// Column autosize is cosmetic; a failure must not fail the ingestion.
	if err := p.sheets.AutoResizeColumns(ctx, token, spreadsheetID, 0, 0, 10); err != nil {
		log.Warn("[Pipeline.Run] column autosize failed for %s: %v", spreadsheetID, err)
	}

	log.Info("[Pipeline.Run] wrote %d rows to spreadsheet %q (%s)", len(parsed.Rows), parsed.Filename, spreadsheetID)
	return nil
}
