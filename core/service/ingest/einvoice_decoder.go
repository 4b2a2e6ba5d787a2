package ingest

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/text/encoding/traditionalchinese"

	"einvoice_server/core/domain"
	"einvoice_server/core/port/out"
	"einvoice_server/pkg/apperr"
)

// Attachment parts qualify when their mime type contains one of these.
var csvMimeFragments = []string{"application/octet-stream", "text/csv"}

// filenameFieldIndex / filenameLength: the destination spreadsheet name
// is the first 6 bytes of field 3 of the first CSV row (the invoice
// period token).
const (
	filenameFieldIndex = 3
	filenameLength     = 6
)

// AttachmentDecoder extracts and decodes the Big5 CSV attachment from a
// notification mail.
type AttachmentDecoder struct {
	mail        out.MailProviderPort
	concurrency int
}

func NewAttachmentDecoder(mail out.MailProviderPort, concurrency int) *AttachmentDecoder {
	if concurrency <= 0 {
		concurrency = 5
	}
	return &AttachmentDecoder{mail: mail, concurrency: concurrency}
}

// ExtractCSV fetches every qualifying attachment of msg, decodes the
// first one from Big5 and parses it into rows. Any failure is fatal for
// the invocation.
func (d *AttachmentDecoder) ExtractCSV(ctx context.Context, token *oauth2.Token, msg *domain.MailMessage) (*domain.ParsedCSV, error) {
	ids := attachmentIDs(msg)
	if len(ids) == 0 {
		return nil, apperr.MalformedAttachment("no CSV part in message " + msg.ID)
	}

	payloads, err := d.fetchAll(ctx, token, msg.ID, ids)
	if err != nil {
		return nil, err
	}

	raw, err := decodeBase64URL(payloads[0])
	if err != nil {
		return nil, apperr.DecodeError("base64", err)
	}
	return parseBig5CSV(raw)
}

// attachmentIDs collects attachment IDs of qualifying parts in message
// order.
func attachmentIDs(msg *domain.MailMessage) []string {
	var ids []string
	for _, part := range msg.Parts {
		if part.AttachmentID == "" {
			continue
		}
		for _, fragment := range csvMimeFragments {
			if strings.Contains(part.MimeType, fragment) {
				ids = append(ids, part.AttachmentID)
				break
			}
		}
	}
	return ids
}

// fetchAll downloads attachments with bounded concurrency, preserving
// input order in the result slice.
func (d *AttachmentDecoder) fetchAll(ctx context.Context, token *oauth2.Token, messageID string, ids []string) ([]string, error) {
	type result struct {
		index   int
		payload string
		err     error
	}

	sem := make(chan struct{}, d.concurrency)
	results := make(chan result, len(ids))
	var wg sync.WaitGroup

	for i, id := range ids {
		wg.Add(1)
		go func(index int, attachmentID string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			payload, err := d.mail.GetAttachment(ctx, token, messageID, attachmentID)
			results <- result{index: index, payload: payload, err: err}
		}(i, id)
	}

	wg.Wait()
	close(results)

	payloads := make([]string, len(ids))
	for r := range results {
		if r.err != nil {
			return nil, r.err
		}
		payloads[r.index] = r.payload
	}
	return payloads, nil
}

// decodeBase64URL converts URL-safe base64 to raw bytes, tolerating
// missing padding.
func decodeBase64URL(data string) ([]byte, error) {
	s := strings.ReplaceAll(data, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")
	if pad := len(s) % 4; pad != 0 {
		s += strings.Repeat("=", 4-pad)
	}
	return base64.StdEncoding.DecodeString(s)
}

// parseBig5CSV decodes Big5 bytes to UTF-8 and splits them into rows.
// Lines split on '\n', fields on '|'; a trailing newline yields a final
// blank row which is kept so the written range matches the source file.
func parseBig5CSV(raw []byte) (*domain.ParsedCSV, error) {
	utf8Bytes, err := traditionalchinese.Big5.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, apperr.DecodeError("big5", err)
	}

	lines := strings.Split(string(utf8Bytes), "\n")
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = strings.Split(line, "|")
	}

	if len(rows[0]) <= filenameFieldIndex {
		return nil, apperr.MalformedAttachment("first row has no period field")
	}
	period := rows[0][filenameFieldIndex]
	if len(period) < filenameLength {
		return nil, apperr.MalformedAttachment("period field shorter than 6 bytes")
	}

	return &domain.ParsedCSV{
		Filename: period[:filenameLength],
		Rows:     rows,
	}, nil
}
