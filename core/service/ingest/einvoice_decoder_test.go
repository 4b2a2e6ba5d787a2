package ingest

import (
	"context"
	"testing"

	"einvoice_server/core/domain"
	"einvoice_server/pkg/apperr"
)

func TestDecodeBase64URL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "aGVsbG8=", "hello"},
		{"unpadded", "aGVsbG8", "hello"},
		{"url safe chars", "P_9-AA", "?\xff\x7e\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBase64URL(tt.input)
			if err != nil {
				t.Fatalf("decodeBase64URL(%q): %v", tt.input, err)
			}
			if string(got) != tt.want {
				t.Errorf("decodeBase64URL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}

	if _, err := decodeBase64URL("!!!"); err == nil {
		t.Error("invalid input should error")
	}
}

func TestParseBig5CSV(t *testing.T) {
	attachment := func(csv string) []byte {
		raw, err := big5Bytes(csv)
		if err != nil {
			t.Fatalf("encode fixture: %v", err)
		}
		return raw
	}

	t.Run("happy path with chinese text", func(t *testing.T) {
		raw := attachment("載具名稱|手機條碼|AB12345678|20240131|店家|100\n載具名稱|手機條碼|CD87654321|20240215|超商|250\n")
		parsed, err := parseBig5CSV(raw)
		if err != nil {
			t.Fatalf("parseBig5CSV: %v", err)
		}
		if parsed.Filename != "202401" {
			t.Errorf("Filename = %q, want 202401", parsed.Filename)
		}
		if len(parsed.Rows) != 3 {
			t.Fatalf("rows = %d, want 3 (2 data + trailing blank)", len(parsed.Rows))
		}
		if parsed.Rows[0][4] != "店家" {
			t.Errorf("row 0 field 4 = %q, want 店家", parsed.Rows[0][4])
		}
		if parsed.Rows[1][3] != "20240215" {
			t.Errorf("row 1 field 3 = %q, want 20240215", parsed.Rows[1][3])
		}
	})

	t.Run("no trailing newline keeps last data row last", func(t *testing.T) {
		raw := attachment("A|B|C|202401")
		parsed, err := parseBig5CSV(raw)
		if err != nil {
			t.Fatalf("parseBig5CSV: %v", err)
		}
		if len(parsed.Rows) != 1 {
			t.Fatalf("rows = %d, want 1", len(parsed.Rows))
		}
	})

	t.Run("missing period field", func(t *testing.T) {
		raw := attachment("A|B|C\n")
		_, err := parseBig5CSV(raw)
		if !apperr.HasCode(err, apperr.CodeMalformedAttachment) {
			t.Fatalf("expected MALFORMED_ATTACHMENT, got %v", err)
		}
	})

	t.Run("short period field", func(t *testing.T) {
		raw := attachment("A|B|C|2024\n")
		_, err := parseBig5CSV(raw)
		if !apperr.HasCode(err, apperr.CodeMalformedAttachment) {
			t.Fatalf("expected MALFORMED_ATTACHMENT, got %v", err)
		}
	})
}

func TestExtractCSVNoQualifyingPart(t *testing.T) {
	mail := &fakeMail{}
	decoder := NewAttachmentDecoder(mail, 5)

	msg := &domain.MailMessage{
		ID: "m1",
		Parts: []domain.MessagePart{
			{MimeType: "text/html"},
			{MimeType: "image/png", AttachmentID: "att-img"},
		},
	}

	_, err := decoder.ExtractCSV(context.Background(), testToken, msg)
	if !apperr.HasCode(err, apperr.CodeMalformedAttachment) {
		t.Fatalf("expected MALFORMED_ATTACHMENT, got %v", err)
	}
	if mail.attachmentCalls != 0 {
		t.Fatalf("no fetches expected, got %d", mail.attachmentCalls)
	}
}

func TestExtractCSVBadBase64(t *testing.T) {
	mail := &fakeMail{
		attachments: map[string]string{"att-1": "%%%not-base64%%%"},
	}
	decoder := NewAttachmentDecoder(mail, 5)

	msg := &domain.MailMessage{
		ID: "m1",
		Parts: []domain.MessagePart{
			{MimeType: "text/csv", AttachmentID: "att-1"},
		},
	}

	_, err := decoder.ExtractCSV(context.Background(), testToken, msg)
	if !apperr.HasCode(err, apperr.CodeDecodeError) {
		t.Fatalf("expected DECODE_ERROR, got %v", err)
	}
}

func TestExtractCSVFirstAttachmentWins(t *testing.T) {
	first, err := big5Bytes("A|B|C|202401\n")
	if err != nil {
		t.Fatal(err)
	}
	second, err := big5Bytes("X|Y|Z|209912\n")
	if err != nil {
		t.Fatal(err)
	}
	mail := &fakeMail{
		attachments: map[string]string{
			"att-1": rawURLBase64(first),
			"att-2": rawURLBase64(second),
		},
	}
	decoder := NewAttachmentDecoder(mail, 2)

	msg := &domain.MailMessage{
		ID: "m1",
		Parts: []domain.MessagePart{
			{MimeType: "application/octet-stream", AttachmentID: "att-1"},
			{MimeType: "text/csv", AttachmentID: "att-2"},
		},
	}

	parsed, err := decoder.ExtractCSV(context.Background(), testToken, msg)
	if err != nil {
		t.Fatalf("ExtractCSV: %v", err)
	}
	if parsed.Filename != "202401" {
		t.Errorf("Filename = %q, want the first attachment's 202401", parsed.Filename)
	}
	if mail.attachmentCalls != 2 {
		t.Errorf("attachment fetches = %d, want 2", mail.attachmentCalls)
	}
}

func TestAttachmentIDsFiltering(t *testing.T) {
	msg := &domain.MailMessage{
		Parts: []domain.MessagePart{
			{MimeType: "multipart/mixed"},
			{MimeType: "text/html", AttachmentID: ""},
			{MimeType: "application/octet-stream; name=a.csv", AttachmentID: "a"},
			{MimeType: "text/csv; charset=big5", AttachmentID: "b"},
			{MimeType: "application/pdf", AttachmentID: "c"},
		},
	}
	ids := attachmentIDs(msg)
	if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
		t.Errorf("attachmentIDs = %v, want [a b]", ids)
	}
}
