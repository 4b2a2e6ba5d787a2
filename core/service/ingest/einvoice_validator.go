// Package ingest implements the e-invoice ingestion pipeline: subject
// validation, Big5 CSV attachment decoding, Drive destination resolution
// and the spreadsheet write.
package ingest

import (
	"strings"

	"einvoice_server/core/domain"
)

// DefaultSubjectMarker is the Subject substring of the Ministry of
// Finance e-invoice summary notification. The platform's subject line
// contains a zero-width space between 服 and 務; the marker keeps those
// exact bytes.
const DefaultSubjectMarker = "財政部電子發票整合服​務平台-消費發票彙整通知，手機條碼"

// SubjectValidator decides whether a message is an e-invoice summary
// notification worth ingesting.
type SubjectValidator struct {
	marker string
}

func NewSubjectValidator(marker string) *SubjectValidator {
	if marker == "" {
		marker = DefaultSubjectMarker
	}
	return &SubjectValidator{marker: marker}
}

// Matches reports whether the message's Subject header contains the
// marker. Header name matching is exact ("Subject"); a message without
// headers never matches. A mismatch is a skip, not an error.
func (v *SubjectValidator) Matches(msg *domain.MailMessage) bool {
	if msg == nil {
		return false
	}
	subject, ok := msg.Header("Subject")
	if !ok {
		return false
	}
	return strings.Contains(subject, v.marker)
}
