package domain

// Header is a single RFC 2822 message header.
type Header struct {
	Name  string
	Value string
}

// MessagePart is one part of a multipart message body. AttachmentID is
// empty for inline parts.
type MessagePart struct {
	MimeType     string
	Filename     string
	AttachmentID string
}

// MailMessage is a provider-neutral view of a fetched message, flattened
// to the fields the ingestion pipeline reads.
type MailMessage struct {
	ID      string
	Headers []Header
	Parts   []MessagePart
}

// Header returns the value of the first header with the given name.
// Name comparison is exact (case-sensitive).
func (m *MailMessage) Header(name string) (string, bool) {
	for _, h := range m.Headers {
		if h.Name == name {
			return h.Value, true
		}
	}
	return "", false
}
