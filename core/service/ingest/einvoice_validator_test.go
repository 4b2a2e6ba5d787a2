package ingest

import (
	"testing"

	"einvoice_server/core/domain"
)

func msgWithHeaders(headers ...domain.Header) *domain.MailMessage {
	return &domain.MailMessage{ID: "m1", Headers: headers}
}

func TestSubjectValidatorMatches(t *testing.T) {
	v := NewSubjectValidator("")

	tests := []struct {
		name string
		msg  *domain.MailMessage
		want bool
	}{
		{
			name: "exact marker",
			msg:  msgWithHeaders(domain.Header{Name: "Subject", Value: DefaultSubjectMarker}),
			want: true,
		},
		{
			name: "marker embedded in longer subject",
			msg:  msgWithHeaders(domain.Header{Name: "Subject", Value: "[通知] " + DefaultSubjectMarker + " /ABC123"}),
			want: true,
		},
		{
			name: "ordinary mail",
			msg:  msgWithHeaders(domain.Header{Name: "Subject", Value: "普通信件"}),
			want: false,
		},
		{
			name: "marker without zero width space",
			msg:  msgWithHeaders(domain.Header{Name: "Subject", Value: "財政部電子發票整合服務平台-消費發票彙整通知，手機條碼"}),
			want: false,
		},
		{
			name: "marker in lowercase subject header name",
			msg:  msgWithHeaders(domain.Header{Name: "subject", Value: DefaultSubjectMarker}),
			want: false,
		},
		{
			name: "no headers",
			msg:  msgWithHeaders(),
			want: false,
		},
		{
			name: "nil message",
			msg:  nil,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := v.Matches(tt.msg); got != tt.want {
				t.Errorf("Matches() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSubjectValidatorIsDeterministic(t *testing.T) {
	v := NewSubjectValidator("")
	msg := msgWithHeaders(domain.Header{Name: "Subject", Value: DefaultSubjectMarker})
	for i := 0; i < 3; i++ {
		if !v.Matches(msg) {
			t.Fatalf("match changed on call %d", i+1)
		}
	}
	if len(msg.Headers) != 1 {
		t.Fatal("Matches must not mutate the message")
	}
}

func TestSubjectValidatorCustomMarker(t *testing.T) {
	v := NewSubjectValidator("TEST-MARKER")
	if !v.Matches(msgWithHeaders(domain.Header{Name: "Subject", Value: "xx TEST-MARKER yy"})) {
		t.Error("custom marker should match")
	}
	if v.Matches(msgWithHeaders(domain.Header{Name: "Subject", Value: DefaultSubjectMarker})) {
		t.Error("default marker should not match a custom validator")
	}
}
