package http

import (
	"encoding/base64"
	"testing"
)

func pushBody(inner string) []byte {
	encoded := base64.StdEncoding.EncodeToString([]byte(inner))
	return []byte(`{"message":{"data":"` + encoded + `","messageId":"123"},"subscription":"projects/p/subscriptions/s"}`)
}

func TestDecodePushMessage(t *testing.T) {
	event, err := decodePushMessage(pushBody(`{"emailAddress":"user@example.com","historyId":9876}`))
	if err != nil {
		t.Fatalf("decodePushMessage: %v", err)
	}
	if event.EmailAddress != "user@example.com" {
		t.Errorf("EmailAddress = %q", event.EmailAddress)
	}
	if event.HistoryID != 9876 {
		t.Errorf("HistoryID = %d, want 9876", event.HistoryID)
	}
}

func TestDecodePushMessageErrors(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"invalid envelope json", []byte(`{`)},
		{"data not base64", []byte(`{"message":{"data":"***"}}`)},
		{"inner not json", pushBody(`not json`)},
		{"missing email", pushBody(`{"historyId":1}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodePushMessage(tt.body); err == nil {
				t.Error("expected error")
			}
		})
	}
}
