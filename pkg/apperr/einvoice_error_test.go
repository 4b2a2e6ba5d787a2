package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestUnknownUserRoundTrip(t *testing.T) {
	err := UnknownUser("user@example.com")
	if !IsUnknownUser(err) {
		t.Error("IsUnknownUser should be true")
	}
	wrapped := fmt.Errorf("pipeline: %w", err)
	if !IsUnknownUser(wrapped) {
		t.Error("IsUnknownUser should see through wrapping")
	}
	if IsUnknownUser(errors.New("other")) {
		t.Error("plain errors are not UnknownUser")
	}
}

func TestHasCode(t *testing.T) {
	err := DecodeError("big5", errors.New("boom"))
	if !HasCode(err, CodeDecodeError) {
		t.Error("HasCode(DECODE_ERROR) should be true")
	}
	if HasCode(err, CodeMalformedAttachment) {
		t.Error("wrong code should not match")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{UnknownUser("a@b"), http.StatusUnauthorized},
		{MalformedAttachment("no part"), http.StatusUnprocessableEntity},
		{RemoteService("drive", errors.New("x")), http.StatusBadGateway},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := GetHTTPStatus(tt.err); got != tt.want {
			t.Errorf("GetHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := RemoteService("gmail", cause)
	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the cause")
	}
}
