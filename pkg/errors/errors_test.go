package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestConfigError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ConfigError
		want string
	}{
		{
			name: "with field",
			err:  &ConfigError{Field: "ClientID", Message: "is required"},
			want: "config error in field ClientID: is required",
		},
		{
			name: "without field",
			err:  &ConfigError{Message: "config cannot be nil"},
			want: "config error: config cannot be nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAuthError_Error(t *testing.T) {
	underlying := stderrors.New("connection refused")
	err := &AuthError{StatusCode: 401, Body: `{"error": "invalid_grant"}`, Err: underlying}

	msg := err.Error()
	for _, want := range []string{"auth error", "status code 401", "invalid_grant", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	if !stderrors.Is(err, underlying) {
		t.Error("errors.Is failed to find the wrapped error")
	}
}

func TestRequestError_Error(t *testing.T) {
	underlying := stderrors.New("timeout")

	err := &RequestError{Operation: "GetNew", URL: "https://oauth.reddit.com/r/golang/new", Err: underlying}
	want := "request error during GetNew to https://oauth.reddit.com/r/golang/new: timeout"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !stderrors.Is(err, underlying) {
		t.Error("errors.Is failed to find the wrapped error")
	}
}

func TestParseError_Unwrap(t *testing.T) {
	underlying := stderrors.New("unexpected end of JSON input")
	err := &ParseError{Operation: "GetComments", Err: underlying}

	if !strings.Contains(err.Error(), "parse error during GetComments") {
		t.Errorf("Error() = %q", err.Error())
	}
	if !stderrors.Is(err, underlying) {
		t.Error("errors.Is failed to find the wrapped error")
	}
}

func TestAPIError_Error(t *testing.T) {
	err := &APIError{StatusCode: 503, Message: "service unavailable"}
	want := "API request failed with status 503: service unavailable"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestStateError_Error(t *testing.T) {
	err := &StateError{Operation: "StreamPosts", Message: "client not connected"}
	want := "state error during StreamPosts: client not connected"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
