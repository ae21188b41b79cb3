// Package errors defines the typed errors surfaced by the streaming client.
package errors

import "fmt"

// ConfigError indicates a problem with the client configuration.
type ConfigError struct {
	// Field names the configuration field that caused the error, if known.
	Field string
	// Message describes what is wrong with it.
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

// AuthError indicates a failure while obtaining or refreshing a token.
type AuthError struct {
	// StatusCode is the HTTP status of the token response, if one arrived.
	StatusCode int
	// Body is the raw token response body, which may hold more detail.
	Body string
	// Err is the underlying error, e.g. a network or decoding failure.
	Err error
}

func (e *AuthError) Error() string {
	msg := "auth error"
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(": status code %d", e.StatusCode)
	}
	if e.Body != "" {
		msg += fmt.Sprintf(", body: %q", e.Body)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(", err: %v", e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// StateError indicates an operation was attempted before the client was
// ready for it.
type StateError struct {
	// Operation names what was attempted.
	Operation string
	// Message describes why it could not proceed.
	Message string
}

func (e *StateError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("state error during %s: %s", e.Operation, e.Message)
	}
	return fmt.Sprintf("state error: %s", e.Message)
}

// RequestError indicates a request could not be built or executed.
type RequestError struct {
	// Operation names the API operation that failed.
	Operation string
	// URL is the address that was being accessed, if known.
	URL string
	// Err is the underlying error.
	Err error
}

func (e *RequestError) Error() string {
	if e.Operation != "" && e.URL != "" {
		return fmt.Sprintf("request error during %s to %s: %v", e.Operation, e.URL, e.Err)
	}
	if e.Operation != "" {
		return fmt.Sprintf("request error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("request error: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ParseError indicates a response arrived but could not be decoded.
type ParseError struct {
	// Operation names the API operation whose response failed to parse.
	Operation string
	// Err is the underlying decoding error.
	Err error
}

func (e *ParseError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("parse error during %s: %v", e.Operation, e.Err)
	}
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// APIError is a non-2xx response from the Reddit API.
type APIError struct {
	// StatusCode is the HTTP status code of the response.
	StatusCode int
	// Message is any error message extracted from the body.
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message)
}
