package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized matches any 401 response.
	ErrUnauthorized = errors.New("apiclient: unauthorized")
	// ErrUnreachable matches failures where no response was received.
	ErrUnreachable = errors.New("apiclient: backend unreachable")
)

// Error is a non-2xx response from the backend. Message carries the server's "message" field
// when present; Fields holds every string-valued field of the body.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("apiclient: backend error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("apiclient: backend error (%d): %s", e.Status, http.StatusText(e.Status))
}

// Unwrap exposes ErrUnauthorized for 401 responses.
func (e *Error) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Field returns the named string field of the error body.
func (e *Error) Field(key string) string {
	if e == nil || e.Fields == nil {
		return ""
	}
	return strings.TrimSpace(e.Fields[key])
}

// IsUnauthorized reports whether err stems from a 401 response.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// MessageOr returns the server-provided message of err, or fallback when there is none.
func MessageOr(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Message) != "" {
		return apiErr.Message
	}
	return fallback
}

// FieldOr returns the first non-empty field among keys, or fallback.
func FieldOr(err error, fallback string, keys ...string) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return fallback
	}
	for _, key := range keys {
		if v := apiErr.Field(key); v != "" {
			return v
		}
	}
	return fallback
}

func errorFromResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	apiErr := &Error{Status: resp.StatusCode}
	if len(body) == 0 {
		return apiErr
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	fields := make(map[string]string, len(payload))
	for key, value := range payload {
		if s, ok := value.(string); ok {
			fields[key] = s
		}
	}
	apiErr.Fields = fields
	apiErr.Message = strings.TrimSpace(fields["message"])
	return apiErr
}
