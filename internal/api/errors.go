package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// ServerError is a non-2xx response from the backend. Message carries the
// server's own error text when the body provides one.
type ServerError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// TransportError indicates the request never produced an HTTP response.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// InvalidResponseError indicates a 2xx response whose body does not match
// the expected shape.
type InvalidResponseError struct {
	Op      string
	Content json.RawMessage
	Err     error
}

func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("%s: invalid response: %v", e.Op, e.Err)
}

func (e *InvalidResponseError) Unwrap() error { return e.Err }

// errorMessage extracts a human readable message from an error body. It
// looks for "message", "error" and "detail" fields, then falls back to the
// raw body, then to the status line.
func errorMessage(statusCode int, body []byte) string {
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		for _, key := range []string{"message", "error", "detail"} {
			if s, ok := fields[key].(string); ok && strings.TrimSpace(s) != "" {
				return s
			}
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		const limit = 300
		if len(text) > limit {
			text = text[:limit] + "..."
		}
		return text
	}
	return fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode))
}
