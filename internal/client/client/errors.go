package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/meetscribe/internal/common"
)

var (
	// ErrUnavailable means the backend could not be reached.
	ErrUnavailable = errors.New("server unavailable")
	// ErrServer means the backend answered with a 5xx, an unexpected status
	// or a body that could not be decoded.
	ErrServer = errors.New("server error")
)

// APIError is a rejected backend call. Message is the human-readable text
// from the response payload ("" when none could be parsed); Err is the
// sentinel the status maps to.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Err.Error() + ": " + e.Message
	}
	return e.Err.Error()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// ServerMessage returns the backend's message carried by err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// statusError maps an HTTP status to a sentinel. unauthorized is used for
// 401 so login can report invalid credentials while token calls report an
// expired session.
func statusError(status int, unauthorized error) error {
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return common.ErrValidation
	case status == http.StatusUnauthorized:
		return unauthorized
	case status == http.StatusForbidden:
		return common.ErrUnauthorized
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status == http.StatusConflict:
		return common.ErrConflict
	case status == http.StatusTooManyRequests:
		return common.ErrQuotaExceeded
	default:
		return ErrServer
	}
}

// parseErrorMessage extracts a message from the error payload shapes the
// backend uses: {"detail": "..."}, {"detail": [{"msg": "..."}]},
// {"error": "..."} or {"message": "..."}.
func parseErrorMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	for _, key := range []string{"detail", "error", "message"} {
		raw, ok := payload[key]
		if !ok {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(raw, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, it := range items {
				if it.Msg != "" {
					msgs = append(msgs, it.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}

		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return ""
}
