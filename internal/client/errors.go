package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// APIError is a non-2xx response with whatever error payload the
// server provided.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
}

// IsNotFound reports whether err is a 404 response. Delete and remove
// paths treat it as a benign no-op for already-removed entities.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsAuthFailure reports whether err is a 401 or 403 response.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) &&
		(apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden)
}

// decodeAPIError extracts a human-readable message from an error
// response. The backend answers either {"error": "..."} for explicit
// failures, {"detail": "..."} for permission/lookup failures, or a
// field->messages map for validation failures.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil || len(body) == 0 {
		return apiErr
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return apiErr
	}
	for _, key := range []string{"error", "detail"} {
		var msg string
		if raw, ok := payload[key]; ok && json.Unmarshal(raw, &msg) == nil && msg != "" {
			apiErr.Message = msg
			return apiErr
		}
	}

	// Validation payload: {"field": ["msg", ...], ...}. Keys are
	// sorted so the message is stable.
	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var parts []string
	for _, k := range keys {
		var msgs []string
		if json.Unmarshal(payload[k], &msgs) == nil && len(msgs) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(msgs, "; ")))
		}
	}
	if len(parts) > 0 {
		apiErr.Message = strings.Join(parts, "; ")
	}
	return apiErr
}
