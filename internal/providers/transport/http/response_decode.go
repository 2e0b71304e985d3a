package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/crmarques/shopctl/faults"
)

// classifyStatusError maps an unsuccessful status to a fault category and
// summarises the Shopify error body into the message.
func classifyStatusError(statusCode int, body []byte) error {
	message := fmt.Sprintf("admin api request failed with status %d: %s", statusCode, summarizeBody(body))

	var category faults.ErrorCategory
	switch {
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		category = faults.AuthError
	case statusCode == http.StatusNotFound:
		category = faults.NotFoundError
	case statusCode == http.StatusConflict, statusCode == http.StatusLocked:
		category = faults.ConflictError
	case statusCode == http.StatusTooManyRequests:
		category = faults.TransportError
	case statusCode >= 400 && statusCode < 500:
		category = faults.ValidationError
	default:
		category = faults.TransportError
	}
	return faults.NewStatusError(category, statusCode, message)
}

// summarizeBody renders {"errors": ...} bodies as "field: message; ..." and
// falls back to the truncated raw body.
func summarizeBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return "<empty>"
	}

	var envelope struct {
		Errors any `json:"errors"`
		Error  any `json:"error"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err == nil {
		if summary := summarizeErrors(envelope.Errors); summary != "" {
			return summary
		}
		if summary := summarizeErrors(envelope.Error); summary != "" {
			return summary
		}
	}

	if len(trimmed) > 512 {
		return trimmed[:512] + "..."
	}
	return trimmed
}

func summarizeErrors(value any) string {
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case []any:
		parts := make([]string, 0, len(typed))
		for _, item := range typed {
			if part := summarizeErrors(item); part != "" {
				parts = append(parts, part)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		if message, ok := typed["message"].(string); ok {
			return message
		}
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, key := range keys {
			if detail := summarizeErrors(typed[key]); detail != "" {
				parts = append(parts, key+": "+detail)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return ""
	}
}
