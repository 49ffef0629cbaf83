package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jobpilot-dev/jobpilot/internal/services"
)

// upstreamFailure maps a collaborator call error onto a client-facing status:
// a non-success upstream response becomes 502, an unreachable or timed-out
// upstream becomes 503.
func upstreamFailure(err error, service string) (int, string) {
	var upstream *services.UpstreamError

	if errors.As(err, &upstream) {
		message := "Error from " + service
		if upstream.Message != "" {
			message += ": " + upstream.Message
		}
		return http.StatusBadGateway, message
	}

	return http.StatusServiceUnavailable, service + " is unavailable. Please try again later."
}

// relayedBody passes a collaborator response through as JSON when it parses,
// falling back to the raw text.
func relayedBody(body []byte) interface{} {
	var parsed interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return string(body)
	}
	return parsed
}
