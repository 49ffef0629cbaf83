package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobpilot-dev/jobpilot/internal/types"
)

// The workflow collaborator is an opaque HTTP service. Calls are bounded by a
// hard timeout so a hung upstream cannot hold a request open indefinitely.
const webhookTimeout = 30 * time.Second

var webhookClient = &http.Client{Timeout: webhookTimeout}

// UpstreamError reports a non-success response from the collaborator.
// Unreachable transports are returned as plain errors instead.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Message)
}

type GenerationPayload struct {
	Profile        types.ProfileSections `json:"profile"`
	JobDescription string                `json:"jobDescription"`
	JobPosition    string                `json:"jobPosition,omitempty"`
	Company        string                `json:"company,omitempty"`
}

type HRInterviewPayload struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Step      int    `json:"step"`
}

// CallWebhook posts a JSON payload to the collaborator and returns the raw
// response body. The response shape is not guaranteed; callers run it
// through a parser chain.
func CallWebhook(webhookURL string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	resp, err := webhookClient.Post(webhookURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to reach webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    upstreamMessage(respBody),
		}
	}

	return respBody, nil
}

// GenerateDocument asks the collaborator for generated document text.
// An unrecognized response shape yields an empty string, never an error.
func GenerateDocument(webhookURL string, payload GenerationPayload) (string, error) {
	body, err := CallWebhook(webhookURL, payload)
	if err != nil {
		return "", err
	}

	return ExtractText(body), nil
}

// ExtractText runs the response through an ordered chain of shape parsers
// and returns the first match. No match yields "".
func ExtractText(raw []byte) string {
	parsers := []func([]byte) (string, bool){
		parseJSONString,
		parseOutputObject,
		parseOutputArray,
		parseNestedJSONString,
		parseRawText,
	}

	for _, parse := range parsers {
		if text, ok := parse(raw); ok {
			return text
		}
	}

	return ""
}

// Shape: "..." (a bare JSON string).
func parseJSONString(raw []byte) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return strings.TrimSpace(s), true
}

// Shape: {"output": "..."} or {"latex": "..."} or {"text": "..."}.
func parseOutputObject(raw []byte) (string, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}

	for _, key := range []string{"output", "latex", "text"} {
		if inner, exists := obj[key]; exists {
			var s string
			if err := json.Unmarshal(inner, &s); err == nil {
				return strings.TrimSpace(s), true
			}
		}
	}

	return "", false
}

// Shape: [{"output": "..."}] or ["..."].
func parseOutputArray(raw []byte) (string, bool) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err != nil || len(arr) == 0 {
		return "", false
	}

	if text, ok := parseOutputObject(arr[0]); ok {
		return text, true
	}

	return parseJSONString(arr[0])
}

// Shape: {"output": "{\"latex\": ...}"} - JSON serialized inside a string.
func parseNestedJSONString(raw []byte) (string, bool) {
	var obj map[string]string
	if err := json.Unmarshal(raw, &obj); err != nil {
		return "", false
	}

	for _, inner := range obj {
		if text, ok := parseOutputObject([]byte(inner)); ok && text != "" {
			return text, true
		}
	}

	return "", false
}

// Fallback: a non-JSON body is taken as the document itself.
func parseRawText(raw []byte) (string, bool) {
	if json.Valid(raw) {
		return "", false
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		return "", false
	}

	return text, true
}

func upstreamMessage(body []byte) string {
	var obj struct {
		Message string `json:"message"`
	}

	if err := json.Unmarshal(body, &obj); err == nil && obj.Message != "" {
		return obj.Message
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200]
	}

	return msg
}
