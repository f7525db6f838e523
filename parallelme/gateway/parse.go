package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/parallelme/parallelme/parallelme/apperror"
	"github.com/parallelme/parallelme/parallelme/progression"
	"google.golang.org/genai"
)

// stripFences removes a markdown code fence around a JSON answer.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimPrefix(text, "json")
	if i := strings.LastIndex(text, "```"); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}

// parseDrafts decodes a quest batch answer. It accepts either a bare array
// or an object wrapping the array under "quests".
func parseDrafts(text string) ([]progression.Draft, error) {
	body := stripFences(text)

	var drafts []progression.Draft
	if err := json.Unmarshal([]byte(body), &drafts); err == nil {
		return drafts, nil
	}

	var wrapped struct {
		Quests []progression.Draft `json:"quests"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err != nil || wrapped.Quests == nil {
		return nil, apperror.Wrap(apperror.KindUpstream, "AI service returned malformed quests", err)
	}
	return wrapped.Quests, nil
}

// statusCode extracts the HTTP status of an upstream error, or 0.
func statusCode(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code
	}
	return 0
}

// classify maps an upstream failure onto the error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperror.Wrap(apperror.KindUnavailable, "AI service timed out. Please try again later.", err)
	}

	code := statusCode(err)
	switch {
	case code == http.StatusTooManyRequests:
		return apperror.Wrap(apperror.KindRateLimited, "API rate limit exceeded. Please try again later.", err)
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return apperror.Wrap(apperror.KindUpstreamAuth, "Authentication error with the AI service.", err)
	case code >= http.StatusInternalServerError:
		return apperror.Wrap(apperror.KindUnavailable, "AI service is currently unavailable. Please try again later.", err)
	default:
		return apperror.Wrap(apperror.KindUpstream, "AI service request failed.", err)
	}
}
