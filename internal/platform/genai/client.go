// Package genai calls a free-text generation endpoint (pollinations.ai) to
// augment rule-based clinical recommendations. The model reply is free-form
// text, so the client normalizes it into short, deduplicated lines and drops
// refusal boilerplate before handing it back.
package genai

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const maxRecommendations = 4

var (
	listNumberRe = regexp.MustCompile(`^\d+[.)]\s*`)
	sentenceRe   = regexp.MustCompile(`[.;]\s+`)
)

type Client struct {
	http   *resty.Client
	logger zerolog.Logger
}

func NewClient(baseURL, userAgent string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("User-Agent", userAgent),
		logger: logger,
	}
}

// Recommendations sends the prompt and returns up to four cleaned lines.
func (c *Client) Recommendations(ctx context.Context, prompt string) ([]string, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/" + url.PathEscape(prompt))
	if err != nil {
		return nil, fmt.Errorf("text generation: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("text generation: status %d", resp.StatusCode())
	}

	recs := CleanResponse(string(resp.Body()))
	c.logger.Debug().Int("recommendations", len(recs)).Msg("ai recommendations fetched")
	return recs, nil
}

// CleanResponse normalizes raw model output into short recommendation lines:
// strips bullets and list numbering, drops refusal phrases and fragments
// under 8 characters, deduplicates case-insensitively, and caps at four.
func CleanResponse(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Trim(line, " -*\t\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) <= 1 {
		lines = lines[:0]
		for _, segment := range sentenceRe.Split(text, -1) {
			segment = strings.TrimSpace(segment)
			if segment != "" {
				lines = append(lines, segment)
			}
		}
	}

	cleaned := make([]string, 0, maxRecommendations)
	seen := make(map[string]bool)
	for _, line := range lines {
		normalized := listNumberRe.ReplaceAllString(strings.Join(strings.Fields(line), " "), "")
		if len(normalized) < 8 {
			continue
		}
		if isRefusal(normalized) {
			continue
		}
		normalized = strings.TrimSuffix(normalized, ".")
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, normalized)
		if len(cleaned) == maxRecommendations {
			break
		}
	}
	return cleaned
}

func isRefusal(line string) bool {
	lowered := strings.ToLower(line)
	if strings.Contains(lowered, "sorry") && strings.Contains(lowered, "help") {
		return true
	}
	for _, phrase := range []string{"cannot help", "can't help", "cant help", "help with that", "as an ai"} {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}
