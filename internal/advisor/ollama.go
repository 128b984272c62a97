// Package advisor provides tie-break advisors for automated picks.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// OllamaConfig configures the Ollama advisor
type OllamaConfig struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name to use.
	Model string

	// RequestTimeout caps a single HTTP request.
	RequestTimeout time.Duration

	// RateLimit is the minimum spacing between requests.
	RateLimit time.Duration
}

// DefaultOllamaConfig returns local defaults
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL:        "http://localhost:11434",
		Model:          "llama3.2",
		RequestTimeout: 30 * time.Second,
		RateLimit:      time.Second,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

const systemPrompt = `You are a fantasy football draft assistant. You will be given a team's roster and up to three candidates.
Reply with the full name of exactly one candidate and nothing else.`

// OllamaAdvisor asks a local Ollama model to break ties between the top recommendations
type OllamaAdvisor struct {
	config     *OllamaConfig
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewOllamaAdvisor creates an advisor. A nil config uses the defaults.
func NewOllamaAdvisor(config *OllamaConfig) *OllamaAdvisor {
	if config == nil {
		config = DefaultOllamaConfig()
	}
	limit := rate.Inf
	if config.RateLimit > 0 {
		limit = rate.Every(config.RateLimit)
	}
	return &OllamaAdvisor{
		config:     config,
		httpClient: &http.Client{Timeout: config.RequestTimeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Choose asks the model for one of the offered candidate names
func (a *OllamaAdvisor) Choose(ctx context.Context, req engine.TieBreakRequest) (string, error) {
	if len(req.Options) == 0 {
		return "", engine.ErrNoAdvice
	}
	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	body, err := json.Marshal(&chatRequest{
		Model: a.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildPrompt(req)},
		},
		Options: &chatOptions{Temperature: 0},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("chat failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	name := matchOption(out.Message.Content, req)
	if name == "" {
		logger.Debug("Advisor reply matched no option", "reply", out.Message.Content)
		return "", engine.ErrNoAdvice
	}
	return name, nil
}

func buildPrompt(req engine.TieBreakRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Team %s is on the clock at overall pick %d.\n", req.TeamName, req.CurrentPick)
	if len(req.Roster) > 0 {
		b.WriteString("Roster:\n")
		for _, c := range req.Roster {
			fmt.Fprintf(&b, "- %s (%s, %s)\n", c.Name, c.Position, c.Team)
		}
	}
	b.WriteString("Candidates:\n")
	for i, rec := range req.Options {
		c := rec.Candidate
		fmt.Fprintf(&b, "%d. %s (%s, %s) ADP %.1f: %s\n", i+1, c.Name, c.Position, c.Team, c.EffectiveADP(), rec.Reasoning)
	}
	return b.String()
}

// matchOption finds the offered candidate the reply names. Models often wrap the
// name in extra words, so a contained name counts as a match. The longest contained
// name wins so "Mike Williams Jr." is not read as "Mike Williams".
func matchOption(reply string, req engine.TieBreakRequest) string {
	reply = strings.ToLower(strings.TrimSpace(reply))
	if reply == "" {
		return ""
	}
	for _, rec := range req.Options {
		if strings.EqualFold(reply, rec.Candidate.Name) {
			return rec.Candidate.Name
		}
	}
	best := ""
	for _, rec := range req.Options {
		name := strings.ToLower(rec.Candidate.Name)
		if name != "" && strings.Contains(reply, name) && len(rec.Candidate.Name) > len(best) {
			best = rec.Candidate.Name
		}
	}
	return best
}
