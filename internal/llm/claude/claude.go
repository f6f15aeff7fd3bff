package claude

import (
	"context"
	"errors"
	"strings"

	"trading-journal/internal/api"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

const (
	// DefaultEndpoint is the public Anthropic messages API. Proxies are set
	// through llm.endpoint.
	DefaultEndpoint  = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
)

type ClaudeGenerator struct {
	cfg      *store.Config
	endpoint string
	client   *api.Client
}

func NewClaudeGenerator(cfg *store.Config, opts ...api.ClientOption) *ClaudeGenerator {
	endpoint := DefaultEndpoint
	if cfg.LLM.Endpoint != "" {
		endpoint = cfg.LLM.Endpoint
	}
	opts = append([]api.ClientOption{
		api.WithTimeout(cfg.LLMTimeout()),
		api.WithHeader("anthropic-version", anthropicVersion),
		api.WithLogging(true),
	}, opts...)
	return &ClaudeGenerator{cfg: cfg, endpoint: endpoint, client: api.NewClient(opts...)}
}

func (g *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-api-call")
	defer span.End()

	apiKey := g.cfg.LLM.ClaudeAPIKey
	if apiKey == "" {
		return "", &types.UpstreamError{Kind: types.InvalidCredentials, Err: errors.New("CLAUDE_API_KEY missing")}
	}

	body := map[string]any{
		"model":       g.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"max_tokens":  g.cfg.LLM.MaxTokens,
		"temperature": g.cfg.LLM.Temperature,
	}

	resp, err := g.client.POST(ctx, g.endpoint, body, map[string]string{"x-api-key": apiKey})
	if err != nil {
		return "", err
	}

	var r struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, c := range r.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	return sb.String(), nil
}
