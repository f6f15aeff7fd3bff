package openai

import (
	"context"
	"errors"
	"strings"

	"trading-journal/internal/api"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

const DefaultBaseURL = "https://api.openai.com/v1"

type OpenAIGenerator struct {
	cfg    *store.Config
	client *api.Client
}

func NewOpenAIGenerator(cfg *store.Config, opts ...api.ClientOption) *OpenAIGenerator {
	base := DefaultBaseURL
	if cfg.LLM.Endpoint != "" {
		base = strings.TrimRight(cfg.LLM.Endpoint, "/")
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(base),
		api.WithTimeout(cfg.LLMTimeout()),
		api.WithLogging(true),
	}, opts...)
	return &OpenAIGenerator{cfg: cfg, client: api.NewClient(opts...)}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-api-call")
	defer span.End()

	apiKey := g.cfg.LLM.OpenAIAPIKey
	if apiKey == "" {
		return "", &types.UpstreamError{Kind: types.InvalidCredentials, Err: errors.New("OPENAI_API_KEY missing")}
	}

	body := map[string]any{
		"model":       g.cfg.LLM.Model,
		"messages":    []map[string]string{{"role": "user", "content": prompt}},
		"temperature": g.cfg.LLM.Temperature,
		"max_tokens":  g.cfg.LLM.MaxTokens,
	}

	resp, err := g.client.POST(ctx, "/chat/completions", body, map[string]string{
		"Authorization": "Bearer " + apiKey,
	})
	if err != nil {
		return "", err
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Choices) == 0 {
		return "", nil
	}
	return r.Choices[0].Message.Content, nil
}
