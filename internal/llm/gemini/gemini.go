package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"trading-journal/internal/api"
	"trading-journal/internal/logger"
	"trading-journal/internal/store"
	"trading-journal/internal/trace"
	"trading-journal/internal/types"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// APIKeyHeader carries the key so it never appears in a request URL.
	APIKeyHeader = "x-goog-api-key"
)

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	cfg    *store.Config
	client *api.Client
}

func NewGeminiGenerator(cfg *store.Config, opts ...api.ClientOption) *GeminiGenerator {
	base := DefaultBaseURL
	if cfg.LLM.Endpoint != "" {
		base = strings.TrimRight(cfg.LLM.Endpoint, "/")
	}
	opts = append([]api.ClientOption{
		api.WithBaseURL(base),
		api.WithTimeout(cfg.LLMTimeout()),
		api.WithLogging(true),
	}, opts...)
	if cfg.LLM.GeminiAPIKey != "" {
		opts = append(opts, api.WithHeader(APIKeyHeader, cfg.LLM.GeminiAPIKey))
	}
	return &GeminiGenerator{cfg: cfg, client: api.NewClient(opts...)}
}

type request struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text,omitempty"`
}

type generationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
}

type response struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, span := trace.StartSpan(ctx, "gemini-api-call")
	defer span.End()

	if g.cfg.LLM.GeminiAPIKey == "" {
		return "", &types.UpstreamError{Kind: types.InvalidCredentials, Err: errors.New("GEMINI_API_KEY missing")}
	}

	body := request{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			MaxOutputTokens: g.cfg.LLM.MaxTokens,
			Temperature:     g.cfg.LLM.Temperature,
		},
	}
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(modelPath(g.cfg.LLM.Model)))

	resp, err := g.client.POST(ctx, path, body)
	if err != nil {
		return "", err
	}

	var r response
	if err := resp.ParseJSON(&r); err != nil {
		return "", err
	}
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			logger.Warn(ctx, "Gemini blocked prompt", "reason", r.PromptFeedback.BlockReason)
		}
		return "", nil
	}
	return joinParts(r.Candidates[0].Content.Parts), nil
}

// modelPath accepts both "gemini-pro" and "models/gemini-pro".
func modelPath(model string) string {
	return strings.TrimPrefix(model, "models/")
}

func joinParts(parts []part) string {
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
