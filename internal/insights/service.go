// Package insights orchestrates analytics, prompt composition and the text
// generator. Upstream failures are converted here: bad credentials and
// outages become degraded results, quota errors are returned so callers can
// back off.
package insights

import (
	"context"
	"errors"
	"strings"

	"trading-journal/internal/analytics"
	"trading-journal/internal/interfaces"
	"trading-journal/internal/llm"
	"trading-journal/internal/logger"
	"trading-journal/internal/narrative"
	"trading-journal/internal/suggest"
	"trading-journal/internal/tradelog"
	"trading-journal/internal/types"
)

type Service struct {
	gen     interfaces.Generator
	history *narrative.History
	journal *tradelog.Journal
}

type Option func(*Service)

// WithJournal records every insight request in the audit log.
func WithJournal(j *tradelog.Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

func NewService(gen interfaces.Generator, history *narrative.History, opts ...Option) *Service {
	if history == nil {
		history = narrative.NewHistory(0)
	}
	s := &Service{gen: gen, history: history}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireTrades(trades []types.Trade) error {
	if len(trades) == 0 {
		return &types.DataValidationError{Entity: "request", Index: -1, Field: "trades", Reason: "no trade data provided"}
	}
	return nil
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return &types.DataValidationError{Entity: "request", Index: -1, Field: field, Reason: "required"}
	}
	return nil
}

// generate calls the generator and classifies any failure. A nil
// UpstreamError means success.
func (s *Service) generate(ctx context.Context, prompt string) (string, *types.UpstreamError) {
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		ue := llm.Classify(err)
		logger.Upstream(ctx, ue.Kind.String(), err)
		return "", ue
	}
	return text, nil
}

func (s *Service) record(ctx context.Context, e tradelog.InsightEntry) {
	if s.journal == nil {
		return
	}
	if err := s.journal.AppendInsight(e); err != nil {
		logger.Warn(ctx, "Failed to write insight log", "kind", e.Kind, "error", err)
	}
}

func upstreamLabel(ue *types.UpstreamError) string {
	if ue == nil {
		return ""
	}
	return ue.Kind.String()
}

// GenerateSuggestions asks for Title:/Description: suggestions and parses
// them. A blank response yields the no-insight record.
func (s *Service) GenerateSuggestions(ctx context.Context, trades []types.Trade) ([]types.Suggestion, error) {
	if err := requireTrades(trades); err != nil {
		return nil, err
	}
	op := logger.StartOperation(ctx, "insights.GenerateSuggestions", "trades", len(trades))
	ctx = op.GetContext()

	prompt, err := narrative.SuggestionsPrompt(trades)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}

	text, ue := s.generate(ctx, prompt)
	var out []types.Suggestion
	switch {
	case ue == nil:
		out = suggest.Extract(text, suggest.WithNoInsightFallback())
	case ue.Kind == types.QuotaExceeded:
		op.EndWithError(ue)
		s.record(ctx, tradelog.InsightEntry{Kind: "suggestions", Trades: len(trades), Upstream: upstreamLabel(ue)})
		return nil, ue
	default:
		out = []types.Suggestion{{Title: AnalysisErrorTitle, Description: AnalysisErrorText, Category: AnalysisErrorCategory}}
	}

	s.record(ctx, tradelog.InsightEntry{
		Kind:     "suggestions",
		Trades:   len(trades),
		Results:  len(out),
		Degraded: ue != nil,
		Upstream: upstreamLabel(ue),
	})
	op.End("suggestions", len(out))
	return out, nil
}

// Chat answers a question using the trade history summary and the session's
// recent turns. Both turns are recorded once a reply exists, degraded or not.
func (s *Service) Chat(ctx context.Context, sessionID, message string, trades []types.Trade) (ChatReply, error) {
	if err := requireText("message", message); err != nil {
		return ChatReply{}, err
	}
	if sessionID == "" {
		sessionID = narrative.DefaultSession
	}

	reply := ChatReply{SessionID: sessionID}
	var ue *types.UpstreamError

	if len(trades) == 0 {
		reply.Response = MsgNoTradeData
	} else {
		rep, err := analytics.Compute(trades)
		if err != nil {
			return ChatReply{}, err
		}
		turns := append(s.history.Turns(sessionID), types.ChatTurn{Role: types.RoleUser, Content: message})
		prompt := narrative.Compose(rep, turns, message)

		var text string
		text, ue = s.generate(ctx, prompt)
		switch {
		case ue == nil:
			reply.Response = strings.TrimSpace(text)
		case ue.Kind == types.QuotaExceeded:
			return ChatReply{}, ue
		case ue.Kind == types.InvalidCredentials:
			reply.Response, reply.Degraded = MsgInvalidCredentials, true
		default:
			reply.Response, reply.Degraded = MsgChatUnavailable, true
		}
	}

	s.history.Append(sessionID, types.RoleUser, message)
	s.history.Append(sessionID, types.RoleAssistant, reply.Response)
	s.record(ctx, tradelog.InsightEntry{
		Kind:      "chat",
		Trades:    len(trades),
		Degraded:  reply.Degraded,
		Upstream:  upstreamLabel(ue),
		SessionID: sessionID,
	})
	return reply, nil
}

func (s *Service) History(sessionID string) []types.ChatTurn {
	return s.history.Turns(sessionID)
}

func (s *Service) ClearHistory(sessionID string) {
	s.history.Clear(sessionID)
}

// AnalyzeTrades returns the generator's pattern/insight analysis.
func (s *Service) AnalyzeTrades(ctx context.Context, trades []types.Trade) (TextResult, error) {
	if err := requireTrades(trades); err != nil {
		return TextResult{}, err
	}
	text, ue := s.generate(ctx, narrative.AnalysisPrompt(trades))
	res, err := textResult(text, ue, MsgAnalyzeFailed)
	if err == nil {
		s.record(ctx, tradelog.InsightEntry{Kind: "analyze", Trades: len(trades), Degraded: res.Degraded, Upstream: upstreamLabel(ue)})
	}
	return res, err
}

// ChatWithTrades answers a one-off question about the supplied trades.
func (s *Service) ChatWithTrades(ctx context.Context, trades []types.Trade, question string) (TextResult, error) {
	if err := requireTrades(trades); err != nil {
		return TextResult{}, err
	}
	if err := requireText("question", question); err != nil {
		return TextResult{}, err
	}
	text, ue := s.generate(ctx, narrative.ChatPrompt(trades, question))
	if ue != nil && ue.Kind == types.UpstreamUnavailable {
		return TextResult{
			Degraded: true,
			Message:  MsgChatWithTradesFailed,
			Detail:   ue.Kind.String(),
		}, nil
	}
	return textResult(text, ue, MsgChatUnavailable)
}

// AdvancedAnalytics computes metrics locally and asks the generator for
// commentary. Metrics survive an upstream failure.
func (s *Service) AdvancedAnalytics(ctx context.Context, trades []types.Trade) (AdvancedResult, error) {
	if err := requireTrades(trades); err != nil {
		return AdvancedResult{}, err
	}
	m, err := analytics.ComputeMetrics(trades)
	if err != nil {
		return AdvancedResult{}, err
	}

	text, ue := s.generate(ctx, narrative.AnalyticsPrompt(trades))
	res := AdvancedResult{Metrics: m, AIAnalysis: text}
	if ue != nil {
		tr, err := textResult("", ue, MsgAnalyticsFailed)
		if err != nil {
			return AdvancedResult{}, err
		}
		res.Degraded, res.Message = true, tr.Message
	}
	s.record(ctx, tradelog.InsightEntry{Kind: "analytics", Trades: len(trades), Degraded: res.Degraded, Upstream: upstreamLabel(ue)})
	return res, nil
}

// Patterns is the rule-based report with its fixed tips. It never calls the
// generator.
func (s *Service) Patterns(trades []types.Trade) (PatternReport, error) {
	rep, err := analytics.Compute(trades)
	if err != nil {
		return PatternReport{}, err
	}
	return PatternReport{Report: rep, Suggestions: suggest.FromPatterns(rep)}, nil
}

func textResult(text string, ue *types.UpstreamError, fallback string) (TextResult, error) {
	if ue == nil {
		return TextResult{Text: text}, nil
	}
	// The raw cause stays in the logs; callers only see the kind.
	res := TextResult{Degraded: true, Detail: ue.Kind.String()}
	switch ue.Kind {
	case types.QuotaExceeded:
		return TextResult{}, ue
	case types.InvalidCredentials:
		res.Message = MsgInvalidCredentials
	default:
		res.Message = fallback
	}
	return res, nil
}

// IsQuota reports whether err is an upstream quota signal.
func IsQuota(err error) bool {
	return errors.Is(err, types.ErrQuotaExceeded)
}
