package insights

import "trading-journal/internal/analytics"

// User-facing messages shown in place of generated text when the upstream
// service fails.
const (
	MsgInvalidCredentials   = "The AI service API key appears to be invalid or expired. Please contact the administrator."
	MsgQuotaExceeded        = "The AI service has reached its query limit. Please try again later."
	MsgChatUnavailable      = "I apologize, but I'm having trouble analyzing your trades right now. Please try again later."
	MsgNoTradeData          = "I don't have any trading data to analyze yet. Please add some trades first."
	MsgAnalyzeFailed        = "Failed to analyze trades"
	MsgChatWithTradesFailed = "Sorry, I encountered an error reaching the AI service. Please try again later."
	MsgAnalyticsFailed      = "Failed to generate analytics"

	AnalysisErrorTitle    = "Analysis Error"
	AnalysisErrorText     = "We encountered an error while analyzing your trades. Please try again later."
	AnalysisErrorCategory = "error"
)

// TextResult is free-form generated text. When Degraded is set, Text is
// empty and Message explains why.
type TextResult struct {
	Text     string `json:"text,omitempty"`
	Degraded bool   `json:"degraded,omitempty"`
	Message  string `json:"message,omitempty"`
	Detail   string `json:"details,omitempty"`
}

type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"sessionId"`
	Degraded  bool   `json:"degraded,omitempty"`
}

// AdvancedResult combines computed metrics with the generated commentary.
// Metrics are always present; only the commentary can degrade.
type AdvancedResult struct {
	Metrics    analytics.Metrics `json:"metrics"`
	AIAnalysis string            `json:"ai_analysis"`
	Degraded   bool              `json:"degraded,omitempty"`
	Message    string            `json:"message,omitempty"`
}

// PatternReport is the rule-based view of a trade history.
type PatternReport struct {
	Report      analytics.Report `json:"patterns"`
	Suggestions []string         `json:"suggestions"`
}
