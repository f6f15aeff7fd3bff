package narrative

import (
	"encoding/json"
	"fmt"
	"strings"

	"trading-journal/internal/types"
)

const na = "N/A"

const suggestionsPrompt = `As an expert trading analyst, analyze the following trading data and provide 3-5 actionable insights and suggestions.
Each suggestion should have a clear title and detailed description.

Trading Data:
%s

Please analyze:
1. Pattern in winning trades
2. Common mistakes in losing trades
3. Risk management practices
4. Trading setup effectiveness
5. Market timing and entry/exit points

Respond in this EXACT format (make sure to include the Title: and Description: prefixes):

Title: [First suggestion title]
Description: [Detailed explanation for first suggestion]

Title: [Second suggestion title]
Description: [Detailed explanation for second suggestion]

Title: [Third suggestion title]
Description: [Detailed explanation for third suggestion]
`

const analysisPrompt = `Analyze the following trading data and provide insights:
%s

Consider the following aspects:
1. Trading patterns and strategies
2. Risk management effectiveness
3. Market conditions and timing
4. Emotional factors from notes
5. Areas for improvement

Format the response as JSON with the following structure:
{
    "patterns": [
        {
            "title": "Pattern name",
            "description": "Pattern description",
            "success_rate": percentage
        }
    ],
    "insights": [
        "Insight 1",
        "Insight 2"
    ],
    "recommendations": [
        "Recommendation 1",
        "Recommendation 2"
    ]
}
`

const chatPrompt = `You are a trading assistant analyzing the following trading data:
%s

User question: %s

Provide a detailed response focusing on:
1. Specific trade examples
2. Data-driven insights
3. Actionable recommendations
4. Risk management considerations
`

const analyticsPrompt = `Analyze the following trading data for advanced analytics:
%s

Calculate and provide:
1. Performance metrics
2. Risk metrics
3. Pattern recognition
4. Market correlation
5. Behavioral analysis

Format the response as JSON with the following structure:
{
    "metrics": {
        "win_rate": percentage,
        "profit_factor": number,
        "avg_trade_duration": "days",
        "max_drawdown": percentage,
        "sharpe_ratio": number
    },
    "patterns": [
        {
            "title": "Pattern name",
            "description": "Pattern description",
            "success_rate": percentage
        }
    ],
    "insights": [
        "Insight 1",
        "Insight 2"
    ]
}
`

// SuggestionsPrompt asks for Title:/Description: formatted suggestions.
func SuggestionsPrompt(trades []types.Trade) (string, error) {
	data, err := json.MarshalIndent(trades, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode trades: %w", err)
	}
	return fmt.Sprintf(suggestionsPrompt, data), nil
}

func AnalysisPrompt(trades []types.Trade) string {
	return fmt.Sprintf(analysisPrompt, FormatTrades(trades))
}

func ChatPrompt(trades []types.Trade, question string) string {
	return fmt.Sprintf(chatPrompt, FormatTrades(trades), strings.TrimSpace(question))
}

func AnalyticsPrompt(trades []types.Trade) string {
	return fmt.Sprintf(analyticsPrompt, FormatTrades(trades))
}

// FormatTrades renders one line per trade, N/A for anything missing.
func FormatTrades(trades []types.Trade) string {
	lines := make([]string, 0, len(trades))
	for _, t := range trades {
		date, exit, pnl := na, na, na
		if t.EntryDate != nil {
			date = t.EntryDate.Format("2006-01-02")
		}
		if t.ExitPrice != nil {
			exit = t.ExitPrice.String()
		}
		if t.PnL != nil {
			pnl = t.PnL.String()
		}
		lines = append(lines, fmt.Sprintf(
			"Date: %s, Symbol: %s, Type: %s, Entry: %s, Exit: %s, Size: %s, PnL: %s, Notes: %s",
			date, orNA(t.Symbol), orNA(string(t.Side)), t.EntryPrice.String(), exit,
			t.Quantity.String(), pnl, orNA(t.Notes),
		))
	}
	return strings.Join(lines, "\n")
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return na
	}
	return s
}
