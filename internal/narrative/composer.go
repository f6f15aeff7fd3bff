// Package narrative builds the prompts sent to the text-generation service.
package narrative

import (
	"fmt"
	"strings"

	"trading-journal/internal/analytics"
	"trading-journal/internal/types"
)

// HistoryTurns is how many prior chat turns a personalized prompt carries.
const HistoryTurns = 5

// Compose renders the personalized-assistant prompt: a summary of the
// report, the last HistoryTurns turns of history and the new question.
func Compose(rep analytics.Report, history []types.ChatTurn, question string) string {
	var b strings.Builder

	b.WriteString("You are a personalized trading assistant with access to the user's trading history.\n\n")
	b.WriteString(Summary(rep))
	b.WriteString("\nPrevious Conversation:\n")
	for _, turn := range LastTurns(history, HistoryTurns) {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(string(turn.Role)), turn.Content)
	}
	fmt.Fprintf(&b, "\nUser Question: %s\n\n", strings.TrimSpace(question))
	b.WriteString(`Provide a helpful, personalized response that:
1. References their specific trading performance
2. Offers actionable advice based on their data
3. Answers their question directly and comprehensively
4. Uses a professional but friendly tone

Response:
`)
	return b.String()
}

// Summary renders the fixed-shape trading history block.
func Summary(rep analytics.Report) string {
	var b strings.Builder
	b.WriteString("Trading History Summary:\n")
	fmt.Fprintf(&b, "- Total Trades: %d\n", rep.TotalTrades)
	fmt.Fprintf(&b, "- Winning Trades: %d (%.1f%% win rate)\n", rep.WinningTrades, rep.WinRate)
	fmt.Fprintf(&b, "- Losing Trades: %d\n", rep.LosingTrades)
	fmt.Fprintf(&b, "- Average PnL: %.2f\n", rep.AveragePnL)
	fmt.Fprintf(&b, "- Longest Winning Streak: %d\n", rep.MaxWinningStreak)
	fmt.Fprintf(&b, "- Longest Losing Streak: %d\n", rep.MaxLosingStreak)
	fmt.Fprintf(&b, "- Average Hold Time: %.1f days\n", rep.AverageHoldDays)
	if sym, n := analytics.MostTraded(rep.SymbolFrequency); n > 0 {
		fmt.Fprintf(&b, "- Most Traded Symbol: %s (%d trades)\n", sym, n)
	}
	return b.String()
}

// LastTurns returns at most n turns, dropping the oldest first.
func LastTurns(history []types.ChatTurn, n int) []types.ChatTurn {
	if n <= 0 {
		return nil
	}
	if len(history) > n {
		return history[len(history)-n:]
	}
	return history
}
