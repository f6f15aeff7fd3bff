package suggest

import "trading-journal/internal/analytics"

// Rule-based tips for the patterns endpoint. These need no model call.
const (
	TipWinningStreak = "You're on a winning streak! Consider taking some profits."
	TipLosingStreak  = "You've had some losses recently. Review your risk management."
	TipShortHolds    = "You're trading very short-term. Consider longer positions for better risk/reward."
)

var defaultTips = []string{
	"Consider diversifying your portfolio across different sectors.",
	"Review your stop-loss strategy to minimize losses.",
	"Keep a trading journal to track your performance.",
}

// FromPatterns derives plain-text tips from a report.
func FromPatterns(rep analytics.Report) []string {
	var tips []string
	if rep.MaxWinningStreak > 3 {
		tips = append(tips, TipWinningStreak)
	}
	if rep.MaxLosingStreak > 2 {
		tips = append(tips, TipLosingStreak)
	}
	if rep.TotalTrades > 0 && rep.AverageHoldDays < 1 {
		tips = append(tips, TipShortHolds)
	}
	if len(tips) == 0 {
		tips = append(tips, defaultTips...)
	}
	return tips
}
