package analytics

import (
	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// Metrics is the statistical half of the advanced analytics response.
type Metrics struct {
	WinRate       float64      `json:"win_rate"`
	ProfitFactor  ProfitFactor `json:"profit_factor"`
	TotalTrades   int          `json:"total_trades"`
	WinningTrades int          `json:"winning_trades"`
	LosingTrades  int          `json:"losing_trades"`
	TotalPnL      float64      `json:"total_pnl"`
	AverageWin    float64      `json:"average_win"`
	AverageLoss   float64      `json:"average_loss"`
}

func ComputeMetrics(trades []types.Trade) (Metrics, error) {
	rep, err := Compute(trades)
	if err != nil {
		return Metrics{}, err
	}
	pf, err := ComputeProfitFactor(trades)
	if err != nil {
		return Metrics{}, err
	}

	var total, wins, losses decimal.Decimal
	for _, t := range trades {
		p := TradePnL(t)
		total = total.Add(p)
		switch Classify(t) {
		case Win:
			wins = wins.Add(p)
		case Loss:
			losses = losses.Add(p.Abs())
		}
	}

	m := Metrics{
		WinRate:       rep.WinRate,
		ProfitFactor:  pf,
		TotalTrades:   rep.TotalTrades,
		WinningTrades: rep.WinningTrades,
		LosingTrades:  rep.LosingTrades,
	}
	m.TotalPnL, _ = total.Float64()
	if rep.WinningTrades > 0 {
		m.AverageWin, _ = wins.Div(decimal.NewFromInt(int64(rep.WinningTrades))).Float64()
	}
	if rep.LosingTrades > 0 {
		m.AverageLoss, _ = losses.Div(decimal.NewFromInt(int64(rep.LosingTrades))).Float64()
	}
	return m, nil
}

// MostTraded returns the symbol with the highest count, ties broken by name.
func MostTraded(freq map[string]int) (string, int) {
	best, n := "", 0
	for sym, c := range freq {
		if c > n || (c == n && sym < best) {
			best, n = sym, c
		}
	}
	return best, n
}
