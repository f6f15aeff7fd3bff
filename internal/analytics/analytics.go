// Package analytics computes journal statistics over an ordered trade list.
// Every function here is pure; the caller owns the returned values.
package analytics

import (
	"encoding/json"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

// UnknownSymbol is the frequency bucket for trades without a symbol.
const UnknownSymbol = "Unknown"

// Outcome is the win/loss classification of a single trade.
type Outcome int

const (
	Unclassified Outcome = iota
	Win
	Loss
)

// Report is the PatternSummary plus the raw counts it was derived from.
type Report struct {
	TotalTrades   int `json:"totalTrades"`
	WinningTrades int `json:"winningTrades"`
	LosingTrades  int `json:"losingTrades"`
	types.PatternSummary
}

// Classify decides the outcome of a single trade. Trades without an exit
// price, and trades that closed exactly at entry, are Unclassified.
func Classify(t types.Trade) Outcome {
	if t.ExitPrice == nil {
		return Unclassified
	}
	cmp := t.ExitPrice.Cmp(t.EntryPrice)
	if t.Side == types.SideShort {
		cmp = -cmp
	}
	switch {
	case cmp > 0:
		return Win
	case cmp < 0:
		return Loss
	default:
		return Unclassified
	}
}

// Compute builds a Report over trades in the order given. An empty slice
// yields a zeroed report.
func Compute(trades []types.Trade) (Report, error) {
	r := Report{TotalTrades: len(trades)}
	r.SymbolFrequency = make(map[string]int)

	var (
		pnlSum    decimal.Decimal
		holdDays  float64
		streakLen int
		streakOf  Outcome
	)
	flush := func() {
		switch streakOf {
		case Win:
			if streakLen > r.MaxWinningStreak {
				r.MaxWinningStreak = streakLen
			}
		case Loss:
			if streakLen > r.MaxLosingStreak {
				r.MaxLosingStreak = streakLen
			}
		}
	}

	for i, t := range trades {
		if err := checkTrade(i, t); err != nil {
			return Report{}, err
		}

		outcome := Classify(t)
		switch outcome {
		case Win:
			r.WinningTrades++
		case Loss:
			r.LosingTrades++
		}
		if outcome != Unclassified {
			if outcome == streakOf {
				streakLen++
			} else {
				flush()
				streakOf = outcome
				streakLen = 1
			}
		}

		if t.EntryDate != nil && t.ExitDate != nil {
			holdDays += wholeDays(t.ExitDate.Sub(*t.EntryDate))
		}

		sym := t.Symbol
		if sym == "" {
			sym = UnknownSymbol
		}
		r.SymbolFrequency[sym]++

		pnlSum = pnlSum.Add(TradePnL(t))
	}
	flush()

	if r.TotalTrades > 0 {
		total := float64(r.TotalTrades)
		r.WinRate = float64(r.WinningTrades) / total * 100
		r.AverageHoldDays = holdDays / total
		r.AveragePnL, _ = pnlSum.Div(decimal.NewFromInt(int64(r.TotalTrades))).Float64()
	}
	return r, nil
}

// TradePnL returns the supplied pnl when present, otherwise the realized
// directional move times quantity. Open trades contribute zero.
func TradePnL(t types.Trade) decimal.Decimal {
	if t.PnL != nil {
		return *t.PnL
	}
	if t.ExitPrice == nil {
		return decimal.Zero
	}
	return Move(t).Mul(t.Quantity)
}

// Move is the per-unit price move in the trade's favour.
func Move(t types.Trade) decimal.Decimal {
	if t.ExitPrice == nil {
		return decimal.Zero
	}
	d := t.ExitPrice.Sub(t.EntryPrice)
	if t.Side == types.SideShort {
		return d.Neg()
	}
	return d
}

func checkTrade(i int, t types.Trade) error {
	if t.Side != types.SideLong && t.Side != types.SideShort {
		return &types.DataValidationError{Index: i, TradeID: t.ID, Field: "positionType", Value: string(t.Side), Reason: "must be LONG or SHORT"}
	}
	if t.ExitPrice != nil && t.EntryPrice.IsNegative() {
		return &types.DataValidationError{Index: i, TradeID: t.ID, Field: "entryPrice", Value: t.EntryPrice.String(), Reason: "must not be negative"}
	}
	if t.ExitPrice != nil && t.ExitPrice.IsNegative() {
		return &types.DataValidationError{Index: i, TradeID: t.ID, Field: "exitPrice", Value: t.ExitPrice.String(), Reason: "must not be negative"}
	}
	return nil
}

func wholeDays(d time.Duration) float64 {
	return math.Floor(d.Hours() / 24)
}

// ProfitFactor is gross profit over gross loss. Infinite is set when there is
// no gross loss to divide by.
type ProfitFactor struct {
	Value    float64
	Infinite bool
}

func (p ProfitFactor) MarshalJSON() ([]byte, error) {
	if p.Infinite {
		return json.Marshal("Infinity")
	}
	return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
}

func (p ProfitFactor) String() string {
	if p.Infinite {
		return "inf"
	}
	return strconv.FormatFloat(p.Value, 'f', 2, 64)
}

// ComputeProfitFactor sums per-unit moves of winning and losing trades.
func ComputeProfitFactor(trades []types.Trade) (ProfitFactor, error) {
	grossProfit, grossLoss, err := grossMoves(trades)
	if err != nil {
		return ProfitFactor{}, err
	}
	if grossLoss.IsZero() {
		return ProfitFactor{Infinite: true}, nil
	}
	v, _ := grossProfit.Div(grossLoss).Float64()
	return ProfitFactor{Value: v}, nil
}

func grossMoves(trades []types.Trade) (profit, loss decimal.Decimal, err error) {
	for i, t := range trades {
		if err := checkTrade(i, t); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
		switch Classify(t) {
		case Win:
			profit = profit.Add(Move(t))
		case Loss:
			loss = loss.Add(Move(t).Abs())
		}
	}
	return profit, loss, nil
}
