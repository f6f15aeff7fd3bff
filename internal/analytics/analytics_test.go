package analytics

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

func dec(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func closed(side types.Side, entry, exit float64) types.Trade {
	return types.Trade{
		Symbol:     "AAPL",
		Side:       side,
		EntryPrice: decimal.NewFromFloat(entry),
		ExitPrice:  dec(exit),
		Quantity:   decimal.NewFromInt(1),
		Status:     types.StatusClosed,
	}
}

func open(side types.Side, entry float64) types.Trade {
	return types.Trade{
		Symbol:     "AAPL",
		Side:       side,
		EntryPrice: decimal.NewFromFloat(entry),
		Quantity:   decimal.NewFromInt(1),
		Status:     types.StatusOpen,
	}
}

func TestComputeEmpty(t *testing.T) {
	rep, err := Compute(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rep.TotalTrades != 0 || rep.WinRate != 0 || rep.AveragePnL != 0 || rep.AverageHoldDays != 0 {
		t.Errorf("Expected zeroed report, got %+v", rep)
	}
	if rep.SymbolFrequency == nil {
		t.Error("Expected non-nil symbol frequency map")
	}
}

func TestComputeBuyWinAndLoss(t *testing.T) {
	trades := []types.Trade{
		closed(types.SideLong, 100, 110),
		closed(types.SideLong, 100, 90),
	}

	rep, err := Compute(trades)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rep.WinRate != 50.0 {
		t.Errorf("Expected win rate 50.0, got %f", rep.WinRate)
	}
	if rep.WinningTrades != 1 {
		t.Errorf("Expected 1 winning trade, got %d", rep.WinningTrades)
	}
	if rep.LosingTrades != 1 {
		t.Errorf("Expected 1 losing trade, got %d", rep.LosingTrades)
	}
}

func TestClassifyShort(t *testing.T) {
	if got := Classify(closed(types.SideShort, 300, 295)); got != Win {
		t.Errorf("Expected short 300->295 to win, got %v", got)
	}
	if got := Classify(closed(types.SideShort, 300, 305)); got != Loss {
		t.Errorf("Expected short 300->305 to lose, got %v", got)
	}
	if got := Classify(open(types.SideShort, 300)); got != Unclassified {
		t.Errorf("Expected open trade to be unclassified, got %v", got)
	}
	if got := Classify(closed(types.SideLong, 100, 100)); got != Unclassified {
		t.Errorf("Expected breakeven trade to be unclassified, got %v", got)
	}
}

func TestWinRateNoExits(t *testing.T) {
	rep, err := Compute([]types.Trade{open(types.SideLong, 10), open(types.SideShort, 20)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rep.TotalTrades != 2 {
		t.Errorf("Expected open trades counted in total, got %d", rep.TotalTrades)
	}
	if rep.WinRate != 0 {
		t.Errorf("Expected win rate 0 without exits, got %f", rep.WinRate)
	}
}

func TestStreaks(t *testing.T) {
	w := closed(types.SideLong, 100, 110)
	l := closed(types.SideLong, 100, 90)
	o := open(types.SideLong, 100)

	tests := []struct {
		name       string
		trades     []types.Trade
		maxWinning int
		maxLosing  int
	}{
		{"single run flushed at end", []types.Trade{w, w, w}, 3, 0},
		{"alternating", []types.Trade{w, l, w, l}, 1, 1},
		{"open trades do not break streak", []types.Trade{w, o, w, o, w, l}, 3, 1},
		{"longer losing run", []types.Trade{w, w, l, l, l, w}, 2, 3},
		{"earlier run kept when later is shorter", []types.Trade{l, l, l, l, w, l, l}, 1, 4},
		{"no classified trades", []types.Trade{o, o}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rep, err := Compute(tt.trades)
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rep.MaxWinningStreak != tt.maxWinning {
				t.Errorf("Expected max winning streak %d, got %d", tt.maxWinning, rep.MaxWinningStreak)
			}
			if rep.MaxLosingStreak != tt.maxLosing {
				t.Errorf("Expected max losing streak %d, got %d", tt.maxLosing, rep.MaxLosingStreak)
			}
		})
	}
}

func TestStreaksRespectSuppliedOrder(t *testing.T) {
	w := closed(types.SideLong, 100, 110)
	l := closed(types.SideLong, 100, 90)

	a, _ := Compute([]types.Trade{w, w, l, l})
	b, _ := Compute([]types.Trade{w, l, w, l})
	if a.MaxWinningStreak != 2 || b.MaxWinningStreak != 1 {
		t.Errorf("Expected order-dependent streaks 2 and 1, got %d and %d", a.MaxWinningStreak, b.MaxWinningStreak)
	}
}

func TestAverageHoldDays(t *testing.T) {
	base := time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC)
	later := base.Add(60 * time.Hour) // 2.5 days -> 2 whole days
	sameDay := base.Add(6 * time.Hour)

	a := closed(types.SideLong, 100, 110)
	a.EntryDate, a.ExitDate = &base, &later
	b := closed(types.SideLong, 100, 110)
	b.EntryDate, b.ExitDate = &base, &sameDay
	c := open(types.SideLong, 100)

	rep, err := Compute([]types.Trade{a, b, c})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	// (2 + 0) / 3 trades
	want := 2.0 / 3.0
	if rep.AverageHoldDays != want {
		t.Errorf("Expected average hold %f, got %f", want, rep.AverageHoldDays)
	}
}

func TestSymbolFrequency(t *testing.T) {
	a := closed(types.SideLong, 1, 2)
	b := closed(types.SideLong, 1, 2)
	b.Symbol = "MSFT"
	c := closed(types.SideLong, 1, 2)
	c.Symbol = ""

	rep, err := Compute([]types.Trade{a, b, a, c})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rep.SymbolFrequency["AAPL"] != 2 {
		t.Errorf("Expected AAPL count 2, got %d", rep.SymbolFrequency["AAPL"])
	}
	if rep.SymbolFrequency["MSFT"] != 1 {
		t.Errorf("Expected MSFT count 1, got %d", rep.SymbolFrequency["MSFT"])
	}
	if rep.SymbolFrequency[UnknownSymbol] != 1 {
		t.Errorf("Expected Unknown count 1, got %d", rep.SymbolFrequency[UnknownSymbol])
	}

	sym, n := MostTraded(rep.SymbolFrequency)
	if sym != "AAPL" || n != 2 {
		t.Errorf("Expected most traded AAPL x2, got %s x%d", sym, n)
	}
}

func TestAveragePnL(t *testing.T) {
	a := closed(types.SideLong, 100, 110)
	a.Quantity = decimal.NewFromInt(10) // derived 100
	b := closed(types.SideShort, 50, 40)
	b.PnL = dec(-20) // supplied wins over derived
	c := open(types.SideLong, 10)

	rep, err := Compute([]types.Trade{a, b, c})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rep.AveragePnL != 80.0/3.0 {
		t.Errorf("Expected average pnl %f, got %f", 80.0/3.0, rep.AveragePnL)
	}
}

func TestComputeRejectsMalformedTrade(t *testing.T) {
	bad := closed(types.SideLong, 100, 110)
	bad.ID = 7
	bad.Side = "SIDEWAYS"

	_, err := Compute([]types.Trade{closed(types.SideLong, 1, 2), bad})
	var dv *types.DataValidationError
	if !errors.As(err, &dv) {
		t.Fatalf("Expected DataValidationError, got %v", err)
	}
	if dv.TradeID != 7 || dv.Index != 1 || dv.Field != "positionType" {
		t.Errorf("Expected error naming trade 7 at index 1 field positionType, got %+v", dv)
	}
}

func TestProfitFactor(t *testing.T) {
	pf, err := ComputeProfitFactor([]types.Trade{
		closed(types.SideLong, 100, 110),  // +10
		closed(types.SideShort, 300, 290), // +10
		closed(types.SideLong, 100, 95),   // -5
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if pf.Infinite || pf.Value != 4.0 {
		t.Errorf("Expected profit factor 4, got %+v", pf)
	}

	pf, err = ComputeProfitFactor([]types.Trade{closed(types.SideLong, 100, 110)})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !pf.Infinite {
		t.Errorf("Expected infinite profit factor without losses, got %+v", pf)
	}
	b, _ := json.Marshal(pf)
	if string(b) != `"Infinity"` {
		t.Errorf("Expected \"Infinity\" JSON, got %s", b)
	}
}

func TestComputeMetrics(t *testing.T) {
	a := closed(types.SideLong, 100, 110)
	a.PnL = dec(500)
	b := closed(types.SideLong, 300, 295)
	b.PnL = dec(-250)

	m, err := ComputeMetrics([]types.Trade{a, b})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if m.TotalTrades != 2 || m.WinningTrades != 1 || m.LosingTrades != 1 {
		t.Errorf("Unexpected counts %+v", m)
	}
	if m.TotalPnL != 250 || m.AverageWin != 500 || m.AverageLoss != 250 {
		t.Errorf("Unexpected pnl figures %+v", m)
	}
	if m.ProfitFactor.Value != 2 {
		t.Errorf("Expected profit factor 2, got %v", m.ProfitFactor)
	}
}

func TestProfitFactorEmptyIsInfinite(t *testing.T) {
	pf, err := ComputeProfitFactor(nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !pf.Infinite || pf.String() != "inf" {
		t.Errorf("Expected infinite profit factor with no losses, got %+v", pf)
	}
}
