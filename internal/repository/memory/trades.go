// Package memory keeps journal data in process memory. Contents are lost on
// restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/types"
)

var _ interfaces.TradeRepository = (*TradeStore)(nil)

// TradeStore is an insertion-ordered trade table with a monotonic id counter.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[int64]types.Trade
	order  []int64
	nextID int64
}

func NewTradeStore() *TradeStore {
	return &TradeStore{
		trades: make(map[int64]types.Trade),
		nextID: 1,
	}
}

func (s *TradeStore) List(ctx context.Context) ([]types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Trade, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.trades[id])
	}
	return out, nil
}

func (s *TradeStore) Get(ctx context.Context, id int64) (types.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.trades[id]
	if !ok {
		return types.Trade{}, fmt.Errorf("trade %d: %w", id, types.ErrNotFound)
	}
	return t, nil
}

// Create assigns the next id, ignoring any id on t.
func (s *TradeStore) Create(ctx context.Context, t types.Trade) (types.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t.ID = s.nextID
	if err := t.Validate(); err != nil {
		return types.Trade{}, err
	}
	s.nextID++
	s.trades[t.ID] = t
	s.order = append(s.order, t.ID)
	return t, nil
}

func (s *TradeStore) Update(ctx context.Context, id int64, fn func(*types.Trade) error) (types.Trade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.trades[id]
	if !ok {
		return types.Trade{}, fmt.Errorf("trade %d: %w", id, types.ErrNotFound)
	}
	next := cur
	if err := fn(&next); err != nil {
		return types.Trade{}, err
	}
	next.ID = id
	if err := next.Validate(); err != nil {
		return types.Trade{}, err
	}
	s.trades[id] = next
	return next, nil
}

func (s *TradeStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trades[id]; !ok {
		return fmt.Errorf("trade %d: %w", id, types.ErrNotFound)
	}
	delete(s.trades, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// SampleTrades are the two development trades the journal starts with.
func SampleTrades() []types.Trade {
	at := func(day, hour, min int) *time.Time {
		t := time.Date(2024, time.January, day, hour, min, 0, 0, time.UTC)
		return &t
	}
	price := func(v int64) *decimal.Decimal {
		d := decimal.NewFromInt(v)
		return &d
	}
	return []types.Trade{
		{
			Symbol:     "AAPL",
			Side:       types.SideLong,
			EntryPrice: decimal.NewFromInt(150),
			ExitPrice:  price(155),
			Quantity:   decimal.NewFromInt(100),
			EntryDate:  at(15, 9, 30),
			ExitDate:   at(15, 15, 30),
			Notes:      "Breakout trade on earnings",
			Status:     types.StatusClosed,
		},
		{
			Symbol:     "MSFT",
			Side:       types.SideShort,
			EntryPrice: decimal.NewFromInt(300),
			ExitPrice:  price(295),
			Quantity:   decimal.NewFromInt(50),
			EntryDate:  at(14, 10, 0),
			ExitDate:   at(14, 14, 0),
			Notes:      "Reversal trade",
			Status:     types.StatusClosed,
		},
	}
}

// Seed inserts trades in order.
func (s *TradeStore) Seed(ctx context.Context, trades []types.Trade) error {
	for _, t := range trades {
		if _, err := s.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to seed %s: %w", t.Symbol, err)
		}
	}
	return nil
}
