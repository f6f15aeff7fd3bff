package interfaces

import (
	"context"

	"trading-journal/internal/types"
)

// TradeRepository stores journal trades. Implementations return
// types.ErrNotFound for unknown ids.
type TradeRepository interface {
	List(ctx context.Context) ([]types.Trade, error)
	Get(ctx context.Context, id int64) (types.Trade, error)
	Create(ctx context.Context, t types.Trade) (types.Trade, error)
	// Update applies fn to a copy of the stored trade and saves the result
	// only if fn and validation succeed.
	Update(ctx context.Context, id int64, fn func(*types.Trade) error) (types.Trade, error)
	Delete(ctx context.Context, id int64) error
}

type SuggestionRepository interface {
	List(ctx context.Context) ([]types.SavedSuggestion, error)
	Get(ctx context.Context, id int64) (types.SavedSuggestion, error)
	Create(ctx context.Context, s types.SavedSuggestion) (types.SavedSuggestion, error)
	Replace(ctx context.Context, id int64, s types.SavedSuggestion) (types.SavedSuggestion, error)
	Delete(ctx context.Context, id int64) error
}
