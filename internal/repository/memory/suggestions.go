package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"trading-journal/internal/interfaces"
	"trading-journal/internal/types"
)

const DefaultSuggestionStatus = "pending"

var _ interfaces.SuggestionRepository = (*SuggestionStore)(nil)

// SuggestionStore holds manually created suggestions.
type SuggestionStore struct {
	mu     sync.RWMutex
	items  []types.SavedSuggestion
	nextID int64
	now    func() time.Time
}

func NewSuggestionStore() *SuggestionStore {
	return &SuggestionStore{nextID: 1, now: time.Now}
}

func (s *SuggestionStore) List(ctx context.Context) ([]types.SavedSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.SavedSuggestion{}, s.items...), nil
}

func (s *SuggestionStore) Get(ctx context.Context, id int64) (types.SavedSuggestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(id); i >= 0 {
		return s.items[i], nil
	}
	return types.SavedSuggestion{}, fmt.Errorf("suggestion %d: %w", id, types.ErrNotFound)
}

func (s *SuggestionStore) Create(ctx context.Context, in types.SavedSuggestion) (types.SavedSuggestion, error) {
	if err := validateSuggestion(in); err != nil {
		return types.SavedSuggestion{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	in.ID = s.nextID
	in.CreatedAt = s.now()
	normalizeSuggestion(&in)
	s.nextID++
	s.items = append(s.items, in)
	return in, nil
}

// Replace swaps the whole record, keeping its id and creation time.
func (s *SuggestionStore) Replace(ctx context.Context, id int64, in types.SavedSuggestion) (types.SavedSuggestion, error) {
	if err := validateSuggestion(in); err != nil {
		return types.SavedSuggestion{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return types.SavedSuggestion{}, fmt.Errorf("suggestion %d: %w", id, types.ErrNotFound)
	}
	in.ID = id
	in.CreatedAt = s.items[i].CreatedAt
	normalizeSuggestion(&in)
	s.items[i] = in
	return in, nil
}

func (s *SuggestionStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("suggestion %d: %w", id, types.ErrNotFound)
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// index must be called with mu held.
func (s *SuggestionStore) index(id int64) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}

func validateSuggestion(in types.SavedSuggestion) error {
	if strings.TrimSpace(in.Title) == "" {
		return &types.DataValidationError{Entity: "suggestion", Index: -1, Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &types.DataValidationError{Entity: "suggestion", Index: -1, Field: "description", Reason: "required"}
	}
	return nil
}

func normalizeSuggestion(in *types.SavedSuggestion) {
	if in.Category == "" {
		in.Category = types.DefaultCategory
	}
	if in.Status == "" {
		in.Status = DefaultSuggestionStatus
	}
}
