package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// ParseSide accepts LONG/SHORT as well as buy/sell, case-insensitively.
func ParseSide(s string) (Side, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LONG", "BUY":
		return SideLong, true
	case "SHORT", "SELL":
		return SideShort, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusOpen   Status = "OPEN"
	StatusClosed Status = "CLOSED"
)

func ParseStatus(s string) (Status, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "OPEN":
		return StatusOpen, true
	case "CLOSED":
		return StatusClosed, true
	default:
		return "", false
	}
}

// Trade is one executed position in the journal.
type Trade struct {
	ID         int64            `json:"id"`
	Symbol     string           `json:"symbol"`
	Side       Side             `json:"positionType"`
	EntryPrice decimal.Decimal  `json:"entryPrice"`
	ExitPrice  *decimal.Decimal `json:"exitPrice"`
	Quantity   decimal.Decimal  `json:"quantity"`
	EntryDate  *time.Time       `json:"entryDate,omitempty"`
	ExitDate   *time.Time       `json:"exitDate"`
	PnL        *decimal.Decimal `json:"pnl,omitempty"`
	Notes      string           `json:"notes,omitempty"`
	SetupType  string           `json:"setupType,omitempty"`
	Status     Status           `json:"status"`
}

// Validate checks the OPEN/CLOSED lifecycle invariant of a stored trade.
func (t Trade) Validate() error {
	if strings.TrimSpace(t.Symbol) == "" {
		return &DataValidationError{Index: -1, TradeID: t.ID, Field: "symbol", Reason: "required"}
	}
	if _, ok := ParseSide(string(t.Side)); !ok {
		return &DataValidationError{Index: -1, TradeID: t.ID, Field: "positionType", Value: string(t.Side), Reason: "must be LONG/SHORT or buy/sell"}
	}
	switch t.Status {
	case StatusClosed:
		if t.ExitPrice == nil {
			return &DataValidationError{Index: -1, TradeID: t.ID, Field: "exitPrice", Reason: "required for a CLOSED trade"}
		}
		if t.ExitDate == nil {
			return &DataValidationError{Index: -1, TradeID: t.ID, Field: "exitDate", Reason: "required for a CLOSED trade"}
		}
	case StatusOpen:
		if t.ExitPrice != nil {
			return &DataValidationError{Index: -1, TradeID: t.ID, Field: "exitPrice", Reason: "must be empty for an OPEN trade"}
		}
		if t.ExitDate != nil {
			return &DataValidationError{Index: -1, TradeID: t.ID, Field: "exitDate", Reason: "must be empty for an OPEN trade"}
		}
	default:
		return &DataValidationError{Index: -1, TradeID: t.ID, Field: "status", Value: string(t.Status), Reason: "must be OPEN or CLOSED"}
	}
	return nil
}

// String renders a short human-readable label, used in log lines.
func (t Trade) String() string {
	return fmt.Sprintf("#%d %s %s", t.ID, t.Side, t.Symbol)
}

// PatternSummary is recomputed on every request and never stored.
type PatternSummary struct {
	WinRate          float64        `json:"winRate"`
	AveragePnL       float64        `json:"averagePnl"`
	MaxWinningStreak int            `json:"maxWinningStreak"`
	MaxLosingStreak  int            `json:"maxLosingStreak"`
	AverageHoldDays  float64        `json:"averageHoldDays"`
	SymbolFrequency  map[string]int `json:"symbolFrequency"`
}

const DefaultCategory = "general"

type Suggestion struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// SavedSuggestion is a manually created suggestion kept by a SuggestionRepository.
type SavedSuggestion struct {
	ID int64 `json:"id"`
	Suggestion
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatTurn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
