// Package tradeinput normalizes dict-shaped trade payloads into types.Trade.
//
// Clients send trades with inconsistent key names (entryPrice vs entry_price,
// type vs position_type). Every alias is resolved here so analytics and
// storage only ever see one shape.
package tradeinput

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"trading-journal/internal/types"
)

var (
	idKeys        = []string{"id"}
	symbolKeys    = []string{"symbol"}
	entryKeys     = []string{"entryPrice", "entry_price", "entry"}
	exitKeys      = []string{"exitPrice", "exit_price", "exit"}
	quantityKeys  = []string{"quantity", "positionSize", "position_size", "size"}
	sideKeys      = []string{"positionType", "position_type", "type", "trade_type", "tradeType", "side"}
	entryDateKeys = []string{"entryDate", "entry_date", "date"}
	exitDateKeys  = []string{"exitDate", "exit_date"}
	pnlKeys       = []string{"pnl", "PnL"}
	notesKeys     = []string{"notes"}
	setupKeys     = []string{"setupType", "setup_type"}
	statusKeys    = []string{"status"}
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalize builds a Trade from raw. index is the trade's position in the
// caller's collection and is only used for error reporting.
func Normalize(index int, raw map[string]any) (types.Trade, error) {
	t := types.Trade{Side: types.SideLong}
	if err := apply(index, &t, raw, true); err != nil {
		return types.Trade{}, err
	}
	return t, nil
}

// NormalizeAll normalizes a collection, preserving order. The first invalid
// trade aborts the whole batch.
func NormalizeAll(raws []map[string]any) ([]types.Trade, error) {
	out := make([]types.Trade, 0, len(raws))
	for i, raw := range raws {
		t, err := Normalize(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Apply replaces only the fields present in raw. The trade's id never changes.
func Apply(t *types.Trade, raw map[string]any) error {
	id := t.ID
	if err := apply(-1, t, raw, false); err != nil {
		return err
	}
	t.ID = id
	return nil
}

func apply(index int, t *types.Trade, raw map[string]any, fresh bool) error {
	fail := func(field string, v any, reason string) error {
		return &types.DataValidationError{Index: index, TradeID: t.ID, Field: field, Value: render(v), Reason: reason}
	}

	if k, v, ok := lookup(raw, idKeys); ok {
		n, err := toDecimal(v)
		if err != nil || !n.IsInteger() {
			return fail(k, v, "must be an integer")
		}
		t.ID = n.IntPart()
	}
	if _, v, ok := lookup(raw, symbolKeys); ok {
		t.Symbol = strings.TrimSpace(render(v))
	}
	if k, v, ok := lookup(raw, sideKeys); ok {
		side, valid := types.ParseSide(render(v))
		if !valid {
			return fail(k, v, "must be LONG/SHORT or buy/sell")
		}
		t.Side = side
	}

	hasEntry := false
	if k, v, ok := lookup(raw, entryKeys); ok {
		d, err := toDecimal(v)
		if err != nil {
			return fail(k, v, "not a number")
		}
		t.EntryPrice = d
		hasEntry = true
	}
	exitSet := false
	if k, v, ok := lookupAny(raw, exitKeys); ok {
		exitSet = true
		if v == nil {
			t.ExitPrice = nil
		} else {
			d, err := toDecimal(v)
			if err != nil {
				return fail(k, v, "not a number")
			}
			t.ExitPrice = &d
		}
	}
	if fresh && t.ExitPrice != nil && !hasEntry {
		return fail("entryPrice", nil, "required when exitPrice is present")
	}
	if k, v, ok := lookup(raw, quantityKeys); ok {
		d, err := toDecimal(v)
		if err != nil {
			return fail(k, v, "not a number")
		}
		t.Quantity = d
	}
	if k, v, ok := lookupAny(raw, pnlKeys); ok {
		if v == nil {
			t.PnL = nil
		} else {
			d, err := toDecimal(v)
			if err != nil {
				return fail(k, v, "not a number")
			}
			t.PnL = &d
		}
	}

	if k, v, ok := lookup(raw, entryDateKeys); ok {
		ts, err := toTime(v)
		if err != nil {
			return fail(k, v, "not a timestamp")
		}
		t.EntryDate = &ts
	}
	if k, v, ok := lookupAny(raw, exitDateKeys); ok {
		exitSet = true
		if v == nil {
			t.ExitDate = nil
		} else {
			ts, err := toTime(v)
			if err != nil {
				return fail(k, v, "not a timestamp")
			}
			t.ExitDate = &ts
		}
	}

	if _, v, ok := lookup(raw, notesKeys); ok {
		t.Notes = render(v)
	}
	if _, v, ok := lookup(raw, setupKeys); ok {
		t.SetupType = render(v)
	}

	if k, v, ok := lookup(raw, statusKeys); ok {
		st, valid := types.ParseStatus(render(v))
		if !valid {
			return fail(k, v, "must be OPEN or CLOSED")
		}
		t.Status = st
	} else if fresh || exitSet {
		t.Status = types.StatusOpen
		if t.ExitPrice != nil {
			t.Status = types.StatusClosed
		}
	}
	return nil
}

// lookup returns the first alias present with a non-null value.
func lookup(raw map[string]any, keys []string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

// lookupAny is lookup that also reports explicit nulls, so an update can clear
// a field.
func lookupAny(raw map[string]any, keys []string) (string, any, bool) {
	if k, v, ok := lookup(raw, keys); ok {
		return k, v, true
	}
	for _, k := range keys {
		if _, ok := raw[k]; ok {
			return k, nil, true
		}
	}
	return "", nil, false
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case json.Number:
		return decimal.NewFromString(n.String())
	case string:
		return decimal.NewFromString(strings.TrimSpace(n))
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %T", v)
	}
}

func toTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func render(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
