package collection

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adboard/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ErrMalformedSchedule is returned when a stored schedule cannot be decoded
var ErrMalformedSchedule = errors.New("malformed installment schedule")

// dueDateLayouts are tried in order; layouts without a zone are read in the
// caller's location
var dueDateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// storedInstallment is the persisted shape of a schedule entry
type storedInstallment struct {
	Amount       json.RawMessage `json:"amount"`
	DueDate      string          `json:"dueDate"`
	DueDateSnake string          `json:"due_date"`
	Description  string          `json:"description"`
}

// ParseSchedule decodes an installment schedule and returns it sorted by due date.
// raw may be JSON bytes, a JSON string (also double-encoded), or []Installment.
// Entries without a due date are dropped. Any decode failure wraps ErrMalformedSchedule.
func ParseSchedule(raw any, loc *time.Location) ([]Installment, error) {
	if loc == nil {
		loc = time.UTC
	}

	var installments []Installment
	switch v := raw.(type) {
	case nil:
		return []Installment{}, nil
	case []Installment:
		installments = make([]Installment, 0, len(v))
		for _, inst := range v {
			if inst.DueDate.IsZero() {
				continue
			}
			installments = append(installments, inst)
		}
	case []byte:
		parsed, err := decodeSchedule(v, loc)
		if err != nil {
			return nil, err
		}
		installments = parsed
	case json.RawMessage:
		parsed, err := decodeSchedule(v, loc)
		if err != nil {
			return nil, err
		}
		installments = parsed
	case string:
		parsed, err := decodeSchedule([]byte(v), loc)
		if err != nil {
			return nil, err
		}
		installments = parsed
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrMalformedSchedule, raw)
	}

	SortInstallments(installments)
	return installments, nil
}

// SortInstallments orders installments by ascending due date, keeping the
// stored order for equal dates
func SortInstallments(installments []Installment) {
	sort.SliceStable(installments, func(i, j int) bool {
		return installments[i].DueDate.Before(installments[j].DueDate)
	})
}

func decodeSchedule(data []byte, loc *time.Location) ([]Installment, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []Installment{}, nil
	}

	// double-encoded: the array was stored as a JSON string
	if data[0] == '"' {
		var inner string
		if err := json.Unmarshal(data, &inner); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
		}
		return decodeSchedule([]byte(inner), loc)
	}

	var stored []storedInstallment
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchedule, err)
	}

	installments := make([]Installment, 0, len(stored))
	for i, s := range stored {
		due := strings.TrimSpace(s.DueDate)
		if due == "" {
			due = strings.TrimSpace(s.DueDateSnake)
		}
		if due == "" {
			continue
		}
		dueDate, err := parseDueDate(due, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedSchedule, i, err)
		}
		installments = append(installments, Installment{
			Amount:      decodeAmount(s.Amount),
			DueDate:     dueDate,
			Description: s.Description,
		})
	}
	return installments, nil
}

func parseDueDate(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", s)
}

// decodeAmount accepts a JSON number or a numeric string; anything else is zero
func decodeAmount(raw json.RawMessage) decimal.Decimal {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero
		}
		return valueobject.ParseAmount(s)
	}
	return valueobject.ParseAmount(string(raw))
}
