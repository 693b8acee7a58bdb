// Package pricing resolves billboard rental prices from layered price tables.
//
// A price is looked up by size, level, customer category and duration. Each
// layer of the lookup is a Tier; the Resolver walks its tiers in order and the
// first tier that knows the key wins. Misses are never errors.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Mode selects how a contract duration is expressed
type Mode string

const (
	ModeMonths Mode = "months"
	ModeDays   Mode = "days"
)

// IsValid returns true if the mode is supported
func (m Mode) IsValid() bool {
	return m == ModeMonths || m == ModeDays
}

// String returns the string representation of the mode
func (m Mode) String() string {
	return string(m)
}

// DaysPerMonth converts a one-month price into a daily price
const DaysPerMonth = 30

// Key identifies one cell of a price table
type Key struct {
	Size     string
	Level    string
	Category string
	Duration int
}

// NewKey creates a normalized key. Surrounding whitespace is dropped so that
// user-entered table rows match billboard attributes.
func NewKey(size, level, category string, duration int) Key {
	return Key{
		Size:     strings.TrimSpace(size),
		Level:    strings.TrimSpace(level),
		Category: strings.TrimSpace(category),
		Duration: duration,
	}
}

// WithDuration returns a copy of the key for another duration
func (k Key) WithDuration(duration int) Key {
	k.Duration = duration
	return k
}

// Entry is one row of a price table. For monthly tables Price is the package
// price for the whole duration; for daily tables it is the price per day.
type Entry struct {
	Size     string          `json:"size"`
	Level    string          `json:"level"`
	Category string          `json:"category"`
	Duration int             `json:"duration"`
	Price    decimal.Decimal `json:"price"`
}

// Key returns the normalized lookup key of the entry
func (e Entry) Key() Key {
	return NewKey(e.Size, e.Level, e.Category, e.Duration)
}

// Query is a single price resolution request
type Query struct {
	Size     string
	Level    string
	Category string
	Duration int
	Mode     Mode
}

// Key returns the lookup key for the query
func (q Query) Key() Key {
	return NewKey(q.Size, q.Level, q.Category, q.Duration)
}
