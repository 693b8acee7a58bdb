package pricing

import (
	"sync/atomic"

	"github.com/shopspring/decimal"
)

// Source is a read-only price table
type Source interface {
	Lookup(key Key) (decimal.Decimal, bool)
}

// Table is an in-memory price table built from already fetched rows.
// A Table is immutable after construction and safe for concurrent reads.
type Table struct {
	prices map[Key]decimal.Decimal
}

// NewTable creates a table from entries. Later duplicates overwrite earlier ones.
func NewTable(entries []Entry) *Table {
	prices := make(map[Key]decimal.Decimal, len(entries))
	for _, e := range entries {
		prices[e.Key()] = e.Price
	}
	return &Table{prices: prices}
}

// EmptyTable returns a table without rows
func EmptyTable() *Table {
	return &Table{prices: map[Key]decimal.Decimal{}}
}

// Lookup returns the price stored under key
func (t *Table) Lookup(key Key) (decimal.Decimal, bool) {
	if t == nil {
		return decimal.Zero, false
	}
	price, ok := t.prices[key]
	return price, ok
}

// Len returns the number of rows in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.prices)
}

// Entries returns the table rows in no particular order
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, 0, len(t.prices))
	for k, p := range t.prices {
		entries = append(entries, Entry{
			Size:     k.Size,
			Level:    k.Level,
			Category: k.Category,
			Duration: k.Duration,
			Price:    p,
		})
	}
	return entries
}

// SnapshotSource serves lookups from the most recently stored table.
// Tiers built over it keep their position in the chain while the rows behind
// them are refreshed.
type SnapshotSource struct {
	current atomic.Pointer[Table]
}

// NewSnapshotSource creates a snapshot source holding an empty table
func NewSnapshotSource() *SnapshotSource {
	s := &SnapshotSource{}
	s.current.Store(EmptyTable())
	return s
}

// Store replaces the current table; nil stores an empty table
func (s *SnapshotSource) Store(t *Table) {
	if t == nil {
		t = EmptyTable()
	}
	s.current.Store(t)
}

// Table returns the current table
func (s *SnapshotSource) Table() *Table {
	return s.current.Load()
}

// Lookup returns the price stored under key in the current table
func (s *SnapshotSource) Lookup(key Key) (decimal.Decimal, bool) {
	return s.current.Load().Lookup(key)
}

var (
	_ Source = (*Table)(nil)
	_ Source = (*SnapshotSource)(nil)
)
