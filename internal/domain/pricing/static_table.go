package pricing

import (
	"github.com/shopspring/decimal"
)

// Customer categories known to the reference table
const (
	CategoryRegular  = "regular"
	CategoryMarketer = "marketer"
)

// referenceMonthlyRates is the one-month list price per size and level
var referenceMonthlyRates = map[string]map[string]int64{
	"13x5": {"S": 5200, "A": 4600, "B": 3900},
	"12x4": {"S": 4000, "A": 3500, "B": 3000},
	"10x4": {"S": 3300, "A": 2900, "B": 2500},
	"8x3":  {"S": 2200, "A": 1900, "B": 1600},
	"6x3":  {"S": 1700, "A": 1450, "B": 1200},
	"4x3":  {"S": 1100, "A": 950, "B": 800},
}

// referenceCategoryFactors scales list prices per customer category
var referenceCategoryFactors = map[string]string{
	CategoryRegular:  "1",
	CategoryMarketer: "0.9",
}

// referenceDurationFactors discounts longer packages
var referenceDurationFactors = map[int]string{
	1:  "1",
	2:  "0.98",
	3:  "0.95",
	6:  "0.9",
	12: "0.85",
}

// referenceDailyRates is the per-day list price for sizes sold by the day
var referenceDailyRates = map[string]map[string]int64{
	"13x5": {"S": 190, "A": 170, "B": 140},
	"12x4": {"S": 150, "A": 130, "B": 110},
}

// StaticMonthlyTable returns the compiled-in reference package prices.
// price = monthly rate * months * duration factor * category factor, rounded to whole units.
func StaticMonthlyTable() *Table {
	entries := make([]Entry, 0, len(referenceMonthlyRates)*3*len(referenceCategoryFactors)*len(referenceDurationFactors))
	for size, levels := range referenceMonthlyRates {
		for level, rate := range levels {
			for category, cf := range referenceCategoryFactors {
				for months, df := range referenceDurationFactors {
					price := decimal.NewFromInt(rate).
						Mul(decimal.NewFromInt(int64(months))).
						Mul(decimal.RequireFromString(df)).
						Mul(decimal.RequireFromString(cf)).
						Round(0)
					entries = append(entries, Entry{
						Size:     size,
						Level:    level,
						Category: category,
						Duration: months,
						Price:    price,
					})
				}
			}
		}
	}
	return NewTable(entries)
}

// StaticDailyTable returns the compiled-in reference daily prices
func StaticDailyTable() *Table {
	entries := make([]Entry, 0, len(referenceDailyRates)*3*len(referenceCategoryFactors))
	for size, levels := range referenceDailyRates {
		for level, rate := range levels {
			for category, cf := range referenceCategoryFactors {
				entries = append(entries, Entry{
					Size:     size,
					Level:    level,
					Category: category,
					Duration: DailyKeyDuration,
					Price:    decimal.NewFromInt(rate).Mul(decimal.RequireFromString(cf)).Round(2),
				})
			}
		}
	}
	return NewTable(entries)
}
