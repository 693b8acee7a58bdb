package contract

import (
	"strings"
	"time"

	"github.com/adboard/backend/internal/domain/shared/valueobject"
)

// Status is the date-derived state of a contract
type Status string

const (
	StatusUpcoming     Status = "upcoming"
	StatusActive       Status = "active"
	StatusExpiringSoon Status = "expiring_soon"
	StatusExpired      Status = "expired"
	// StatusUnknown is returned when the contract has no usable dates
	StatusUnknown Status = "unknown"
)

// DefaultExpiringSoonDays is the expiring-soon window when none is configured
const DefaultExpiringSoonDays = 30

// maintenanceStatuses are the status values that take a billboard off the market
var maintenanceStatuses = map[string]struct{}{
	"maintenance":       {},
	"under_maintenance": {},
	"repair_needed":     {},
	"needs_repair":      {},
	"out_of_service":    {},
	"removed":           {},
	"damaged":           {},
	"dismantled":        {},
	"تحت الصيانة":       {},
	"متضررة":            {},
	"تمت الإزالة":       {},
	"خارج الخدمة":       {},
}

// IsMaintenanceStatus reports whether s marks a billboard as unusable.
// Matching is case-insensitive and ignores surrounding whitespace.
func IsMaintenanceStatus(s string) bool {
	_, ok := maintenanceStatuses[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

// Classifier derives contract and billboard states from dates.
// All day boundaries are taken in the classifier's location.
type Classifier struct {
	loc              *time.Location
	expiringSoonDays int
}

// NewClassifier creates a classifier. A nil location means UTC and a
// non-positive window means DefaultExpiringSoonDays.
func NewClassifier(loc *time.Location, expiringSoonDays int) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	if expiringSoonDays <= 0 {
		expiringSoonDays = DefaultExpiringSoonDays
	}
	return &Classifier{loc: loc, expiringSoonDays: expiringSoonDays}
}

// Location returns the classifier's time zone
func (c *Classifier) Location() *time.Location {
	return c.loc
}

// IsExpired returns true when the end date's last instant is before today began
func (c *Classifier) IsExpired(end, now time.Time) bool {
	return valueobject.EndOfDay(end, c.loc).Before(valueobject.StartOfDay(now, c.loc))
}

// IsActive returns true when today's noon falls inside [start 00:00, end 23:59:59.999]
func (c *Classifier) IsActive(start, end, now time.Time) bool {
	noon := valueobject.Noon(now, c.loc)
	from := valueobject.StartOfDay(start, c.loc)
	to := valueobject.EndOfDay(end, c.loc)
	return !noon.Before(from) && !noon.After(to)
}

// DaysUntilExpiry returns ceil((endOfDay(end) - startOfDay(now)) / day).
// The last day of a contract counts as 1; a contract that ended yesterday gives 0.
func (c *Classifier) DaysUntilExpiry(end, now time.Time) int {
	// end-of-day minus start-of-day spans the civil difference plus one partial day,
	// counted on civil dates so 23 and 25 hour DST days do not shift the result
	return valueobject.CalendarDaysBetween(now, end, c.loc) + 1
}

// IsBillboardAvailable reports whether a billboard can be booked now.
// Maintenance overrides everything; a contract without an end date never releases.
func (c *Classifier) IsBillboardAvailable(b Billboard, now time.Time) bool {
	if IsMaintenanceStatus(b.Status) || IsMaintenanceStatus(b.MaintenanceStatus) || IsMaintenanceStatus(b.MaintenanceType) {
		return false
	}
	if !b.HasContract() {
		return true
	}
	if b.EndDate == nil {
		return false
	}
	return c.IsExpired(*b.EndDate, now)
}

// ContractStatus classifies a contract period relative to now
func (c *Classifier) ContractStatus(start, end *time.Time, now time.Time) Status {
	if end == nil {
		return StatusUnknown
	}
	if c.IsExpired(*end, now) {
		return StatusExpired
	}
	if start != nil && valueobject.StartOfDay(*start, c.loc).After(valueobject.Noon(now, c.loc)) {
		return StatusUpcoming
	}
	if c.DaysUntilExpiry(*end, now) <= c.expiringSoonDays {
		return StatusExpiringSoon
	}
	return StatusActive
}
