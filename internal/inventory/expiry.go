package inventory

import (
	"math"
	"time"
)

// DefaultNearExpiryDays is the width of the near-expiry window.
const DefaultNearExpiryDays = 30

// Urgency classifies how close a lot is to its effective expiry.
type Urgency string

const (
	UrgencyExpired Urgency = "expired"
	UrgencyNear    Urgency = "near"
	UrgencySafe    Urgency = "safe"
	UrgencyUnknown Urgency = "unknown"
)

// EffectivePAODays returns the lot override when set, else the chemical default.
func EffectivePAODays(chem Chemical, lot Lot) int {
	if lot.PAODays > 0 {
		return lot.PAODays
	}
	if chem.DefaultPAODays > 0 {
		return chem.DefaultPAODays
	}
	return 0
}

// PAOExpiry is openedDate + paoDays. The second result is false when the lot
// was never opened or no PAO applies.
func PAOExpiry(chem Chemical, lot Lot) (Date, bool) {
	days := EffectivePAODays(chem, lot)
	if lot.OpenedDate.IsZero() || days <= 0 {
		return Date{}, false
	}
	return lot.OpenedDate.AddDays(days), true
}

// EffectiveExpiry is the earlier of the manufacturer expiry and the PAO expiry.
func EffectiveExpiry(chem Chemical, lot Lot) Date {
	pao, ok := PAOExpiry(chem, lot)
	if !ok {
		return lot.ExpiryDate
	}
	if lot.ExpiryDate.IsZero() || pao.Before(lot.ExpiryDate) {
		return pao
	}
	return lot.ExpiryDate
}

// DaysRemaining returns ceil((expiry - now) / 24h) with the expiry taken at
// midnight in loc. The second result is false when the lot has no expiry.
func DaysRemaining(chem Chemical, lot Lot, now time.Time, loc *time.Location) (int, bool) {
	expiry := EffectiveExpiry(chem, lot)
	if expiry.IsZero() {
		return 0, false
	}
	delta := expiry.In(loc).Sub(now)
	return int(math.Ceil(delta.Hours() / 24)), true
}

// ClassifyDays maps a days-remaining count onto an urgency.
func ClassifyDays(days, nearDays int) Urgency {
	switch {
	case days < 0:
		return UrgencyExpired
	case days <= nearDays:
		return UrgencyNear
	default:
		return UrgencySafe
	}
}

// Assessment is the computed expiry view of a single lot.
type Assessment struct {
	PAOExpiry       Date      `json:"paoExpiry,omitzero"`
	EffectiveExpiry Date      `json:"effectiveExpiry,omitzero"`
	DaysRemaining   int       `json:"daysRemaining"`
	Urgency         Urgency   `json:"urgency"`
	DisplayStatus   LotStatus `json:"displayStatus"`
}

// Assess evaluates a lot against the clock. It never mutates its inputs.
func Assess(chem Chemical, lot Lot, now time.Time, loc *time.Location, nearDays int) Assessment {
	a := Assessment{
		EffectiveExpiry: EffectiveExpiry(chem, lot),
		Urgency:         UrgencyUnknown,
		DisplayStatus:   lot.Status,
	}
	if pao, ok := PAOExpiry(chem, lot); ok {
		a.PAOExpiry = pao
	}
	if days, ok := DaysRemaining(chem, lot, now, loc); ok {
		a.DaysRemaining = days
		a.Urgency = ClassifyDays(days, nearDays)
	}
	a.DisplayStatus = DisplayStatus(lot, a.Urgency)
	return a
}

// DisplayStatus shows EXPIRED for an active lot that is past its effective
// expiry even before the sweep has persisted the transition.
func DisplayStatus(lot Lot, urgency Urgency) LotStatus {
	if lot.Status.Active() && urgency == UrgencyExpired {
		return StatusExpired
	}
	return lot.Status
}
