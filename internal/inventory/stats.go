package inventory

import (
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Stats summarises the dashboard counters.
type Stats struct {
	Chemicals     int `json:"chemicals"`
	AvailableLots int `json:"availableLots"`
	NearExpiry    int `json:"nearExpiry"`
	Expired       int `json:"expired"`
	LowStock      int `json:"lowStock"`
}

// ComputeStats counts active lots by urgency and chemicals below threshold.
func ComputeStats(s State, now time.Time, loc *time.Location, nearDays int) Stats {
	stats := Stats{Chemicals: len(s.Chemicals)}
	for _, chem := range s.Chemicals {
		if IsLowStock(chem, now, loc) {
			stats.LowStock++
		}
		for _, lot := range chem.Lots {
			if lot.Status == StatusExpired {
				stats.Expired++
				continue
			}
			if !lot.Status.Active() {
				continue
			}
			switch Assess(chem, lot, now, loc, nearDays).Urgency {
			case UrgencyExpired:
				stats.Expired++
			case UrgencyNear:
				stats.NearExpiry++
				stats.AvailableLots++
			default:
				stats.AvailableLots++
			}
		}
	}
	return stats
}

// Usable reports whether lot still counts as stock at now: it is RESERVED or
// IN_USE and not past its effective expiry, sweep or no sweep.
func Usable(chem Chemical, lot Lot, now time.Time, loc *time.Location) bool {
	if !lot.Status.Active() {
		return false
	}
	days, ok := DaysRemaining(chem, lot, now, loc)
	return !ok || days >= 0
}

// AvailableQuantity sums the quantity of the usable lots of chem.
func AvailableQuantity(chem Chemical, now time.Time, loc *time.Location) float64 {
	total := decimal.Zero
	for _, lot := range chem.Lots {
		if Usable(chem, lot, now, loc) {
			total = total.Add(decimal.NewFromFloat(lot.Quantity))
		}
	}
	return total.InexactFloat64()
}

// IsLowStock reports whether a chemical with a positive threshold holds less
// usable stock than that threshold.
func IsLowStock(chem Chemical, now time.Time, loc *time.Location) bool {
	return chem.MinThreshold > 0 && AvailableQuantity(chem, now, loc) < chem.MinThreshold
}

// ProcurementLine is one row of the purchase proposal.
type ProcurementLine struct {
	ChemicalID string  `json:"chemicalId"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Formula    string  `json:"formula"`
	CASNumber  string  `json:"casNumber"`
	Location   string  `json:"location"`
	Supplier   string  `json:"supplier"`
	Unit       string  `json:"unit"`
	Current    float64 `json:"current"`
	Threshold  float64 `json:"threshold"`
	Suggested  float64 `json:"suggested"`
}

// Procurement proposes max(0, 2*threshold - current) for every low-stock
// chemical, where current is the usable stock at now.
func Procurement(s State, now time.Time, loc *time.Location) []ProcurementLine {
	lines := make([]ProcurementLine, 0)
	for _, chem := range s.Chemicals {
		if !IsLowStock(chem, now, loc) {
			continue
		}
		current := decimal.NewFromFloat(AvailableQuantity(chem, now, loc))
		threshold := decimal.NewFromFloat(chem.MinThreshold)
		suggested := threshold.Mul(decimal.NewFromInt(2)).Sub(current)
		lines = append(lines, ProcurementLine{
			ChemicalID: chem.ID,
			Code:       chem.Code,
			Name:       chem.Name,
			Formula:    chem.Formula,
			CASNumber:  chem.CASNumber,
			Location:   chem.Location,
			Supplier:   chem.Supplier,
			Unit:       chem.PrimaryUnit(),
			Current:    current.InexactFloat64(),
			Threshold:  chem.MinThreshold,
			Suggested:  math.Max(0, suggested.InexactFloat64()),
		})
	}
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Current/lines[i].Threshold < lines[j].Current/lines[j].Threshold
	})
	return lines
}
