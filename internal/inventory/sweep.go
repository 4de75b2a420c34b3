package inventory

import (
	"slices"
	"time"
)

// SweepExpired moves every RESERVED or IN_USE lot past its effective expiry to
// EXPIRED. It returns the new state and the number of lots changed; when
// nothing changed the input state is returned as is.
func SweepExpired(s State, now time.Time, loc *time.Location) (State, int) {
	changed := 0
	var chemicals []Chemical
	for i, chem := range s.Chemicals {
		var lots []Lot
		for j, lot := range chem.Lots {
			if !lot.Status.Active() {
				continue
			}
			days, ok := DaysRemaining(chem, lot, now, loc)
			if !ok || days >= 0 {
				continue
			}
			if lots == nil {
				lots = slices.Clone(chem.Lots)
			}
			lots[j].Status = StatusExpired
			changed++
		}
		if lots == nil {
			continue
		}
		if chemicals == nil {
			chemicals = slices.Clone(s.Chemicals)
		}
		chem.Lots = lots
		chemicals[i] = chem
	}
	if changed == 0 {
		return s, 0
	}
	return State{Chemicals: chemicals}, changed
}
