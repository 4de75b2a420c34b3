package workspace

import (
	"fmt"
	"slices"

	"labstock/internal/inventory"
)

// Snapshot returns a deep copy of the current inventory.
func (w *Workspace) Snapshot() inventory.State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.Clone()
}

// Chemicals returns deep copies of the chemicals matching q.
func (w *Workspace) Chemicals(q inventory.Query) []inventory.Chemical {
	w.mu.RLock()
	defer w.mu.RUnlock()
	matches := inventory.Filter(w.state, q, w.clock(), w.loc)
	out := make([]inventory.Chemical, len(matches))
	for i, chem := range matches {
		out[i] = inventory.CloneChemical(chem)
	}
	return out
}

// Chemical returns a copy of one chemical.
func (w *Workspace) Chemical(id string) (inventory.Chemical, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := w.state.Find(id)
	if i < 0 {
		return inventory.Chemical{}, fmt.Errorf("%w: %s", inventory.ErrChemicalNotFound, id)
	}
	return inventory.CloneChemical(w.state.Chemicals[i]), nil
}

// Lot returns copies of a chemical and one of its lots.
func (w *Workspace) Lot(chemicalID, lotID string) (inventory.Chemical, inventory.Lot, error) {
	chem, err := w.Chemical(chemicalID)
	if err != nil {
		return inventory.Chemical{}, inventory.Lot{}, err
	}
	j := chem.FindLot(lotID)
	if j < 0 {
		return inventory.Chemical{}, inventory.Lot{}, fmt.Errorf("%w: %s", inventory.ErrLotNotFound, lotID)
	}
	return chem, chem.Lots[j], nil
}

// Audit returns up to limit audit entries, newest first. A non-positive
// limit returns the whole log.
func (w *Workspace) Audit(limit int) []inventory.AuditEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if limit <= 0 || limit > len(w.audit) {
		limit = len(w.audit)
	}
	return slices.Clone(w.audit[:limit])
}

// Stats computes the dashboard counters against the workspace clock.
func (w *Workspace) Stats() inventory.Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return inventory.ComputeStats(w.state, w.clock(), w.loc, w.nearDays)
}

// Procurement returns the purchase proposal for low-stock chemicals at the
// workspace clock.
func (w *Workspace) Procurement() []inventory.ProcurementLine {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return inventory.Procurement(w.state, w.clock(), w.loc)
}

// Assess evaluates a lot against the workspace clock and time zone.
func (w *Workspace) Assess(chem inventory.Chemical, lot inventory.Lot) inventory.Assessment {
	return inventory.Assess(chem, lot, w.clock(), w.loc, w.nearDays)
}
