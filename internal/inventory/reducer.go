package inventory

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	ErrChemicalNotFound = errors.New("inventory: chemical not found")
	ErrLotNotFound      = errors.New("inventory: lot not found")
	ErrValidation       = errors.New("inventory: validation failed")
	ErrRejected         = errors.New("inventory: transition rejected")
	ErrDuplicate        = errors.New("inventory: duplicate identifier")
)

// Units lists the accepted quantity units.
var Units = []string{"mg", "g", "kg", "ml", "L", "unit"}

// State is the full inventory snapshot. Reducers never mutate a State in place:
// they return a new one that shares every untouched chemical with the old one.
type State struct {
	Chemicals []Chemical `json:"chemicals"`
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	out := State{Chemicals: make([]Chemical, len(s.Chemicals))}
	for i, chem := range s.Chemicals {
		out.Chemicals[i] = CloneChemical(chem)
	}
	return out
}

// CloneChemical deep-copies a chemical and its lots.
func CloneChemical(chem Chemical) Chemical {
	if chem.HazardGHS != nil {
		chem.HazardGHS = append([]string(nil), chem.HazardGHS...)
	}
	if chem.Lots != nil {
		lots := make([]Lot, len(chem.Lots))
		for i, lot := range chem.Lots {
			lots[i] = cloneLot(lot)
		}
		chem.Lots = lots
	}
	return chem
}

// Find returns the index of the chemical with the given id, or -1.
func (s State) Find(id string) int {
	for i := range s.Chemicals {
		if s.Chemicals[i].ID == id {
			return i
		}
	}
	return -1
}

// replace returns a copy of s with position i swapped for chem.
func (s State) replace(i int, chem Chemical) State {
	chemicals := slices.Clone(s.Chemicals)
	chemicals[i] = chem
	return State{Chemicals: chemicals}
}

// Env supplies the clock and id generator a reducer may need.
type Env struct {
	Today Date
	NewID func() string
}

func (e Env) id() string {
	if e.NewID == nil {
		return ""
	}
	return e.NewID()
}

// Event is the audit-ready description a reducer emits. The caller stamps it
// with an id, timestamp and actor.
type Event struct {
	Action       AuditAction
	EntityID     string
	ChemicalName string
	LotNumber    string
	Amount       *float64
	Unit         string
	Details      string
}

// Command is a single inventory mutation.
type Command interface {
	Reduce(s State, env Env) (State, Event, error)
}

// CreateChemical adds a new master record, optionally with initial lots.
type CreateChemical struct {
	Chemical Chemical
}

func (c CreateChemical) Reduce(s State, env Env) (State, Event, error) {
	chem, err := normalizeChemical(c.Chemical)
	if err != nil {
		return s, Event{}, err
	}
	if chem.Code != "" && codeTaken(s, chem.Code, "") {
		return s, Event{}, fmt.Errorf("%w: code %q already exists", ErrDuplicate, chem.Code)
	}
	if chem.ID == "" {
		chem.ID = env.id()
	}
	if s.Find(chem.ID) >= 0 {
		return s, Event{}, fmt.Errorf("%w: chemical id %q already exists", ErrDuplicate, chem.ID)
	}

	lots := make([]Lot, 0, len(chem.Lots))
	for _, lot := range chem.Lots {
		prepared, err := prepareNewLot(lot, lots, env)
		if err != nil {
			return s, Event{}, err
		}
		lots = append(lots, prepared)
	}
	chem.Lots = lots

	next := State{Chemicals: append(slices.Clone(s.Chemicals), chem)}
	return next, Event{
		Action:       AuditCreate,
		EntityID:     chem.ID,
		ChemicalName: chem.Name,
		Details:      fmt.Sprintf("Created chemical %s (%s) with %d lot(s)", chem.Name, dashIfEmpty(chem.Code), len(lots)),
	}, nil
}

// UpdateChemical replaces the master fields of an existing chemical. Lots are kept.
type UpdateChemical struct {
	ID       string
	Chemical Chemical
}

func (c UpdateChemical) Reduce(s State, _ Env) (State, Event, error) {
	i := s.Find(c.ID)
	if i < 0 {
		return s, Event{}, fmt.Errorf("%w: %s", ErrChemicalNotFound, c.ID)
	}
	chem, err := normalizeChemical(c.Chemical)
	if err != nil {
		return s, Event{}, err
	}
	if chem.Code != "" && codeTaken(s, chem.Code, c.ID) {
		return s, Event{}, fmt.Errorf("%w: code %q already exists", ErrDuplicate, chem.Code)
	}
	chem.ID = c.ID
	chem.Lots = s.Chemicals[i].Lots

	return s.replace(i, chem), Event{
		Action:       AuditUpdate,
		EntityID:     chem.ID,
		ChemicalName: chem.Name,
		Details:      fmt.Sprintf("Updated master record of %s", chem.Name),
	}, nil
}

// DeleteChemical removes a chemical and all of its lots.
type DeleteChemical struct {
	ID string
}

func (c DeleteChemical) Reduce(s State, _ Env) (State, Event, error) {
	i := s.Find(c.ID)
	if i < 0 {
		return s, Event{}, fmt.Errorf("%w: %s", ErrChemicalNotFound, c.ID)
	}
	removed := s.Chemicals[i]
	chemicals := slices.Delete(slices.Clone(s.Chemicals), i, i+1)
	return State{Chemicals: chemicals}, Event{
		Action:       AuditDelete,
		EntityID:     removed.ID,
		ChemicalName: removed.Name,
		Details:      fmt.Sprintf("Deleted chemical %s with %d lot(s)", removed.Name, len(removed.Lots)),
	}, nil
}

// ReceiveLot records a newly received batch against a chemical.
type ReceiveLot struct {
	ChemicalID string
	Lot        Lot
}

func (c ReceiveLot) Reduce(s State, env Env) (State, Event, error) {
	i := s.Find(c.ChemicalID)
	if i < 0 {
		return s, Event{}, fmt.Errorf("%w: %s", ErrChemicalNotFound, c.ChemicalID)
	}
	chem := s.Chemicals[i]
	if c.Lot.EntryDate.IsZero() {
		c.Lot.EntryDate = env.Today
	}
	lot, err := prepareNewLot(c.Lot, chem.Lots, env)
	if err != nil {
		return s, Event{}, err
	}
	chem.Lots = append(slices.Clone(chem.Lots), lot)

	amount := lot.Quantity
	return s.replace(i, chem), Event{
		Action:       AuditAddLot,
		EntityID:     lot.ID,
		ChemicalName: chem.Name,
		LotNumber:    lot.LotNumber,
		Amount:       &amount,
		Unit:         lot.Unit,
		Details:      fmt.Sprintf("Received lot %s of %s, expires %s", lot.LotNumber, chem.Name, lot.ExpiryDate),
	}, nil
}

// ApplyLotAction runs one lot transition. A transition that is not applied
// leaves the state untouched and returns ErrRejected.
type ApplyLotAction struct {
	ChemicalID string
	LotID      string
	Action     LotAction
}

func (c ApplyLotAction) Reduce(s State, env Env) (State, Event, error) {
	i := s.Find(c.ChemicalID)
	if i < 0 {
		return s, Event{}, fmt.Errorf("%w: %s", ErrChemicalNotFound, c.ChemicalID)
	}
	chem := s.Chemicals[i]
	j := chem.FindLot(c.LotID)
	if j < 0 {
		return s, Event{}, fmt.Errorf("%w: %s", ErrLotNotFound, c.LotID)
	}

	t := Apply(chem.Lots[j], c.Action, env.Today)
	if !t.Applied {
		return s, Event{}, fmt.Errorf("%w: %s", ErrRejected, t.Details)
	}
	chem.Lots = slices.Clone(chem.Lots)
	chem.Lots[j] = t.Lot

	event := Event{
		Action:       t.Audit,
		EntityID:     t.Lot.ID,
		ChemicalName: chem.Name,
		LotNumber:    t.Lot.LotNumber,
		Unit:         t.Lot.Unit,
		Details:      t.Details,
	}
	switch t.Audit {
	case AuditLotUsage, AuditLotStockIn, AuditConsumeAll:
		amount := t.Amount
		event.Amount = &amount
	}
	return s.replace(i, chem), event, nil
}

func normalizeChemical(chem Chemical) (Chemical, error) {
	chem = CloneChemical(chem)
	chem.Name = strings.TrimSpace(chem.Name)
	chem.Code = strings.TrimSpace(chem.Code)
	chem.CASNumber = strings.TrimSpace(chem.CASNumber)
	if chem.Name == "" {
		return chem, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if chem.State == "" {
		chem.State = StateSolid
	} else if parsed, ok := ParsePhysicalState(string(chem.State)); ok {
		chem.State = parsed
	} else {
		return chem, fmt.Errorf("%w: unknown physical state %q", ErrValidation, chem.State)
	}
	chem.Category = NormalizeCategory(chem.Category)
	chem.NFPA = chem.NFPA.Clamp()
	if chem.DefaultPAODays < 0 {
		return chem, fmt.Errorf("%w: default PAO days cannot be negative", ErrValidation)
	}
	if chem.MinThreshold < 0 {
		return chem, fmt.Errorf("%w: minimum threshold cannot be negative", ErrValidation)
	}
	return chem, nil
}

func codeTaken(s State, code, exceptID string) bool {
	for _, chem := range s.Chemicals {
		if chem.ID != exceptID && strings.EqualFold(chem.Code, code) {
			return true
		}
	}
	return false
}

// ValidateLot checks the fields a received lot must carry.
func ValidateLot(lot Lot) error {
	switch {
	case strings.TrimSpace(lot.LotNumber) == "":
		return fmt.Errorf("%w: lot number is required", ErrValidation)
	case lot.ExpiryDate.IsZero():
		return fmt.Errorf("%w: expiry date is required", ErrValidation)
	case lot.Quantity < 0:
		return fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	case lot.PAODays < 0:
		return fmt.Errorf("%w: PAO days cannot be negative", ErrValidation)
	case !slices.Contains(Units, lot.Unit):
		return fmt.Errorf("%w: unknown unit %q", ErrValidation, lot.Unit)
	}
	return nil
}

func prepareNewLot(lot Lot, existing []Lot, env Env) (Lot, error) {
	lot = cloneLot(lot)
	lot.LotNumber = strings.TrimSpace(lot.LotNumber)
	if err := ValidateLot(lot); err != nil {
		return lot, err
	}
	for _, other := range existing {
		if strings.EqualFold(other.LotNumber, lot.LotNumber) {
			return lot, fmt.Errorf("%w: lot number %q already exists", ErrDuplicate, lot.LotNumber)
		}
	}
	if lot.ID == "" {
		lot.ID = env.id()
	}
	if lot.EntryDate.IsZero() {
		lot.EntryDate = env.Today
	}
	if len(lot.ContainerOpenedDates) > 0 {
		lot.OpenedDate = EarliestDate(append([]Date{lot.OpenedDate}, lot.ContainerOpenedDates...)...)
	}
	if !lot.Status.Valid() {
		lot.Status = StatusReserved
		if !lot.OpenedDate.IsZero() {
			lot.Status = StatusInUse
		}
	}
	if lot.Quantity == 0 && lot.Status.Active() {
		lot.Status = StatusConsumed
	}
	return lot, nil
}
