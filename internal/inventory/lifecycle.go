package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ActionKind names a lot transition.
type ActionKind string

const (
	ActionOpen        ActionKind = "open"
	ActionUsage       ActionKind = "usage"
	ActionStockIn     ActionKind = "stock-in"
	ActionDispose     ActionKind = "dispose"
	ActionConsumeAll  ActionKind = "consume-all"
	ActionUpdateDates ActionKind = "dates"
)

// ParseActionKind validates a path segment or form value.
func ParseActionKind(value string) (ActionKind, bool) {
	switch kind := ActionKind(value); kind {
	case ActionOpen, ActionUsage, ActionStockIn, ActionDispose, ActionConsumeAll, ActionUpdateDates:
		return kind, true
	default:
		return "", false
	}
}

// DatePatch carries the date fields an UPDATE_DATES action may change. Nil
// pointers and a nil container slice leave the field as it was.
type DatePatch struct {
	EntryDate            *Date  `json:"entryDate,omitempty"`
	OpenedDate           *Date  `json:"openedDate,omitempty"`
	ContainerOpenedDates []Date `json:"bottleOpenedDates,omitempty"`
}

// LotAction is one requested transition with its parameters.
type LotAction struct {
	Kind   ActionKind `json:"kind"`
	Amount float64    `json:"amount,omitempty"`
	// Date overrides "today" for OPEN.
	Date  Date       `json:"date,omitzero"`
	Dates *DatePatch `json:"dates,omitempty"`
}

// Transition is the outcome of applying a LotAction. When Applied is false the
// lot is returned unchanged and Details explains why.
type Transition struct {
	Lot     Lot
	Audit   AuditAction
	Applied bool
	Amount  float64
	Details string
}

// Apply runs the lot state machine. It is total: every input produces a
// Transition and the input lot is never modified.
func Apply(lot Lot, action LotAction, today Date) Transition {
	lot = cloneLot(lot)
	switch action.Kind {
	case ActionOpen:
		return applyOpen(lot, action, today)
	case ActionUsage:
		return applyUsage(lot, action.Amount, today)
	case ActionStockIn:
		return applyStockIn(lot, action.Amount, today)
	case ActionDispose:
		return applyDispose(lot)
	case ActionConsumeAll:
		return applyConsumeAll(lot, today)
	case ActionUpdateDates:
		return applyUpdateDates(lot, action.Dates)
	default:
		return Transition{Lot: lot, Details: fmt.Sprintf("unknown lot action %q", action.Kind)}
	}
}

func applyOpen(lot Lot, action LotAction, today Date) Transition {
	t := Transition{Lot: lot, Audit: AuditOpenLot}
	if !lot.OpenedDate.IsZero() {
		t.Details = fmt.Sprintf("Lot %s already opened on %s", lot.LotNumber, lot.OpenedDate)
		return t
	}
	if !lot.Status.Active() {
		t.Details = fmt.Sprintf("Lot %s is %s and cannot be opened", lot.LotNumber, lot.Status)
		return t
	}
	opened := action.Date
	if opened.IsZero() {
		opened = today
	}
	t.Lot.OpenedDate = opened
	t.Lot.Status = StatusInUse
	t.Applied = true
	t.Details = fmt.Sprintf("Opened lot %s on %s", lot.LotNumber, opened)
	return t
}

func applyUsage(lot Lot, amount float64, today Date) Transition {
	t := Transition{Lot: lot, Audit: AuditLotUsage}
	if amount <= 0 {
		t.Details = "Usage amount must be greater than zero"
		return t
	}
	if !lot.Status.Active() {
		t.Details = fmt.Sprintf("Lot %s is %s; usage requires RESERVED or IN_USE", lot.LotNumber, lot.Status)
		return t
	}

	current := nonNegative(decimal.NewFromFloat(lot.Quantity))
	removed := decimal.Min(current, decimal.NewFromFloat(amount))
	remaining := current.Sub(removed)

	t.Lot.Quantity = remaining.InexactFloat64()
	t.Lot.LastUsedDate = today
	if remaining.Sign() <= 0 {
		t.Lot.Quantity = 0
		t.Lot.Status = StatusConsumed
	}
	t.Applied = true
	t.Amount = removed.InexactFloat64()
	t.Details = fmt.Sprintf("Used %s %s from lot %s", removed.String(), lot.Unit, lot.LotNumber)
	if removed.LessThan(decimal.NewFromFloat(amount)) {
		t.Details += fmt.Sprintf(" (requested %s, clamped to available stock)", decimal.NewFromFloat(amount).String())
	}
	return t
}

func applyStockIn(lot Lot, amount float64, today Date) Transition {
	t := Transition{Lot: lot, Audit: AuditLotStockIn}
	if amount <= 0 {
		t.Details = "Stock-in amount must be greater than zero"
		return t
	}
	added := decimal.NewFromFloat(amount)
	t.Lot.Quantity = nonNegative(decimal.NewFromFloat(lot.Quantity)).Add(added).InexactFloat64()
	t.Lot.LastUsedDate = today
	if lot.Status == StatusConsumed {
		if lot.OpenedDate.IsZero() {
			t.Lot.Status = StatusReserved
		} else {
			t.Lot.Status = StatusInUse
		}
	}
	t.Applied = true
	t.Amount = amount
	t.Details = fmt.Sprintf("Added %s %s to lot %s", added.String(), lot.Unit, lot.LotNumber)
	return t
}

// applyDispose treats DISPOSED as the only terminal status: expired and
// consumed containers still sit on the shelf until they are disposed of.
func applyDispose(lot Lot) Transition {
	t := Transition{Lot: lot, Audit: AuditStatusChange}
	if lot.Status == StatusDisposed {
		t.Details = fmt.Sprintf("Lot %s is already disposed", lot.LotNumber)
		return t
	}
	t.Lot.Status = StatusDisposed
	t.Applied = true
	t.Details = fmt.Sprintf("Lot %s status %s -> %s", lot.LotNumber, lot.Status, StatusDisposed)
	return t
}

func applyConsumeAll(lot Lot, today Date) Transition {
	previous := nonNegative(decimal.NewFromFloat(lot.Quantity))
	lot.Quantity = 0
	lot.LastUsedDate = today
	lot.Status = StatusConsumed
	return Transition{
		Lot:     lot,
		Audit:   AuditConsumeAll,
		Applied: true,
		Amount:  previous.InexactFloat64(),
		Details: fmt.Sprintf("Consumed remaining %s %s of lot %s", previous.String(), lot.Unit, lot.LotNumber),
	}
}

func applyUpdateDates(lot Lot, patch *DatePatch) Transition {
	t := Transition{Lot: lot, Audit: AuditUpdateDates}
	if patch == nil || (patch.EntryDate == nil && patch.OpenedDate == nil && patch.ContainerOpenedDates == nil) {
		t.Details = fmt.Sprintf("No date changes for lot %s", lot.LotNumber)
		return t
	}

	wasOpened := !lot.OpenedDate.IsZero()
	if patch.EntryDate != nil {
		t.Lot.EntryDate = *patch.EntryDate
	}
	if patch.OpenedDate != nil {
		t.Lot.OpenedDate = *patch.OpenedDate
	}
	if patch.ContainerOpenedDates != nil {
		t.Lot.ContainerOpenedDates = append([]Date(nil), patch.ContainerOpenedDates...)
	}
	if len(t.Lot.ContainerOpenedDates) > 0 {
		t.Lot.OpenedDate = EarliestDate(append([]Date{t.Lot.OpenedDate}, t.Lot.ContainerOpenedDates...)...)
	}
	if !wasOpened && !t.Lot.OpenedDate.IsZero() && t.Lot.Status == StatusReserved {
		t.Lot.Status = StatusInUse
	}

	t.Applied = true
	t.Details = fmt.Sprintf("Updated dates of lot %s (entry %s, opened %s, containers %d)",
		lot.LotNumber, t.Lot.EntryDate, dashIfEmpty(t.Lot.OpenedDate.String()), len(t.Lot.ContainerOpenedDates))
	return t
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.Sign() < 0 {
		return decimal.Zero
	}
	return d
}

func dashIfEmpty(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func cloneLot(lot Lot) Lot {
	if lot.ContainerOpenedDates != nil {
		lot.ContainerOpenedDates = append([]Date(nil), lot.ContainerOpenedDates...)
	}
	return lot
}
