package inventory

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func sequenceEnv() Env {
	n := 0
	return Env{
		Today: today,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
}

func seededState(t *testing.T) State {
	t.Helper()
	s, _, err := CreateChemical{Chemical: Chemical{
		ID:             "chem-1",
		Code:           "ETH-01",
		Name:           "Ethanol",
		Formula:        "C2H5OH",
		CASNumber:      "64-17-5",
		Category:       "solvent",
		State:          "liquid",
		DefaultPAODays: 180,
		MinThreshold:   100,
		Lots:           []Lot{reservedLot()},
	}}.Reduce(State{}, sequenceEnv())
	if err != nil {
		t.Fatalf("seed state: %v", err)
	}
	return s
}

func TestCreateChemicalNormalisesFields(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	chem := s.Chemicals[0]
	if chem.Category != "Solvents" || chem.State != StateLiquid {
		t.Fatalf("unexpected normalisation %+v", chem)
	}
	if len(chem.Lots) != 1 || chem.Lots[0].Status != StatusReserved {
		t.Fatalf("unexpected lots %+v", chem.Lots)
	}
}

func TestCreateChemicalRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	tests := []struct {
		name string
		chem Chemical
		want error
	}{
		{name: "missing name", chem: Chemical{Code: "X"}, want: ErrValidation},
		{name: "duplicate code", chem: Chemical{Name: "Other", Code: "eth-01"}, want: ErrDuplicate},
		{name: "bad state", chem: Chemical{Name: "Other", State: "plasma"}, want: ErrValidation},
		{name: "lot without expiry", chem: Chemical{Name: "Other", Lots: []Lot{{LotNumber: "A", Unit: "g"}}}, want: ErrValidation},
		{name: "lot without number", chem: Chemical{Name: "Other", Lots: []Lot{{ExpiryDate: today, Unit: "g"}}}, want: ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			next, _, err := CreateChemical{Chemical: tt.chem}.Reduce(s, sequenceEnv())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !reflect.DeepEqual(next, s) {
				t.Fatal("expected state unchanged on error")
			}
		})
	}
}

func TestReceiveLotAddsReservedLot(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	next, event, err := ReceiveLot{ChemicalID: "chem-1", Lot: Lot{
		LotNumber:  "L-002",
		Quantity:   500,
		Unit:       "ml",
		ExpiryDate: MustParseDate("2027-01-01"),
	}}.Reduce(s, sequenceEnv())
	if err != nil {
		t.Fatalf("receive lot: %v", err)
	}
	if len(next.Chemicals[0].Lots) != 2 {
		t.Fatalf("expected two lots, got %d", len(next.Chemicals[0].Lots))
	}
	lot := next.Chemicals[0].Lots[1]
	if lot.Status != StatusReserved || lot.EntryDate != today || lot.ID == "" {
		t.Fatalf("unexpected received lot %+v", lot)
	}
	if event.Action != AuditAddLot || event.Amount == nil || *event.Amount != 500 {
		t.Fatalf("unexpected event %+v", event)
	}
	if len(s.Chemicals[0].Lots) != 1 {
		t.Fatal("receive mutated the previous state")
	}

	if _, _, err := (ReceiveLot{ChemicalID: "chem-1", Lot: Lot{LotNumber: "l-001", Unit: "g", ExpiryDate: today}}).Reduce(next, sequenceEnv()); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected duplicate lot error, got %v", err)
	}
	if _, _, err := (ReceiveLot{ChemicalID: "missing"}).Reduce(next, sequenceEnv()); !errors.Is(err, ErrChemicalNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestApplyLotActionSharesUntouchedChemicals(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	s, _, err := CreateChemical{Chemical: Chemical{ID: "chem-2", Name: "Acetone", Lots: []Lot{{
		ID: "lot-a", LotNumber: "A-1", Quantity: 2, Unit: "L", ExpiryDate: MustParseDate("2026-01-01"),
	}}}}.Reduce(s, sequenceEnv())
	if err != nil {
		t.Fatalf("create second chemical: %v", err)
	}
	before := s.Clone()

	next, event, err := ApplyLotAction{ChemicalID: "chem-1", LotID: "lot-1", Action: LotAction{Kind: ActionUsage, Amount: 50}}.Reduce(s, sequenceEnv())
	if err != nil {
		t.Fatalf("apply usage: %v", err)
	}
	if event.Action != AuditLotUsage || event.Amount == nil || *event.Amount != 30 {
		t.Fatalf("unexpected event %+v", event)
	}
	if &next.Chemicals[1].Lots[0] != &s.Chemicals[1].Lots[0] {
		t.Fatal("expected untouched chemical to share its lots")
	}
	if !reflect.DeepEqual(s, before) {
		t.Fatal("previous state was mutated")
	}
	if next.Chemicals[0].Lots[0].Status != StatusConsumed {
		t.Fatalf("expected CONSUMED, got %s", next.Chemicals[0].Lots[0].Status)
	}
}

func TestApplyLotActionRejectedLeavesState(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	next, _, err := ApplyLotAction{ChemicalID: "chem-1", LotID: "lot-1", Action: LotAction{Kind: ActionUsage}}.Reduce(s, sequenceEnv())
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if !reflect.DeepEqual(next, s) {
		t.Fatal("expected unchanged state")
	}
	if _, _, err := (ApplyLotAction{ChemicalID: "chem-1", LotID: "nope"}).Reduce(s, sequenceEnv()); !errors.Is(err, ErrLotNotFound) {
		t.Fatalf("expected lot not found, got %v", err)
	}
}

func TestUpdateChemicalKeepsLots(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	next, event, err := UpdateChemical{ID: "chem-1", Chemical: Chemical{Name: "Ethanol absolute", Code: "ETH-01", Category: "Solvents"}}.Reduce(s, sequenceEnv())
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if next.Chemicals[0].Name != "Ethanol absolute" || len(next.Chemicals[0].Lots) != 1 {
		t.Fatalf("unexpected chemical %+v", next.Chemicals[0])
	}
	if event.Action != AuditUpdate {
		t.Fatalf("expected UPDATE, got %s", event.Action)
	}
}

func TestDeleteChemical(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	next, event, err := DeleteChemical{ID: "chem-1"}.Reduce(s, sequenceEnv())
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(next.Chemicals) != 0 || len(s.Chemicals) != 1 {
		t.Fatal("delete must produce a new state without touching the old one")
	}
	if event.Action != AuditDelete || event.EntityID != "chem-1" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := seededState(t)
	clone := s.Clone()
	clone.Chemicals[0].Lots[0].Quantity = 1
	if s.Chemicals[0].Lots[0].Quantity == 1 {
		t.Fatal("clone shares lots with source")
	}
}
