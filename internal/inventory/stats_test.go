package inventory

import (
	"testing"
	"time"
)

func statsFixture() State {
	return State{Chemicals: []Chemical{
		{
			ID: "c1", Name: "Ethanol", Category: "Solvents", Code: "ETH", MinThreshold: 100,
			Lots: []Lot{
				{ID: "a", LotNumber: "E-1", Quantity: 40, Unit: "ml", ExpiryDate: MustParseDate("2024-09-20"), Status: StatusInUse},
				{ID: "b", LotNumber: "E-2", Quantity: 20, Unit: "ml", ExpiryDate: MustParseDate("2024-08-01"), Status: StatusReserved},
				{ID: "c", LotNumber: "E-3", Quantity: 500, Unit: "ml", ExpiryDate: MustParseDate("2026-01-01"), Status: StatusDisposed},
			},
		},
		{
			ID: "c2", Name: "Sodium chloride", Category: "Reagents", Formula: "NaCl", CASNumber: "7647-14-5", MinThreshold: 10,
			Lots: []Lot{
				{ID: "d", LotNumber: "N-1", Quantity: 50, Unit: "g", ExpiryDate: MustParseDate("2027-01-01"), Status: StatusReserved},
			},
		},
	}}
}

func TestComputeStats(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 10, 10, 0, 0, 0, time.UTC)
	got := ComputeStats(statsFixture(), now, time.UTC, DefaultNearExpiryDays)
	want := Stats{Chemicals: 2, AvailableLots: 2, NearExpiry: 1, Expired: 1, LowStock: 1}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

var statsNow = time.Date(2024, 9, 10, 10, 0, 0, 0, time.UTC)

func TestProcurementSuggestsTopUp(t *testing.T) {
	t.Parallel()

	lines := Procurement(statsFixture(), statsNow, time.UTC)
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	line := lines[0]
	if line.ChemicalID != "c1" || line.Current != 40 || line.Suggested != 160 || line.Unit != "ml" {
		t.Fatalf("unexpected line %+v", line)
	}
}

func TestProcurementIgnoresZeroThreshold(t *testing.T) {
	t.Parallel()

	s := State{Chemicals: []Chemical{{ID: "x", Name: "Water"}}}
	if lines := Procurement(s, statsNow, time.UTC); len(lines) != 0 {
		t.Fatalf("expected no lines, got %+v", lines)
	}
}

func TestAvailableQuantitySkipsLotsPastExpiry(t *testing.T) {
	t.Parallel()

	chem := statsFixture().Chemicals[0]
	tests := []struct {
		name string
		now  time.Time
		want float64
		low  bool
	}{
		{name: "before any expiry", now: time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC), want: 60, low: true},
		{name: "reserved lot past expiry", now: statsNow, want: 40, low: true},
		{name: "every lot past expiry", now: time.Date(2024, 10, 1, 9, 0, 0, 0, time.UTC), want: 0, low: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := AvailableQuantity(chem, tt.now, time.UTC); got != tt.want {
				t.Fatalf("expected %v available, got %v", tt.want, got)
			}
			if got := IsLowStock(chem, tt.now, time.UTC); got != tt.low {
				t.Fatalf("expected low stock %t, got %t", tt.low, got)
			}
		})
	}

	stocked := Chemical{ID: "x", MinThreshold: 30, Lots: []Lot{
		{ID: "y", Quantity: 50, ExpiryDate: MustParseDate("2024-09-01"), Status: StatusInUse},
	}}
	if IsLowStock(stocked, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), time.UTC) {
		t.Fatal("expected in-date stock above the threshold")
	}
	if !IsLowStock(stocked, statsNow, time.UTC) {
		t.Fatal("expected expired but unswept stock to count as missing")
	}
	if lines := Procurement(State{Chemicals: []Chemical{stocked}}, statsNow, time.UTC); len(lines) != 1 || lines[0].Current != 0 || lines[0].Suggested != 60 {
		t.Fatalf("unexpected proposal %+v", lines)
	}
}

func TestSweepExpiredMarksOnlyActiveLots(t *testing.T) {
	t.Parallel()

	s := statsFixture()
	now := time.Date(2024, 9, 10, 10, 0, 0, 0, time.UTC)
	next, changed := SweepExpired(s, now, time.UTC)
	if changed != 1 {
		t.Fatalf("expected one lot expired, got %d", changed)
	}
	if next.Chemicals[0].Lots[1].Status != StatusExpired {
		t.Fatalf("expected E-2 expired, got %s", next.Chemicals[0].Lots[1].Status)
	}
	if s.Chemicals[0].Lots[1].Status != StatusReserved {
		t.Fatal("sweep mutated the input state")
	}
	if &next.Chemicals[1].Lots[0] != &s.Chemicals[1].Lots[0] {
		t.Fatal("expected untouched chemical to be shared")
	}

	again, changed := SweepExpired(next, now, time.UTC)
	if changed != 0 || &again.Chemicals[0] != &next.Chemicals[0] {
		t.Fatal("expected a second sweep to be a no-op")
	}
}

func TestFilter(t *testing.T) {
	t.Parallel()

	s := statsFixture()
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "empty query", query: Query{}, want: []string{"c1", "c2"}},
		{name: "by cas", query: Query{Text: "7647"}, want: []string{"c2"}},
		{name: "by formula case insensitive", query: Query{Text: "nacl"}, want: []string{"c2"}},
		{name: "by lot number", query: Query{Text: "e-3"}, want: []string{"c1"}},
		{name: "by category", query: Query{Category: "solvents"}, want: []string{"c1"}},
		{name: "low stock", query: Query{LowStockOnly: true}, want: []string{"c1"}},
		{name: "no match", query: Query{Text: "argon"}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Filter(s, tt.query, statsNow, time.UTC)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %d chemicals", tt.want, len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("expected %s at %d, got %s", id, i, got[i].ID)
				}
			}
		})
	}
}
