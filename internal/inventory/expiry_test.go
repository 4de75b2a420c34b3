package inventory

import (
	"testing"
	"time"
)

func TestEffectiveExpiryTakesEarlierOfManufacturerAndPAO(t *testing.T) {
	t.Parallel()

	chem := Chemical{DefaultPAODays: 365}
	tests := []struct {
		name string
		lot  Lot
		want string
	}{
		{
			name: "unopened uses manufacturer expiry",
			lot:  Lot{ExpiryDate: MustParseDate("2025-12-01"), PAODays: 180},
			want: "2025-12-01",
		},
		{
			name: "pao earlier than manufacturer",
			lot:  Lot{ExpiryDate: MustParseDate("2025-12-01"), OpenedDate: MustParseDate("2024-06-01"), PAODays: 180},
			want: "2024-11-28",
		},
		{
			name: "manufacturer earlier than pao",
			lot:  Lot{ExpiryDate: MustParseDate("2024-07-01"), OpenedDate: MustParseDate("2024-06-01"), PAODays: 180},
			want: "2024-07-01",
		},
		{
			name: "chemical default applies without override",
			lot:  Lot{ExpiryDate: MustParseDate("2030-01-01"), OpenedDate: MustParseDate("2024-01-01")},
			want: "2024-12-31",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EffectiveExpiry(chem, tt.lot).String(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestEffectiveExpiryWithoutPAO(t *testing.T) {
	t.Parallel()

	lot := Lot{ExpiryDate: MustParseDate("2026-03-01"), OpenedDate: MustParseDate("2024-01-01")}
	if got := EffectiveExpiry(Chemical{}, lot); got != lot.ExpiryDate {
		t.Fatalf("expected manufacturer expiry when no PAO applies, got %s", got)
	}
	if _, ok := PAOExpiry(Chemical{}, lot); ok {
		t.Fatal("expected no PAO expiry without PAO days")
	}
}

func TestAssessOpenedLotPastPAOIsExpired(t *testing.T) {
	t.Parallel()

	chem := Chemical{Name: "Ethanol"}
	lot := Lot{
		LotNumber:  "L-001",
		ExpiryDate: MustParseDate("2025-12-01"),
		OpenedDate: MustParseDate("2024-06-01"),
		PAODays:    180,
		Status:     StatusInUse,
	}
	now := time.Date(2024, 12, 15, 9, 0, 0, 0, time.UTC)

	got := Assess(chem, lot, now, time.UTC, DefaultNearExpiryDays)
	if got.PAOExpiry.String() != "2024-11-28" {
		t.Fatalf("expected PAO expiry 2024-11-28, got %s", got.PAOExpiry)
	}
	if got.EffectiveExpiry != got.PAOExpiry {
		t.Fatalf("expected effective expiry to follow PAO, got %s", got.EffectiveExpiry)
	}
	if got.Urgency != UrgencyExpired {
		t.Fatalf("expected expired urgency, got %s", got.Urgency)
	}
	if got.DisplayStatus != StatusExpired {
		t.Fatalf("expected EXPIRED display status, got %s", got.DisplayStatus)
	}
	if lot.Status != StatusInUse {
		t.Fatal("assessment must not mutate the lot")
	}

	again := Assess(chem, lot, now, time.UTC, DefaultNearExpiryDays)
	if again != got {
		t.Fatalf("expected identical assessment, got %+v then %+v", got, again)
	}
}

func TestDaysRemainingRoundsUp(t *testing.T) {
	t.Parallel()

	lot := Lot{ExpiryDate: MustParseDate("2024-03-10")}
	tests := []struct {
		now  time.Time
		want int
	}{
		{now: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), want: 0},
		{now: time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC), want: 1},
		{now: time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), want: 2},
		{now: time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), want: 0},
		{now: time.Date(2024, 3, 11, 8, 0, 0, 0, time.UTC), want: -1},
	}
	for _, tt := range tests {
		got, ok := DaysRemaining(Chemical{}, lot, tt.now, time.UTC)
		if !ok {
			t.Fatalf("expected days remaining for %s", tt.now)
		}
		if got != tt.want {
			t.Fatalf("now %s: expected %d days, got %d", tt.now, tt.want, got)
		}
	}
}

func TestClassifyDays(t *testing.T) {
	t.Parallel()

	tests := []struct {
		days int
		want Urgency
	}{
		{days: -1, want: UrgencyExpired},
		{days: 0, want: UrgencyNear},
		{days: 30, want: UrgencyNear},
		{days: 31, want: UrgencySafe},
	}
	for _, tt := range tests {
		if got := ClassifyDays(tt.days, DefaultNearExpiryDays); got != tt.want {
			t.Fatalf("days %d: expected %s, got %s", tt.days, tt.want, got)
		}
	}
}

func TestAssessWithoutExpiryIsUnknown(t *testing.T) {
	t.Parallel()

	got := Assess(Chemical{}, Lot{Status: StatusReserved}, time.Now(), time.UTC, DefaultNearExpiryDays)
	if got.Urgency != UrgencyUnknown {
		t.Fatalf("expected unknown urgency, got %s", got.Urgency)
	}
	if got.DisplayStatus != StatusReserved {
		t.Fatalf("expected stored status, got %s", got.DisplayStatus)
	}
}

func TestDisplayStatusKeepsTerminalStatuses(t *testing.T) {
	t.Parallel()

	for _, status := range []LotStatus{StatusConsumed, StatusDisposed, StatusExpired} {
		if got := DisplayStatus(Lot{Status: status}, UrgencyExpired); got != status {
			t.Fatalf("expected %s to stay, got %s", status, got)
		}
	}
}
