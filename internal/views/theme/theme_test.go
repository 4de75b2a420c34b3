package theme

import (
	"testing"

	"labstock/internal/inventory"
)

func TestResolveKnownUrgency(t *testing.T) {
	t.Parallel()

	tone := ForUrgency(inventory.UrgencyNear)
	if tone.Key != "near" || tone.BadgeClass == "" {
		t.Fatalf("unexpected tone %+v", tone)
	}
	if Resolve("  EXPIRED ").Key != "expired" {
		t.Fatal("expected case-insensitive resolution")
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	t.Parallel()

	if got := Resolve("mystery"); got.Key != DefaultKey {
		t.Fatalf("expected fallback to %q, got %q", DefaultKey, got.Key)
	}
}

func TestOptionsHaveDistinctTones(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, option := range Options() {
		tone := Resolve(option.Value)
		if tone.Key != option.Value {
			t.Fatalf("option %q resolves to %q", option.Value, tone.Key)
		}
		if seen[tone.BadgeClass] {
			t.Fatalf("badge class %q reused", tone.BadgeClass)
		}
		seen[tone.BadgeClass] = true
	}
}
