package label

import (
	"strings"
	"testing"
	"time"

	"labstock/internal/inventory"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	chem := inventory.Chemical{
		ID: "c1", Code: "hcl", Name: "Hydrochloric acid", Formula: "HCl", CASNumber: "7647-01-0",
		State: inventory.StateLiquid, NFPA: inventory.NFPARating{Health: 7, Flammability: 0, Instability: 1},
		HazardGHS: []string{"GHS05"}, DefaultPAODays: 90,
	}
	lot := inventory.Lot{
		LotNumber: "L-9", EntryDate: inventory.MustParseDate("2024-01-01"),
		ExpiryDate: inventory.MustParseDate("2026-01-01"), OpenedDate: inventory.MustParseDate("2024-02-01"),
		Status: inventory.StatusInUse,
	}
	a := inventory.Assess(chem, lot, time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), time.UTC, 30)

	got := Build(chem, lot, a)
	if got.EffectiveExpiry != "2024-05-01" {
		t.Fatalf("expected PAO-driven expiry, got %s", got.EffectiveExpiry)
	}
	if got.NFPA.Health != 4 {
		t.Fatalf("expected clamped health rating, got %d", got.NFPA.Health)
	}
	if got.Barcode != "HCL-L-9" || got.StateLabel != "Lỏng" {
		t.Fatalf("unexpected payload %+v", got)
	}
	if !strings.Contains(got.BarcodeSVG, `aria-label="HCL-L-9"`) {
		t.Fatalf("expected rendered barcode, got %q", got.BarcodeSVG)
	}
	if got.WidthMM != 80 || got.HeightMM != 50 {
		t.Fatalf("unexpected label size %dx%d", got.WidthMM, got.HeightMM)
	}
}

func TestBarcodeFallsBackToID(t *testing.T) {
	t.Parallel()

	if got := BarcodeValue(inventory.Chemical{ID: "abc"}, inventory.Lot{LotNumber: "x1"}); got != "ABC-X1" {
		t.Fatalf("unexpected barcode %q", got)
	}
}

func TestBarcodeSVGEncodesCode128(t *testing.T) {
	t.Parallel()

	svg, err := BarcodeSVG("HCL-L-9")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// Start B, seven data symbols and the checksum at 11 modules each plus the 13-module stop.
	for _, token := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg"`,
		`data-modules="112"`,
		`viewBox="0 0 112 40"`,
		`aria-label="HCL-L-9"`,
		`<rect x="0" y="0" width="2" height="40"/><rect x="3" y="0" width="1" height="40"/><rect x="6" y="0" width="1" height="40"/>`,
	} {
		if !strings.Contains(svg, token) {
			t.Fatalf("expected %q in %s", token, svg)
		}
	}
	if !strings.HasSuffix(svg, `<rect x="110" y="0" width="2" height="40"/></svg>`) {
		t.Fatalf("expected the stop pattern to close the symbol: %s", svg)
	}
}

func TestBarcodeSVGRejectsUnencodableValues(t *testing.T) {
	t.Parallel()

	if _, err := BarcodeSVG(""); err == nil {
		t.Fatal("expected empty value to fail")
	}
	if _, err := BarcodeSVG("LÔ-1"); err == nil {
		t.Fatal("expected non-ASCII value to fail")
	}

	p := Build(inventory.Chemical{ID: "c", Name: "Nước cất"}, inventory.Lot{LotNumber: "LÔ-1"}, inventory.Assessment{})
	if p.BarcodeSVG != "" || p.Barcode != "C-LÔ-1" {
		t.Fatalf("expected text-only barcode, got %+v", p)
	}
}
