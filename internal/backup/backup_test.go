package backup

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"labstock/internal/inventory"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	amount := 3.0
	state := inventory.State{Chemicals: []inventory.Chemical{{
		ID:   "c1",
		Name: "Acetone",
		Lots: []inventory.Lot{{
			ID:         "l1",
			LotNumber:  "A-1",
			Quantity:   2,
			Unit:       "L",
			EntryDate:  inventory.MustParseDate("2024-01-02"),
			ExpiryDate: inventory.MustParseDate("2026-01-02"),
			Status:     inventory.StatusReserved,
		}},
	}}}
	audit := []inventory.AuditEntry{{
		ID:        "a1",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Action:    inventory.AuditAddLot,
		Amount:    &amount,
		Details:   "Received lot A-1",
	}}

	var buf bytes.Buffer
	if err := Encode(&buf, New(state, audit, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), `"auditLogs"`) || !strings.Contains(buf.String(), `"version": "1.0"`) {
		t.Fatalf("unexpected document %s", buf.String())
	}

	doc, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(doc.State(), state) {
		t.Fatalf("state mismatch: %+v", doc.State())
	}
	if !reflect.DeepEqual(doc.AuditLogs, audit) {
		t.Fatalf("audit mismatch: %+v", doc.AuditLogs)
	}
}

func TestDecodeRejectsInvalidDocuments(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "missing chemicals", body: `{"version":"1.0","auditLogs":[]}`, want: ErrMissingChemicals},
		{name: "chemicals object", body: `{"chemicals":{"id":"x"}}`, want: ErrChemicalsNotArray},
		{name: "chemicals null", body: `{"chemicals":null}`, want: ErrChemicalsNotArray},
		{name: "not json", body: `chemicals`, want: ErrMalformed},
		{name: "top-level array", body: `[]`, want: ErrMalformed},
		{name: "bad lot status", body: `{"chemicals":[{"id":"c","lots":[{"id":"l","status":"LOST"}]}]}`, want: ErrMalformed},
		{name: "duplicate chemical", body: `{"chemicals":[{"id":"c"},{"id":"c"}]}`, want: ErrMalformed},
		{name: "audit entry without id", body: `{"chemicals":[],"auditLogs":[{"action":"CREATE"}]}`, want: ErrMalformed},
		{name: "duplicate audit id", body: `{"chemicals":[],"auditLogs":[{"id":"x"},{"id":"x"}]}`, want: ErrMalformed},
		{name: "bad date", body: `{"chemicals":[{"id":"c","lots":[{"id":"l","status":"RESERVED","expiryDate":"soon"}]}]}`, want: ErrMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Decode(strings.NewReader(tt.body)); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeDefaultsMissingAuditLog(t *testing.T) {
	t.Parallel()

	doc, err := Decode(strings.NewReader(`{"chemicals":[{"id":"c","name":"Water"}]}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.AuditLogs == nil || len(doc.AuditLogs) != 0 {
		t.Fatalf("expected empty audit log, got %+v", doc.AuditLogs)
	}
	if doc.Chemicals[0].Lots == nil {
		t.Fatal("expected lots to default to an empty list")
	}
}
