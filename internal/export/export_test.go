package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"labstock/internal/inventory"
)

func exportState() inventory.State {
	return inventory.State{Chemicals: []inventory.Chemical{{
		ID: "c1", Code: "ETH", Name: "Ethanol", Formula: "C2H5OH", CASNumber: "64-17-5",
		Category: "Solvents", Location: "Cabinet B", Supplier: "Merck", DefaultPAODays: 180, MinThreshold: 1000,
		Lots: []inventory.Lot{
			{
				ID: "l1", LotNumber: "E-1", Quantity: 250, Unit: "ml",
				EntryDate: inventory.MustParseDate("2024-05-01"), ExpiryDate: inventory.MustParseDate("2025-12-01"),
				OpenedDate: inventory.MustParseDate("2024-06-01"), Status: inventory.StatusInUse,
			},
			{
				ID: "l2", LotNumber: "E-2", Quantity: 500, Unit: "ml",
				EntryDate: inventory.MustParseDate("2024-05-01"), ExpiryDate: inventory.MustParseDate("2026-12-01"),
				Status: inventory.StatusReserved,
			},
		},
	}}}
}

func readRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read %s: %v", sheet, err)
	}
	return rows
}

func TestWriteInventoryOneRowPerLot(t *testing.T) {
	t.Parallel()

	amount := 20.0
	audit := []inventory.AuditEntry{{
		Timestamp: time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC), UserName: "Lan",
		Action: inventory.AuditLotUsage, ChemicalName: "Ethanol", LotNumber: "E-1", Amount: &amount, Unit: "ml", Details: "Used 20 ml",
	}}
	opts := Options{Now: time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC), Location: time.UTC, NearExpiryDays: 30}

	var buf bytes.Buffer
	if err := WriteInventory(&buf, exportState(), audit, opts); err != nil {
		t.Fatalf("write inventory: %v", err)
	}

	rows := readRows(t, buf.Bytes(), inventorySheet)
	if len(rows) != 3 {
		t.Fatalf("expected header plus two lots, got %d rows", len(rows))
	}
	if rows[0][1] != "Tên Hóa Chất" {
		t.Fatalf("expected Vietnamese headers by default, got %q", rows[0][1])
	}
	if rows[1][5] != "E-1" || rows[1][12] != "2024-11-28" || rows[1][13] != "Hết hạn" {
		t.Fatalf("unexpected first lot row %v", rows[1])
	}
	if rows[2][13] != "Chưa mở" {
		t.Fatalf("unexpected second lot status %q", rows[2][13])
	}

	auditRows := readRows(t, buf.Bytes(), auditSheet)
	if len(auditRows) != 2 || auditRows[1][2] != "LOT_USAGE" || auditRows[1][5] != "20" {
		t.Fatalf("unexpected audit rows %v", auditRows)
	}
}

func TestWriteInventoryEnglishHeaders(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := WriteInventory(&buf, inventory.State{}, nil, Options{Language: LangEnglish, Now: time.Now()}); err != nil {
		t.Fatalf("write inventory: %v", err)
	}
	rows := readRows(t, buf.Bytes(), inventorySheet)
	if len(rows) != 1 || rows[0][0] != "Code" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestWriteProcurement(t *testing.T) {
	t.Parallel()

	lines := inventory.Procurement(exportState(), time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	var buf bytes.Buffer
	if err := WriteProcurement(&buf, lines, Options{}); err != nil {
		t.Fatalf("write procurement: %v", err)
	}
	rows := readRows(t, buf.Bytes(), procurementSheet)
	if len(rows) != 2 {
		t.Fatalf("expected one proposal row, got %v", rows)
	}
	if rows[1][0] != "Ethanol" || rows[1][3] != "750" || rows[1][6] != "1250" {
		t.Fatalf("unexpected proposal row %v", rows[1])
	}
}

func TestFileNames(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC)
	if got := InventoryFileName(now); got != "Bao_Cao_Ton_Kho_2024-09-10.xlsx" {
		t.Fatalf("unexpected inventory file name %q", got)
	}
	if got := ProcurementFileName(now); got != "De_Nghi_Mua_Hang_2024-09-10.xlsx" {
		t.Fatalf("unexpected procurement file name %q", got)
	}
}
