// Package export renders inventory data as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"labstock/internal/inventory"
)

const (
	LangVietnamese = "vi"
	LangEnglish    = "en"

	inventorySheet   = "Inventory"
	auditSheet       = "AuditLog"
	procurementSheet = "PurchaseProposal"
)

// Options control localisation and the clock used for expiry columns.
type Options struct {
	Language       string
	Now            time.Time
	Location       *time.Location
	NearExpiryDays int
}

func (o Options) lang() string {
	if o.Language == LangEnglish {
		return LangEnglish
	}
	return LangVietnamese
}

// InventoryFileName is the suggested download name for the inventory report.
func InventoryFileName(now time.Time) string {
	return fmt.Sprintf("Bao_Cao_Ton_Kho_%s.xlsx", now.Format("2006-01-02"))
}

// ProcurementFileName is the suggested download name for the purchase proposal.
func ProcurementFileName(now time.Time) string {
	return fmt.Sprintf("De_Nghi_Mua_Hang_%s.xlsx", now.Format("2006-01-02"))
}

// WriteInventory writes one row per lot plus an audit sheet.
func WriteInventory(w io.Writer, state inventory.State, audit []inventory.AuditEntry, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", inventorySheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	labels := headers[opts.lang()]

	rows := [][]any{labels.inventory}
	for _, chem := range state.Chemicals {
		for _, lot := range chem.Lots {
			a := inventory.Assess(chem, lot, opts.Now, opts.Location, opts.NearExpiryDays)
			rows = append(rows, []any{
				chem.Code,
				chem.Name,
				chem.Formula,
				chem.CASNumber,
				chem.Category,
				lot.LotNumber,
				lot.MfgLotNumber,
				lot.Quantity,
				lot.Unit,
				lot.EntryDate.String(),
				lot.ExpiryDate.String(),
				lot.OpenedDate.String(),
				a.EffectiveExpiry.String(),
				statusLabel(opts.lang(), a.DisplayStatus),
				chem.Location,
				chem.Supplier,
			})
		}
	}
	if err := writeSheet(f, inventorySheet, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(auditSheet); err != nil {
		return fmt.Errorf("export: add audit sheet: %w", err)
	}
	auditRows := [][]any{labels.audit}
	for _, entry := range audit {
		var amount any
		if entry.Amount != nil {
			amount = *entry.Amount
		}
		auditRows = append(auditRows, []any{
			entry.Timestamp.In(location(opts.Location)).Format("2006-01-02 15:04:05"),
			entry.UserName,
			string(entry.Action),
			entry.ChemicalName,
			entry.LotNumber,
			amount,
			entry.Unit,
			entry.Details,
		})
	}
	if err := writeSheet(f, auditSheet, auditRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// WriteProcurement writes the purchase proposal for low-stock chemicals.
func WriteProcurement(w io.Writer, lines []inventory.ProcurementLine, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", procurementSheet); err != nil {
		return fmt.Errorf("export: rename sheet: %w", err)
	}
	rows := [][]any{headers[opts.lang()].procurement}
	for _, line := range lines {
		unit := line.Unit
		if unit == "" {
			unit = "-"
		}
		rows = append(rows, []any{
			line.Name,
			line.Formula,
			line.CASNumber,
			line.Current,
			unit,
			line.Threshold,
			line.Suggested,
			line.Location,
			line.Supplier,
		})
	}
	if err := writeSheet(f, procurementSheet, rows); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) == 0 {
		return nil
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E2E8F0"}},
	})
	if err != nil {
		return fmt.Errorf("export: header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("export: apply header style: %w", err)
	}
	last, err := excelize.ColumnNumberToName(len(rows[0]))
	if err != nil {
		return fmt.Errorf("export: column name: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", last, 18); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
