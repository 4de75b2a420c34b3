package pages

import (
	"github.com/shopspring/decimal"

	"labstock/internal/inventory"
	"labstock/internal/views/layout"
	"labstock/internal/views/theme"
)

// AssessFunc evaluates a lot against the workspace clock.
type AssessFunc func(inventory.Chemical, inventory.Lot) inventory.Assessment

// HistoryDepth mirrors the undo/redo counters shown next to the history buttons.
type HistoryDepth struct {
	Undo int
	Redo int
}

// DashboardData aggregates everything the inventory dashboard renders.
type DashboardData struct {
	Header     layout.Header
	Stats      inventory.Stats
	NearDays   int
	Query      inventory.Query
	Categories []string
	States     []inventory.PhysicalState
	Units      []string
	Legend     []theme.Option
	History    HistoryDepth
	Chemicals  []ChemicalRow
	CanEdit    bool
	CanAdmin   bool
	AIEnabled  bool
}

// ChemicalRow is one master record with its lots.
type ChemicalRow struct {
	ID         string
	Code       string
	Name       string
	Formula    string
	CASNumber  string
	Category   string
	StateLabel string
	Location   string
	NFPA       inventory.NFPARating
	ActiveQty  string
	Unit       string
	Threshold  string
	LowStock   bool
	Lots       []LotRow
}

// LotRow is one lot line under its chemical.
type LotRow struct {
	ChemicalID      string
	ID              string
	LotNumber       string
	MfgLotNumber    string
	Quantity        string
	Unit            string
	EntryDate       string
	ExpiryDate      string
	OpenedDate      string
	EffectiveExpiry string
	Status          inventory.LotStatus
	StatusLabel     string
	RowClass        string
	Assessment      inventory.Assessment
	Active          bool
	Opened          bool
}

// NewDashboardData builds the table rows for chemicals. Stored order is kept.
func NewDashboardData(header layout.Header, chemicals []inventory.Chemical, stats inventory.Stats, assess AssessFunc) DashboardData {
	role := header.Role
	data := DashboardData{
		Header:     header,
		Stats:      stats,
		NearDays:   inventory.DefaultNearExpiryDays,
		Categories: inventory.Categories,
		States:     inventory.PhysicalStates,
		Units:      inventory.Units,
		Legend:     theme.Options(),
		CanEdit:    role.CanEdit(),
		CanAdmin:   role.CanAdminister(),
		Chemicals:  make([]ChemicalRow, 0, len(chemicals)),
	}
	for _, chem := range chemicals {
		data.Chemicals = append(data.Chemicals, newChemicalRow(chem, assess))
	}
	return data
}

// EmptyDashboardData returns a zero-value dashboard to simplify call sites when no data is available.
func EmptyDashboardData(header layout.Header) DashboardData {
	return NewDashboardData(header, nil, inventory.Stats{}, nil)
}

func newChemicalRow(chem inventory.Chemical, assess AssessFunc) ChemicalRow {
	row := ChemicalRow{
		ID:         chem.ID,
		Code:       chem.Code,
		Name:       chem.Name,
		Formula:    chem.Formula,
		CASNumber:  chem.CASNumber,
		Category:   chem.Category,
		StateLabel: StateLabel(chem.State),
		Location:   chem.Location,
		NFPA:       chem.NFPA,
		Unit:       chem.PrimaryUnit(),
		Lots:       make([]LotRow, 0, len(chem.Lots)),
	}
	if chem.MinThreshold > 0 {
		row.Threshold = FormatQuantity(chem.MinThreshold)
	}
	available := decimal.Zero
	for _, lot := range chem.Lots {
		a := inventory.Assessment{
			EffectiveExpiry: inventory.EffectiveExpiry(chem, lot),
			Urgency:         inventory.UrgencyUnknown,
			DisplayStatus:   lot.Status,
		}
		if assess != nil {
			a = assess(chem, lot)
		}
		tone := theme.ForUrgency(a.Urgency)
		if !lot.Status.Active() {
			tone = theme.Resolve(theme.DefaultKey)
		}
		if a.DisplayStatus.Active() {
			available = available.Add(decimal.NewFromFloat(lot.Quantity))
		}
		row.Lots = append(row.Lots, LotRow{
			ChemicalID:      chem.ID,
			ID:              lot.ID,
			LotNumber:       lot.LotNumber,
			MfgLotNumber:    lot.MfgLotNumber,
			Quantity:        FormatQuantity(lot.Quantity),
			Unit:            lot.Unit,
			EntryDate:       DefaultDash(lot.EntryDate.String()),
			ExpiryDate:      DefaultDash(lot.ExpiryDate.String()),
			OpenedDate:      DefaultDash(lot.OpenedDate.String()),
			EffectiveExpiry: DefaultDash(a.EffectiveExpiry.String()),
			Status:          a.DisplayStatus,
			StatusLabel:     StatusLabel(a.DisplayStatus),
			RowClass:        tone.RowClass,
			Assessment:      a,
			Active:          lot.Status.Active(),
			Opened:          !lot.OpenedDate.IsZero(),
		})
	}
	qty, _ := available.Float64()
	row.ActiveQty = FormatQuantity(qty)
	row.LowStock = chem.MinThreshold > 0 && qty < chem.MinThreshold
	return row
}

func chemicalPath(id string) string {
	return "/app/api/chemicals/" + id
}

func lotPath(lot LotRow, action string) string {
	return chemicalPath(lot.ChemicalID) + "/lots/" + lot.ID + "/" + action
}

func labelPath(chemicalID, lotID string) string {
	return "/app/labels/" + chemicalID + "/" + lotID
}
