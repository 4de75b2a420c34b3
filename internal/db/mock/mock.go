package mock

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"labstock/internal/catalog"
	"labstock/internal/db"
	"labstock/internal/inventory"
	applog "labstock/internal/log"
	"labstock/internal/store"
	"labstock/models"
)

// Password shared by every seeded account.
const Password = "labstock"

// Seeded account emails, one per role.
const (
	AdminEmail  = "admin@labstock.local"
	StaffEmail  = "staff@labstock.local"
	ViewerEmail = "viewer@labstock.local"
)

// New returns an in-memory sqlite database seeded with a representative lab inventory.
func New(ctx context.Context) (*gorm.DB, error) {
	return NewAt(ctx, time.Now())
}

// NewAt seeds lot dates relative to now.
func NewAt(ctx context.Context, now time.Time) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	dsn := fmt.Sprintf("file:labstock-mock-%d?mode=memory&cache=shared", time.Now().UnixNano())
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(database); err != nil {
		return nil, err
	}

	if err := seed(ctx, database, inventory.DateOf(now)); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func seed(ctx context.Context, database *gorm.DB, today inventory.Date) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []models.User{
		{Name: "Lab Manager", Email: AdminEmail, PasswordHash: string(password), Role: models.RoleAdmin},
		{Name: "Bench Technician", Email: StaffEmail, PasswordHash: string(password), Role: models.RoleStaff},
		{Name: "Visiting Auditor", Email: ViewerEmail, PasswordHash: string(password), Role: models.RoleViewer},
	}
	if err := database.WithContext(ctx).Create(&users).Error; err != nil {
		return err
	}

	state, err := seedInventory(today)
	if err != nil {
		return err
	}

	audit := []inventory.AuditEntry{{
		ID:        "seed-audit-1",
		Timestamp: today.In(time.UTC),
		UserID:    fmt.Sprint(users[0].ID),
		UserName:  users[0].Name,
		Action:    inventory.AuditCreate,
		Details:   fmt.Sprintf("Seeded %d chemicals", len(state.Chemicals)),
	}}

	if err := store.New(database).Save(ctx, state, audit); err != nil {
		return err
	}

	applog.Debug(ctx, "mock database seeded", "chemicals", len(state.Chemicals))
	return nil
}

type seedLot struct {
	number   string
	qty      float64
	unit     string
	expiryIn int
	openedAt int
	status   inventory.LotStatus
}

type seedChemical struct {
	catalogName string
	code        string
	threshold   float64
	paoDays     int
	supplier    string
	hazards     []string
	lots        []seedLot
}

var seedChemicals = []seedChemical{
	{
		catalogName: "Methanol", code: "MEOH", threshold: 2, paoDays: 365, supplier: "Merck",
		hazards: []string{"GHS02", "GHS06", "GHS08"},
		lots: []seedLot{
			{number: "MEOH-2401", qty: 2.5, unit: "L", expiryIn: 400, status: inventory.StatusReserved},
			{number: "MEOH-2312", qty: 1.2, unit: "L", expiryIn: 200, openedAt: -30, status: inventory.StatusInUse},
		},
	},
	{
		catalogName: "Hydrochloric acid 37%", code: "HCL37", threshold: 5, paoDays: 180, supplier: "Fisher",
		hazards: []string{"GHS05", "GHS07"},
		lots: []seedLot{
			{number: "HCL-2402", qty: 1.5, unit: "L", expiryIn: 20, openedAt: -60, status: inventory.StatusInUse},
		},
	},
	{
		catalogName: "Sodium hydroxide", code: "NAOH", threshold: 500, supplier: "Xilong",
		hazards: []string{"GHS05"},
		lots: []seedLot{
			{number: "NAOH-2301", qty: 800, unit: "g", expiryIn: 600, openedAt: -90, status: inventory.StatusInUse},
			{number: "NAOH-2210", qty: 0, unit: "g", expiryIn: 100, openedAt: -300, status: inventory.StatusConsumed},
		},
	},
	{
		catalogName: "Potassium permanganate", code: "KMNO4", supplier: "Sigma-Aldrich",
		hazards: []string{"GHS03", "GHS07", "GHS09"},
		lots: []seedLot{
			{number: "KMN-2208", qty: 250, unit: "g", expiryIn: -5, status: inventory.StatusExpired},
		},
	},
	{
		catalogName: "Acetone", code: "ACE", threshold: 1, paoDays: 365, supplier: "Merck",
		hazards: []string{"GHS02", "GHS07"},
		lots: []seedLot{
			{number: "ACE-2403", qty: 2.5, unit: "L", expiryIn: 700, status: inventory.StatusReserved},
		},
	},
}

func seedInventory(today inventory.Date) (inventory.State, error) {
	cat, err := catalog.Default()
	if err != nil {
		return inventory.State{}, err
	}

	chemicals := make([]inventory.Chemical, 0, len(seedChemicals))
	for _, sc := range seedChemicals {
		entry, ok := cat.Lookup(sc.catalogName)
		if !ok {
			return inventory.State{}, fmt.Errorf("mock: %q missing from catalog", sc.catalogName)
		}
		chem := entry.Chemical()
		chem.ID = "seed-" + sc.code
		chem.Code = sc.code
		chem.MinThreshold = sc.threshold
		chem.DefaultPAODays = sc.paoDays
		chem.Supplier = sc.supplier
		chem.HazardGHS = sc.hazards

		for i, sl := range sc.lots {
			lot := inventory.Lot{
				ID:           fmt.Sprintf("%s-lot-%d", chem.ID, i+1),
				LotNumber:    sl.number,
				MfgLotNumber: "MFG-" + sl.number,
				Packaging:    entry.Packaging,
				Quantity:     sl.qty,
				Unit:         sl.unit,
				EntryDate:    today.AddDays(-120),
				ExpiryDate:   today.AddDays(sl.expiryIn),
				Status:       sl.status,
			}
			if sl.openedAt != 0 {
				lot.OpenedDate = today.AddDays(sl.openedAt)
				lot.ContainerOpenedDates = []inventory.Date{lot.OpenedDate}
			}
			chem.Lots = append(chem.Lots, lot)
		}
		chemicals = append(chemicals, chem)
	}
	return inventory.State{Chemicals: chemicals}, nil
}
