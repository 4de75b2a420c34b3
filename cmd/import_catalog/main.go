package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"labstock/internal/catalog"
	"labstock/internal/config"
	"labstock/internal/db"
	"labstock/internal/inventory"
	applog "labstock/internal/log"
	"labstock/internal/store"
	"labstock/internal/workspace"
	"labstock/models"
)

var (
	loadConfig   = config.Load
	openDatabase = func(cfg config.DatabaseConfig) (*gorm.DB, error) {
		database, err := db.Initialize(cfg)
		if err != nil {
			return nil, err
		}
		if err := db.AutoMigrate(database); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
		return database, nil
	}
)

// systemActor signs the audit entries when no administrator account exists yet.
var systemActor = workspace.Actor{ID: "catalog-import", Name: "Catalog import", Role: models.RoleAdmin}

func main() {
	csvPath := ""
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}

	if err := run(context.Background(), csvPath, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

// run upserts the entries of csvPath, or of the built-in catalog when csvPath
// is empty, into the chemical master list.
func run(ctx context.Context, csvPath string, out io.Writer) error {
	entries, source, err := readEntries(csvPath)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	database, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	loc, err := cfg.Inventory.Location()
	if err != nil {
		return err
	}
	ws, err := workspace.Open(ctx, store.New(database), workspace.Options{
		Location:       loc,
		HistoryLimit:   cfg.Inventory.HistoryLimit,
		NearExpiryDays: cfg.Inventory.NearExpiryDays,
	})
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}

	actor, err := resolveImportActor(ctx, database)
	if err != nil {
		return fmt.Errorf("resolve actor: %w", err)
	}

	created, updated, err := importEntries(ctx, ws, actor, entries)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Imported %d chemicals from %s (%d new, %d updated)\n", created+updated, source, created, updated)
	return nil
}

func readEntries(csvPath string) ([]catalog.Entry, string, error) {
	if strings.TrimSpace(csvPath) == "" {
		c, err := catalog.Default()
		if err != nil {
			return nil, "", err
		}
		return c.Entries(), "built-in catalog", nil
	}

	file, err := os.Open(csvPath)
	if err != nil {
		return nil, "", fmt.Errorf("locate csv: %w", err)
	}
	defer file.Close()

	entries, err := catalog.Read(file)
	if err != nil {
		return nil, "", fmt.Errorf("read csv: %w", err)
	}
	return entries, filepath.Base(csvPath), nil
}

func resolveImportActor(ctx context.Context, database *gorm.DB) (workspace.Actor, error) {
	if database == nil {
		return workspace.Actor{}, errors.New("database handle is nil")
	}

	var user models.User
	email := strings.ToLower(strings.TrimSpace(os.Getenv("LABSTOCK_IMPORT_EMAIL")))
	if email != "" {
		if err := database.WithContext(ctx).Where("lower(email) = ?", email).First(&user).Error; err != nil {
			return workspace.Actor{}, fmt.Errorf("find importer by email %q: %w", email, err)
		}
		if !user.Role.CanEdit() {
			return workspace.Actor{}, fmt.Errorf("user %q has role %s and cannot edit the inventory", email, user.Role)
		}
	} else {
		err := database.WithContext(ctx).Where("role = ?", models.RoleAdmin).Order("id asc").First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return systemActor, nil
		}
		if err != nil {
			return workspace.Actor{}, fmt.Errorf("find default administrator: %w", err)
		}
	}

	name := user.Name
	if name == "" {
		name = user.Email
	}
	return workspace.Actor{ID: strconv.FormatUint(uint64(user.ID), 10), Name: name, Role: user.Role}, nil
}

// importEntries creates a master record per entry, or refreshes the record
// that already carries the same name or CAS number. Lots are never touched.
// A CAS match only considers records that predate this import, so grades
// sharing a CAS number stay separate.
func importEntries(ctx context.Context, ws *workspace.Workspace, actor workspace.Actor, entries []catalog.Entry) (int, int, error) {
	created, updated := 0, 0
	fresh := make(map[string]bool)
	for idx, entry := range entries {
		existing, found := matchExisting(ws.Chemicals(inventory.Query{}), fresh, entry)
		var cmd inventory.Command
		if found {
			cmd = inventory.UpdateChemical{ID: existing.ID, Chemical: mergeEntry(existing, entry)}
		} else {
			cmd = inventory.CreateChemical{Chemical: entry.Chemical()}
		}
		audit, err := ws.Dispatch(ctx, actor, cmd)
		if err != nil {
			return created, updated, fmt.Errorf("record %d (%s): %w", idx+1, entry.Name, err)
		}
		if found {
			updated++
		} else {
			fresh[audit.EntityID] = true
			created++
		}
	}
	applog.Info(ctx, "catalog import finished", "created", created, "updated", updated, "actor", actor.Name)
	return created, updated, nil
}

func matchExisting(chemicals []inventory.Chemical, fresh map[string]bool, entry catalog.Entry) (inventory.Chemical, bool) {
	for _, chem := range chemicals {
		if strings.EqualFold(strings.TrimSpace(chem.Name), entry.Name) {
			return chem, true
		}
	}
	if entry.CASNumber == "" {
		return inventory.Chemical{}, false
	}
	for _, chem := range chemicals {
		if !fresh[chem.ID] && strings.EqualFold(strings.TrimSpace(chem.CASNumber), entry.CASNumber) {
			return chem, true
		}
	}
	return inventory.Chemical{}, false
}

// mergeEntry overlays the catalog identity and hazard data onto an existing
// record, keeping the operator-owned fields such as code and threshold.
func mergeEntry(existing inventory.Chemical, entry catalog.Entry) inventory.Chemical {
	merged := existing
	merged.Lots = nil
	if entry.Formula != "" {
		merged.Formula = entry.Formula
	}
	if entry.CASNumber != "" {
		merged.CASNumber = entry.CASNumber
	}
	if entry.Location != "" {
		merged.Location = entry.Location
	}
	if entry.Category != "Others" {
		merged.Category = entry.Category
	}
	if entry.NFPA != (inventory.NFPARating{}) {
		merged.NFPA = entry.NFPA
	}
	merged.State = entry.State
	return merged
}
