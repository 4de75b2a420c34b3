// Package store persists the inventory snapshot and audit log through gorm.
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"labstock/internal/inventory"
	"labstock/models"
)

const batchSize = 200

// ErrNilDatabase is returned when the store has no database handle.
var ErrNilDatabase = errors.New("store: database handle is nil")

// Store reads and rewrites the inventory tables.
type Store struct {
	db *gorm.DB
}

// New wraps db. The tables must already be migrated.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Load reads every chemical with its lots in stored order and the audit log
// newest first.
func (s *Store) Load(ctx context.Context) (inventory.State, []inventory.AuditEntry, error) {
	if s == nil || s.db == nil {
		return inventory.State{}, nil, ErrNilDatabase
	}
	db := s.db.WithContext(ctx)

	var chemicals []models.Chemical
	if err := db.Order("position asc").Find(&chemicals).Error; err != nil {
		return inventory.State{}, nil, fmt.Errorf("load chemicals: %w", err)
	}
	var lots []models.ChemicalLot
	if err := db.Order("chemical_id asc").Order("position asc").Find(&lots).Error; err != nil {
		return inventory.State{}, nil, fmt.Errorf("load lots: %w", err)
	}
	var entries []models.AuditLogEntry
	if err := db.Order("sequence desc").Find(&entries).Error; err != nil {
		return inventory.State{}, nil, fmt.Errorf("load audit log: %w", err)
	}

	lotsByChemical := make(map[string][]inventory.Lot, len(chemicals))
	for _, record := range lots {
		lot, err := lotFromRecord(record)
		if err != nil {
			return inventory.State{}, nil, err
		}
		lotsByChemical[record.ChemicalID] = append(lotsByChemical[record.ChemicalID], lot)
	}

	state := inventory.State{Chemicals: make([]inventory.Chemical, 0, len(chemicals))}
	for _, record := range chemicals {
		chem := chemicalFromRecord(record)
		chem.Lots = lotsByChemical[record.ID]
		if chem.Lots == nil {
			chem.Lots = []inventory.Lot{}
		}
		state.Chemicals = append(state.Chemicals, chem)
	}

	audit := make([]inventory.AuditEntry, 0, len(entries))
	for _, record := range entries {
		audit = append(audit, auditFromRecord(record))
	}
	return state, audit, nil
}

// Save replaces the stored inventory and audit log with the given snapshot in
// a single transaction. Nothing is written if any insert fails.
func (s *Store) Save(ctx context.Context, state inventory.State, audit []inventory.AuditEntry) error {
	if s == nil || s.db == nil {
		return ErrNilDatabase
	}

	chemicals := make([]models.Chemical, 0, len(state.Chemicals))
	var lots []models.ChemicalLot
	for i, chem := range state.Chemicals {
		chemicals = append(chemicals, chemicalToRecord(chem, i))
		for j, lot := range chem.Lots {
			lots = append(lots, lotToRecord(chem.ID, lot, j))
		}
	}
	entries := make([]models.AuditLogEntry, 0, len(audit))
	for i, entry := range audit {
		entries = append(entries, auditToRecord(entry, int64(len(audit)-i)))
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		wipe := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		for _, table := range []any{&models.ChemicalLot{}, &models.Chemical{}, &models.AuditLogEntry{}} {
			if err := wipe.Delete(table).Error; err != nil {
				return fmt.Errorf("clear %T: %w", table, err)
			}
		}
		if len(chemicals) > 0 {
			if err := tx.CreateInBatches(chemicals, batchSize).Error; err != nil {
				return fmt.Errorf("save chemicals: %w", err)
			}
		}
		if len(lots) > 0 {
			if err := tx.CreateInBatches(lots, batchSize).Error; err != nil {
				return fmt.Errorf("save lots: %w", err)
			}
		}
		if len(entries) > 0 {
			if err := tx.CreateInBatches(entries, batchSize).Error; err != nil {
				return fmt.Errorf("save audit log: %w", err)
			}
		}
		return nil
	})
}
