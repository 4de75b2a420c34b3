package store

import (
	"fmt"

	"gorm.io/datatypes"

	"labstock/internal/inventory"
	"labstock/models"
)

func chemicalToRecord(chem inventory.Chemical, position int) models.Chemical {
	return models.Chemical{
		ID:               chem.ID,
		Position:         position,
		Code:             chem.Code,
		Name:             chem.Name,
		Formula:          chem.Formula,
		CASNumber:        chem.CASNumber,
		Category:         chem.Category,
		State:            string(chem.State),
		HazardGHS:        datatypes.NewJSONSlice(append([]string{}, chem.HazardGHS...)),
		NFPAHealth:       chem.NFPA.Health,
		NFPAFlammability: chem.NFPA.Flammability,
		NFPAInstability:  chem.NFPA.Instability,
		NFPASpecial:      chem.NFPA.Special,
		Location:         chem.Location,
		Supplier:         chem.Supplier,
		DefaultPAODays:   chem.DefaultPAODays,
		MinThreshold:     chem.MinThreshold,
		SDSURL:           chem.SDSURL,
	}
}

func chemicalFromRecord(record models.Chemical) inventory.Chemical {
	chem := inventory.Chemical{
		ID:        record.ID,
		Code:      record.Code,
		Name:      record.Name,
		Formula:   record.Formula,
		CASNumber: record.CASNumber,
		Category:  record.Category,
		State:     inventory.PhysicalState(record.State),
		NFPA: inventory.NFPARating{
			Health:       record.NFPAHealth,
			Flammability: record.NFPAFlammability,
			Instability:  record.NFPAInstability,
			Special:      record.NFPASpecial,
		},
		Location:       record.Location,
		Supplier:       record.Supplier,
		DefaultPAODays: record.DefaultPAODays,
		MinThreshold:   record.MinThreshold,
		SDSURL:         record.SDSURL,
	}
	if len(record.HazardGHS) > 0 {
		chem.HazardGHS = append([]string(nil), record.HazardGHS...)
	}
	return chem
}

func lotToRecord(chemicalID string, lot inventory.Lot, position int) models.ChemicalLot {
	containers := make([]string, 0, len(lot.ContainerOpenedDates))
	for _, d := range lot.ContainerOpenedDates {
		containers = append(containers, d.String())
	}
	return models.ChemicalLot{
		ID:                   lot.ID,
		ChemicalID:           chemicalID,
		Position:             position,
		LotNumber:            lot.LotNumber,
		MfgLotNumber:         lot.MfgLotNumber,
		Packaging:            lot.Packaging,
		ContainerCapacity:    lot.ContainerCapacity,
		Quantity:             lot.Quantity,
		Unit:                 lot.Unit,
		EntryDate:            lot.EntryDate.String(),
		ExpiryDate:           lot.ExpiryDate.String(),
		OpenedDate:           lot.OpenedDate.String(),
		LastUsedDate:         lot.LastUsedDate.String(),
		PAODays:              lot.PAODays,
		ContainerOpenedDates: datatypes.NewJSONSlice(containers),
		Status:               string(lot.Status),
	}
}

func lotFromRecord(record models.ChemicalLot) (inventory.Lot, error) {
	lot := inventory.Lot{
		ID:                record.ID,
		LotNumber:         record.LotNumber,
		MfgLotNumber:      record.MfgLotNumber,
		Packaging:         record.Packaging,
		ContainerCapacity: record.ContainerCapacity,
		Quantity:          record.Quantity,
		Unit:              record.Unit,
		PAODays:           record.PAODays,
		Status:            inventory.LotStatus(record.Status),
	}

	fields := []struct {
		name   string
		raw    string
		target *inventory.Date
	}{
		{"entry_date", record.EntryDate, &lot.EntryDate},
		{"expiry_date", record.ExpiryDate, &lot.ExpiryDate},
		{"opened_date", record.OpenedDate, &lot.OpenedDate},
		{"last_used_date", record.LastUsedDate, &lot.LastUsedDate},
	}
	for _, field := range fields {
		parsed, err := inventory.ParseDate(field.raw)
		if err != nil {
			return inventory.Lot{}, fmt.Errorf("lot %s %s: %w", record.ID, field.name, err)
		}
		*field.target = parsed
	}

	for _, raw := range record.ContainerOpenedDates {
		parsed, err := inventory.ParseDate(raw)
		if err != nil {
			return inventory.Lot{}, fmt.Errorf("lot %s container date: %w", record.ID, err)
		}
		lot.ContainerOpenedDates = append(lot.ContainerOpenedDates, parsed)
	}
	return lot, nil
}

func auditToRecord(entry inventory.AuditEntry, sequence int64) models.AuditLogEntry {
	return models.AuditLogEntry{
		ID:           entry.ID,
		Sequence:     sequence,
		Timestamp:    entry.Timestamp.UTC(),
		UserID:       entry.UserID,
		UserName:     entry.UserName,
		Action:       string(entry.Action),
		EntityID:     entry.EntityID,
		ChemicalName: entry.ChemicalName,
		LotNumber:    entry.LotNumber,
		Amount:       entry.Amount,
		Unit:         entry.Unit,
		Details:      entry.Details,
	}
}

func auditFromRecord(record models.AuditLogEntry) inventory.AuditEntry {
	return inventory.AuditEntry{
		ID:           record.ID,
		Timestamp:    record.Timestamp.UTC(),
		UserID:       record.UserID,
		UserName:     record.UserName,
		Action:       inventory.AuditAction(record.Action),
		EntityID:     record.EntityID,
		ChemicalName: record.ChemicalName,
		LotNumber:    record.LotNumber,
		Amount:       record.Amount,
		Unit:         record.Unit,
		Details:      record.Details,
	}
}
