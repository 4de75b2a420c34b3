package models

import (
	"time"

	"gorm.io/datatypes"
)

// ChemicalLot is one received batch. Dates are stored as YYYY-MM-DD strings
// and an empty string means the date is unset.
type ChemicalLot struct {
	ID                   string `gorm:"primaryKey;size:64"`
	ChemicalID           string `gorm:"size:64;not null;index"`
	Position             int    `gorm:"not null"`
	LotNumber            string `gorm:"not null"`
	MfgLotNumber         string
	Packaging            string
	ContainerCapacity    float64
	Quantity             float64 `gorm:"not null;default:0"`
	Unit                 string  `gorm:"size:8"`
	EntryDate            string  `gorm:"size:10"`
	ExpiryDate           string  `gorm:"size:10"`
	OpenedDate           string  `gorm:"size:10"`
	LastUsedDate         string  `gorm:"size:10"`
	PAODays              int
	ContainerOpenedDates datatypes.JSONSlice[string]
	Status               string `gorm:"size:16;not null;index"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
