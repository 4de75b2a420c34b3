package models

import (
	"time"

	"gorm.io/datatypes"
)

// Chemical is the persisted master record of a chemical. Lots live in their
// own table and reference the chemical by ID.
type Chemical struct {
	ID               string `gorm:"primaryKey;size:64"`
	Position         int    `gorm:"not null;index"`
	Code             string `gorm:"size:64;index"`
	Name             string `gorm:"not null"`
	Formula          string
	CASNumber        string `gorm:"size:32;index"`
	Category         string `gorm:"size:32"`
	State            string `gorm:"size:16"`
	HazardGHS        datatypes.JSONSlice[string]
	NFPAHealth       int
	NFPAFlammability int
	NFPAInstability  int
	NFPASpecial      string `gorm:"size:8"`
	Location         string
	Supplier         string
	DefaultPAODays   int
	MinThreshold     float64
	SDSURL           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
