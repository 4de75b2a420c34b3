package models

import "time"

// AuditLogEntry is an immutable audit record. Sequence orders entries; the
// highest sequence is the newest entry.
type AuditLogEntry struct {
	ID           string    `gorm:"primaryKey;size:64"`
	Sequence     int64     `gorm:"not null;index"`
	Timestamp    time.Time `gorm:"not null;index"`
	UserID       string    `gorm:"size:64"`
	UserName     string
	Action       string `gorm:"size:32;not null;index"`
	EntityID     string `gorm:"size:64;index"`
	ChemicalName string
	LotNumber    string
	Amount       *float64
	Unit         string `gorm:"size:8"`
	Details      string `gorm:"type:text"`
}
