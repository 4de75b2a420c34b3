package models

import (
	"strings"

	"gorm.io/gorm"
)

// Role controls what a signed-in account may change.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleStaff  Role = "STAFF"
	RoleViewer Role = "VIEWER"

	// DefaultRole is assigned to self-registered accounts.
	DefaultRole = RoleViewer
)

// ValidRole reports whether value names a known role.
func ValidRole(value string) bool {
	switch Role(value) {
	case RoleAdmin, RoleStaff, RoleViewer:
		return true
	default:
		return false
	}
}

// NormalizeRole upper-cases value and falls back to DefaultRole when unknown.
func NormalizeRole(value string) Role {
	candidate := strings.ToUpper(strings.TrimSpace(value))
	if ValidRole(candidate) {
		return Role(candidate)
	}
	return DefaultRole
}

// CanEdit reports whether the role may record inventory transactions.
func (r Role) CanEdit() bool {
	return r == RoleAdmin || r == RoleStaff
}

// CanAdminister reports whether the role may delete records and manage accounts.
func (r Role) CanAdminister() bool {
	return r == RoleAdmin
}

// User represents an application account that can authenticate with the platform.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         Role `gorm:"type:varchar(16);not null;default:VIEWER"`
}
