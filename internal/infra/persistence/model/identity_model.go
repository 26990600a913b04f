// Package model contains the GORM table mappings for the persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
)

// IdentityModel mirrors the 'identities' table. PostgreSQL generates UUIDs via
// uuid_generate_v4(). The tenant activation flag is denormalized onto the row
// by the provisioning flow so authentication never joins the tenants table.
type IdentityModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TenantID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Email            string    `gorm:"type:varchar(255);unique;not null"`
	Name             string    `gorm:"type:varchar(100)"`
	PasswordHash     string    `gorm:"type:varchar(255);not null"`
	Role             string    `gorm:"type:varchar(20);not null"`
	Active           bool      `gorm:"not null;default:true"`
	TenantActive     bool      `gorm:"not null;default:true"`
	FailedAttempts   int       `gorm:"not null;default:0"`
	LockedUntil      *time.Time
	TwoFactorEnabled bool `gorm:"not null;default:false"`
	LastLoginAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// TableName explicitly sets the table name for GORM.
func (IdentityModel) TableName() string {
	return "identities"
}
