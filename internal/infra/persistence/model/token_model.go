package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshTokenModel mirrors the 'refresh_tokens' table. Only the SHA-256 hash
// of the secret is stored; the column is unique so a hash lookup is an index hit.
type RefreshTokenModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	IdentityID uuid.UUID `gorm:"type:uuid;not null;index"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null"`
	TokenHash  string    `gorm:"type:varchar(255);unique;not null"`
	ExpiresAt  time.Time `gorm:"not null"`
	Revoked    bool      `gorm:"not null;default:false"`
	OriginIP   string    `gorm:"type:varchar(64)"`
	UserAgent  string    `gorm:"type:varchar(512)"`
	CreatedAt  time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
