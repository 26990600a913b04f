package model

import (
	"time"

	"github.com/google/uuid"
)

// SecurityEventModel mirrors the 'security_events' table. Rows are append-only;
// no update or delete path exists in the repository.
type SecurityEventModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TenantID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_security_events_tenant_created"`
	IdentityID  *uuid.UUID `gorm:"type:uuid;index"`
	Kind        string     `gorm:"type:varchar(50);not null"`
	Severity    string     `gorm:"type:varchar(20);not null"`
	Description string     `gorm:"type:text"`
	Metadata    []byte     `gorm:"type:jsonb"`
	OriginIP    string     `gorm:"type:varchar(64)"`
	UserAgent   string     `gorm:"type:varchar(512)"`
	CreatedAt   time.Time  `gorm:"index:idx_security_events_tenant_created"`
}

// TableName explicitly sets the table name for GORM.
func (SecurityEventModel) TableName() string {
	return "security_events"
}

// LoginRecordModel mirrors the 'login_records' table, one row per attempt.
// It is independent of security_events so either trail can fail without
// corrupting the other.
type LoginRecordModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	TenantID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_login_records_tenant_created"`
	IdentityID *uuid.UUID `gorm:"type:uuid;index:idx_login_records_identity_success"`
	Email      string     `gorm:"type:varchar(255);not null"`
	Success    bool       `gorm:"not null;index:idx_login_records_identity_success"`
	OriginIP   string     `gorm:"type:varchar(64)"`
	UserAgent  string     `gorm:"type:varchar(512)"`
	CreatedAt  time.Time  `gorm:"index:idx_login_records_tenant_created"`
}

// TableName explicitly sets the table name for GORM.
func (LoginRecordModel) TableName() string {
	return "login_records"
}
