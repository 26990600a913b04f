// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// LoginRecordFilter narrows login history listings. Tenant-scoped like all
// read APIs in this engine.
type LoginRecordFilter struct {
	TenantID   uuid.UUID
	IdentityID *uuid.UUID
	Success    *bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// LoginRecordRepository persists one row per login attempt, independent of
// the security event trail.
type LoginRecordRepository interface {
	// Create appends one login record.
	Create(ctx context.Context, record *entity.LoginRecord) error

	// FindSuccessfulSince returns the successful logins of an identity after
	// the given instant. Used for anomaly baselining; read-only.
	FindSuccessfulSince(ctx context.Context, identityID uuid.UUID, since time.Time) ([]*entity.LoginRecord, error)

	// List returns records matching the filter, newest first.
	List(ctx context.Context, filter LoginRecordFilter) ([]*entity.LoginRecord, error)
}
