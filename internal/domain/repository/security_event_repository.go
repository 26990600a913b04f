// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// SecurityEventFilter narrows security event listings. All queries are
// tenant-scoped; cross-tenant reads are never permitted.
type SecurityEventFilter struct {
	TenantID   uuid.UUID
	IdentityID *uuid.UUID
	Severity   *entity.Severity
	Kind       *entity.EventKind
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SecurityEventRepository is append-only: events are created and listed,
// never updated or deleted.
type SecurityEventRepository interface {
	// Create appends one security event to the audit trail.
	Create(ctx context.Context, event *entity.SecurityEvent) error

	// List returns events matching the filter, newest first.
	List(ctx context.Context, filter SecurityEventFilter) ([]*entity.SecurityEvent, error)
}
