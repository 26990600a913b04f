package usecase

import (
	"context"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// SecurityEventQuery narrows a tenant-scoped audit trail listing.
type SecurityEventQuery struct {
	TenantID   uuid.UUID
	IdentityID *uuid.UUID
	Severity   *entity.Severity
	Kind       *entity.EventKind
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// LoginRecordQuery narrows a tenant-scoped login history listing.
type LoginRecordQuery struct {
	TenantID   uuid.UUID
	IdentityID *uuid.UUID
	Success    *bool
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// SecurityReportUsecase exposes the read side of the audit trail and the
// login history. All queries are bounded to a single tenant.
type SecurityReportUsecase interface {
	ListSecurityEvents(ctx context.Context, query SecurityEventQuery) ([]*entity.SecurityEvent, error)
	ListLoginRecords(ctx context.Context, query LoginRecordQuery) ([]*entity.LoginRecord, error)
}
