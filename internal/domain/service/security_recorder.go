package service

import (
	"context"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// SecurityEventInput is the input for one audit trail entry. TenantID may be
// unresolved; the recorder resolves it from the identity before writing.
type SecurityEventInput struct {
	IdentityID  *uuid.UUID
	TenantID    entity.TenantRef
	Kind        entity.EventKind
	Severity    entity.Severity
	Description string
	Metadata    map[string]any
	Origin      entity.Origin
}

// SecurityEventRecorder appends immutable records of security-relevant
// actions. Recording must never fail the primary operation it is auditing:
// implementations swallow write failures and log them locally.
type SecurityEventRecorder interface {
	// Record appends one event. An event whose tenant cannot be resolved is
	// dropped with a local error log; no error reaches the caller.
	Record(ctx context.Context, input SecurityEventInput)
}
