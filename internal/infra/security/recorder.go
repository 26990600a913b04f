package security

import (
	"context"
	"log/slog"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/google/uuid"
)

// eventRecorder implements service.SecurityEventRecorder. It resolves the
// event's tenant before writing and never propagates failures to the caller:
// auditing must not fail the operation being audited.
type eventRecorder struct {
	eventRepo    repository.SecurityEventRepository
	identityRepo repository.IdentityRepository
	logger       *slog.Logger
}

// NewEventRecorder is the constructor for eventRecorder.
func NewEventRecorder(
	eventRepo repository.SecurityEventRepository,
	identityRepo repository.IdentityRepository,
	logger *slog.Logger,
) service.SecurityEventRecorder {
	return &eventRecorder{
		eventRepo:    eventRepo,
		identityRepo: identityRepo,
		logger:       logger,
	}
}

// Record appends one event. An event whose tenant cannot be resolved is
// dropped with a local error log.
func (r *eventRecorder) Record(ctx context.Context, input service.SecurityEventInput) {
	tenantID, ok := r.resolveTenant(ctx, input)
	if !ok {
		r.logger.Error("Dropping security event with unresolvable tenant",
			slog.String("kind", input.Kind.String()),
			slog.Any("identityID", input.IdentityID))

		return
	}

	event := &entity.SecurityEvent{
		TenantID:    tenantID,
		IdentityID:  input.IdentityID,
		Kind:        input.Kind,
		Severity:    input.Severity,
		Description: input.Description,
		Metadata:    input.Metadata,
		OriginIP:    input.Origin.IP,
		UserAgent:   input.Origin.UserAgent,
	}

	if err := r.eventRepo.Create(ctx, event); err != nil {
		// Swallowed: the audit write must never mask the primary operation.
		r.logger.Error("Failed to persist security event",
			slog.String("kind", input.Kind.String()),
			slog.Any("error", err))
	}
}

func (r *eventRecorder) resolveTenant(ctx context.Context, input service.SecurityEventInput) (uuid.UUID, bool) {
	if input.TenantID.Resolved() {
		return input.TenantID.ID(), true
	}

	if input.IdentityID == nil {
		return uuid.Nil, false
	}

	identity, err := r.identityRepo.FindByID(ctx, *input.IdentityID)
	if err != nil {
		return uuid.Nil, false
	}

	return identity.TenantID, true
}
