package service

import (
	"context"

	"github.com/Shiki0138/sms-sub003/internal/domain/entity"

	"github.com/google/uuid"
)

// SuspicionResult names which dimensions of a login's origin were novel
// relative to the identity's recent successful logins.
type SuspicionResult struct {
	Suspicious     bool
	NovelIP        bool
	NovelUserAgent bool
}

// SuspicionDetector compares a login's origin against a rolling window of
// known-good origins for the identity. It is a heuristic, not a gate: a
// positive result annotates the login but never blocks it.
type SuspicionDetector interface {
	// Evaluate flags the origin as suspicious when its network address OR
	// client signature was not seen in any successful login within the
	// trailing window. An empty window flags both dimensions.
	Evaluate(ctx context.Context, identityID uuid.UUID, origin entity.Origin) (SuspicionResult, error)
}
