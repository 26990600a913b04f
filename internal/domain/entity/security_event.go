package entity

import (
	"time"

	"github.com/google/uuid"
)

// EventKind enumerates the security-relevant actions recorded in the audit trail.
type EventKind string

const (
	EventLoginSuccess     EventKind = "login_success"
	EventLoginFailure     EventKind = "login_failure"
	EventAccountLocked    EventKind = "account_locked"
	EventAccountUnlocked  EventKind = "account_unlocked"
	EventPasswordChanged  EventKind = "password_changed"
	EventSuspiciousLogin  EventKind = "suspicious_login"
	EventLogout           EventKind = "logout"
	EventTokenRefreshed   EventKind = "token_refreshed"
	EventTwoFactorChanged EventKind = "two_factor_changed"
)

// String returns the string representation of the EventKind.
func (k EventKind) String() string {
	return string(k)
}

// Severity classifies the urgency of a security event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// String returns the string representation of the Severity.
func (s Severity) String() string {
	return string(s)
}

// SecurityEvent is one append-only record of the security audit trail.
// Once written it is never mutated or deleted by normal operation.
type SecurityEvent struct {
	ID          uuid.UUID      `json:"id"`
	TenantID    uuid.UUID      `json:"tenantId"`             // Always set; resolved from the identity when absent.
	IdentityID  *uuid.UUID     `json:"identityId,omitempty"` // Nil when the event could not be tied to an identity.
	Kind        EventKind      `json:"kind"`                 // What happened.
	Severity    Severity       `json:"severity"`             // How urgent it is.
	Description string         `json:"description"`          // Free-form human description.
	Metadata    map[string]any `json:"metadata,omitempty"`   // Optional structured context.
	OriginIP    string         `json:"originIp"`             // Network address the action originated from.
	UserAgent   string         `json:"userAgent"`            // Client signature of the originating device.
	CreatedAt   time.Time      `json:"createdAt"`
}

// LoginRecord captures a single login attempt, success or failure.
// It is kept independent of SecurityEvent and used for anomaly baselining
// and reporting. It always carries a tenant id; when the identity cannot be
// resolved the record falls back to the unknown tenant.
type LoginRecord struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenantId"`
	IdentityID *uuid.UUID `json:"identityId,omitempty"`
	Email      string     `json:"email"` // Submitted login identifier, kept even on failure.
	Success    bool       `json:"success"`
	OriginIP   string     `json:"originIp"`
	UserAgent  string     `json:"userAgent"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Origin carries the network and client metadata of an inbound request.
type Origin struct {
	IP        string
	UserAgent string
}
