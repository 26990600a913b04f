package security

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Shiki0138/sms-sub003/config"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/domain/repository"
	"github.com/Shiki0138/sms-sub003/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const defaultSuspicionWindow = 30 * 24 * time.Hour

// suspicionDetector implements service.SuspicionDetector against the login
// history. The lookup is read-only and routed to replicas when configured.
type suspicionDetector struct {
	loginRecordRepo repository.LoginRecordRepository
	recorder        service.SecurityEventRecorder
	window          time.Duration
	logger          *slog.Logger
}

// NewSuspicionDetector is the constructor for suspicionDetector.
func NewSuspicionDetector(
	cfg *config.Config,
	loginRecordRepo repository.LoginRecordRepository,
	recorder service.SecurityEventRecorder,
	logger *slog.Logger,
) service.SuspicionDetector {
	window := defaultSuspicionWindow
	if cfg != nil && cfg.Suspicion != nil && cfg.Suspicion.Window > 0 {
		window = cfg.Suspicion.Window
	}

	return &suspicionDetector{
		loginRecordRepo: loginRecordRepo,
		recorder:        recorder,
		window:          window,
		logger:          logger,
	}
}

// Evaluate flags the origin as suspicious when its network address OR client
// signature is novel relative to the identity's successful logins within the
// trailing window. A single novel dimension is enough to flag.
func (d *suspicionDetector) Evaluate(ctx context.Context, identityID uuid.UUID, origin entity.Origin) (service.SuspicionResult, error) {
	since := time.Now().Add(-d.window)

	records, err := d.loginRecordRepo.FindSuccessfulSince(ctx, identityID, since)
	if err != nil {
		return service.SuspicionResult{}, errors.Wrap(err, "failed to load login history")
	}

	// An empty window leaves every dimension unseen: a first login and a
	// return after the window has drained are both flagged.
	seenIPs := make(map[string]struct{}, len(records))
	seenAgents := make(map[string]struct{}, len(records))
	for _, record := range records {
		seenIPs[record.OriginIP] = struct{}{}
		seenAgents[record.UserAgent] = struct{}{}
	}

	result := service.SuspicionResult{}
	if _, ok := seenIPs[origin.IP]; !ok {
		result.NovelIP = true
	}
	if _, ok := seenAgents[origin.UserAgent]; !ok {
		result.NovelUserAgent = true
	}
	result.Suspicious = result.NovelIP || result.NovelUserAgent

	if result.Suspicious {
		d.recorder.Record(ctx, service.SecurityEventInput{
			IdentityID:  &identityID,
			Kind:        entity.EventSuspiciousLogin,
			Severity:    entity.SeverityWarning,
			Description: "Login from unrecognized " + strings.Join(novelDimensions(result), " and "),
			Metadata: map[string]any{
				"novelIp":        result.NovelIP,
				"novelUserAgent": result.NovelUserAgent,
			},
			Origin: origin,
		})

		d.logger.Warn("Suspicious login detected",
			slog.Any("identityID", identityID),
			slog.Bool("novelIp", result.NovelIP),
			slog.Bool("novelUserAgent", result.NovelUserAgent))
	}

	return result, nil
}

func novelDimensions(result service.SuspicionResult) []string {
	var dims []string
	if result.NovelIP {
		dims = append(dims, "network address")
	}
	if result.NovelUserAgent {
		dims = append(dims, "client signature")
	}

	return dims
}
