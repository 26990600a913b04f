package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Shiki0138/sms-sub003/internal/delivery/http/middleware"
	"github.com/Shiki0138/sms-sub003/internal/delivery/http/response"
	"github.com/Shiki0138/sms-sub003/internal/domain/entity"
	"github.com/Shiki0138/sms-sub003/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SecurityHandler exposes the tenant-scoped audit trail and login history.
type SecurityHandler struct {
	uc     usecase.SecurityReportUsecase
	logger *slog.Logger
}

// NewSecurityHandler is the constructor for SecurityHandler, injected by Fx.
func NewSecurityHandler(uc usecase.SecurityReportUsecase, logger *slog.Logger) *SecurityHandler {
	return &SecurityHandler{
		uc:     uc,
		logger: logger,
	}
}

// ListEvents returns the caller's tenant audit trail, newest first.
func (h *SecurityHandler) ListEvents(c echo.Context) error {
	tenantID, ok := c.Get(middleware.ContextKeyTenantID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Tenant information missing")
	}

	query := usecase.SecurityEventQuery{TenantID: tenantID}

	identityID, err := parseUUIDParam(c, "identityId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid identityId")
	}
	query.IdentityID = identityID

	if raw := c.QueryParam("severity"); raw != "" {
		severity := entity.Severity(raw)
		query.Severity = &severity
	}
	if raw := c.QueryParam("kind"); raw != "" {
		kind := entity.EventKind(raw)
		query.Kind = &kind
	}

	if query.From, err = parseTimeParam(c, "from"); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid from timestamp")
	}
	if query.To, err = parseTimeParam(c, "to"); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid to timestamp")
	}
	query.Limit, query.Offset = parsePageParams(c)

	events, err := h.uc.ListSecurityEvents(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, events, "")
}

// ListLogins returns the caller's tenant login history, newest first.
func (h *SecurityHandler) ListLogins(c echo.Context) error {
	tenantID, ok := c.Get(middleware.ContextKeyTenantID).(uuid.UUID)
	if !ok {
		return response.Unauthorized(c, "UNAUTHORIZED", "Tenant information missing")
	}

	query := usecase.LoginRecordQuery{TenantID: tenantID}

	identityID, err := parseUUIDParam(c, "identityId")
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid identityId")
	}
	query.IdentityID = identityID

	if raw := c.QueryParam("success"); raw != "" {
		success, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid success flag")
		}
		query.Success = &success
	}

	if query.From, err = parseTimeParam(c, "from"); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid from timestamp")
	}
	if query.To, err = parseTimeParam(c, "to"); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid to timestamp")
	}
	query.Limit, query.Offset = parsePageParams(c)

	records, err := h.uc.ListLoginRecords(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, records, "")
}

func parseUUIDParam(c echo.Context, name string) (*uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}

	return &id, nil
}

func parseTimeParam(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

func parsePageParams(c echo.Context) (limit, offset int) {
	if raw := c.QueryParam("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			offset = v
		}
	}

	return limit, offset
}
