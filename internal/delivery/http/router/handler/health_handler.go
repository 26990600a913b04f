package handler

import (
	"net/http"

	"github.com/Shiki0138/sms-sub003/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports process liveness. It carries no dependencies on
// purpose: a wedged database must not make the process look dead.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "")
}
