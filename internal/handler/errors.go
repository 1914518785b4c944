package handler

import (
	"biometric-service/internal/apperr"

	"github.com/labstack/echo/v4"
)

// respondError maps a taxonomy error onto its HTTP status and a JSON body.
func respondError(c echo.Context, err error) error {
	return c.JSON(apperr.Status(err), echo.Map{"error": err.Error()})
}
