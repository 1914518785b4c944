package handler

import (
	"net/http"
	"time"

	"biometric-service/internal/analytics"
	"biometric-service/internal/apperr"
	"biometric-service/internal/middleware"
	"biometric-service/internal/model"
	"biometric-service/internal/policy"
	"biometric-service/pkg/logger"
	"biometric-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuditHandler serves the audit-log surface. Listing and summarizing require
// at least the organization role and are not tenant-filtered: an elevated
// subject sees every organization's entries.
type AuditHandler struct {
	db *gorm.DB
}

func NewAuditHandler(db *gorm.DB) *AuditHandler {
	return &AuditHandler{db: db}
}

func (h *AuditHandler) requireElevated(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperr.ErrNotAuthenticated
	}
	if !policy.HasRole(user.Role, model.RoleOrganization) {
		prometheus.RecordAccessDenied("role")
		return nil, apperr.Wrap(apperr.ErrNotAuthorized, "not enough permissions")
	}
	return user, nil
}

// List returns every audit entry system-wide.
func (h *AuditHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	if _, err := h.requireElevated(c); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var logs []model.AccessLog
	if result := h.db.Find(&logs); result.Error != nil {
		log.Error("Failed to list access logs", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list access logs"})
	}

	return c.JSON(http.StatusOK, logs)
}

// Summary returns aggregated access patterns: totals, per-organization and
// per-action counts, and an hourly time series.
func (h *AuditHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	if _, err := h.requireElevated(c); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var logs []model.AccessLog
	if result := h.db.Find(&logs); result.Error != nil {
		log.Error("Failed to load access logs for summary", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to summarize access logs"})
	}

	return c.JSON(http.StatusOK, analytics.AnalyzeAccessPatterns(logs))
}
