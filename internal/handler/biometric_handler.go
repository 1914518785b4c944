package handler

import (
	"errors"
	"net/http"
	"strconv"
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

// BiometricHandler serves the tenant-scoped record CRUD surface. Every read
// and create of a record appends an audit entry; create does so in the same
// transaction as the record insert.
type BiometricHandler struct {
	db *gorm.DB
}

func NewBiometricHandler(db *gorm.DB) *BiometricHandler {
	return &BiometricHandler{db: db}
}

type createRecordRequest struct {
	DataType  string        `json:"data_type"`
	Value     *float64      `json:"value"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
	Metadata  model.JSONMap `json:"metadata,omitempty"`
}

// updateRecordRequest lists exactly the mutable fields of a record. Absent
// fields are left untouched; the owning user, organization and data type are
// frozen at creation.
type updateRecordRequest struct {
	Value     *float64      `json:"value,omitempty"`
	Timestamp *time.Time    `json:"timestamp,omitempty"`
	Metadata  model.JSONMap `json:"metadata,omitempty"`
}

// Create persists a new record owned by the caller's organization and writes
// the "create" audit entry in the same transaction. If the audit insert
// fails the record insert is rolled back with it.
func (h *BiometricHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("create")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	if user.OrganizationID == nil {
		log.Error("User without organization attempted record creation", zap.String("email", user.Email))
		prometheus.RecordAccessDenied("no_organization")
		return respondError(c, apperr.Wrap(apperr.ErrTenancyRequired, "user must be associated with an organization"))
	}

	var req createRecordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse record creation request", zap.Error(err))
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid request"))
	}

	dataType, err := model.ParseBiometricType(req.DataType)
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, err.Error()))
	}
	if req.Value == nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "value is required"))
	}

	timestamp := time.Now()
	if req.Timestamp != nil {
		timestamp = *req.Timestamp
	}

	record := model.BiometricRecord{
		UserID:         user.ID,
		OrganizationID: *user.OrganizationID,
		DataType:       dataType,
		Value:          *req.Value,
		Timestamp:      timestamp,
		Metadata:       req.Metadata,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		entry := model.AccessLog{
			UserID:         user.ID,
			OrganizationID: user.OrganizationID,
			Action:         "create",
			Details:        model.JSONMap{"data_id": record.ID},
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		log.Error("Failed to create biometric record", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create record"})
	}

	prometheus.RecordAuditEntry("create")
	log.Info("Biometric record created",
		zap.Uint("record_id", record.ID),
		zap.Uint("organization_id", record.OrganizationID),
		zap.String("data_type", string(record.DataType)))

	return c.JSON(http.StatusCreated, record)
}

// Get returns a single record. Existence is checked before tenancy, so an
// absent id is NotFound even for a caller from the wrong organization. A
// successful read appends the "read" audit entry before responding.
func (h *BiometricHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("read")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid record id"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var record model.BiometricRecord
	if result := h.db.First(&record, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "biometric record not found"))
		}
		log.Error("Failed to load biometric record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load record"})
	}

	if !policy.SameTenant(user.OrganizationID, record.OrganizationID) {
		prometheus.RecordAccessDenied("tenancy")
		return respondError(c, apperr.Wrap(apperr.ErrNotAuthorized, "not authorized to access this record"))
	}

	entry := model.AccessLog{
		UserID:         user.ID,
		OrganizationID: user.OrganizationID,
		Action:         "read",
		Details:        model.JSONMap{"data_id": record.ID},
	}
	if err := h.db.Create(&entry).Error; err != nil {
		log.Error("Failed to write audit entry", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to record access"})
	}
	prometheus.RecordAuditEntry("read")

	return c.JSON(http.StatusOK, record)
}

// Update applies a partial update. Only fields present in the request are
// mutated; updated_at is refreshed. No audit entry is written for updates.
func (h *BiometricHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("update")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid record id"))
	}

	var req updateRecordRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse record update request", zap.Error(err))
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var record model.BiometricRecord
	if result := h.db.First(&record, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "biometric record not found"))
		}
		log.Error("Failed to load biometric record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load record"})
	}

	if !policy.SameTenant(user.OrganizationID, record.OrganizationID) {
		prometheus.RecordAccessDenied("tenancy")
		return respondError(c, apperr.Wrap(apperr.ErrNotAuthorized, "not authorized to update this record"))
	}

	if req.Value != nil {
		record.Value = *req.Value
	}
	if req.Timestamp != nil {
		record.Timestamp = *req.Timestamp
	}
	if req.Metadata != nil {
		record.Metadata = req.Metadata
	}

	if result := h.db.Save(&record); result.Error != nil {
		log.Error("Failed to update biometric record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update record"})
	}

	log.Info("Biometric record updated", zap.Uint("record_id", record.ID))
	return c.JSON(http.StatusOK, record)
}

// Delete removes a record. Existence before tenancy, as with reads. No audit
// entry is written for deletes.
func (h *BiometricHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("delete")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid record id"))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	var record model.BiometricRecord
	if result := h.db.First(&record, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "biometric record not found"))
		}
		log.Error("Failed to load biometric record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load record"})
	}

	if !policy.SameTenant(user.OrganizationID, record.OrganizationID) {
		prometheus.RecordAccessDenied("tenancy")
		return respondError(c, apperr.Wrap(apperr.ErrNotAuthorized, "not authorized to delete this record"))
	}

	if result := h.db.Delete(&record); result.Error != nil {
		log.Error("Failed to delete biometric record", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete record"})
	}

	log.Info("Biometric record deleted", zap.Uint("record_id", record.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Biometric record deleted successfully"})
}

// List returns all records belonging to the caller's organization, optionally
// filtered by data type. Bulk reads are not individually audited.
func (h *BiometricHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("list")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	query := h.db.Where("organization_id = ?", user.OrganizationID)
	if raw := c.QueryParam("data_type"); raw != "" {
		dataType, err := model.ParseBiometricType(raw)
		if err != nil {
			return respondError(c, apperr.Wrap(apperr.ErrValidation, err.Error()))
		}
		query = query.Where("data_type = ?", dataType)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var records []model.BiometricRecord
	if result := query.Find(&records); result.Error != nil {
		log.Error("Failed to list biometric records", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list records"})
	}

	return c.JSON(http.StatusOK, records)
}

// Analytics aggregates the values of the caller's organization's records of
// one data type. Zero matching records is NotFound, not an empty success.
func (h *BiometricHandler) Analytics(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordRecordOperation("analytics")

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return respondError(c, apperr.ErrNotAuthenticated)
	}

	if user.OrganizationID == nil {
		prometheus.RecordAccessDenied("no_organization")
		return respondError(c, apperr.Wrap(apperr.ErrTenancyRequired, "user must be associated with an organization"))
	}

	dataType, err := model.ParseBiometricType(c.QueryParam("data_type"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, err.Error()))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var records []model.BiometricRecord
	result := h.db.Where("organization_id = ? AND data_type = ?", *user.OrganizationID, dataType).Find(&records)
	if result.Error != nil {
		log.Error("Failed to load records for analytics", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute analytics"})
	}

	values := make([]float64, 0, len(records))
	for _, r := range records {
		values = append(values, r.Value)
	}

	stats, ok := analytics.Summarize(values)
	if !ok {
		return respondError(c, apperr.Wrap(apperr.ErrNotFound, "no data found for analysis"))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data_type": dataType,
		"count":     stats.Count,
		"average":   stats.Average,
		"min":       stats.Min,
		"max":       stats.Max,
		"metadata": echo.Map{
			"organization_id":    *user.OrganizationID,
			"analysis_timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
