package handler

import (
	"errors"
	"net/http"
	"time"

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

// OrganizationHandler serves the administrative organization CRUD surface.
// Every operation requires the admin role.
type OrganizationHandler struct {
	db *gorm.DB
}

func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{db: db}
}

type createOrganizationRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// updateOrganizationRequest lists exactly the mutable fields of an
// organization. Absent fields are left untouched.
type updateOrganizationRequest struct {
	Name         *string `json:"name,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

func (h *OrganizationHandler) requireAdmin(c echo.Context) (*model.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, apperr.ErrNotAuthenticated
	}
	if !policy.HasRole(user.Role, model.RoleAdmin) {
		prometheus.RecordAccessDenied("role")
		return nil, apperr.Wrap(apperr.ErrNotAuthorized, "not enough permissions")
	}
	return user, nil
}

// Create registers a new organization. The contact email is unique across
// all organizations.
func (h *OrganizationHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("create")

	if _, err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	var req createOrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization creation request", zap.Error(err))
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid request"))
	}
	if req.Name == "" || req.ContactEmail == "" {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "name and contact_email are required"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var existing model.Organization
	if result := h.db.Where("contact_email = ?", req.ContactEmail).First(&existing); result.Error == nil {
		log.Error("Organization contact email already in use", zap.String("contact_email", req.ContactEmail))
		return respondError(c, apperr.Wrap(apperr.ErrConflict, "contact email already registered"))
	}

	org := model.Organization{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := h.db.Create(&org); result.Error != nil {
		log.Error("Failed to create organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create organization"})
	}

	log.Info("Organization created", zap.Uint("organization_id", org.ID), zap.String("name", org.Name))
	return c.JSON(http.StatusCreated, org)
}

// Get returns a single organization by id.
func (h *OrganizationHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("read")

	if _, err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid organization id"))
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var org model.Organization
	if result := h.db.First(&org, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "organization not found"))
		}
		log.Error("Failed to load organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load organization"})
	}

	return c.JSON(http.StatusOK, org)
}

// Update applies a partial update to an organization. Changing the contact
// email to one already in use is a conflict.
func (h *OrganizationHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("update")

	if _, err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid organization id"))
	}

	var req updateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse organization update request", zap.Error(err))
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid request"))
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	var org model.Organization
	if result := h.db.First(&org, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "organization not found"))
		}
		log.Error("Failed to load organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load organization"})
	}

	if req.ContactEmail != nil && *req.ContactEmail != org.ContactEmail {
		var existing model.Organization
		if result := h.db.Where("contact_email = ?", *req.ContactEmail).First(&existing); result.Error == nil {
			return respondError(c, apperr.Wrap(apperr.ErrConflict, "contact email already registered"))
		}
		org.ContactEmail = *req.ContactEmail
	}
	if req.Name != nil {
		org.Name = *req.Name
	}

	if result := h.db.Save(&org); result.Error != nil {
		log.Error("Failed to update organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update organization"})
	}

	log.Info("Organization updated", zap.Uint("organization_id", org.ID))
	return c.JSON(http.StatusOK, org)
}

// Delete removes an organization. Deletion is restricted: an organization
// that still owns users or biometric records cannot be deleted.
func (h *OrganizationHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("delete")

	if _, err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, apperr.Wrap(apperr.ErrValidation, "invalid organization id"))
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	var org model.Organization
	if result := h.db.First(&org, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return respondError(c, apperr.Wrap(apperr.ErrNotFound, "organization not found"))
		}
		log.Error("Failed to load organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load organization"})
	}

	var userCount int64
	if result := h.db.Model(&model.User{}).Where("organization_id = ?", org.ID).Count(&userCount); result.Error != nil {
		log.Error("Failed to count organization users", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete organization"})
	}
	var recordCount int64
	if result := h.db.Model(&model.BiometricRecord{}).Where("organization_id = ?", org.ID).Count(&recordCount); result.Error != nil {
		log.Error("Failed to count organization records", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete organization"})
	}
	if userCount > 0 || recordCount > 0 {
		return respondError(c, apperr.Wrap(apperr.ErrConflict, "organization still owns users or records"))
	}

	if result := h.db.Delete(&org); result.Error != nil {
		log.Error("Failed to delete organization", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete organization"})
	}

	log.Info("Organization deleted", zap.Uint("organization_id", org.ID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Organization deleted successfully"})
}

// List returns every organization.
func (h *OrganizationHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordOrganizationOperation("list")

	if _, err := h.requireAdmin(c); err != nil {
		return respondError(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var orgs []model.Organization
	if result := h.db.Find(&orgs); result.Error != nil {
		log.Error("Failed to list organizations", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list organizations"})
	}

	return c.JSON(http.StatusOK, orgs)
}
