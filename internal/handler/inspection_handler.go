package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/response"
)

type inspectionService interface {
	Create(ctx context.Context, req dto.CreateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error)
	Update(ctx context.Context, id string, req dto.UpdateInspectionRequest, claims *models.JWTClaims) ([]dto.InspectionItem, error)
	Delete(ctx context.Context, id string, claims *models.JWTClaims) ([]dto.InspectionItem, error)
	ListPlanned(ctx context.Context, claims *models.JWTClaims) ([]dto.InspectionItem, error)
	State(ctx context.Context, claims *models.JWTClaims) (*dto.InspectionStateResponse, error)
	Start(ctx context.Context, claims *models.JWTClaims) error
	Stop(ctx context.Context, id string, req dto.StopInspectionRequest, claims *models.JWTClaims) error
	Deregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error
	Reregister(ctx context.Context, inspectionID, cadetID string, claims *models.JWTClaims) error
	ListDeregistrations(ctx context.Context, inspectionID string, claims *models.JWTClaims) ([]dto.DeregistrationItem, error)
}

// InspectionHandler exposes the inspection lifecycle endpoints.
type InspectionHandler struct {
	service inspectionService
}

// NewInspectionHandler builds a new handler.
func NewInspectionHandler(service inspectionService) *InspectionHandler {
	return &InspectionHandler{service: service}
}

// Create godoc
// @Summary Schedule an inspection
// @Tags Inspections
// @Accept json
// @Produce json
// @Param payload body dto.CreateInspectionRequest true "Inspection payload"
// @Success 201 {object} response.Envelope
// @Router /inspections [post]
func (h *InspectionHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inspection payload"))
		return
	}
	items, err := h.service.Create(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, items)
}

// List godoc
// @Summary List planned inspections
// @Tags Inspections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspections [get]
func (h *InspectionHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	items, err := h.service.ListPlanned(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Update godoc
// @Summary Edit a planned inspection
// @Tags Inspections
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Param payload body dto.UpdateInspectionRequest true "Inspection payload"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id} [patch]
func (h *InspectionHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inspection payload"))
		return
	}
	items, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Delete godoc
// @Summary Delete a planned inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id} [delete]
func (h *InspectionHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	items, err := h.service.Delete(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// State godoc
// @Summary Get the derived inspection state
// @Tags Inspections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspections/state [get]
func (h *InspectionHandler) State(c *gin.Context) {
	claims := claimsFromContext(c)
	state, err := h.service.State(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Start godoc
// @Summary Start or reopen today's inspection
// @Tags Inspections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /inspections/start [post]
func (h *InspectionHandler) Start(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Start(c.Request.Context(), claims); err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.State(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Stop godoc
// @Summary Finish a started inspection
// @Tags Inspections
// @Accept json
// @Produce json
// @Param id path string true "Inspection ID"
// @Param payload body dto.StopInspectionRequest true "Stop payload"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id}/stop [post]
func (h *InspectionHandler) Stop(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.StopInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid stop payload"))
		return
	}
	if err := h.service.Stop(c.Request.Context(), c.Param("id"), req, claims); err != nil {
		response.Error(c, err)
		return
	}
	state, err := h.service.State(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// ListDeregistrations godoc
// @Summary List deregistered cadets of an inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Success 200 {object} response.Envelope
// @Router /inspections/{id}/deregistrations [get]
func (h *InspectionHandler) ListDeregistrations(c *gin.Context) {
	claims := claimsFromContext(c)
	items, err := h.service.ListDeregistrations(c.Request.Context(), c.Param("id"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Deregister godoc
// @Summary Exclude a cadet from an inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Param cadetId path string true "Cadet ID"
// @Success 204 "No Content"
// @Router /inspections/{id}/deregistrations/{cadetId} [put]
func (h *InspectionHandler) Deregister(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Deregister(c.Request.Context(), c.Param("id"), c.Param("cadetId"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Reregister godoc
// @Summary Remove a cadet's exclusion from an inspection
// @Tags Inspections
// @Produce json
// @Param id path string true "Inspection ID"
// @Param cadetId path string true "Cadet ID"
// @Success 204 "No Content"
// @Router /inspections/{id}/deregistrations/{cadetId} [delete]
func (h *InspectionHandler) Reregister(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Reregister(c.Request.Context(), c.Param("id"), c.Param("cadetId"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
