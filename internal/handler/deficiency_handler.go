package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/service"
	appErrors "github.com/tn02103/uniformAdministrationApp-sub004/pkg/errors"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/response"
)

type deficiencyService interface {
	ListTypes(ctx context.Context, claims *models.JWTClaims) ([]dto.DeficiencyTypeItem, error)
	Create(ctx context.Context, params service.CreateDeficiencyParams, claims *models.JWTClaims) (*models.Deficiency, error)
	Resolve(ctx context.Context, id, inspectionID string, claims *models.JWTClaims) error
	Unresolve(ctx context.Context, id string, claims *models.JWTClaims) error
	UnresolvedForCadet(ctx context.Context, cadetID string, claims *models.JWTClaims) ([]dto.OldDeficiency, error)
}

// DeficiencyHandler exposes the deficiency primitives.
type DeficiencyHandler struct {
	service deficiencyService
}

// NewDeficiencyHandler builds a new handler.
func NewDeficiencyHandler(service deficiencyService) *DeficiencyHandler {
	return &DeficiencyHandler{service: service}
}

// ListTypes godoc
// @Summary List deficiency types
// @Tags Deficiencies
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /deficiencies/types [get]
func (h *DeficiencyHandler) ListTypes(c *gin.Context) {
	claims := claimsFromContext(c)
	types, err := h.service.ListTypes(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, types, nil)
}

// Create godoc
// @Summary Record a deficiency
// @Tags Deficiencies
// @Accept json
// @Produce json
// @Param payload body dto.CreateDeficiencyRequest true "Deficiency payload"
// @Success 201 {object} response.Envelope
// @Router /deficiencies [post]
func (h *DeficiencyHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.CreateDeficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid deficiency payload"))
		return
	}
	created, err := h.service.Create(c.Request.Context(), service.CreateDeficiencyParams{
		TypeID:      req.TypeID,
		Description: req.Description,
		Comment:     req.Comment,
		CadetID:     req.CadetID,
		ItemID:      req.ItemID,
		MaterialID:  req.MaterialID,
	}, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, created)
}

// Resolve godoc
// @Summary Resolve a deficiency
// @Tags Deficiencies
// @Accept json
// @Produce json
// @Param id path string true "Deficiency ID"
// @Param payload body dto.ResolveDeficiencyRequest true "Resolution payload"
// @Success 204 "No Content"
// @Router /deficiencies/{id}/resolve [post]
func (h *DeficiencyHandler) Resolve(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.ResolveDeficiencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid resolution payload"))
		return
	}
	if err := h.service.Resolve(c.Request.Context(), c.Param("id"), req.InspectionID, claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unresolve godoc
// @Summary Reopen a resolved deficiency
// @Tags Deficiencies
// @Produce json
// @Param id path string true "Deficiency ID"
// @Success 204 "No Content"
// @Router /deficiencies/{id}/unresolve [post]
func (h *DeficiencyHandler) Unresolve(c *gin.Context) {
	claims := claimsFromContext(c)
	if err := h.service.Unresolve(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UnresolvedForCadet godoc
// @Summary List a cadet's open deficiencies
// @Tags Deficiencies
// @Produce json
// @Param cadetId path string true "Cadet ID"
// @Success 200 {object} response.Envelope
// @Router /cadets/{cadetId}/deficiencies [get]
func (h *DeficiencyHandler) UnresolvedForCadet(c *gin.Context) {
	claims := claimsFromContext(c)
	rows, err := h.service.UnresolvedForCadet(c.Request.Context(), c.Param("cadetId"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}
