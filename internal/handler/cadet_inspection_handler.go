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

type cadetInspectionService interface {
	FormData(ctx context.Context, cadetID string, claims *models.JWTClaims) (*dto.CadetInspectionFormData, error)
	Save(ctx context.Context, cadetID string, req dto.SaveCadetInspectionRequest, claims *models.JWTClaims) (*dto.CadetInspectionFormData, error)
}

// CadetInspectionHandler exposes the per-cadet inspection recorder endpoints.
type CadetInspectionHandler struct {
	service cadetInspectionService
}

// NewCadetInspectionHandler builds a new handler.
func NewCadetInspectionHandler(service cadetInspectionService) *CadetInspectionHandler {
	return &CadetInspectionHandler{service: service}
}

// FormData godoc
// @Summary Get the inspection form data for a cadet
// @Tags CadetInspections
// @Produce json
// @Param cadetId path string true "Cadet ID"
// @Success 200 {object} response.Envelope
// @Router /cadets/{cadetId}/inspection [get]
func (h *CadetInspectionHandler) FormData(c *gin.Context) {
	claims := claimsFromContext(c)
	form, err := h.service.FormData(c.Request.Context(), c.Param("cadetId"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}

// Save godoc
// @Summary Save a cadet's inspection submission
// @Tags CadetInspections
// @Accept json
// @Produce json
// @Param cadetId path string true "Cadet ID"
// @Param payload body dto.SaveCadetInspectionRequest true "Submission payload"
// @Success 200 {object} response.Envelope
// @Router /cadets/{cadetId}/inspection [put]
func (h *CadetInspectionHandler) Save(c *gin.Context) {
	claims := claimsFromContext(c)
	var req dto.SaveCadetInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid inspection submission"))
		return
	}
	form, err := h.service.Save(c.Request.Context(), c.Param("cadetId"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, form, nil)
}
