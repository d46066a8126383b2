package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tn02103/uniformAdministrationApp-sub004/internal/dto"
	"github.com/tn02103/uniformAdministrationApp-sub004/internal/models"
	"github.com/tn02103/uniformAdministrationApp-sub004/pkg/response"
)

type uniformCountService interface {
	CountsByType(ctx context.Context, claims *models.JWTClaims) ([]dto.UniformTypeCount, error)
	CountsBySize(ctx context.Context, typeID string, claims *models.JWTClaims) (*dto.UniformSizeCountReport, error)
}

// UniformCountHandler exposes the inventory completeness reports.
type UniformCountHandler struct {
	service uniformCountService
}

// NewUniformCountHandler builds a new handler.
func NewUniformCountHandler(service uniformCountService) *UniformCountHandler {
	return &UniformCountHandler{service: service}
}

// CountsByType godoc
// @Summary Inventory counts per equipment type
// @Tags Uniforms
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /uniforms/counts [get]
func (h *UniformCountHandler) CountsByType(c *gin.Context) {
	claims := claimsFromContext(c)
	counts, err := h.service.CountsByType(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}

// CountsBySize godoc
// @Summary Inventory counts per size for one equipment type
// @Tags Uniforms
// @Produce json
// @Param typeId path string true "Uniform type ID"
// @Success 200 {object} response.Envelope
// @Router /uniforms/types/{typeId}/counts/sizes [get]
func (h *UniformCountHandler) CountsBySize(c *gin.Context) {
	claims := claimsFromContext(c)
	report, err := h.service.CountsBySize(c.Request.Context(), c.Param("typeId"), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}
