package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type referenceService interface {
	Catalog() models.ReferenceCatalog
	GroupsForFamilies(families []string) []models.Group
}

type quarterService interface {
	AcademicYear() models.AcademicYear
	Active() []models.Quarter
	SetActive(ctx context.Context, identity models.Identity, id string, req models.SetQuarterActiveRequest) (*models.Quarter, error)
}

// ReferenceHandler exposes the organizational catalog and quarter toggles.
type ReferenceHandler struct {
	reference referenceService
	quarters  quarterService
}

// NewReferenceHandler constructs a reference handler.
func NewReferenceHandler(reference referenceService, quarters quarterService) *ReferenceHandler {
	return &ReferenceHandler{reference: reference, quarters: quarters}
}

// Catalog godoc
// @Summary Reference catalog
// @Description Departments, families, groups, objectives, networks, centers and the academic year
// @Tags Reference
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reference [get]
func (h *ReferenceHandler) Catalog(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reference.Catalog(), nil)
}

// Groups godoc
// @Summary List groups
// @Tags Reference
// @Produce json
// @Param families query string false "Comma separated professional family codes"
// @Success 200 {object} response.Envelope
// @Router /reference/groups [get]
func (h *ReferenceHandler) Groups(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.reference.GroupsForFamilies(splitList(c.Query("families"))), nil)
}

// Quarters godoc
// @Summary Academic year quarters
// @Tags Quarters
// @Produce json
// @Param active query bool false "Only quarters open for editing"
// @Success 200 {object} response.Envelope
// @Router /quarters [get]
func (h *ReferenceHandler) Quarters(c *gin.Context) {
	if c.Query("active") == "true" {
		response.JSON(c, http.StatusOK, h.quarters.Active(), nil)
		return
	}
	response.JSON(c, http.StatusOK, h.quarters.AcademicYear(), nil)
}

// SetQuarterActive godoc
// @Summary Open or close a quarter for editing
// @Tags Quarters
// @Accept json
// @Produce json
// @Param id path string true "Quarter ID"
// @Param payload body models.SetQuarterActiveRequest true "Toggle payload"
// @Success 200 {object} response.Envelope
// @Router /quarters/{id}/active [put]
func (h *ReferenceHandler) SetQuarterActive(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.SetQuarterActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	quarter, err := h.quarters.SetActive(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quarter, nil)
}
