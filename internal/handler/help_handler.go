package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type helpService interface {
	Get(ctx context.Context, id string) (*models.HelpSection, error)
	Children(ctx context.Context, parentID string) ([]models.HelpSection, error)
	Tree(ctx context.Context) ([]models.HelpNode, error)
	Create(ctx context.Context, identity models.Identity, req models.CreateHelpSectionRequest) (*models.HelpSection, error)
	Update(ctx context.Context, identity models.Identity, id string, req models.UpdateHelpSectionRequest) (*models.HelpSection, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

// HelpHandler serves the in-app help tree.
type HelpHandler struct {
	service helpService
}

// NewHelpHandler constructs a help handler.
func NewHelpHandler(svc helpService) *HelpHandler {
	return &HelpHandler{service: svc}
}

// List godoc
// @Summary List help sections
// @Description Top-level sections, or the children of parentId
// @Tags Help
// @Produce json
// @Param parentId query string false "Parent section ID"
// @Success 200 {object} response.Envelope
// @Router /help [get]
func (h *HelpHandler) List(c *gin.Context) {
	sections, err := h.service.Children(c.Request.Context(), c.Query("parentId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Tree godoc
// @Summary Help tree
// @Tags Help
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /help/tree [get]
func (h *HelpHandler) Tree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tree, nil)
}

// Get godoc
// @Summary Get help section
// @Tags Help
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /help/{id} [get]
func (h *HelpHandler) Get(c *gin.Context) {
	section, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Children godoc
// @Summary Help section children
// @Tags Help
// @Produce json
// @Param id path string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /help/{id}/children [get]
func (h *HelpHandler) Children(c *gin.Context) {
	sections, err := h.service.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sections, nil)
}

// Create godoc
// @Summary Create help section
// @Tags Help
// @Accept json
// @Produce json
// @Param payload body models.CreateHelpSectionRequest true "Section payload"
// @Success 201 {object} response.Envelope
// @Router /help [post]
func (h *HelpHandler) Create(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.CreateHelpSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	section, err := h.service.Create(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, section)
}

// Update godoc
// @Summary Update help section
// @Tags Help
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param payload body models.UpdateHelpSectionRequest true "Section payload"
// @Success 200 {object} response.Envelope
// @Router /help/{id} [put]
func (h *HelpHandler) Update(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.UpdateHelpSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	section, err := h.service.Update(c.Request.Context(), identity, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, section, nil)
}

// Delete godoc
// @Summary Delete help section and its descendants
// @Tags Help
// @Param id path string true "Section ID"
// @Success 204
// @Router /help/{id} [delete]
func (h *HelpHandler) Delete(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
