package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type actionService interface {
	List(ctx context.Context, identity models.Identity) ([]models.ActionView, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.ActionView, error)
	Delete(ctx context.Context, identity models.Identity, id string) error
}

// ActionHandler exposes action record endpoints. Records are created and edited
// through the wizard endpoints.
type ActionHandler struct {
	service actionService
}

// NewActionHandler constructs an action handler.
func NewActionHandler(svc actionService) *ActionHandler {
	return &ActionHandler{service: svc}
}

// List godoc
// @Summary List actions
// @Description List every action record with the caller's edit permission
// @Tags Actions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /actions [get]
func (h *ActionHandler) List(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	actions, err := h.service.List(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, actions, &models.Pagination{Page: 1, PageSize: len(actions), TotalCount: len(actions)})
}

// Get godoc
// @Summary Get action
// @Tags Actions
// @Produce json
// @Param id path string true "Action ID"
// @Success 200 {object} response.Envelope
// @Router /actions/{id} [get]
func (h *ActionHandler) Get(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	action, err := h.service.Get(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, action, nil)
}

// Delete godoc
// @Summary Delete action
// @Tags Actions
// @Param id path string true "Action ID"
// @Success 204
// @Router /actions/{id} [delete]
func (h *ActionHandler) Delete(c *gin.Context) {
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
