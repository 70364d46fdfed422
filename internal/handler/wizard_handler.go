package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type wizardService interface {
	Start(ctx context.Context, identity models.Identity, req models.StartWizardRequest) (*models.WizardState, error)
	Get(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error)
	UpdateDraft(ctx context.Context, identity models.Identity, id string, patch models.ActionPatch) (*models.WizardState, error)
	Advance(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error)
	Retreat(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error)
	Submit(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error)
	Cancel(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error)
	Discard(ctx context.Context, identity models.Identity, id string) error
}

// WizardHandler drives action wizard sessions.
type WizardHandler struct {
	service wizardService
}

// NewWizardHandler constructs a wizard handler.
func NewWizardHandler(svc wizardService) *WizardHandler {
	return &WizardHandler{service: svc}
}

// Start godoc
// @Summary Start wizard
// @Description Open a wizard session, optionally seeded from an existing action
// @Tags Wizards
// @Accept json
// @Produce json
// @Param payload body models.StartWizardRequest false "Start payload"
// @Success 201 {object} response.Envelope
// @Router /wizards [post]
func (h *WizardHandler) Start(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.StartWizardRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err))
			return
		}
	}
	state, err := h.service.Start(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, state)
}

// Get godoc
// @Summary Get wizard
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id} [get]
func (h *WizardHandler) Get(c *gin.Context) {
	h.respond(c, h.service.Get)
}

// UpdateDraft godoc
// @Summary Update wizard draft
// @Tags Wizards
// @Accept json
// @Produce json
// @Param id path string true "Wizard ID"
// @Param payload body models.ActionPatch true "Draft fields"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/draft [patch]
func (h *WizardHandler) UpdateDraft(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var patch models.ActionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, bindError(err))
		return
	}
	state, err := h.service.UpdateDraft(c.Request.Context(), identity, c.Param("id"), patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}

// Advance godoc
// @Summary Advance wizard
// @Description Move to the next step. A failed step check is reported in the state's error field.
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/advance [post]
func (h *WizardHandler) Advance(c *gin.Context) {
	h.respond(c, h.service.Advance)
}

// Retreat godoc
// @Summary Retreat wizard
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/retreat [post]
func (h *WizardHandler) Retreat(c *gin.Context) {
	h.respond(c, h.service.Retreat)
}

// Submit godoc
// @Summary Submit wizard
// @Description Commit the draft from the last step; advances from earlier steps
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	h.respond(c, h.service.Submit)
}

// Cancel godoc
// @Summary Cancel wizard
// @Tags Wizards
// @Produce json
// @Param id path string true "Wizard ID"
// @Success 200 {object} response.Envelope
// @Router /wizards/{id}/cancel [post]
func (h *WizardHandler) Cancel(c *gin.Context) {
	h.respond(c, h.service.Cancel)
}

// Discard godoc
// @Summary Discard wizard session
// @Tags Wizards
// @Param id path string true "Wizard ID"
// @Success 204
// @Router /wizards/{id} [delete]
func (h *WizardHandler) Discard(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	if err := h.service.Discard(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *WizardHandler) respond(c *gin.Context, op func(context.Context, models.Identity, string) (*models.WizardState, error)) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	state, err := op(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, state, nil)
}
