package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/network-actions-api/internal/models"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

type wizardServiceMock struct {
	lastStart  models.StartWizardRequest
	lastPatch  models.ActionPatch
	lastID     string
	lastOwner  string
	state      *models.WizardState
	err        error
	discardErr error
}

func (m *wizardServiceMock) record(identity models.Identity, id string) (*models.WizardState, error) {
	m.lastOwner = identity.ID
	m.lastID = id
	return m.state, m.err
}

func (m *wizardServiceMock) Start(ctx context.Context, identity models.Identity, req models.StartWizardRequest) (*models.WizardState, error) {
	m.lastStart = req
	return m.record(identity, "")
}

func (m *wizardServiceMock) Get(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return m.record(identity, id)
}

func (m *wizardServiceMock) UpdateDraft(ctx context.Context, identity models.Identity, id string, patch models.ActionPatch) (*models.WizardState, error) {
	m.lastPatch = patch
	return m.record(identity, id)
}

func (m *wizardServiceMock) Advance(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return m.record(identity, id)
}

func (m *wizardServiceMock) Retreat(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return m.record(identity, id)
}

func (m *wizardServiceMock) Submit(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return m.record(identity, id)
}

func (m *wizardServiceMock) Cancel(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return m.record(identity, id)
}

func (m *wizardServiceMock) Discard(ctx context.Context, identity models.Identity, id string) error {
	m.lastID = id
	return m.discardErr
}

func decodeWizardState(t *testing.T, body []byte) models.WizardState {
	t.Helper()
	var envelope struct {
		Data models.WizardState `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Data
}

func TestWizardHandlerStartWithoutBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{state: &models.WizardState{ID: "w1", Status: models.WizardEditing}}
	h := NewWizardHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/wizards", nil)
	withIdentity(c, "u1", models.RoleContributor)
	h.Start(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "u1", mockSvc.lastOwner)
	assert.Empty(t, mockSvc.lastStart.ActionID)
	assert.Equal(t, "w1", decodeWizardState(t, w.Body.Bytes()).ID)
}

func TestWizardHandlerStartSeedsFromAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{state: &models.WizardState{ID: "w1", ActionID: "a1"}}
	h := NewWizardHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/wizards", []byte(`{"actionId":"a1"}`))
	withIdentity(c, "u1", models.RoleManager)
	h.Start(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "a1", mockSvc.lastStart.ActionID)
}

func TestWizardHandlerRejectedAdvanceIsOK(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{state: &models.WizardState{ID: "w1", Step: models.StepObjectives, Error: "must select at least one objective"}}
	h := NewWizardHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/wizards/w1/advance", nil)
	c.Params = gin.Params{{Key: "id", Value: "w1"}}
	withIdentity(c, "u1", models.RoleContributor)
	h.Advance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "w1", mockSvc.lastID)
	state := decodeWizardState(t, w.Body.Bytes())
	assert.Equal(t, models.StepObjectives, state.Step)
	assert.Equal(t, "must select at least one objective", state.Error)
}

func TestWizardHandlerUpdateDraft(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{state: &models.WizardState{ID: "w1"}}
	h := NewWizardHandler(mockSvc)

	c, w := newGinContext(http.MethodPatch, "/wizards/w1/draft", []byte(`{"name":"Science week","objectives":["ods4"]}`))
	c.Params = gin.Params{{Key: "id", Value: "w1"}}
	withIdentity(c, "u1", models.RoleContributor)
	h.UpdateDraft(c)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, mockSvc.lastPatch.Name)
	assert.Equal(t, "Science week", *mockSvc.lastPatch.Name)
	require.NotNil(t, mockSvc.lastPatch.Objectives)
	assert.Equal(t, []string{"ods4"}, *mockSvc.lastPatch.Objectives)
	assert.Nil(t, mockSvc.lastPatch.Departments)

	bad, badW := newGinContext(http.MethodPatch, "/wizards/w1/draft", []byte(`{"name":`))
	withIdentity(bad, "u1", models.RoleContributor)
	h.UpdateDraft(bad)
	assert.Equal(t, http.StatusBadRequest, badW.Code)
}

func TestWizardHandlerMapsServiceErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not owner", appErrors.Clone(appErrors.ErrForbidden, "wizard belongs to another user"), http.StatusForbidden},
		{"closed", appErrors.ErrWizardClosed, http.StatusConflict},
		{"missing", appErrors.Clone(appErrors.ErrNotFound, "wizard not found"), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWizardHandler(&wizardServiceMock{err: tt.err})
			c, w := newGinContext(http.MethodPost, "/wizards/w1/submit", nil)
			c.Params = gin.Params{{Key: "id", Value: "w1"}}
			withIdentity(c, "u1", models.RoleContributor)
			h.Submit(c)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWizardHandlerRequiresIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{}
	h := NewWizardHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/wizards/w1", nil)
	h.Get(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, mockSvc.lastID)
}

func TestWizardHandlerDiscard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &wizardServiceMock{}
	h := NewWizardHandler(mockSvc)

	c, _ := newGinContext(http.MethodDelete, "/wizards/w1", nil)
	c.Params = gin.Params{{Key: "id", Value: "w1"}}
	withIdentity(c, "u1", models.RoleContributor)
	h.Discard(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	assert.Equal(t, "w1", mockSvc.lastID)
}
