package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/network-actions-api/internal/models"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

type committerStub struct {
	created  []models.ActionFields
	updated  map[string]models.ActionPatch
	base     map[string]models.Action
	err      error
	sequence int
}

func newCommitterStub() *committerStub {
	return &committerStub{updated: map[string]models.ActionPatch{}, base: map[string]models.Action{}}
}

func (c *committerStub) Create(_ context.Context, fields models.ActionFields) (*models.Action, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.sequence++
	c.created = append(c.created, fields)
	return &models.Action{ID: fmt.Sprintf("created-%d", c.sequence), ActionFields: fields}, nil
}

func (c *committerStub) Update(_ context.Context, id string, patch models.ActionPatch) (*models.Action, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.updated[id] = patch
	action := c.base[id]
	action.ID = id
	patch.Apply(&action.ActionFields)
	return &action, nil
}

var wizardIdentity = models.Identity{ID: "user-1", Role: models.RoleContributor, Network: "north", Center: "c1"}

func strs(v ...string) *[]string { return &v }

func completeDraft(t *testing.T, w *ActionWizard) {
	t.Helper()
	require.NoError(t, w.UpdateDraft(models.ActionPatch{
		Objectives:           strs("ods4"),
		Departments:          strs("math"),
		ProfessionalFamilies: strs("ifc"),
		SelectedGroups:       strs("g1"),
	}))
}

func advanceTo(t *testing.T, w *ActionWizard, step models.WizardStep) {
	t.Helper()
	for w.Step() < step {
		ok, err := w.Advance()
		require.NoError(t, err)
		require.True(t, ok, "blocked at %s: %s", w.Step(), w.Error())
	}
}

func TestNewActionWizardSeedsDefaults(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	draft := w.Draft()

	assert.Equal(t, models.StepBasic, w.Step())
	assert.Equal(t, models.WizardEditing, w.Status())
	assert.Equal(t, "user-1", draft.CreatedBy)
	assert.Equal(t, "north", draft.Network)
	assert.Equal(t, "c1", draft.Center)
	assert.Equal(t, DefaultRating, draft.Rating)
	assert.Equal(t, 0, draft.StudentParticipants)
	assert.NotNil(t, draft.Objectives)
	assert.Empty(t, w.State().ActionID)
	assert.Equal(t, "user-1", w.State().OwnerID)
}

func TestNewActionWizardSeedsFromInitialRecord(t *testing.T) {
	initial := &models.Action{ID: "a1", ActionFields: models.ActionFields{
		Name: "Robotics fair", CreatedBy: "author", Network: "south", Center: "c7", Rating: 3,
		Objectives: []string{"ods4"},
	}}
	w := NewActionWizard(initial, wizardIdentity)
	draft := w.Draft()

	assert.Equal(t, "a1", w.State().ActionID)
	assert.Equal(t, "author", draft.CreatedBy)
	assert.Equal(t, "south", draft.Network)
	assert.Equal(t, "c7", draft.Center)
	assert.Equal(t, 3, draft.Rating)

	draft.Objectives[0] = "mutated"
	assert.Equal(t, []string{"ods4"}, initial.Objectives)
	assert.Equal(t, []string{"ods4"}, w.Draft().Objectives)
}

func TestActionWizardObjectivesScenario(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	advanceTo(t, w, models.StepObjectives)

	ok, err := w.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, models.StepObjectives, w.Step())
	assert.Equal(t, "must select at least one objective", w.Error())

	require.NoError(t, w.UpdateDraft(models.ActionPatch{Objectives: strs("ods4")}))
	assert.Empty(t, w.Error())

	ok, err = w.Advance()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StepDepartments, w.Step())
	assert.Empty(t, w.Error())
}

func TestActionWizardRequiredSetsBlockAdvance(t *testing.T) {
	cases := []struct {
		step models.WizardStep
		msg  string
	}{
		{models.StepObjectives, MsgObjectiveRequired},
		{models.StepDepartments, MsgDepartmentRequired},
		{models.StepFamilies, MsgFamilyRequired},
	}
	for _, tc := range cases {
		t.Run(tc.step.String(), func(t *testing.T) {
			w := RestoreActionWizard(models.WizardState{Step: tc.step, Status: models.WizardEditing})
			for i := 0; i < 3; i++ {
				ok, err := w.Advance()
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Equal(t, tc.step, w.Step())
				assert.Equal(t, tc.msg, w.Error())
			}
		})
	}
}

func TestActionWizardFamilyErrorTakesPrecedence(t *testing.T) {
	w := RestoreActionWizard(models.WizardState{Step: models.StepFamilies, Status: models.WizardEditing})

	_, err := w.Advance()
	require.NoError(t, err)
	assert.Equal(t, MsgFamilyRequired, w.Error())

	require.NoError(t, w.UpdateDraft(models.ActionPatch{ProfessionalFamilies: strs("ifc")}))
	ok, err := w.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, MsgGroupRequired, w.Error())

	require.NoError(t, w.UpdateDraft(models.ActionPatch{SelectedGroups: strs("g1")}))
	ok, err = w.Advance()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StepAttachments, w.Step())
}

func TestActionWizardRetreatThenAdvanceRevalidatesIdentically(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	require.NoError(t, w.UpdateDraft(models.ActionPatch{Objectives: strs("ods4")}))
	advanceTo(t, w, models.StepDepartments)

	ok, err := w.Advance()
	require.NoError(t, err)
	require.False(t, ok)
	firstErr, firstStep := w.Error(), w.Step()

	require.NoError(t, w.Retreat())
	assert.Equal(t, models.StepObjectives, w.Step())
	assert.Empty(t, w.Error())

	ok, err = w.Advance()
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = w.Advance()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, firstErr, w.Error())
	assert.Equal(t, firstStep, w.Step())
}

func TestActionWizardRetreatNeverValidates(t *testing.T) {
	w := RestoreActionWizard(models.WizardState{Step: models.StepFamilies, Status: models.WizardEditing})
	require.NoError(t, w.Retreat())
	assert.Equal(t, models.StepDepartments, w.Step())
	require.NoError(t, w.Retreat())
	require.NoError(t, w.Retreat())
	require.NoError(t, w.Retreat())
	require.NoError(t, w.Retreat())
	assert.Equal(t, models.StepBasic, w.Step())
	assert.Empty(t, w.Error())
}

func TestActionWizardAdvanceOnLastStepStays(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	completeDraft(t, w)
	advanceTo(t, w, models.StepAttachments)

	ok, err := w.Advance()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, models.StepAttachments, w.Step())
	assert.Equal(t, models.WizardEditing, w.Status())
}

func TestActionWizardSubmitOnIntermediateStepActsAsAdvance(t *testing.T) {
	committer := newCommitterStub()
	w := NewActionWizard(nil, wizardIdentity)
	advanceTo(t, w, models.StepObjectives)

	action, err := w.Submit(context.Background(), committer)
	require.NoError(t, err)
	assert.Nil(t, action)
	assert.Equal(t, models.StepObjectives, w.Step())
	assert.Equal(t, MsgObjectiveRequired, w.Error())

	require.NoError(t, w.UpdateDraft(models.ActionPatch{Objectives: strs("ods4")}))
	action, err = w.Submit(context.Background(), committer)
	require.NoError(t, err)
	assert.Nil(t, action)
	assert.Equal(t, models.StepDepartments, w.Step())
	assert.Empty(t, committer.created)
}

func TestActionWizardSubmitCreates(t *testing.T) {
	committer := newCommitterStub()
	w := NewActionWizard(nil, wizardIdentity)
	require.NoError(t, w.UpdateDraft(models.ActionPatch{Name: func() *string { s := "Robotics fair"; return &s }()}))
	completeDraft(t, w)
	advanceTo(t, w, models.StepAttachments)

	action, err := w.Submit(context.Background(), committer)
	require.NoError(t, err)
	require.NotNil(t, action)
	require.Len(t, committer.created, 1)
	assert.Equal(t, "Robotics fair", committer.created[0].Name)
	assert.Equal(t, models.WizardCommitted, w.Status())
	require.NotNil(t, w.State().Committed)
	assert.Equal(t, action.ID, w.State().ActionID)

	_, err = w.Advance()
	assert.True(t, appErrors.Is(err, appErrors.ErrWizardClosed))
	assert.True(t, appErrors.Is(w.UpdateDraft(models.ActionPatch{}), appErrors.ErrWizardClosed))
	_, err = w.Submit(context.Background(), committer)
	assert.True(t, appErrors.Is(err, appErrors.ErrWizardClosed))
	assert.Len(t, committer.created, 1)
}

func TestActionWizardSubmitUpdatesEditedRecord(t *testing.T) {
	committer := newCommitterStub()
	doc := "https://docs/plan.pdf"
	docName := "plan.pdf"
	initial := &models.Action{ID: "a1", ActionFields: models.ActionFields{
		Name: "Robotics fair", Quarter: "Q1",
		Objectives: []string{"ods4"}, Departments: []string{"math"},
		ProfessionalFamilies: []string{"ifc"}, SelectedGroups: []string{"g1"},
		DocumentURL: &doc, DocumentName: &docName, Rating: 4,
	}}
	committer.base["a1"] = initial.Clone()

	w := NewActionWizard(initial, wizardIdentity)
	empty := ""
	require.NoError(t, w.UpdateDraft(models.ActionPatch{DocumentURL: &empty, DocumentName: &empty}))
	advanceTo(t, w, models.StepAttachments)

	action, err := w.Submit(context.Background(), committer)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Empty(t, committer.created)
	require.Contains(t, committer.updated, "a1")
	assert.Equal(t, "Robotics fair", action.Name)
	assert.Equal(t, 4, action.Rating)
	assert.Nil(t, action.DocumentURL)
	assert.Nil(t, action.DocumentName)
}

func TestActionWizardSubmitRejectsIncompleteDraft(t *testing.T) {
	committer := newCommitterStub()
	w := NewActionWizard(nil, wizardIdentity)
	completeDraft(t, w)
	advanceTo(t, w, models.StepAttachments)

	require.NoError(t, w.UpdateDraft(models.ActionPatch{Departments: strs()}))
	action, err := w.Submit(context.Background(), committer)
	assert.Nil(t, action)

	var validation *models.WizardValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, models.StepDepartments, validation.Step)
	assert.Equal(t, MsgDepartmentRequired, validation.Message)
	assert.Equal(t, MsgDepartmentRequired, w.Error())
	assert.Equal(t, models.StepAttachments, w.Step())
	assert.Equal(t, models.WizardEditing, w.Status())
	assert.Empty(t, committer.created)

	require.NoError(t, w.UpdateDraft(models.ActionPatch{Departments: strs("math")}))
	_, err = w.Submit(context.Background(), committer)
	require.NoError(t, err)
	assert.Len(t, committer.created, 1)
}

func TestActionWizardCommitFailureKeepsDraftEditable(t *testing.T) {
	committer := newCommitterStub()
	committer.err = errors.New("store unavailable")
	w := NewActionWizard(nil, wizardIdentity)
	completeDraft(t, w)
	advanceTo(t, w, models.StepAttachments)

	_, err := w.Submit(context.Background(), committer)
	require.Error(t, err)
	assert.Equal(t, models.WizardEditing, w.Status())

	committer.err = nil
	action, err := w.Submit(context.Background(), committer)
	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestActionWizardInvertedDateRangeCommits(t *testing.T) {
	committer := newCommitterStub()
	w := NewActionWizard(nil, wizardIdentity)
	start := models.NewDate(2024, time.March, 10)
	end := models.NewDate(2024, time.March, 1)
	require.NoError(t, w.UpdateDraft(models.ActionPatch{StartDate: &start, EndDate: &end}))
	completeDraft(t, w)
	advanceTo(t, w, models.StepAttachments)

	action, err := w.Submit(context.Background(), committer)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.True(t, action.EndDate.Before(action.StartDate))
}

func TestActionWizardCancel(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	require.NoError(t, w.Cancel())
	assert.Equal(t, models.WizardCancelled, w.Status())
	assert.True(t, appErrors.Is(w.Retreat(), appErrors.ErrWizardClosed))
	assert.True(t, appErrors.Is(w.Cancel(), appErrors.ErrWizardClosed))
}

func TestRestoreActionWizardRoundTrip(t *testing.T) {
	w := NewActionWizard(nil, wizardIdentity)
	completeDraft(t, w)
	advanceTo(t, w, models.StepFamilies)

	state := w.State()
	state.ID = "wiz-1"
	restored := RestoreActionWizard(state)
	assert.Equal(t, models.StepFamilies, restored.Step())
	assert.Equal(t, "families", restored.State().StepName)
	assert.Equal(t, []string{"ods4"}, restored.Draft().Objectives)
}
