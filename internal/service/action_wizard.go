package service

import (
	"context"
	"time"

	"github.com/noah-isme/network-actions-api/internal/models"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

// Step validation messages.
const (
	MsgObjectiveRequired  = "must select at least one objective"
	MsgDepartmentRequired = "must select at least one department"
	MsgFamilyRequired     = "must select at least one professional family"
	MsgGroupRequired      = "must select at least one group"
)

// DefaultRating seeds new drafts.
const DefaultRating = 5

// ActionCommitter receives the finished draft.
type ActionCommitter interface {
	Create(ctx context.Context, fields models.ActionFields) (*models.Action, error)
	Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error)
}

// ActionWizard drives one draft through the six authoring steps. A step can only be
// left forward once its rule holds; moving back never validates. The wizard is not
// safe for concurrent use.
type ActionWizard struct {
	state models.WizardState
	now   func() time.Time
}

// NewActionWizard seeds a wizard from initial, or from defaults when initial is nil.
// Provenance fields left empty by the seed are taken from identity.
func NewActionWizard(initial *models.Action, identity models.Identity) *ActionWizard {
	w := &ActionWizard{now: func() time.Time { return time.Now().UTC() }}

	var draft models.ActionFields
	if initial != nil {
		draft = initial.ActionFields.Clone()
		w.state.ActionID = initial.ID
	}
	if draft.CreatedBy == "" {
		draft.CreatedBy = identity.ID
	}
	if draft.Network == "" {
		draft.Network = identity.Network
	}
	if draft.Center == "" {
		draft.Center = identity.Center
	}
	if draft.Rating == 0 {
		draft.Rating = DefaultRating
	}
	draft.Departments = nonNilStrings(draft.Departments)
	draft.ProfessionalFamilies = nonNilStrings(draft.ProfessionalFamilies)
	draft.SelectedGroups = nonNilStrings(draft.SelectedGroups)
	draft.Objectives = nonNilStrings(draft.Objectives)

	now := w.now()
	w.state.OwnerID = identity.ID
	w.state.Step = models.StepBasic
	w.state.Status = models.WizardEditing
	w.state.Draft = draft
	w.state.CreatedAt = now
	w.state.UpdatedAt = now
	w.state.StepName = w.state.Step.String()
	return w
}

// RestoreActionWizard resumes a wizard from a stored snapshot.
func RestoreActionWizard(state models.WizardState) *ActionWizard {
	w := &ActionWizard{state: state, now: func() time.Time { return time.Now().UTC() }}
	w.state.Draft = state.Draft.Clone()
	w.state.StepName = w.state.Step.String()
	return w
}

// State returns a copy of the current snapshot.
func (w *ActionWizard) State() models.WizardState {
	state := w.state
	state.Draft = state.Draft.Clone()
	if state.Committed != nil {
		committed := state.Committed.Clone()
		state.Committed = &committed
	}
	return state
}

// Step returns the current step.
func (w *ActionWizard) Step() models.WizardStep { return w.state.Step }

// Error returns the message of the last rejected transition, if any.
func (w *ActionWizard) Error() string { return w.state.Error }

// Draft returns a copy of the draft fields.
func (w *ActionWizard) Draft() models.ActionFields { return w.state.Draft.Clone() }

// Status returns the lifecycle state.
func (w *ActionWizard) Status() models.WizardStatus { return w.state.Status }

// Advance validates the current step and moves forward when it passes. On the last
// step it validates but stays. The boolean reports whether validation passed.
func (w *ActionWizard) Advance() (bool, error) {
	if err := w.ensureEditing(); err != nil {
		return false, err
	}
	if msg := validateStep(w.state.Step, w.state.Draft); msg != "" {
		w.state.Error = msg
		w.touch()
		return false, nil
	}
	w.state.Error = ""
	if !w.state.Step.IsLast() {
		w.state.Step++
	}
	w.touch()
	return true, nil
}

// Retreat moves one step back without validating and clears the error.
func (w *ActionWizard) Retreat() error {
	if err := w.ensureEditing(); err != nil {
		return err
	}
	if w.state.Step > models.StepBasic {
		w.state.Step--
	}
	w.state.Error = ""
	w.touch()
	return nil
}

// UpdateDraft merges patch into the draft at any step and clears the error.
func (w *ActionWizard) UpdateDraft(patch models.ActionPatch) error {
	if err := w.ensureEditing(); err != nil {
		return err
	}
	patch.Apply(&w.state.Draft)
	w.state.Error = ""
	w.touch()
	return nil
}

// Submit commits the draft from the last step: a new record through Create, or a
// full overwrite of the edited record through Update. On any other step it behaves
// like Advance and returns a nil action. A draft that fails any step rule yields a
// *models.WizardValidationError; a committer failure leaves the wizard editable.
func (w *ActionWizard) Submit(ctx context.Context, committer ActionCommitter) (*models.Action, error) {
	if err := w.ensureEditing(); err != nil {
		return nil, err
	}
	if !w.state.Step.IsLast() {
		_, err := w.Advance()
		return nil, err
	}
	// Every gated step is re-checked: UpdateDraft on the last step may have emptied
	// a set that was validated earlier.
	for step := models.StepBasic; step <= w.state.Step; step++ {
		if msg := validateStep(step, w.state.Draft); msg != "" {
			w.state.Error = msg
			w.touch()
			return nil, &models.WizardValidationError{Step: step, Message: msg}
		}
	}

	var (
		action *models.Action
		err    error
	)
	if w.state.ActionID == "" {
		action, err = committer.Create(ctx, w.state.Draft.Clone())
	} else {
		action, err = committer.Update(ctx, w.state.ActionID, models.FullPatch(w.state.Draft))
	}
	if err != nil {
		return nil, err
	}

	w.state.Error = ""
	w.state.Status = models.WizardCommitted
	if action != nil {
		committed := action.Clone()
		w.state.Committed = &committed
		w.state.ActionID = action.ID
	}
	w.touch()
	return action, nil
}

// Cancel abandons the draft.
func (w *ActionWizard) Cancel() error {
	if err := w.ensureEditing(); err != nil {
		return err
	}
	w.state.Status = models.WizardCancelled
	w.touch()
	return nil
}

func (w *ActionWizard) ensureEditing() error {
	if w.state.Status != models.WizardEditing {
		return appErrors.Clone(appErrors.ErrWizardClosed, "wizard is "+string(w.state.Status))
	}
	return nil
}

func (w *ActionWizard) touch() {
	w.state.StepName = w.state.Step.String()
	w.state.UpdatedAt = w.now()
}

// validateStep returns the single blocking message for step, or "" when it passes.
func validateStep(step models.WizardStep, draft models.ActionFields) string {
	switch step {
	case models.StepObjectives:
		if len(draft.Objectives) == 0 {
			return MsgObjectiveRequired
		}
	case models.StepDepartments:
		if len(draft.Departments) == 0 {
			return MsgDepartmentRequired
		}
	case models.StepFamilies:
		if len(draft.ProfessionalFamilies) == 0 {
			return MsgFamilyRequired
		}
		if len(draft.SelectedGroups) == 0 {
			return MsgGroupRequired
		}
	}
	return ""
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
