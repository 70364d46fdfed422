package models

import "time"

// WizardStep identifies one page of the action authoring flow.
type WizardStep int

const (
	StepBasic WizardStep = iota
	StepParticipants
	StepObjectives
	StepDepartments
	StepFamilies
	StepAttachments
)

// WizardStepCount is the number of steps in the flow.
const WizardStepCount = int(StepAttachments) + 1

var wizardStepNames = [...]string{"basic", "participants", "objectives", "departments", "families", "attachments"}

// String returns the stable step identifier.
func (s WizardStep) String() string {
	if s < 0 || int(s) >= len(wizardStepNames) {
		return "unknown"
	}
	return wizardStepNames[s]
}

// IsLast reports whether s is the final step.
func (s WizardStep) IsLast() bool {
	return s == StepAttachments
}

// WizardStatus is the lifecycle of a wizard session.
type WizardStatus string

const (
	WizardEditing   WizardStatus = "editing"
	WizardCommitted WizardStatus = "committed"
	WizardCancelled WizardStatus = "cancelled"
)

// WizardState is the serializable snapshot of a wizard session.
type WizardState struct {
	ID       string       `json:"id"`
	OwnerID  string       `json:"ownerId"`
	ActionID string       `json:"actionId,omitempty"`
	Step     WizardStep   `json:"step"`
	StepName string       `json:"stepName"`
	Status   WizardStatus `json:"status"`
	Error    string       `json:"error,omitempty"`
	Draft    ActionFields `json:"draft"`

	// Committed is set once the draft has been written to the store.
	Committed *Action `json:"committed,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// WizardValidationError is returned by Submit when the final step rejects the draft.
type WizardValidationError struct {
	Step    WizardStep
	Message string
}

func (e *WizardValidationError) Error() string {
	return e.Step.String() + ": " + e.Message
}

// StartWizardRequest opens a new authoring session, optionally editing an existing action.
type StartWizardRequest struct {
	ActionID string `json:"actionId,omitempty"`
}
