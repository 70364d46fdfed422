package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

type draftStore interface {
	Get(ctx context.Context, id string) (*models.WizardState, error)
	Save(ctx context.Context, state models.WizardState) error
	Delete(ctx context.Context, id string) error
}

type wizardActions interface {
	ActionCommitter
	Authorize(ctx context.Context, identity models.Identity, id string) (*models.Action, error)
}

// WizardService keeps wizard sessions between requests. A session belongs to the
// identity that started it.
type WizardService struct {
	drafts    draftStore
	actions   wizardActions
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	newID     func() string
}

// NewWizardService constructs a WizardService.
func NewWizardService(drafts draftStore, actions wizardActions, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *WizardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{
		drafts:    drafts,
		actions:   actions,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		newID:     uuid.NewString,
	}
}

// Start opens a session, seeded from an existing record when req.ActionID is set.
func (s *WizardService) Start(ctx context.Context, identity models.Identity, req models.StartWizardRequest) (*models.WizardState, error) {
	var initial *models.Action
	if req.ActionID != "" {
		action, err := s.actions.Authorize(ctx, identity, req.ActionID)
		if err != nil {
			return nil, err
		}
		initial = action
	}
	state := NewActionWizard(initial, identity).State()
	state.ID = s.newID()
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	s.logger.Info("wizard started", zap.String("wizard_id", state.ID), zap.String("action_id", state.ActionID), zap.String("actor_id", identity.ID))
	return &state, nil
}

// Get returns the session state.
func (s *WizardService) Get(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	w, err := s.load(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	state := w.State()
	return &state, nil
}

// UpdateDraft merges patch into the session draft.
func (s *WizardService) UpdateDraft(ctx context.Context, identity models.Identity, id string, patch models.ActionPatch) (*models.WizardState, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid draft payload")
	}
	return s.transition(ctx, identity, id, "update", func(w *ActionWizard) (string, error) {
		return "ok", w.UpdateDraft(patch)
	})
}

// Advance moves to the next step when the current one validates. A rejected move is
// reported through the state's Error field.
func (s *WizardService) Advance(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return s.transition(ctx, identity, id, "advance", func(w *ActionWizard) (string, error) {
		ok, err := w.Advance()
		if !ok {
			return "rejected", err
		}
		return "ok", err
	})
}

// Retreat moves one step back.
func (s *WizardService) Retreat(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return s.transition(ctx, identity, id, "retreat", func(w *ActionWizard) (string, error) {
		return "ok", w.Retreat()
	})
}

// Cancel abandons the session.
func (s *WizardService) Cancel(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return s.transition(ctx, identity, id, "cancel", func(w *ActionWizard) (string, error) {
		return "ok", w.Cancel()
	})
}

// Submit commits the draft from the last step, or advances from any other step.
// Validation failures are stored on the returned state rather than returned as errors.
func (s *WizardService) Submit(ctx context.Context, identity models.Identity, id string) (*models.WizardState, error) {
	return s.transition(ctx, identity, id, "submit", func(w *ActionWizard) (string, error) {
		if !w.Step().IsLast() {
			ok, err := w.Advance()
			if !ok {
				return "rejected", err
			}
			return "ok", err
		}
		if actionID := w.State().ActionID; actionID != "" {
			// Permissions may have changed since Start; a vanished record is left to
			// the store's not-found handling.
			if _, err := s.actions.Authorize(ctx, identity, actionID); err != nil && !appErrors.Is(err, appErrors.ErrNotFound) {
				return "", err
			}
		}
		if _, err := w.Submit(ctx, s.actions); err != nil {
			var verr *models.WizardValidationError
			if errors.As(err, &verr) {
				return "rejected", nil
			}
			return "", err
		}
		return "committed", nil
	})
}

// Discard removes the session from the draft store whatever its status.
func (s *WizardService) Discard(ctx context.Context, identity models.Identity, id string) error {
	if _, err := s.load(ctx, identity, id); err != nil {
		return err
	}
	if err := s.drafts.Delete(ctx, id); err != nil && !errors.Is(err, repository.ErrDraftNotFound) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discard wizard")
	}
	return nil
}

func (s *WizardService) transition(ctx context.Context, identity models.Identity, id, name string, fn func(*ActionWizard) (string, error)) (*models.WizardState, error) {
	w, err := s.load(ctx, identity, id)
	if err != nil {
		return nil, err
	}
	outcome, err := fn(w)
	if err != nil {
		return nil, err
	}
	state := w.State()
	if err := s.save(ctx, state); err != nil {
		return nil, err
	}
	s.metrics.RecordWizardTransition(name, outcome)
	if outcome == "committed" && state.Committed != nil {
		s.logger.Info("wizard committed", zap.String("wizard_id", id), zap.String("action_id", state.Committed.ID))
	}
	return &state, nil
}

func (s *WizardService) load(ctx context.Context, identity models.Identity, id string) (*ActionWizard, error) {
	state, err := s.drafts.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrDraftNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "wizard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load wizard")
	}
	if state.OwnerID != identity.ID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "wizard belongs to another user")
	}
	return RestoreActionWizard(*state), nil
}

func (s *WizardService) save(ctx context.Context, state models.WizardState) error {
	if err := s.drafts.Save(ctx, state); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save wizard")
	}
	return nil
}
