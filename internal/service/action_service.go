package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

type actionStore interface {
	Create(ctx context.Context, fields models.ActionFields) (*models.Action, error)
	Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Action, error)
	FindByID(ctx context.Context, id string) (*models.Action, error)
}

type academicYearSource interface {
	AcademicYear() models.AcademicYear
}

// ActionServiceConfig controls how unknown ids and edit permissions are handled.
type ActionServiceConfig struct {
	// StrictNotFound surfaces NOT_FOUND for updates and deletes of unknown ids instead
	// of silently succeeding.
	StrictNotFound bool
	// EnforceEditAccess rejects writes that CanEdit would deny.
	EnforceEditAccess bool
}

// ActionService exposes the action store to handlers and the wizard.
type ActionService struct {
	store     actionStore
	years     academicYearSource
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ActionServiceConfig
}

// NewActionService constructs an ActionService.
func NewActionService(store actionStore, years academicYearSource, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg ActionServiceConfig) *ActionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionService{
		store:     store,
		years:     years,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns every record, each flagged with whether identity may edit it.
func (s *ActionService) List(ctx context.Context, identity models.Identity) ([]models.ActionView, error) {
	start := time.Now()
	actions, err := s.store.List(ctx)
	s.metrics.ObserveStoreOperation("list", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list actions")
	}
	year := s.academicYear()
	views := make([]models.ActionView, 0, len(actions))
	for _, a := range actions {
		views = append(views, models.ActionView{Action: a, CanEdit: CanEdit(a, identity, &year)})
	}
	return views, nil
}

// Get returns a single record flagged for identity.
func (s *ActionService) Get(ctx context.Context, identity models.Identity, id string) (*models.ActionView, error) {
	action, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	year := s.academicYear()
	return &models.ActionView{Action: *action, CanEdit: CanEdit(*action, identity, &year)}, nil
}

// Authorize loads the record identity wants to edit. Missing records are always
// NOT_FOUND here; permission is only enforced when EnforceEditAccess is set.
func (s *ActionService) Authorize(ctx context.Context, identity models.Identity, id string) (*models.Action, error) {
	action, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkEdit(*action, identity); err != nil {
		return nil, err
	}
	return action, nil
}

// Create stores a new record.
func (s *ActionService) Create(ctx context.Context, fields models.ActionFields) (*models.Action, error) {
	start := time.Now()
	action, err := s.store.Create(ctx, fields)
	s.metrics.ObserveStoreOperation("create", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create action")
	}
	s.logger.Info("action created", zap.String("action_id", action.ID), zap.String("created_by", action.CreatedBy))
	return action, nil
}

// Update merges patch into the record. An unknown id yields (nil, nil) unless
// StrictNotFound is set.
func (s *ActionService) Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid action payload")
	}
	start := time.Now()
	action, err := s.store.Update(ctx, id, patch)
	s.metrics.ObserveStoreOperation("update", time.Since(start))
	if err != nil {
		return nil, s.missing(err, "update", id)
	}
	s.logger.Info("action updated", zap.String("action_id", id))
	return action, nil
}

// Delete removes the record on behalf of identity.
func (s *ActionService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if s.cfg.EnforceEditAccess {
		action, err := s.store.FindByID(ctx, id)
		if err != nil {
			return s.missing(err, "delete", id)
		}
		if err := s.checkEdit(*action, identity); err != nil {
			return err
		}
	}
	start := time.Now()
	err := s.store.Delete(ctx, id)
	s.metrics.ObserveStoreOperation("delete", time.Since(start))
	if err != nil {
		return s.missing(err, "delete", id)
	}
	s.logger.Info("action deleted", zap.String("action_id", id), zap.String("actor_id", identity.ID))
	return nil
}

func (s *ActionService) find(ctx context.Context, id string) (*models.Action, error) {
	start := time.Now()
	action, err := s.store.FindByID(ctx, id)
	s.metrics.ObserveStoreOperation("find", time.Since(start))
	if err != nil {
		if errors.Is(err, repository.ErrActionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "action not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load action")
	}
	return action, nil
}

func (s *ActionService) checkEdit(action models.Action, identity models.Identity) error {
	if !s.cfg.EnforceEditAccess {
		return nil
	}
	year := s.academicYear()
	if !CanEdit(action, identity, &year) {
		return appErrors.Clone(appErrors.ErrForbidden, "action is not editable by this user")
	}
	return nil
}

// missing maps a store error, swallowing not-found unless strict mode is on.
func (s *ActionService) missing(err error, op, id string) error {
	if !errors.Is(err, repository.ErrActionNotFound) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+op+" action")
	}
	if s.cfg.StrictNotFound {
		return appErrors.Clone(appErrors.ErrNotFound, "action not found")
	}
	s.logger.Warn("action not found, ignoring "+op, zap.String("action_id", id))
	return nil
}

func (s *ActionService) academicYear() models.AcademicYear {
	if s.years == nil {
		return models.AcademicYear{}
	}
	return s.years.AcademicYear()
}
