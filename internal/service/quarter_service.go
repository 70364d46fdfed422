package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

// QuarterService lists the academic year and opens or closes quarters for editing.
type QuarterService struct {
	source    referenceSource
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuarterService constructs a QuarterService.
func NewQuarterService(source referenceSource, validate *validator.Validate, logger *zap.Logger) *QuarterService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuarterService{source: source, validator: validate, logger: logger}
}

// AcademicYear returns the current academic year.
func (s *QuarterService) AcademicYear() models.AcademicYear {
	return s.source.AcademicYear()
}

// Active returns the quarters currently open for editing.
func (s *QuarterService) Active() []models.Quarter {
	year := s.source.AcademicYear()
	out := make([]models.Quarter, 0, len(year.Quarters))
	for _, q := range year.Quarters {
		if q.IsActive {
			out = append(out, q)
		}
	}
	return out
}

// SetActive toggles a quarter. Only admins may do this; the change applies to every
// subsequent CanEdit evaluation.
func (s *QuarterService) SetActive(_ context.Context, identity models.Identity, id string, req models.SetQuarterActiveRequest) (*models.Quarter, error) {
	if identity.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only admins can change quarters")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid quarter payload")
	}
	quarter, err := s.source.SetQuarterActive(id, *req.IsActive)
	if err != nil {
		if errors.Is(err, repository.ErrQuarterNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "quarter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update quarter")
	}
	s.logger.Info("quarter toggled", zap.String("quarter_id", id), zap.Bool("active", quarter.IsActive), zap.String("actor_id", identity.ID))
	return &quarter, nil
}
