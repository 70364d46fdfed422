package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
)

type helpRepository interface {
	Create(ctx context.Context, section models.HelpSection) error
	Update(ctx context.Context, section models.HelpSection) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*models.HelpSection, error)
	List(ctx context.Context) ([]models.HelpSection, error)
}

// HelpService manages the in-app help tree. Section content is stored as given.
type HelpService struct {
	repo      helpRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewHelpService constructs a HelpService.
func NewHelpService(repo helpRepository, validate *validator.Validate, logger *zap.Logger) *HelpService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HelpService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// Get returns one section.
func (s *HelpService) Get(ctx context.Context, id string) (*models.HelpSection, error) {
	section, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapHelpError(err, "failed to load help section")
	}
	return section, nil
}

// Children returns the direct children of parentID in display order. An empty
// parentID lists the top-level sections.
func (s *HelpService) Children(ctx context.Context, parentID string) ([]models.HelpSection, error) {
	if parentID != "" {
		if _, err := s.Get(ctx, parentID); err != nil {
			return nil, err
		}
	}
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list help sections")
	}
	out := make([]models.HelpSection, 0)
	for _, section := range all {
		if parentKey(section.ParentID) == parentID {
			out = append(out, section)
		}
	}
	return out, nil
}

// Tree returns every section nested under its parent.
func (s *HelpService) Tree(ctx context.Context) ([]models.HelpNode, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list help sections")
	}
	byParent := make(map[string][]models.HelpSection)
	for _, section := range all {
		key := parentKey(section.ParentID)
		byParent[key] = append(byParent[key], section)
	}
	var build func(parent string) []models.HelpNode
	build = func(parent string) []models.HelpNode {
		children := byParent[parent]
		nodes := make([]models.HelpNode, 0, len(children))
		for _, child := range children {
			nodes = append(nodes, models.HelpNode{HelpSection: child, Children: build(child.ID)})
		}
		return nodes
	}
	return build(""), nil
}

// Create adds a section. Only admins may write help content.
func (s *HelpService) Create(ctx context.Context, identity models.Identity, req models.CreateHelpSectionRequest) (*models.HelpSection, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid help payload")
	}
	parent := normalizeParent(req.ParentID)
	if parent != nil {
		if _, err := s.Get(ctx, *parent); err != nil {
			return nil, err
		}
	}
	now := s.now()
	section := models.HelpSection{
		ID:        s.newID(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		ParentID:  parent,
		Order:     req.Order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, section); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create help section")
	}
	s.logger.Info("help section created", zap.String("section_id", section.ID), zap.String("actor_id", identity.ID))
	return &section, nil
}

// Update changes the provided fields. An empty parentId moves the section to the top level.
func (s *HelpService) Update(ctx context.Context, identity models.Identity, id string, req models.UpdateHelpSectionRequest) (*models.HelpSection, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid help payload")
	}
	section, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		section.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		section.Content = *req.Content
	}
	if req.Order != nil {
		section.Order = *req.Order
	}
	if req.ParentID != nil {
		parent := normalizeParent(req.ParentID)
		if parent != nil {
			if err := s.checkParent(ctx, id, *parent); err != nil {
				return nil, err
			}
		}
		section.ParentID = parent
	}
	section.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, *section); err != nil {
		return nil, mapHelpError(err, "failed to update help section")
	}
	return section, nil
}

// Delete removes a section together with its descendants.
func (s *HelpService) Delete(ctx context.Context, identity models.Identity, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapHelpError(err, "failed to delete help section")
	}
	s.logger.Info("help section deleted", zap.String("section_id", id), zap.String("actor_id", identity.ID))
	return nil
}

// checkParent rejects a parent that is missing, the section itself or one of its descendants.
func (s *HelpService) checkParent(ctx context.Context, id, parentID string) error {
	current := parentID
	for current != "" {
		if current == id {
			return appErrors.Clone(appErrors.ErrValidation, "help section cannot be nested under itself")
		}
		section, err := s.Get(ctx, current)
		if err != nil {
			return err
		}
		current = parentKey(section.ParentID)
	}
	return nil
}

func requireAdmin(identity models.Identity) error {
	if identity.Role != models.RoleAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only admins can edit help content")
	}
	return nil
}

func mapHelpError(err error, msg string) error {
	if errors.Is(err, repository.ErrHelpSectionNotFound) {
		return appErrors.Clone(appErrors.ErrNotFound, "help section not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, msg)
}

func normalizeParent(parent *string) *string {
	if parent == nil || strings.TrimSpace(*parent) == "" {
		return nil
	}
	v := strings.TrimSpace(*parent)
	return &v
}

func parentKey(parent *string) string {
	if parent == nil {
		return ""
	}
	return *parent
}
