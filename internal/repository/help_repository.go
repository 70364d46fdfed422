package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/noah-isme/network-actions-api/internal/models"
)

// HelpRepository keeps help sections in memory.
type HelpRepository struct {
	mu       sync.RWMutex
	sections map[string]models.HelpSection
}

// NewHelpRepository constructs the repository with optional seed sections.
func NewHelpRepository(seed ...models.HelpSection) *HelpRepository {
	r := &HelpRepository{sections: make(map[string]models.HelpSection, len(seed))}
	for _, s := range seed {
		r.sections[s.ID] = cloneSection(s)
	}
	return r
}

// Create stores a new section. The caller assigns id and timestamps.
func (r *HelpRepository) Create(_ context.Context, section models.HelpSection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sections[section.ID] = cloneSection(section)
	return nil
}

// Update replaces a stored section.
func (r *HelpRepository) Update(_ context.Context, section models.HelpSection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sections[section.ID]; !ok {
		return ErrHelpSectionNotFound
	}
	r.sections[section.ID] = cloneSection(section)
	return nil
}

// Delete removes a section and every descendant.
func (r *HelpRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sections[id]; !ok {
		return ErrHelpSectionNotFound
	}
	pending := []string{id}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]
		delete(r.sections, current)
		for childID, s := range r.sections {
			if s.ParentID != nil && *s.ParentID == current {
				pending = append(pending, childID)
			}
		}
	}
	return nil
}

// FindByID returns a section.
func (r *HelpRepository) FindByID(_ context.Context, id string) (*models.HelpSection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sections[id]
	if !ok {
		return nil, ErrHelpSectionNotFound
	}
	out := cloneSection(s)
	return &out, nil
}

// List returns every section ordered by Order, then title.
func (r *HelpRepository) List(_ context.Context) ([]models.HelpSection, error) {
	r.mu.RLock()
	out := make([]models.HelpSection, 0, len(r.sections))
	for _, s := range r.sections {
		out = append(out, cloneSection(s))
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func cloneSection(s models.HelpSection) models.HelpSection {
	if s.ParentID != nil {
		parent := *s.ParentID
		s.ParentID = &parent
	}
	return s
}
