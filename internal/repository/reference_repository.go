package repository

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/network-actions-api/internal/models"
)

// ReferenceRepository serves the organizational catalog. Only quarter activity is mutable.
type ReferenceRepository struct {
	mu      sync.RWMutex
	catalog models.ReferenceCatalog
}

// NewReferenceRepository wraps an in-memory catalog.
func NewReferenceRepository(catalog models.ReferenceCatalog) *ReferenceRepository {
	return &ReferenceRepository{catalog: catalog.Clone()}
}

// LoadReferenceFile reads a YAML catalog. An empty path yields an empty catalog.
func LoadReferenceFile(path string) (*ReferenceRepository, error) {
	if path == "" {
		return NewReferenceRepository(models.ReferenceCatalog{}), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	catalog, err := ParseReferenceCatalog(raw)
	if err != nil {
		return nil, err
	}
	return NewReferenceRepository(catalog), nil
}

// ParseReferenceCatalog decodes a YAML catalog document.
func ParseReferenceCatalog(raw []byte) (models.ReferenceCatalog, error) {
	var catalog models.ReferenceCatalog
	if err := yaml.Unmarshal(raw, &catalog); err != nil {
		return models.ReferenceCatalog{}, fmt.Errorf("decode reference data: %w", err)
	}
	seen := make(map[string]struct{}, len(catalog.AcademicYear.Quarters))
	for _, q := range catalog.AcademicYear.Quarters {
		if q.ID == "" {
			return models.ReferenceCatalog{}, fmt.Errorf("decode reference data: quarter without id")
		}
		if _, dup := seen[q.ID]; dup {
			return models.ReferenceCatalog{}, fmt.Errorf("decode reference data: duplicate quarter %q", q.ID)
		}
		seen[q.ID] = struct{}{}
	}
	return catalog, nil
}

// Catalog returns a snapshot of the full catalog.
func (r *ReferenceRepository) Catalog() models.ReferenceCatalog {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.Clone()
}

// AcademicYear returns a snapshot of the academic year.
func (r *ReferenceRepository) AcademicYear() models.AcademicYear {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.catalog.AcademicYear.Clone()
}

// SetQuarterActive flips the active flag of a quarter and returns the updated quarter.
func (r *ReferenceRepository) SetQuarterActive(id string, active bool) (models.Quarter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.catalog.AcademicYear.Quarters {
		if r.catalog.AcademicYear.Quarters[i].ID == id {
			r.catalog.AcademicYear.Quarters[i].IsActive = active
			return r.catalog.AcademicYear.Quarters[i], nil
		}
	}
	return models.Quarter{}, ErrQuarterNotFound
}
