package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
)

type referenceSource interface {
	Catalog() models.ReferenceCatalog
	AcademicYear() models.AcademicYear
	SetQuarterActive(id string, active bool) (models.Quarter, error)
}

// ReferenceService serves the organizational catalog.
type ReferenceService struct {
	source referenceSource
	logger *zap.Logger
}

// NewReferenceService constructs a ReferenceService.
func NewReferenceService(source referenceSource, logger *zap.Logger) *ReferenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReferenceService{source: source, logger: logger}
}

// Catalog returns a snapshot of the catalog.
func (s *ReferenceService) Catalog() models.ReferenceCatalog {
	return s.source.Catalog()
}

// GroupsForFamilies returns the groups tied to any of the given families, or every
// group when families is empty.
func (s *ReferenceService) GroupsForFamilies(families []string) []models.Group {
	catalog := s.source.Catalog()
	out := make([]models.Group, 0, len(catalog.Groups))
	for _, g := range catalog.Groups {
		if len(families) == 0 || contains(families, g.Family) {
			out = append(out, g)
		}
	}
	return out
}
