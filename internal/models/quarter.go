package models

// Quarter models an academic-year period. Records assigned to an inactive quarter are
// frozen for everyone but admins.
type Quarter struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	IsActive  bool   `json:"isActive" yaml:"isActive"`
	StartDate Date   `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   Date   `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// AcademicYear groups the quarters currently in use.
type AcademicYear struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Quarters []Quarter `json:"quarters" yaml:"quarters"`
}

// FindQuarter returns the quarter with the given id.
func (y *AcademicYear) FindQuarter(id string) (Quarter, bool) {
	if y == nil {
		return Quarter{}, false
	}
	for _, q := range y.Quarters {
		if q.ID == id {
			return q, true
		}
	}
	return Quarter{}, false
}

// Clone copies the quarter slice.
func (y AcademicYear) Clone() AcademicYear {
	quarters := make([]Quarter, len(y.Quarters))
	copy(quarters, y.Quarters)
	y.Quarters = quarters
	return y
}

// SetQuarterActiveRequest toggles a quarter's active flag.
type SetQuarterActiveRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}
