package models

// CodedEntry is a catalog entry keyed by a stable code.
type CodedEntry struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Group is a student group, optionally tied to a professional family.
type Group struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Family string `json:"family,omitempty" yaml:"family,omitempty"`
}

// Objective is an institutional objective an action can pursue.
type Objective struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Center belongs to exactly one network.
type Center struct {
	Code    string `json:"code" yaml:"code"`
	Name    string `json:"name" yaml:"name"`
	Network string `json:"network" yaml:"network"`
}

// ReferenceCatalog is the read-only organizational taxonomy plus the academic year.
type ReferenceCatalog struct {
	Departments  []CodedEntry `json:"departments" yaml:"departments"`
	Families     []CodedEntry `json:"families" yaml:"families"`
	Groups       []Group      `json:"groups" yaml:"groups"`
	Objectives   []Objective  `json:"objectives" yaml:"objectives"`
	Networks     []CodedEntry `json:"networks" yaml:"networks"`
	Centers      []Center     `json:"centers" yaml:"centers"`
	AcademicYear AcademicYear `json:"academicYear" yaml:"academicYear"`
}

// DepartmentName resolves a department code.
func (c *ReferenceCatalog) DepartmentName(code string) (string, bool) {
	return findCoded(c.Departments, code)
}

// FamilyName resolves a professional family code.
func (c *ReferenceCatalog) FamilyName(code string) (string, bool) {
	return findCoded(c.Families, code)
}

// NetworkName resolves a network code.
func (c *ReferenceCatalog) NetworkName(code string) (string, bool) {
	return findCoded(c.Networks, code)
}

// GroupName resolves a group id.
func (c *ReferenceCatalog) GroupName(id string) (string, bool) {
	for _, g := range c.Groups {
		if g.ID == id {
			return g.Name, true
		}
	}
	return "", false
}

// ObjectiveName resolves an objective id.
func (c *ReferenceCatalog) ObjectiveName(id string) (string, bool) {
	for _, o := range c.Objectives {
		if o.ID == id {
			return o.Name, true
		}
	}
	return "", false
}

// CenterName resolves a center code.
func (c *ReferenceCatalog) CenterName(code string) (string, bool) {
	for _, center := range c.Centers {
		if center.Code == code {
			return center.Name, true
		}
	}
	return "", false
}

// QuarterName resolves a quarter id against the academic year.
func (c *ReferenceCatalog) QuarterName(id string) (string, bool) {
	q, ok := c.AcademicYear.FindQuarter(id)
	if !ok {
		return "", false
	}
	return q.Name, true
}

// Clone returns a deep copy of the catalog.
func (c ReferenceCatalog) Clone() ReferenceCatalog {
	c.Departments = append([]CodedEntry(nil), c.Departments...)
	c.Families = append([]CodedEntry(nil), c.Families...)
	c.Groups = append([]Group(nil), c.Groups...)
	c.Objectives = append([]Objective(nil), c.Objectives...)
	c.Networks = append([]CodedEntry(nil), c.Networks...)
	c.Centers = append([]Center(nil), c.Centers...)
	c.AcademicYear = c.AcademicYear.Clone()
	return c
}

func findCoded(entries []CodedEntry, code string) (string, bool) {
	for _, e := range entries {
		if e.Code == code {
			return e.Name, true
		}
	}
	return "", false
}
