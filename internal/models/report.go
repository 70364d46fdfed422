package models

// ReportFilter constrains a report. Every field is optional; an unset field places no
// constraint on its dimension.
type ReportFilter struct {
	StartDate  *Date    `json:"startDate,omitempty"`
	EndDate    *Date    `json:"endDate,omitempty"`
	Network    string   `json:"network,omitempty"`
	Center     string   `json:"center,omitempty"`
	Quarter    string   `json:"quarter,omitempty"`
	Department string   `json:"department,omitempty"`
	Family     string   `json:"family,omitempty"`
	Objectives []string `json:"objectives,omitempty"`
}

// StartBound returns the earliest start date, if one is set. A zero date is unset.
func (f ReportFilter) StartBound() (Date, bool) {
	return dateBound(f.StartDate)
}

// EndBound returns the latest end date, if one is set. A zero date is unset.
func (f ReportFilter) EndBound() (Date, bool) {
	return dateBound(f.EndDate)
}

func dateBound(d *Date) (Date, bool) {
	if d == nil || d.IsZero() {
		return Date{}, false
	}
	return *d, true
}

// IsEmpty reports whether no dimension is constrained.
func (f ReportFilter) IsEmpty() bool {
	_, hasStart := f.StartBound()
	_, hasEnd := f.EndBound()
	return !hasStart && !hasEnd && f.Network == "" && f.Center == "" &&
		f.Quarter == "" && f.Department == "" && f.Family == "" && len(f.Objectives) == 0
}

// QuarterBucket is one chart data point.
type QuarterBucket struct {
	QuarterID   string  `json:"quarterId"`
	QuarterName string  `json:"quarterName"`
	Count       int     `json:"count"`
	Percentage  float64 `json:"percentage"`
}

// ExportRow is the flattened, display-ready projection of an action.
type ExportRow struct {
	Name                 string `json:"name"`
	Location             string `json:"location"`
	Description          string `json:"description"`
	StartDate            string `json:"startDate"`
	EndDate              string `json:"endDate"`
	Network              string `json:"network"`
	Center               string `json:"center"`
	Quarter              string `json:"quarter"`
	Departments          string `json:"departments"`
	ProfessionalFamilies string `json:"professionalFamilies"`
	Objectives           string `json:"objectives"`
	StudentParticipants  int    `json:"studentParticipants"`
	TeacherParticipants  int    `json:"teacherParticipants"`
	TotalParticipants    int    `json:"totalParticipants"`
	Rating               int    `json:"rating"`
	Comments             string `json:"comments"`
}

// FilterLine is one label/value pair of the applied-filters header block.
type FilterLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ReportScope names the audience a report was built for.
type ReportScope string

const (
	ReportScopeGeneral ReportScope = "general"
	ReportScopeNetwork ReportScope = "network"
	ReportScopeCenter  ReportScope = "center"
)

// Report is the outcome of running a filter over the records visible to an identity.
type Report struct {
	Title    string          `json:"title"`
	Scope    ReportScope     `json:"scope"`
	Actions  []Action        `json:"actions"`
	Quarters []QuarterBucket `json:"quarters"`
	Rows     []ExportRow     `json:"rows"`
	Filters  []FilterLine    `json:"filters"`
	Total    int             `json:"total"`
}
