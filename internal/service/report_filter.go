package service

import (
	"strings"

	"github.com/noah-isme/network-actions-api/internal/models"
)

// AllLabel renders a filter dimension that places no constraint.
const AllLabel = "All"

const nameSeparator = ", "

// ReferenceLookup resolves organizational codes to display names. Misses are never
// errors; callers fall back to the raw code.
type ReferenceLookup interface {
	DepartmentName(code string) (string, bool)
	FamilyName(code string) (string, bool)
	ObjectiveName(id string) (string, bool)
	NetworkName(code string) (string, bool)
	CenterName(code string) (string, bool)
	QuarterName(id string) (string, bool)
}

// ApplyFilter keeps the actions matching every set dimension of filter. Objectives
// match when at least one id is shared.
func ApplyFilter(actions []models.Action, filter models.ReportFilter) []models.Action {
	out := make([]models.Action, 0, len(actions))
	for _, a := range actions {
		if matchesFilter(a, filter) {
			out = append(out, a)
		}
	}
	return out
}

func matchesFilter(a models.Action, f models.ReportFilter) bool {
	if start, ok := f.StartBound(); ok && a.StartDate.Before(start) {
		return false
	}
	if end, ok := f.EndBound(); ok && a.EndDate.After(end) {
		return false
	}
	if f.Network != "" && a.Network != f.Network {
		return false
	}
	if f.Center != "" && a.Center != f.Center {
		return false
	}
	if f.Quarter != "" && a.Quarter != f.Quarter {
		return false
	}
	if f.Department != "" && !contains(a.Departments, f.Department) {
		return false
	}
	if f.Family != "" && !contains(a.ProfessionalFamilies, f.Family) {
		return false
	}
	if len(f.Objectives) > 0 && !intersects(a.Objectives, f.Objectives) {
		return false
	}
	return true
}

// AggregateByQuarter counts actions per quarter in academic-year order. Percentages
// are relative to all given actions; quarters without actions are omitted.
func AggregateByQuarter(actions []models.Action, quarters []models.Quarter) []models.QuarterBucket {
	counts := make(map[string]int, len(quarters))
	for _, a := range actions {
		counts[a.Quarter]++
	}
	total := len(actions)

	buckets := make([]models.QuarterBucket, 0, len(quarters))
	for _, q := range quarters {
		count := counts[q.ID]
		if count == 0 {
			continue
		}
		percentage := 0.0
		if total > 0 {
			percentage = float64(count) / float64(total) * 100
		}
		buckets = append(buckets, models.QuarterBucket{
			QuarterID:   q.ID,
			QuarterName: q.Name,
			Count:       count,
			Percentage:  percentage,
		})
	}
	return buckets
}

// ToExportRows flattens actions for tabular export, resolving taxonomy codes to names.
func ToExportRows(actions []models.Action, ref ReferenceLookup) []models.ExportRow {
	rows := make([]models.ExportRow, 0, len(actions))
	for _, a := range actions {
		rows = append(rows, models.ExportRow{
			Name:                 a.Name,
			Location:             a.Location,
			Description:          a.Description,
			StartDate:            a.StartDate.String(),
			EndDate:              a.EndDate.String(),
			Network:              a.Network,
			Center:               a.Center,
			Quarter:              a.Quarter,
			Departments:          joinNames(a.Departments, ref.DepartmentName),
			ProfessionalFamilies: joinNames(a.ProfessionalFamilies, ref.FamilyName),
			Objectives:           joinNames(a.Objectives, ref.ObjectiveName),
			StudentParticipants:  a.StudentParticipants,
			TeacherParticipants:  a.TeacherParticipants,
			TotalParticipants:    a.TotalParticipants(),
			Rating:               a.Rating,
			Comments:             a.Comments,
		})
	}
	return rows
}

// Filter block labels, in display order.
const (
	LabelStartDate  = "Start date"
	LabelEndDate    = "End date"
	LabelNetwork    = "Network"
	LabelCenter     = "Center"
	LabelQuarter    = "Quarter"
	LabelDepartment = "Department"
	LabelFamily     = "Professional family"
	LabelObjectives = "Objectives"
)

// DescribeFilter renders the applied-filters header block.
func DescribeFilter(filter models.ReportFilter, ref ReferenceLookup) []models.FilterLine {
	date := func(d *models.Date) string {
		if d == nil || d.IsZero() {
			return AllLabel
		}
		return d.String()
	}
	named := func(code string, lookup func(string) (string, bool)) string {
		if code == "" {
			return AllLabel
		}
		return resolveName(code, lookup)
	}
	objectives := AllLabel
	if len(filter.Objectives) > 0 {
		objectives = joinNames(filter.Objectives, ref.ObjectiveName)
	}

	return []models.FilterLine{
		{Label: LabelStartDate, Value: date(filter.StartDate)},
		{Label: LabelEndDate, Value: date(filter.EndDate)},
		{Label: LabelNetwork, Value: named(filter.Network, ref.NetworkName)},
		{Label: LabelCenter, Value: named(filter.Center, ref.CenterName)},
		{Label: LabelQuarter, Value: named(filter.Quarter, ref.QuarterName)},
		{Label: LabelDepartment, Value: named(filter.Department, ref.DepartmentName)},
		{Label: LabelFamily, Value: named(filter.Family, ref.FamilyName)},
		{Label: LabelObjectives, Value: objectives},
	}
}

func joinNames(codes []string, lookup func(string) (string, bool)) string {
	names := make([]string, len(codes))
	for i, code := range codes {
		names[i] = resolveName(code, lookup)
	}
	return strings.Join(names, nameSeparator)
}

func resolveName(code string, lookup func(string) (string, bool)) string {
	if name, ok := lookup(code); ok && name != "" {
		return name
	}
	return code
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	for _, v := range b {
		if contains(a, v) {
			return true
		}
	}
	return false
}
