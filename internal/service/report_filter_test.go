package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/network-actions-api/internal/models"
)

func datePtr(y int, m time.Month, d int) *models.Date {
	v := models.NewDate(y, m, d)
	return &v
}

func testCatalog() *models.ReferenceCatalog {
	return &models.ReferenceCatalog{
		Departments: []models.CodedEntry{{Code: "math", Name: "Mathematics"}, {Code: "lang", Name: "Languages"}},
		Families:    []models.CodedEntry{{Code: "ifc", Name: "Computing"}},
		Objectives:  []models.Objective{{ID: "ods4", Name: "Quality Education"}, {ID: "ods5", Name: "Gender Equality"}},
		Networks:    []models.CodedEntry{{Code: "north", Name: "North Network"}},
		Centers:     []models.Center{{Code: "c1", Name: "Center One", Network: "north"}},
		AcademicYear: models.AcademicYear{Quarters: []models.Quarter{
			{ID: "Q1", Name: "First quarter", IsActive: true},
			{ID: "Q2", Name: "Second quarter", IsActive: true},
			{ID: "Q3", Name: "Third quarter", IsActive: false},
		}},
	}
}

func reportActions() []models.Action {
	return []models.Action{
		{ID: "a1", ActionFields: models.ActionFields{
			Name: "Robotics fair", StartDate: models.NewDate(2024, time.January, 10), EndDate: models.NewDate(2024, time.January, 12),
			Quarter: "Q1", Network: "north", Center: "c1", Departments: []string{"math"}, ProfessionalFamilies: []string{"ifc"},
			Objectives: []string{"ods4"}, StudentParticipants: 20, TeacherParticipants: 2, Rating: 5,
		}},
		{ID: "a2", ActionFields: models.ActionFields{
			Name: "Reading club", StartDate: models.NewDate(2024, time.February, 5), EndDate: models.NewDate(2024, time.February, 5),
			Quarter: "Q2", Network: "south", Center: "c2", Departments: []string{"lang", "math"},
			Objectives: []string{"ods5"}, StudentParticipants: 8, TeacherParticipants: 1, Rating: 4,
		}},
		{ID: "a3", ActionFields: models.ActionFields{
			Name: "Coding night", StartDate: models.NewDate(2024, time.January, 20), EndDate: models.NewDate(2024, time.January, 21),
			Quarter: "Q1", Network: "north", Center: "c1", Departments: []string{"art"}, ProfessionalFamilies: []string{"ifc"},
			Objectives: []string{"ods4", "ods9"}, StudentParticipants: 5, Rating: 3,
		}},
	}
}

func ids(actions []models.Action) []string {
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, a.ID)
	}
	return out
}

func TestApplyFilterDateScenario(t *testing.T) {
	record := []models.Action{{ID: "r", ActionFields: models.ActionFields{
		StartDate: models.NewDate(2024, time.January, 10), EndDate: models.NewDate(2024, time.January, 12), Quarter: "Q1",
	}}}

	passing := models.ReportFilter{StartDate: datePtr(2024, time.January, 1), EndDate: datePtr(2024, time.January, 31)}
	assert.Len(t, ApplyFilter(record, passing), 1)

	excluding := models.ReportFilter{StartDate: datePtr(2024, time.February, 1)}
	assert.Empty(t, ApplyFilter(record, excluding))
}

func TestApplyFilterBlankDatesAreUnset(t *testing.T) {
	var req models.ExportRequest
	require.NoError(t, json.Unmarshal([]byte(`{"format":"csv","filter":{"startDate":"","endDate":""}}`), &req))
	require.NotNil(t, req.Filter.EndDate)

	assert.True(t, req.Filter.IsEmpty())
	assert.Len(t, ApplyFilter(reportActions()[:1], req.Filter), 1)

	lines := DescribeFilter(req.Filter, testCatalog())
	assert.Equal(t, models.FilterLine{Label: LabelStartDate, Value: "All"}, lines[0])
	assert.Equal(t, models.FilterLine{Label: LabelEndDate, Value: "All"}, lines[1])
}

func TestApplyFilterBoundsAreInclusive(t *testing.T) {
	record := reportActions()[:1]
	filter := models.ReportFilter{StartDate: datePtr(2024, time.January, 10), EndDate: datePtr(2024, time.January, 12)}
	assert.Len(t, ApplyFilter(record, filter), 1)
}

func TestApplyFilterEmptyFilterReturnsInput(t *testing.T) {
	actions := reportActions()
	filtered := ApplyFilter(actions, models.ReportFilter{})
	if diff := cmp.Diff(actions, filtered); diff != "" {
		t.Fatalf("empty filter changed input (-want +got):\n%s", diff)
	}
}

func TestApplyFilterDimensions(t *testing.T) {
	actions := reportActions()
	cases := []struct {
		name   string
		filter models.ReportFilter
		want   []string
	}{
		{"network", models.ReportFilter{Network: "north"}, []string{"a1", "a3"}},
		{"center", models.ReportFilter{Center: "c2"}, []string{"a2"}},
		{"quarter", models.ReportFilter{Quarter: "Q1"}, []string{"a1", "a3"}},
		{"department membership", models.ReportFilter{Department: "math"}, []string{"a1", "a2"}},
		{"family membership", models.ReportFilter{Family: "ifc"}, []string{"a1", "a3"}},
		{"objectives intersect", models.ReportFilter{Objectives: []string{"ods9", "ods5"}}, []string{"a2", "a3"}},
		{"and across dimensions", models.ReportFilter{Network: "north", Department: "math"}, []string{"a1"}},
		{"no match", models.ReportFilter{Network: "north", Quarter: "Q2"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(ApplyFilter(actions, tc.filter)))
		})
	}
}

func TestAggregateByQuarter(t *testing.T) {
	actions := reportActions()
	buckets := AggregateByQuarter(actions, testCatalog().AcademicYear.Quarters)

	require.Len(t, buckets, 2)
	assert.Equal(t, "Q1", buckets[0].QuarterID)
	assert.Equal(t, "First quarter", buckets[0].QuarterName)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 66.666, buckets[0].Percentage, 0.01)
	assert.Equal(t, "Q2", buckets[1].QuarterID)
	assert.Equal(t, 1, buckets[1].Count)

	sumCount, sumPct := 0, 0.0
	for _, b := range buckets {
		sumCount += b.Count
		sumPct += b.Percentage
	}
	assert.Equal(t, len(actions), sumCount)
	assert.InDelta(t, 100, sumPct, 1e-9)
}

func TestAggregateByQuarterUnknownQuarterAndEmpty(t *testing.T) {
	actions := append(reportActions(), models.Action{ID: "a4", ActionFields: models.ActionFields{Quarter: "Q9"}})
	quarters := testCatalog().AcademicYear.Quarters
	buckets := AggregateByQuarter(actions, quarters)

	sum := 0
	for _, b := range buckets {
		sum += b.Count
		assert.NotZero(t, b.Count)
	}
	known := 0
	for _, a := range actions {
		if _, ok := (&models.AcademicYear{Quarters: quarters}).FindQuarter(a.Quarter); ok {
			known++
		}
	}
	assert.Equal(t, known, sum)
	assert.InDelta(t, 50, buckets[0].Percentage, 1e-9)

	assert.Empty(t, AggregateByQuarter(nil, quarters))
	assert.Empty(t, AggregateByQuarter([]models.Action{}, quarters))
}

func TestToExportRows(t *testing.T) {
	rows := ToExportRows(reportActions(), testCatalog())
	require.Len(t, rows, 3)

	assert.Equal(t, "Robotics fair", rows[0].Name)
	assert.Equal(t, "2024-01-10", rows[0].StartDate)
	assert.Equal(t, "Mathematics", rows[0].Departments)
	assert.Equal(t, "Computing", rows[0].ProfessionalFamilies)
	assert.Equal(t, "Quality Education", rows[0].Objectives)
	assert.Equal(t, 22, rows[0].TotalParticipants)

	assert.Equal(t, "Languages, Mathematics", rows[1].Departments)
	assert.Equal(t, "", rows[1].ProfessionalFamilies)

	assert.Equal(t, "art", rows[2].Departments)
	assert.Equal(t, "Quality Education, ods9", rows[2].Objectives)
	assert.Equal(t, 5, rows[2].TotalParticipants)
}

func TestDescribeFilter(t *testing.T) {
	lines := DescribeFilter(models.ReportFilter{}, testCatalog())
	require.Len(t, lines, 8)
	for _, line := range lines {
		assert.Equal(t, AllLabel, line.Value, line.Label)
	}

	lines = DescribeFilter(models.ReportFilter{
		StartDate:  datePtr(2024, time.January, 1),
		Network:    "north",
		Center:     "c9",
		Quarter:    "Q1",
		Department: "math",
		Family:     "ifc",
		Objectives: []string{"ods4", "ods9"},
	}, testCatalog())

	want := []models.FilterLine{
		{Label: LabelStartDate, Value: "2024-01-01"},
		{Label: LabelEndDate, Value: AllLabel},
		{Label: LabelNetwork, Value: "North Network"},
		{Label: LabelCenter, Value: "c9"},
		{Label: LabelQuarter, Value: "First quarter"},
		{Label: LabelDepartment, Value: "Mathematics"},
		{Label: LabelFamily, Value: "Computing"},
		{Label: LabelObjectives, Value: "Quality Education, ods9"},
	}
	assert.Equal(t, want, lines)
}
