package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBook() Workbook {
	return Workbook{
		Title: "Actions report",
		Sheets: []Sheet{
			{
				Name:    "Filters",
				Headers: []string{"Filter", "Value"},
				Rows:    []map[string]string{{"Filter": "Quarter", "Value": "First quarter"}},
			},
			{
				Name:    "Actions",
				Headers: []string{"Name", "Total participants"},
				Rows: []map[string]string{
					{"Name": "Robotics fair", "Total participants": "22"},
					{"Name": "Reading club, extended", "Total participants": "5"},
				},
			},
		},
	}
}

func TestCSVExporterWritesSections(t *testing.T) {
	payload, err := NewCSVExporter().Render(sampleBook())
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(payload))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// encoding/csv skips the empty separator line.
	require.Len(t, records, 5)
	assert.Equal(t, []string{"Filter", "Value"}, records[0])
	assert.Equal(t, []string{"Name", "Total participants"}, records[2])
	assert.Equal(t, []string{"Reading club, extended", "5"}, records[4])
	assert.Contains(t, string(payload), "\n\n")
}

func TestXLSXExporterWritesSheets(t *testing.T) {
	exporter := NewXLSXExporter()
	payload, err := exporter.Render(sampleBook())
	require.NoError(t, err)
	assert.Equal(t, "xlsx", exporter.Extension())

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Filters", "Actions"}, f.GetSheetList())
	rows, err := f.GetRows("Actions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Robotics fair", "22"}, rows[1])

	width, err := f.GetColWidth("Actions", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Reading club, extended")+2), width)
}

func TestPDFExporterProducesDocument(t *testing.T) {
	book := sampleBook()
	book.Sheets[1].Rows = append(book.Sheets[1].Rows, map[string]string{"Name": strings.Repeat("very long name ", 20)})

	payload, err := NewPDFExporter().Render(book)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF-")))
}

func TestRenderersRejectEmptyWorkbook(t *testing.T) {
	for _, r := range []Renderer{NewCSVExporter(), NewXLSXExporter(), NewPDFExporter()} {
		_, err := r.Render(Workbook{})
		assert.Error(t, err, r.Extension())

		_, err = r.Render(Workbook{Sheets: []Sheet{{Name: "empty"}}})
		assert.Error(t, err, r.Extension())
	}
}

func TestColumnWidthsAreCapped(t *testing.T) {
	sheet := Sheet{
		Headers: []string{"Short", "Long"},
		Rows:    []map[string]string{{"Short": "ab", "Long": strings.Repeat("x", 200)}},
	}
	assert.Equal(t, []int{7, MaxColumnWidth}, sheet.ColumnWidths())
}
