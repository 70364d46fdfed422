package export

import (
	"fmt"
	"unicode/utf8"
)

// Sheet is one logical section of an export: a header row and rows keyed by header.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Workbook is an ordered set of sheets rendered into a single artifact.
type Workbook struct {
	Title  string
	Sheets []Sheet
}

// Renderer turns a workbook into file bytes.
type Renderer interface {
	Render(book Workbook) ([]byte, error)
	ContentType() string
	Extension() string
}

// MaxColumnWidth caps computed column widths, in characters.
const MaxColumnWidth = 50

func (b Workbook) validate() error {
	if len(b.Sheets) == 0 {
		return fmt.Errorf("workbook requires at least one sheet")
	}
	for _, sheet := range b.Sheets {
		if len(sheet.Headers) == 0 {
			return fmt.Errorf("sheet %q requires at least one header", sheet.Name)
		}
	}
	return nil
}

// ColumnWidths returns, per header, the longest cell in the column (header included)
// plus a small padding, capped at MaxColumnWidth.
func (s Sheet) ColumnWidths() []int {
	widths := make([]int, len(s.Headers))
	for i, header := range s.Headers {
		widths[i] = utf8.RuneCountInString(header)
		for _, row := range s.Rows {
			if n := utf8.RuneCountInString(row[header]); n > widths[i] {
				widths[i] = n
			}
		}
		widths[i] += 2
		if widths[i] > MaxColumnWidth {
			widths[i] = MaxColumnWidth
		}
	}
	return widths
}

func (s Sheet) record(row map[string]string) []string {
	out := make([]string, len(s.Headers))
	for i, header := range s.Headers {
		out[i] = row[header]
	}
	return out
}
