package service

import (
	"context"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/pkg/export"
	"github.com/noah-isme/network-actions-api/pkg/storage"
)

// Sheet names of a rendered report.
const (
	FiltersSheet = "Filters"
	ActionsSheet = "Actions"
)

// Columns of the actions sheet, in output order.
var actionColumns = []string{
	"Name", "Location", "Description", "Start date", "End date", "Network", "Center", "Quarter",
	"Departments", "Professional families", "Objectives",
	"Students", "Teachers", "Total participants", "Rating", "Comments",
}

var filterColumns = []string{"Filter", "Value"}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders reports to files and issues signed download links for them.
type ExportService struct {
	storage   fileStorage
	renderers map[models.ReportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService. Renderers default to the XLSX, CSV and
// PDF exporters; pass overrides keyed by format to replace them.
func NewExportService(storage fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, overrides map[models.ReportFormat]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	renderers := map[models.ReportFormat]export.Renderer{
		models.ReportFormatXLSX: export.NewXLSXExporter(),
		models.ReportFormatCSV:  export.NewCSVExporter(),
		models.ReportFormatPDF:  export.NewPDFExporter(),
	}
	for format, r := range overrides {
		if r != nil {
			renderers[format] = r
		}
	}
	return &ExportService{
		storage:   storage,
		renderers: renderers,
		signer:    signer,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Render produces the file body for report in the requested format along with the
// suggested filename.
func (s *ExportService) Render(report *models.Report, format models.ReportFormat) ([]byte, string, error) {
	if report == nil {
		return nil, "", fmt.Errorf("report nil")
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, "", fmt.Errorf("unsupported format %s", format)
	}
	payload, err := renderer.Render(BuildWorkbook(report))
	if err != nil {
		return nil, "", err
	}
	return payload, ReportFilename(s.now(), renderer.Extension()), nil
}

// Generate renders report for a job, stores it under the job's directory and signs a
// download URL for it.
func (s *ExportService) Generate(ctx context.Context, jobID string, report *models.Report, format models.ReportFormat) (*ExportResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.storage == nil || s.signer == nil {
		return nil, fmt.Errorf("export storage not configured")
	}
	payload, filename, err := s.Render(report, format)
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(path.Join(sanitizeFilename(jobID), filename), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(jobID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/export/%s", signedURL, token)

	s.logger.Sugar().Infow("export generated", "job_id", jobID, "path", relPath, "bytes", len(payload))
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ContentType returns the MIME type served for format.
func (s *ExportService) ContentType(format models.ReportFormat) string {
	if r, ok := s.renderers[format]; ok {
		return r.ContentType()
	}
	return "application/octet-stream"
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// BuildWorkbook lays a report out as the applied-filters sheet followed by the data sheet.
func BuildWorkbook(report *models.Report) export.Workbook {
	filters := export.Sheet{Name: FiltersSheet, Headers: filterColumns}
	for _, line := range report.Filters {
		filters.Rows = append(filters.Rows, map[string]string{"Filter": line.Label, "Value": line.Value})
	}

	actions := export.Sheet{Name: ActionsSheet, Headers: actionColumns}
	for _, row := range report.Rows {
		actions.Rows = append(actions.Rows, map[string]string{
			"Name":                  row.Name,
			"Location":              row.Location,
			"Description":           row.Description,
			"Start date":            row.StartDate,
			"End date":              row.EndDate,
			"Network":               row.Network,
			"Center":                row.Center,
			"Quarter":               row.Quarter,
			"Departments":           row.Departments,
			"Professional families": row.ProfessionalFamilies,
			"Objectives":            row.Objectives,
			"Students":              strconv.Itoa(row.StudentParticipants),
			"Teachers":              strconv.Itoa(row.TeacherParticipants),
			"Total participants":    strconv.Itoa(row.TotalParticipants),
			"Rating":                strconv.Itoa(row.Rating),
			"Comments":              row.Comments,
		})
	}

	return export.Workbook{Title: report.Title, Sheets: []export.Sheet{filters, actions}}
}

// ReportFilename names an export generated at t.
func ReportFilename(t time.Time, ext string) string {
	return fmt.Sprintf("actions_report_%s.%s", t.Format("2006-01-02"), ext)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
