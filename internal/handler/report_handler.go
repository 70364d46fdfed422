package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/service"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
	"github.com/noah-isme/network-actions-api/pkg/response"
)

type reportService interface {
	Build(ctx context.Context, identity models.Identity, filter models.ReportFilter) (*models.Report, error)
	CreateJob(ctx context.Context, req models.ExportRequest, identity models.Identity) (*models.ReportJobResponse, error)
	GetStatus(ctx context.Context, id string, identity models.Identity) (*models.ReportStatusResponse, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

type contentTyper interface {
	ContentType(format models.ReportFormat) string
}

// ReportHandler exposes report and export endpoints.
type ReportHandler struct {
	reports reportService
	types   contentTyper
	logger  *zap.Logger
}

// NewReportHandler constructs the report handler. types may be nil, in which case
// downloads are served as application/octet-stream.
func NewReportHandler(reports reportService, types contentTyper, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, types: types, logger: logger}
}

// Summary godoc
// @Summary Action report
// @Description Filtered actions visible to the caller with per-quarter totals
// @Tags Reports
// @Produce json
// @Param startDate query string false "Earliest start date (YYYY-MM-DD)"
// @Param endDate query string false "Latest end date (YYYY-MM-DD)"
// @Param network query string false "Network code"
// @Param center query string false "Center code"
// @Param quarter query string false "Quarter ID"
// @Param department query string false "Department code"
// @Param family query string false "Professional family code"
// @Param objectives query string false "Comma separated objective codes"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	filter, err := parseReportFilter(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.reports.Build(c.Request.Context(), identity, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil, map[string]interface{}{"total": report.Total})
}

// CreateExport godoc
// @Summary Queue report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body models.ExportRequest true "Export payload"
// @Success 202 {object} response.Envelope
// @Router /reports/exports [post]
func (h *ReportHandler) CreateExport(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	job, err := h.reports.CreateJob(c.Request.Context(), req, identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, job)
}

// ExportStatus godoc
// @Summary Report export status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/exports/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	identity, ok := requireIdentity(c)
	if !ok {
		return
	}
	status, err := h.reports.GetStatus(c.Request.Context(), c.Param("id"), identity)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status, nil)
}

// Download godoc
// @Summary Download report export via signed token
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Signed token"
// @Success 200 {file} binary
// @Router /export/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Param("token")
	if strings.TrimSpace(token) == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	result, err := h.reports.ResolveDownload(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer result.File.Close() //nolint:errcheck

	info, err := result.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file"))
		return
	}
	contentType := "application/octet-stream"
	if h.types != nil {
		contentType = h.types.ContentType(result.Format)
	}
	h.logger.Debug("serving report export", zap.String("filename", result.Filename), zap.Time("expires_at", result.ExpiresAt))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Header("Expires", result.ExpiresAt.UTC().Format(time.RFC1123))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, result.File, nil)
}

func parseReportFilter(c *gin.Context) (models.ReportFilter, error) {
	filter := models.ReportFilter{
		Network:    strings.TrimSpace(c.Query("network")),
		Center:     strings.TrimSpace(c.Query("center")),
		Quarter:    strings.TrimSpace(c.Query("quarter")),
		Department: strings.TrimSpace(c.Query("department")),
		Family:     strings.TrimSpace(c.Query("family")),
		Objectives: splitList(c.Query("objectives")),
	}
	for key, dst := range map[string]**models.Date{"startDate": &filter.StartDate, "endDate": &filter.EndDate} {
		raw := strings.TrimSpace(c.Query(key))
		if raw == "" {
			continue
		}
		d, err := models.ParseDate(raw)
		if err != nil {
			return filter, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, key+" must be YYYY-MM-DD")
		}
		*dst = &d
	}
	return filter, nil
}
