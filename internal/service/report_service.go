package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	appErrors "github.com/noah-isme/network-actions-api/pkg/errors"
	"github.com/noah-isme/network-actions-api/pkg/jobs"
)

// Report titles by audience.
const (
	TitleCenterReport   = "Center Report"
	TitleNetworkReport  = "Network Report"
	TitleGeneralReports = "General Reports"
)

// ReportJobType tags export jobs on the queue.
const ReportJobType = "actions_export"

type actionLister interface {
	List(ctx context.Context) ([]models.Action, error)
}

type catalogSource interface {
	Catalog() models.ReferenceCatalog
}

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportFiles interface {
	ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error)
	Open(relPath string) (*os.File, error)
	Delete(relPath string) error
	Cleanup(ttl time.Duration) ([]string, error)
}

// ReportService builds filtered reports and manages export jobs.
type ReportService struct {
	actions   actionLister
	reference catalogSource
	repo      reportJobStore
	queue     jobDispatcher
	exporter  exportFiles
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ReportServiceConfig
	now       func() time.Time
}

// ReportServiceConfig governs queue recovery and cleanup.
type ReportServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ReportDownload aggregates resolved download data.
type ReportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// NewReportService constructs the report service. The job store, queue and exporter
// may be nil when only synchronous reports are served.
func NewReportService(actions actionLister, reference catalogSource, repo reportJobStore, queue jobDispatcher, exporter exportFiles, validate *validator.Validate, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ReportService{
		actions:   actions,
		reference: reference,
		repo:      repo,
		queue:     queue,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Build lists every record, narrows it to what identity may see, applies filter and
// projects the result for charts and exports. Roles without report access get an
// empty report.
func (s *ReportService) Build(ctx context.Context, identity models.Identity, filter models.ReportFilter) (*models.Report, error) {
	all, err := s.actions.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list actions")
	}
	catalog := s.reference.Catalog()

	actions := ApplyFilter(VisibilityScope(identity, all), filter)
	return &models.Report{
		Title:    ReportTitle(identity),
		Scope:    scopeFor(identity),
		Actions:  actions,
		Quarters: AggregateByQuarter(actions, catalog.AcademicYear.Quarters),
		Rows:     ToExportRows(actions, &catalog),
		Filters:  DescribeFilter(filter, &catalog),
		Total:    len(actions),
	}, nil
}

// ReportTitle returns the heading shown for identity's reports.
func ReportTitle(identity models.Identity) string {
	switch scopeFor(identity) {
	case models.ReportScopeCenter:
		return TitleCenterReport
	case models.ReportScopeNetwork:
		return TitleNetworkReport
	default:
		return TitleGeneralReports
	}
}

// CreateJob persists an export request and hands it to the queue. The identity is
// snapshotted so the worker evaluates visibility as the requester.
func (s *ReportService) CreateJob(ctx context.Context, req models.ExportRequest, identity models.Identity) (*models.ReportJobResponse, error) {
	if s.repo == nil || s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are not configured")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	if !CanReport(identity) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role has no report access")
	}
	job := &models.ReportJob{
		Params:    models.ReportJobParams{Identity: identity, Filter: req.Filter, Format: req.Format},
		Status:    models.ReportStatusQueued,
		Progress:  0,
		CreatedBy: identity.ID,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ReportJobType}); err != nil {
		status := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := s.now()
		progress := 100
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &status,
			Progress:     &progress,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue report job")
	}
	s.logger.Sugar().Infow("report job queued", "job_id", job.ID, "format", req.Format, "actor_id", identity.ID)
	return &models.ReportJobResponse{ID: job.ID, Status: job.Status, Progress: job.Progress}, nil
}

// GetStatus exposes job metadata to its creator and to admins.
func (s *ReportService) GetStatus(ctx context.Context, id string, identity models.Identity) (*models.ReportStatusResponse, error) {
	job, err := s.loadJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if identity.Role != models.RoleAdmin && job.CreatedBy != identity.ID {
		return nil, appErrors.ErrForbidden
	}
	resp := &models.ReportStatusResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates token and opens the stored export file.
func (s *ReportService) ResolveDownload(ctx context.Context, token string) (*ReportDownload, error) {
	if s.exporter == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are not configured")
	}
	jobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.ResultURL == nil || !strings.HasSuffix(*job.ResultURL, token) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "token mismatch")
	}
	if job.Status != models.ReportStatusFinished {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ReportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs replays queued jobs (e.g. after process restart).
func (s *ReportService) RecoverPendingJobs(ctx context.Context) int {
	if s.repo == nil || s.queue == nil {
		return 0
	}
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Sugar().Warnw("failed to recover queued report jobs", "error", err)
		return 0
	}
	recovered := 0
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: ReportJobType}); err != nil {
			s.logger.Sugar().Warnw("failed to requeue pending job", "job_id", job.ID, "error", err)
			continue
		}
		recovered++
	}
	return recovered
}

// StartCleanup boots a goroutine that purges expired exports periodically.
func (s *ReportService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 || s.repo == nil || s.exporter == nil {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.cleanupExpired(ctx)
			}
		}
	}()
}

func (s *ReportService) cleanupExpired(ctx context.Context) {
	cutoff := s.now().Add(-s.cfg.ResultTTL)
	jobs, err := s.repo.ListFinishedBefore(ctx, cutoff, 100)
	if err != nil {
		s.logger.Sugar().Warnw("cleanup list failed", "error", err)
		return
	}
	for _, job := range jobs {
		if job.ResultURL == nil {
			continue
		}
		token := extractToken(*job.ResultURL)
		if token == "" {
			continue
		}
		_, relPath, _, err := s.exporter.ParseToken(token, true)
		if err != nil {
			continue
		}
		if err := s.exporter.Delete(relPath); err != nil {
			s.logger.Sugar().Warnw("cleanup delete failed", "job_id", job.ID, "error", err)
		}
	}
	if _, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
		s.logger.Sugar().Warnw("filesystem cleanup failed", "error", err)
	}
}

func (s *ReportService) loadJob(ctx context.Context, id string) (*models.ReportJob, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are not configured")
	}
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportJobNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report job")
	}
	return job, nil
}

func extractToken(url string) string {
	if url == "" {
		return ""
	}
	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}

type reportBuilder interface {
	Build(ctx context.Context, identity models.Identity, filter models.ReportFilter) (*models.Report, error)
}

type exportGenerator interface {
	Generate(ctx context.Context, jobID string, report *models.Report, format models.ReportFormat) (*ExportResult, error)
}

// ReportWorker bridges queue jobs to ExportService.
type ReportWorker struct {
	repo     reportJobStore
	reports  reportBuilder
	exporter exportGenerator
	metrics  *MetricsService
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportWorker constructs a worker.
func NewReportWorker(repo reportJobStore, reports reportBuilder, exporter exportGenerator, metrics *MetricsService, logger *zap.Logger) *ReportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportWorker{
		repo:     repo,
		reports:  reports,
		exporter: exporter,
		metrics:  metrics,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Handle processes a queue job. A failed attempt puts the job back to QUEUED so the
// queue can retry it; OnFailure marks it FAILED once retries run out.
func (w *ReportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	progress := 10
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:   &processing,
		Progress: &progress,
	}); err != nil {
		return err
	}

	result, err := w.generate(ctx, record)
	if err != nil {
		msg := err.Error()
		queued := models.ReportStatusQueued
		reset := 0
		if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &queued,
			Progress:     &reset,
			ErrorMessage: &msg,
		}); updateErr != nil {
			w.logger.Sugar().Warnw("failed to mark job queued", "job_id", job.ID, "error", updateErr)
		}
		return err
	}

	finished := models.ReportStatusFinished
	progress = 100
	now := w.now()
	url := result.URL
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		Progress:     &progress,
		ResultURL:    &url,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job finished", "job_id", job.ID, "error", err)
		return err
	}
	w.metrics.RecordExportJob(finished)
	return nil
}

// OnFailure records a job that exhausted its retries.
func (w *ReportWorker) OnFailure(ctx context.Context, job jobs.Job, cause error) {
	failed := models.ReportStatusFailed
	progress := 100
	now := w.now()
	msg := cause.Error()
	// The queue context is already cancelled when the failure races shutdown.
	if ctx.Err() != nil {
		ctx = context.Background()
	}
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &failed,
		Progress:     &progress,
		ErrorMessage: &msg,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Sugar().Warnw("failed to mark job failed", "job_id", job.ID, "error", err)
	}
	w.metrics.RecordExportJob(failed)
}

func (w *ReportWorker) generate(ctx context.Context, record *models.ReportJob) (*ExportResult, error) {
	report, err := w.reports.Build(ctx, record.Params.Identity, record.Params.Filter)
	if err != nil {
		return nil, err
	}
	progress := 50
	if err := w.repo.Update(ctx, record.ID, repository.UpdateReportJobParams{Progress: &progress}); err != nil {
		w.logger.Sugar().Warnw("failed to record progress", "job_id", record.ID, "error", err)
	}
	return w.exporter.Generate(ctx, record.ID, report, record.Params.Format)
}
