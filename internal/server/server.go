package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/handler"
	"github.com/noah-isme/network-actions-api/internal/middleware"
	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	"github.com/noah-isme/network-actions-api/internal/service"
	"github.com/noah-isme/network-actions-api/pkg/config"
	"github.com/noah-isme/network-actions-api/pkg/jobs"
	"github.com/noah-isme/network-actions-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/network-actions-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/network-actions-api/pkg/middleware/requestid"
	"github.com/noah-isme/network-actions-api/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// ActionStore persists committed action records.
type ActionStore interface {
	Create(ctx context.Context, fields models.ActionFields) (*models.Action, error)
	Update(ctx context.Context, id string, patch models.ActionPatch) (*models.Action, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]models.Action, error)
	FindByID(ctx context.Context, id string) (*models.Action, error)
}

// DraftStore keeps wizard sessions between requests.
type DraftStore interface {
	Get(ctx context.Context, id string) (*models.WizardState, error)
	Save(ctx context.Context, state models.WizardState) error
	Delete(ctx context.Context, id string) error
}

// JobStore persists report export jobs.
type JobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error)
}

// Stores are the backends the application runs on. Nil members fall back to the
// in-memory implementations.
type Stores struct {
	Actions   ActionStore
	Drafts    DraftStore
	Jobs      JobStore
	Reference *repository.ReferenceRepository
	Help      *repository.HelpRepository
	Checks    map[string]handler.Pinger
}

// App wires services, the export worker queue and the HTTP router.
type App struct {
	Engine  *gin.Engine
	Auth    *service.AuthService
	Metrics *service.MetricsService

	cfg     *config.Config
	reports *service.ReportService
	queue   *jobs.Queue
	drafts  DraftStore
	logger  *zap.Logger
}

type purger interface {
	Purge() int
}

// New builds the application from cfg and stores.
func New(cfg *config.Config, stores Stores, logr *zap.Logger) (*App, error) {
	if logr == nil {
		logr = zap.NewNop()
	}
	stores = withDefaults(cfg, stores)
	validate := validator.New()

	var metrics *service.MetricsService
	if cfg.Metrics.Enabled {
		metrics = service.NewMetricsService()
	}

	auth := service.NewAuthService(validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})

	actions := service.NewActionService(stores.Actions, stores.Reference, metrics, validate, logr, service.ActionServiceConfig{
		StrictNotFound:    cfg.Actions.StrictNotFound,
		EnforceEditAccess: cfg.Actions.EnforceEditAccess,
	})
	wizards := service.NewWizardService(stores.Drafts, actions, metrics, validate, logr)
	reference := service.NewReferenceService(stores.Reference, logr)
	quarters := service.NewQuarterService(stores.Reference, validate, logr)

	fileStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("init report storage: %w", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exporter := service.NewExportService(fileStore, signer, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr, nil)

	// The worker needs the report service and the report service needs the queue.
	var worker *service.ReportWorker
	queue := jobs.NewQueue("report-exports", func(ctx context.Context, job jobs.Job) error {
		return worker.Handle(ctx, job)
	}, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: time.Second,
		OnFailure: func(ctx context.Context, job jobs.Job, cause error) {
			worker.OnFailure(ctx, job, cause)
		},
		Logger: logr,
	})
	reports := service.NewReportService(stores.Actions, stores.Reference, stores.Jobs, queue, exporter, validate, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
	})
	worker = service.NewReportWorker(stores.Jobs, reports, exporter, metrics, logr)

	handlers := handler.Handlers{
		Auth:      handler.NewAuthHandler(auth),
		Actions:   handler.NewActionHandler(actions),
		Wizards:   handler.NewWizardHandler(wizards),
		Reports:   handler.NewReportHandler(reports, exporter, logr),
		Reference: handler.NewReferenceHandler(reference, quarters),
		Metrics:   handler.NewMetricsHandler(metrics, stores.Checks),
	}
	if cfg.Help.Enabled {
		handlers.Help = handler.NewHelpHandler(service.NewHelpService(stores.Help, validate, logr))
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/ready", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))

	handler.Register(r, handlers, middleware.JWT(auth), handler.RouteOptions{
		APIPrefix:   cfg.APIPrefix,
		IssueTokens: cfg.Env != config.EnvProduction,
	})
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return &App{
		Engine:  r,
		Auth:    auth,
		Metrics: metrics,
		cfg:     cfg,
		reports: reports,
		queue:   queue,
		drafts:  stores.Drafts,
		logger:  logr,
	}, nil
}

// Start runs the export workers, replays queued jobs and schedules file cleanup.
func (a *App) Start(ctx context.Context) {
	a.queue.Start(ctx)
	if n := a.reports.RecoverPendingJobs(ctx); n > 0 {
		a.logger.Sugar().Infow("recovered pending report jobs", "count", n)
	}
	a.reports.StartCleanup(ctx)
	if p, ok := a.drafts.(purger); ok && a.cfg.Wizard.DraftTTL > 0 {
		go a.purgeDrafts(ctx, p, a.cfg.Wizard.DraftTTL)
	}
}

// purgeDrafts evicts expired in-memory wizard sessions. Redis expires its own keys.
func (a *App) purgeDrafts(ctx context.Context, p purger, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := p.Purge(); n > 0 {
				a.logger.Sugar().Debugw("purged expired wizard drafts", "count", n)
			}
		}
	}
}

// Stop drains the export workers.
func (a *App) Stop() {
	a.queue.Stop()
}

// ListenAndServe serves HTTP until ctx ends, then shuts down gracefully.
func (a *App) ListenAndServe(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", a.cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           a.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	a.logger.Sugar().Infow("server starting", "addr", addr, "env", a.cfg.Env)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

func withDefaults(cfg *config.Config, stores Stores) Stores {
	if stores.Actions == nil {
		stores.Actions = repository.NewMemoryActionRepository()
	}
	if stores.Drafts == nil {
		stores.Drafts = repository.NewMemoryDraftRepository(cfg.Wizard.DraftTTL)
	}
	if stores.Jobs == nil {
		stores.Jobs = repository.NewMemoryReportRepository()
	}
	if stores.Reference == nil {
		stores.Reference = repository.NewReferenceRepository(models.ReferenceCatalog{})
	}
	if stores.Help == nil {
		stores.Help = repository.NewHelpRepository()
	}
	return stores
}
