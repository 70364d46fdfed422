package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/network-actions-api/internal/middleware"
	"github.com/noah-isme/network-actions-api/internal/models"
)

// Handlers bundles every HTTP handler the API mounts. Help and Metrics may be nil.
type Handlers struct {
	Auth      *AuthHandler
	Actions   *ActionHandler
	Wizards   *WizardHandler
	Reports   *ReportHandler
	Reference *ReferenceHandler
	Help      *HelpHandler
	Metrics   *MetricsHandler
}

// RouteOptions toggles optional route groups.
type RouteOptions struct {
	APIPrefix   string
	IssueTokens bool
}

// Register mounts the API on r. requireAuth guards every route that acts on
// behalf of an identity.
func Register(r *gin.Engine, h Handlers, requireAuth gin.HandlerFunc, opts RouteOptions) {
	if h.Metrics != nil {
		r.GET("/health", h.Metrics.Health)
		r.GET("/ready", h.Metrics.Ready)
		r.GET("/metrics", h.Metrics.Prometheus)
	}

	api := r.Group(opts.APIPrefix)

	// Signed tokens authorize downloads on their own.
	api.GET("/export/:token", h.Reports.Download)

	if opts.IssueTokens {
		api.POST("/auth/token", h.Auth.IssueToken)
	}

	secured := api.Group("")
	secured.Use(requireAuth)

	secured.GET("/auth/me", h.Auth.Me)

	secured.GET("/actions", h.Actions.List)
	secured.GET("/actions/:id", h.Actions.Get)
	secured.DELETE("/actions/:id", h.Actions.Delete)

	wizards := secured.Group("/wizards")
	wizards.POST("", h.Wizards.Start)
	wizards.GET("/:id", h.Wizards.Get)
	wizards.PATCH("/:id/draft", h.Wizards.UpdateDraft)
	wizards.POST("/:id/advance", h.Wizards.Advance)
	wizards.POST("/:id/retreat", h.Wizards.Retreat)
	wizards.POST("/:id/submit", h.Wizards.Submit)
	wizards.POST("/:id/cancel", h.Wizards.Cancel)
	wizards.DELETE("/:id", h.Wizards.Discard)

	secured.GET("/reports", h.Reports.Summary)
	secured.POST("/reports/exports", h.Reports.CreateExport)
	secured.GET("/reports/exports/:id", h.Reports.ExportStatus)

	secured.GET("/reference", h.Reference.Catalog)
	secured.GET("/reference/groups", h.Reference.Groups)
	secured.GET("/quarters", h.Reference.Quarters)
	secured.PUT("/quarters/:id/active", middleware.RequireRoles(models.RoleAdmin), h.Reference.SetQuarterActive)

	if h.Help != nil {
		help := secured.Group("/help")
		help.GET("", h.Help.List)
		help.GET("/tree", h.Help.Tree)
		help.GET("/:id", h.Help.Get)
		help.GET("/:id/children", h.Help.Children)
		help.POST("", h.Help.Create)
		help.PUT("/:id", h.Help.Update)
		help.DELETE("/:id", h.Help.Delete)
	}

	if h.Metrics != nil {
		secured.GET("/ops/metrics", middleware.RequireRoles(models.RoleAdmin), h.Metrics.Snapshot)
	}
}
