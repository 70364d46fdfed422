package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/repository"
	"github.com/noah-isme/network-actions-api/pkg/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Env:       config.EnvDevelopment,
		APIPrefix: "/api/v1",
		JWT:       config.JWTConfig{Secret: "test-secret", Issuer: "network-actions-api", Expiration: time.Hour},
		Wizard:    config.WizardConfig{DraftTTL: time.Hour},
		Reports: config.ReportsConfig{
			StorageDir:        t.TempDir(),
			SignedURLSecret:   "reports-secret",
			SignedURLTTL:      time.Hour,
			WorkerConcurrency: 1,
		},
		Help:    config.HelpConfig{Enabled: true},
		Metrics: config.MetricsConfig{Enabled: true},
	}
}

func testReference() *repository.ReferenceRepository {
	return repository.NewReferenceRepository(models.ReferenceCatalog{
		Departments: []models.CodedEntry{{Code: "math", Name: "Mathematics"}},
		Families:    []models.CodedEntry{{Code: "ifc", Name: "Computing"}},
		Groups:      []models.Group{{ID: "g1", Name: "1st DAW", Family: "ifc"}, {ID: "g2", Name: "1st ADM", Family: "adm"}},
		Objectives:  []models.Objective{{ID: "ods4", Name: "Quality Education"}},
		Networks:    []models.CodedEntry{{Code: "north", Name: "North Network"}},
		Centers:     []models.Center{{Code: "c1", Name: "Center One", Network: "north"}},
		AcademicYear: models.AcademicYear{ID: "2024", Quarters: []models.Quarter{
			{ID: "Q1", Name: "First quarter", IsActive: true},
			{ID: "Q2", Name: "Second quarter", IsActive: false},
		}},
	})
}

func startApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	app, err := New(testConfig(t), Stores{Reference: testReference()}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	app.Start(ctx)
	t.Cleanup(func() {
		cancel()
		app.Stop()
	})
	return app
}

func call(t *testing.T, app *App, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Engine.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func issueToken(t *testing.T, app *App, identity models.IssueTokenRequest) string {
	t.Helper()
	rec, env := call(t, app, http.MethodPost, "/api/v1/auth/token", "", identity)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var token models.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	return token.AccessToken
}

func TestServerRequiresToken(t *testing.T) {
	app := startApp(t)

	rec, env := call(t, app, http.MethodGet, "/api/v1/actions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	rec, _ = call(t, app, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = call(t, app, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerWizardToReportExport(t *testing.T) {
	app := startApp(t)
	token := issueToken(t, app, models.IssueTokenRequest{UserID: "m1", Role: models.RoleManager, Network: "north", Center: "c1"})

	rec, env := call(t, app, http.MethodPost, "/api/v1/wizards", token, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var state models.WizardState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	base := "/api/v1/wizards/" + state.ID

	rec, _ = call(t, app, http.MethodPatch, base+"/draft", token, map[string]interface{}{
		"name":                 "Science week",
		"quarter":              "Q1",
		"startDate":            "2024-01-15",
		"endDate":              "2024-01-19",
		"objectives":           []string{"ods4"},
		"departments":          []string{"math"},
		"professionalFamilies": []string{"ifc"},
		"selectedGroups":       []string{"g1"},
		"studentParticipants":  30,
		"teacherParticipants":  3,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for i := 0; i < models.WizardStepCount-1; i++ {
		rec, env = call(t, app, http.MethodPost, base+"/advance", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(env.Data, &state))
		require.Empty(t, state.Error)
	}
	rec, env = call(t, app, http.MethodPost, base+"/submit", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	require.Equal(t, models.WizardCommitted, state.Status)

	rec, env = call(t, app, http.MethodGet, "/api/v1/actions", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.ActionView
	require.NoError(t, json.Unmarshal(env.Data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Science week", views[0].Name)
	assert.True(t, views[0].CanEdit)

	rec, env = call(t, app, http.MethodGet, "/api/v1/reports?quarter=Q1", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var report models.Report
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 1, report.Total)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, 33, report.Rows[0].TotalParticipants)

	rec, env = call(t, app, http.MethodPost, "/api/v1/reports/exports", token, models.ExportRequest{Format: models.ReportFormatCSV})
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	var job models.ReportJobResponse
	require.NoError(t, json.Unmarshal(env.Data, &job))

	var status models.ReportStatusResponse
	require.Eventually(t, func() bool {
		_, env := call(t, app, http.MethodGet, "/api/v1/reports/exports/"+job.ID, token, nil)
		if err := json.Unmarshal(env.Data, &status); err != nil {
			return false
		}
		return status.Status == models.ReportStatusFinished
	}, 5*time.Second, 20*time.Millisecond)
	require.NotNil(t, status.ResultURL)

	rec, _ = call(t, app, http.MethodGet, *status.ResultURL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "actions_report_")
	assert.Contains(t, rec.Body.String(), "Science week")

	other := issueToken(t, app, models.IssueTokenRequest{UserID: "m2", Role: models.RoleManager, Center: "c1"})
	rec, _ = call(t, app, http.MethodGet, "/api/v1/reports/exports/"+job.ID, other, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServerQuarterToggleIsAdminOnly(t *testing.T) {
	app := startApp(t)
	manager := issueToken(t, app, models.IssueTokenRequest{UserID: "m1", Role: models.RoleManager})
	admin := issueToken(t, app, models.IssueTokenRequest{UserID: "root", Role: models.RoleAdmin})

	rec, _ := call(t, app, http.MethodPut, "/api/v1/quarters/Q2/active", manager, map[string]bool{"isActive": true})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := call(t, app, http.MethodPut, "/api/v1/quarters/Q2/active", admin, map[string]bool{"isActive": true})
	require.Equal(t, http.StatusOK, rec.Code)
	var quarter models.Quarter
	require.NoError(t, json.Unmarshal(env.Data, &quarter))
	assert.True(t, quarter.IsActive)

	rec, env = call(t, app, http.MethodGet, "/api/v1/quarters?active=true", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var active []models.Quarter
	require.NoError(t, json.Unmarshal(env.Data, &active))
	assert.Len(t, active, 2)

	rec, _ = call(t, app, http.MethodPut, "/api/v1/quarters/Q9/active", admin, map[string]bool{"isActive": true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServerReferenceAndHelp(t *testing.T) {
	app := startApp(t)
	admin := issueToken(t, app, models.IssueTokenRequest{UserID: "root", Role: models.RoleAdmin})

	rec, env := call(t, app, http.MethodGet, "/api/v1/reference/groups?families=ifc", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var groups []models.Group
	require.NoError(t, json.Unmarshal(env.Data, &groups))
	require.Len(t, groups, 1)
	assert.Equal(t, "g1", groups[0].ID)

	rec, env = call(t, app, http.MethodPost, "/api/v1/help", admin, models.CreateHelpSectionRequest{Title: "Getting started"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var root models.HelpSection
	require.NoError(t, json.Unmarshal(env.Data, &root))

	rec, _ = call(t, app, http.MethodPost, "/api/v1/help", admin, models.CreateHelpSectionRequest{Title: "Wizard", ParentID: &root.ID})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = call(t, app, http.MethodGet, "/api/v1/help/"+root.ID+"/children", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var children []models.HelpSection
	require.NoError(t, json.Unmarshal(env.Data, &children))
	require.Len(t, children, 1)
	assert.Equal(t, "Wizard", children[0].Title)

	rec, _ = call(t, app, http.MethodGet, "/api/v1/help/tree", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServerStopsCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	cfg.Reports.CleanupInterval = time.Millisecond
	app, err := New(cfg, Stores{}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	app.Start(ctx)
	cancel()
	app.Stop()
}
