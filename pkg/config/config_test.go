package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func newViper(overrides map[string]interface{}) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg := fromViper(newViper(nil))

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, StoreMemory, cfg.Actions.StoreDriver)
	assert.Equal(t, StoreMemory, cfg.Wizard.DraftStore)
	assert.Equal(t, 2*time.Hour, cfg.Wizard.DraftTTL)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.Equal(t, time.Hour, cfg.Reports.CleanupInterval)
	assert.False(t, cfg.Actions.EnforceEditAccess)
	assert.True(t, cfg.Help.Enabled)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	cfg := fromViper(newViper(map[string]interface{}{
		"STORE_DRIVER":                " Postgres ",
		"DRAFT_STORE":                 "redis",
		"DRAFT_TTL":                   "15m",
		"ACTIONS_ENFORCE_EDIT_ACCESS": true,
		"ACTIONS_SEED_FILE":           "seed.yaml",
		"ALLOWED_ORIGINS":             "https://a.example, ,https://b.example",
		"REPORTS_SIGNED_URL_TTL":      "nonsense",
	}))

	assert.Equal(t, StorePostgres, cfg.Actions.StoreDriver)
	assert.Equal(t, StoreRedis, cfg.Wizard.DraftStore)
	assert.Equal(t, 15*time.Minute, cfg.Wizard.DraftTTL)
	assert.True(t, cfg.Actions.EnforceEditAccess)
	assert.Equal(t, "seed.yaml", cfg.Actions.SeedFile)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Reports.SignedURLTTL)
}

func TestNormalizeDriver(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", StoreMemory},
		{"MEMORY", StoreMemory},
		{"postgres", StorePostgres},
		{"redis", StoreMemory},
		{"mysql", StoreMemory},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeDriver(tt.raw, StoreMemory, StorePostgres))
		})
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", EnvProduction)

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, EnvProduction, cfg.Env)
}
