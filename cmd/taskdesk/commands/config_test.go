package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florianilch/taskdesk/internal/app"
	"github.com/florianilch/taskdesk/internal/authhttp"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskdesk.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Precedence(t *testing.T) {
	tokens := filepath.Join(t.TempDir(), "tokens.json")
	path := writeConfigFile(t, `
log_level = "debug"
log_format = "json"

[api]
base_url = "http://file.example/api"
timeout = "15s"

[auth]
storage = "file"
file = "`+filepath.ToSlash(tokens)+`"
renewal = "independent"
`)

	environ := func() []string {
		return []string{
			"TASKDESK_API__BASE_URL=http://env.example/api",
			"TASKDESK_ACCESS_TOKEN=ignored",
			"UNRELATED=1",
		}
	}

	cfg, err := loadConfig(path, nil, environ)
	require.NoError(t, err)

	assert.Equal(t, "http://env.example/api", cfg.API.BaseURL, "env overrides file")
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, app.LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, -4, int(cfg.LogLevel))
	assert.Equal(t, tokens, filepath.FromSlash(cfg.Auth.File))
	assert.Equal(t, authhttp.RenewalIndependent, cfg.Auth.Renewal)
}

func TestLoadConfig_EnvStorageDefaults(t *testing.T) {
	environ := func() []string {
		return []string{"TASKDESK_AUTH__STORAGE=env"}
	}

	cfg, err := loadConfig("", nil, environ)
	require.NoError(t, err)

	assert.Equal(t, app.TokenStorageTypeEnv, cfg.Auth.Storage)
	assert.Equal(t, app.DefaultConfigEnvAccessKey, cfg.Auth.EnvAccessKey)
	assert.Equal(t, app.DefaultConfigEnvRefreshKey, cfg.Auth.EnvRefreshKey)
	assert.Equal(t, app.DefaultConfigAPIBaseURL, cfg.API.BaseURL)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		environ []string
		file    string
	}{
		{name: "unknown storage", environ: []string{"TASKDESK_AUTH__STORAGE=cookie"}},
		{name: "unknown renewal", environ: []string{"TASKDESK_AUTH__RENEWAL=eager"}},
		{name: "bad url", environ: []string{"TASKDESK_API__BASE_URL=::"}},
		{name: "broken file", file: "log_level = "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("XDG_CONFIG_HOME", t.TempDir())
			path := ""
			if tt.file != "" {
				path = writeConfigFile(t, tt.file)
			}
			_, err := loadConfig(path, nil, func() []string { return tt.environ })
			require.Error(t, err)
		})
	}
}
