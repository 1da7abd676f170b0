package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `
[database]
host = "db"
user = "training"
password = "from-file"
dbname = "training"

[directory_service]
url = "http://directory:8080"
cache_ttl = 60
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "settlement", cfg.Settlement.Queue)
	assert.Equal(t, "training-request-events", cfg.Notifications.Stream)
	assert.Equal(t, 60, cfg.DirectoryService.CacheTTL)
	assert.Equal(t, "host=db port=5432 user=training password=from-file dbname=training sslmode=disable",
		cfg.Database.DSN())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("DB_PASSWORD", "from-env")
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Database.Password)
	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, "debug", cfg.Logs.Level)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing directory url",
			content: "[database]\nhost = \"db\"\ndbname = \"training\"\n",
		},
		{
			name:    "unknown log level",
			content: minimalConfig + "\n[logs]\nlevel = \"verbose\"\n",
		},
		{
			name: "idle exceeds open",
			content: `
[database]
host = "db"
dbname = "training"
max_open_conns = 2
max_idle_conns = 5

[directory_service]
url = "http://directory:8080"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.ErrorIs(t, err, ErrReadConfig)
}
