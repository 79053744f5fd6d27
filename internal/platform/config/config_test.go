package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests here use t.Setenv, so none of them run in parallel.

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.Equal(t, BackendJSON, cfg.Store.Backend)
	assert.Equal(t, "./data", cfg.Store.DataDir)
	assert.Equal(t, 5*1024*1024, cfg.Store.QuotaBytes)
	assert.Equal(t, "local", cfg.IDs.Scheme)
	assert.False(t, cfg.Auth.VerifyPasswords)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "civicstore.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
store:
  backend: sqlite
  data_dir: /var/lib/civicstore
ids:
  scheme: uuid
log:
  level: debug
`), 0o600))
	t.Setenv("CIVICSTORE_LOG_LEVEL", "warn")
	t.Setenv("CIVICSTORE_AUTH_VERIFY_PASSWORDS", "true")

	cfg, err := Load(Options{File: file})
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "/var/lib/civicstore", cfg.Store.DataDir)
	assert.Equal(t, "uuid", cfg.IDs.Scheme)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Auth.VerifyPasswords)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("CIVICSTORE_STORE_BACKEND=memory\nCIVICSTORE_STORE_QUOTA_BYTES=1024\n"), 0o600))
	// godotenv never overrides variables that are already set; register
	// them with t.Setenv first so they are restored afterwards.
	t.Setenv("CIVICSTORE_STORE_BACKEND", "")
	t.Setenv("CIVICSTORE_STORE_QUOTA_BYTES", "")
	require.NoError(t, os.Unsetenv("CIVICSTORE_STORE_BACKEND"))
	require.NoError(t, os.Unsetenv("CIVICSTORE_STORE_QUOTA_BYTES"))

	cfg, err := Load(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 1024, cfg.Store.QuotaBytes)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"backend":      {"CIVICSTORE_STORE_BACKEND": "redis"},
		"postgres dsn": {"CIVICSTORE_STORE_BACKEND": "postgres"},
		"mongo uri":    {"CIVICSTORE_STORE_BACKEND": "mongo"},
		"id scheme":    {"CIVICSTORE_IDS_SCHEME": "ulid"},
		"log level":    {"CIVICSTORE_LOG_LEVEL": "loud"},
		"quota":        {"CIVICSTORE_STORE_QUOTA_BYTES": "-1"},
		"missing file": {},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			opts := Options{}
			if name == "missing file" {
				opts.File = filepath.Join(t.TempDir(), "nope.yaml")
			}
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}
