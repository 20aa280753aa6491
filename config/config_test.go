package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SERVER_PORT", "DATABASE_URL", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME",
	"DB_SSLMODE", "CORS_ALLOWED_ORIGINS", "HISTORY_BACKEND", "FIREBASE_CREDENTIALS_PATH",
	"AUTH_REQUIRED", "LOG_DEBUG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 5432, cfg.DBPort)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, HistoryBackendPostgres, cfg.HistoryBackend)
	assert.False(t, cfg.AuthRequired)
	assert.False(t, cfg.HasDatabase())
}

func TestLoad_DatabaseFromParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "db.local")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("DB_USER", "site")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "tasks")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, "host=db.local port=6543 user=site password=secret dbname=tasks sslmode=disable", cfg.ConnString())
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_HOST", "ignored")
	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@h/db", cfg.ConnString())
}

func TestLoad_CORSOrigins(t *testing.T) {
	clearEnv(t)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"bad port":                {"DB_PORT": "abc"},
		"bad bool":                {"AUTH_REQUIRED": "maybe"},
		"unknown history":         {"HISTORY_BACKEND": "kafka"},
		"firestore without creds": {"HISTORY_BACKEND": "firestore"},
		"auth without creds":      {"AUTH_REQUIRED": "true"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	// godotenv never overrides variables that are already present
	require.NoError(t, os.Unsetenv("SERVER_PORT"))

	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("SERVER_PORT=9999\n"), 0o600))
	require.NoError(t, LoadDotEnv(path))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.ServerPort)
}
