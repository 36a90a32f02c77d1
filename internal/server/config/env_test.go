package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_Variables(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	t.Setenv("ADDRESS", ":9999")
	t.Setenv("JWT_ISSUER", "env-issuer")
	t.Setenv("ACCESS_TOKEN_TTL", "15m")
	t.Setenv("REFRESH_TOKEN_BACKEND", "memory")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9999", cfg.EndpointAddrHTTP)
	assert.Equal(t, "env-issuer", cfg.Issuer)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
	assert.Equal(t, BackendMemory, cfg.RefreshTokenBackend)
	assert.Equal(t, 5*time.Second, cfg.StorageTimeout)
}

func TestParseEnv_EnvFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CHIRPY_TEST_UNUSED=1\nSTORAGE_TIMEOUT=3s\n"), 0o600))
	t.Setenv("STORAGE_TIMEOUT", "")
	require.NoError(t, os.Unsetenv("STORAGE_TIMEOUT"))
	t.Cleanup(func() { _ = os.Unsetenv("CHIRPY_TEST_UNUSED") })

	os.Args = []string{"testbin", "-env-file", path}

	cfg := &Config{}
	parseEnv(cfg)

	assert.Equal(t, 3*time.Second, cfg.StorageTimeout)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}
	t.Chdir(t.TempDir())

	t.Setenv("STORAGE_TIMEOUT", "soon")
	assert.Panics(t, func() { parseEnv(&Config{}) })
}

func TestParseEnv_MissingEnvFilePanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin", "-env-file", filepath.Join(t.TempDir(), "missing.env")}

	assert.Panics(t, func() { parseEnv(&Config{}) })
}
