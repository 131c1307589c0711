package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/smilesdraw/pkg/cache"
	apperrors "github.com/matzehuels/smilesdraw/pkg/errors"
	"github.com/matzehuels/smilesdraw/pkg/layout"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, layout.DefaultOptions(), cfg.Layout)
	assert.Equal(t, "light", cfg.Render.Theme)
	assert.Equal(t, []string{"svg"}, cfg.Render.Formats)
	assert.Equal(t, cache.BackendFile, cfg.Cache.Backend)
	assert.NotEmpty(t, cfg.Cache.Dir)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverlay(t *testing.T) {
	path := writeConfig(t, `
[layout]
bond_length = 40
isomeric = false

[render]
theme = "dark"
formats = ["svg", "png"]

[cache]
backend = "redis"
[cache.redis]
addr = "redis:6379"
db = 2

[server]
addr = ":9000"
request_timeout = "15s"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 40.0, cfg.Layout.BondLength)
	assert.False(t, cfg.Layout.Isomeric)
	assert.Equal(t, layout.DefaultOptions().KKMaxIteration, cfg.Layout.KKMaxIteration, "unset keys keep defaults")
	assert.Equal(t, "dark", cfg.Render.Theme)
	assert.Equal(t, []string{"svg", "png"}, cfg.Render.Formats)
	assert.Equal(t, 2.0, cfg.Render.Scale)
	assert.Equal(t, cache.BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "redis:6379", cfg.Cache.Redis.Addr)
	assert.Equal(t, 2, cfg.Cache.Redis.DB)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Render, cfg.Render)

	_, err = Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err, "an explicit path must exist")
}

func TestLoadDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, AppName), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName, "config.toml"), []byte("[render]\ntheme = \"github\"\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "github", cfg.Render.Theme)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		code apperrors.Code
	}{
		{"UnknownKey", "[render]\ncolour = \"red\"\n", apperrors.ErrCodeInvalidOption},
		{"UnknownTheme", "[render]\ntheme = \"neon\"\n", apperrors.ErrCodeInvalidTheme},
		{"UnknownFormat", "[render]\nformats = [\"bmp\"]\n", apperrors.ErrCodeInvalidFormat},
		{"BadBondLength", "[layout]\nbond_length = 0\n", apperrors.ErrCodeInvalidOption},
		{"BadBackend", "[cache]\nbackend = \"memcached\"\n", apperrors.ErrCodeInvalidOption},
		{"BadScale", "[render]\nscale = -1.0\n", apperrors.ErrCodeInvalidOption},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.code), "err = %v, want %s", err, tt.code)
		})
	}

	_, err := Load(writeConfig(t, "not = [toml"))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_CACHE_HOME", "/xdg/cache")

	p, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/config", "smilesdraw", "config.toml"), p)

	d, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/xdg/cache", "smilesdraw"), d)

	t.Setenv("XDG_CACHE_HOME", "")
	d, err = CacheDir()
	require.NoError(t, err)
	assert.Contains(t, d, filepath.Join(".cache", "smilesdraw"))
}
