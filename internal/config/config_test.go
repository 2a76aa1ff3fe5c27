package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Empty(t, cfg.CSRFToken)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	in := &Config{ServerURL: "https://gym.example.com", CSRFToken: "csrf-123"}
	require.NoError(t, in.Save(dir))

	info, err := os.Stat(filepath.Join(dir, configFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	out, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLoad_EmptyServerURLFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("csrf_token: abc\n"), 0600))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, DefaultServerURL, cfg.ServerURL)
	assert.Equal(t, "abc", cfg.CSRFToken)
}

func TestLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte("{not yaml"), 0600))

	_, err := Load(dir)
	assert.Error(t, err)
}
