package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the global config at a temp dir, moves into another temp
// dir for the project config and clears PLAYPALS_* overrides.
func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	for _, env := range []string{
		"PLAYPALS_DATA_DIR", "PLAYPALS_LOG_LEVEL", "PLAYPALS_LOG_FILE", "PLAYPALS_TRANSPORT",
		"PLAYPALS_NATS_URL", "PLAYPALS_THEME", "PLAYPALS_CV_MAX_BYTES", "PLAYPALS_CV_ALLOWED_TYPES",
	} {
		t.Setenv(env, "")
		_ = os.Unsetenv(env)
	}

	origWd, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origWd) })
	project := filepath.Join(tmpDir, "project")
	require.NoError(t, os.MkdirAll(project, 0755))
	require.NoError(t, os.Chdir(project))
	return tmpDir
}

func TestGlobalPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	assert.Equal(t, "/custom/config/playpals/playpals.yml", GlobalPath())

	t.Setenv("XDG_CONFIG_HOME", "")
	got := GlobalPath()
	assert.True(t, strings.HasSuffix(got, filepath.Join(".config", "playpals", "playpals.yml")), got)
}

func TestProjectPath(t *testing.T) {
	assert.Equal(t, "playpals.yml", ProjectPath())
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.False(t, Exists())
}

func TestLoad_Precedence(t *testing.T) {
	isolate(t)

	global := Default()
	global.Transport = TransportNATS
	global.Theme = "light"
	global.LogLevel = "warn"
	require.NoError(t, WriteGlobal(global))

	require.NoError(t, os.WriteFile(ProjectPath(), []byte("log_level: debug\ncv:\n  max_bytes: 1048576\n"), 0644))
	t.Setenv("PLAYPALS_THEME", "dark")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, Exists())
	assert.Equal(t, TransportNATS, cfg.Transport, "global value survives")
	assert.Equal(t, "debug", cfg.LogLevel, "project overrides global")
	assert.Equal(t, "dark", cfg.Theme, "env overrides files")
	assert.Equal(t, int64(1<<20), cfg.CV.MaxBytes)
	assert.Equal(t, []string{"application/pdf", ".pdf"}, cfg.CV.AllowedTypes)
}

func TestLoad_NestedEnv(t *testing.T) {
	isolate(t)
	t.Setenv("PLAYPALS_CV_MAX_BYTES", "2097152")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(2<<20), cfg.CV.MaxBytes)
	assert.Equal(t, int64(2<<20), cfg.JobOptions().CVMaxBytes)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	isolate(t)
	require.NoError(t, os.WriteFile(ProjectPath(), []byte("transport: pigeon\n"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transport")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Theme = "neon"
	assert.ErrorContains(t, cfg.Validate(), "invalid theme")

	cfg = Default()
	cfg.CV.MaxBytes = -1
	assert.ErrorContains(t, cfg.Validate(), "cv.max_bytes")
}

func TestWriteProject(t *testing.T) {
	isolate(t)

	cfg := Default()
	cfg.NATSURL = "nats://127.0.0.1:4222"
	require.NoError(t, WriteProject(cfg))

	data, err := os.ReadFile(ProjectPath())
	require.NoError(t, err)
	content := string(data)
	for _, want := range []string{
		"data_dir: .playpals",
		"transport: log",
		"nats_url: nats://127.0.0.1:4222",
		"theme: dark",
		"max_bytes: 5242880",
	} {
		assert.Contains(t, content, want)
	}
}
