package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uvwizard/internal/config"
	"github.com/rshade/uvwizard/internal/logging"
	"github.com/rshade/uvwizard/internal/unwrap"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, unwrap.Defaults(), cfg.Unwrap.Params)
	assert.Equal(t, 5*time.Minute, cfg.Unwrap.Timeout)
	assert.Equal(t, "UV Map Creation Wizard", cfg.Wizard.Title)
	assert.Equal(t, "Create UV Map", cfg.Wizard.CreateButton)
	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.ConfigPath())
	assert.Equal(t, config.Default().Unwrap, cfg.Unwrap)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := config.Default()
	cfg.SetConfigPath(path)
	cfg.Unwrap.Command = "unwrap-tool"
	cfg.Unwrap.Args = []string{"--in", "{mesh}"}
	cfg.Unwrap.Timeout = 90 * time.Second
	cfg.Unwrap.Params.PackMargin = 0.01
	cfg.Wizard.SelectionFile = "selection.txt"
	require.NoError(t, cfg.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Unwrap, loaded.Unwrap)
	assert.Equal(t, cfg.Wizard, loaded.Wizard)
	assert.Equal(t, cfg.Logging, loaded.Logging)
}

func TestSave_NoPath(t *testing.T) {
	require.Error(t, config.Default().Save())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr bool
	}{
		{"defaults", func(*config.Config) {}, false},
		{"debug level", func(c *config.Config) { c.Logging.Level = "debug" }, false},
		{"json format", func(c *config.Config) { c.Logging.Format = "json" }, false},
		{"bad level", func(c *config.Config) { c.Logging.Level = "loud" }, true},
		{"empty level", func(c *config.Config) { c.Logging.Level = "" }, true},
		{"bad format", func(c *config.Config) { c.Logging.Format = "xml" }, true},
		{"negative timeout", func(c *config.Config) { c.Unwrap.Timeout = -time.Second }, true},
		{"bad params", func(c *config.Config) { c.Unwrap.Params.HardAngle = 400 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"UVWIZARD_LOG_LEVEL":      "trace",
		"UVWIZARD_LOG_FORMAT":     "json",
		"UVWIZARD_UNWRAP_COMMAND": "env-unwrap",
	}
	cfg := config.Default()
	cfg.ApplyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	assert.Equal(t, "trace", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "env-unwrap", cfg.Unwrap.Command)
	assert.Empty(t, cfg.Logging.File)
}

func TestUnwrapper(t *testing.T) {
	cfg := config.Default()
	cfg.Unwrap.Command = "tool"
	cfg.Unwrap.Args = []string{"{mesh}"}
	cfg.Unwrap.Timeout = time.Second

	u := cfg.Unwrapper()
	assert.Equal(t, "tool", u.Command)
	assert.Equal(t, []string{"{mesh}"}, u.Args)
	assert.Equal(t, time.Second, u.Timeout)

	u.Args[0] = "changed"
	assert.Equal(t, "{mesh}", cfg.Unwrap.Args[0], "unwrapper does not alias config args")
}

func TestGlobalConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("UVWIZARD_HOME", home)
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)

	cfg := config.GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(home, "config.yaml"), cfg.ConfigPath())
	assert.Same(t, cfg, config.GetGlobalConfig())
	assert.Equal(t, "info", config.GetLogLevel())

	replacement := config.Default()
	replacement.Logging.File = filepath.Join(home, "logs", "x.log")
	config.SetGlobalConfig(replacement)
	assert.Equal(t, replacement.Logging.File, config.GetLogFile())
	require.NoError(t, config.EnsureLogDir())
	_, err := os.Stat(filepath.Join(home, "logs"))
	require.NoError(t, err)
}

func TestToLoggingConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("UVWIZARD_HOME", home)

	lc := config.LoggingConfig{Level: "debug", Format: "json"}
	got := lc.ToLoggingConfig()
	assert.Equal(t, logging.OutputStderr, got.Output)
	assert.Equal(t, "debug", got.Level)

	wiz := lc.ToWizardLoggingConfig()
	assert.Equal(t, logging.OutputFile, wiz.Output)
	assert.Equal(t, filepath.Join(home, "logs", "wizard.log"), wiz.File)

	lc.File = "/tmp/explicit.log"
	assert.Equal(t, logging.OutputFile, lc.ToLoggingConfig().Output)
	assert.Equal(t, "/tmp/explicit.log", lc.ToWizardLoggingConfig().File)
}
