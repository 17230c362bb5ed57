package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/uvwizard/internal/config"
)

// newCustomTarget returns a Config with non-default values so tests can
// verify that absent overlay keys leave the original values intact.
func newCustomTarget() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "warn"
	cfg.Unwrap.Command = "/opt/tools/unwrap"
	cfg.Unwrap.Args = []string{"{mesh}"}
	cfg.Wizard.Title = "Custom Title"
	return cfg
}

// writeOverlay writes YAML content to a temp file and returns its path.
func writeOverlay(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestShallowMergeYAML_SingleKeyOverride(t *testing.T) {
	target := newCustomTarget()
	overlay := writeOverlay(t, `
logging:
  level: debug
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "debug", target.Logging.Level)
	assert.Equal(t, config.DefaultLogFormat, target.Logging.Format, "omitted fields fall back to defaults")
	assert.Equal(t, "/opt/tools/unwrap", target.Unwrap.Command, "absent sections are preserved")
	assert.Equal(t, "Custom Title", target.Wizard.Title)
}

func TestShallowMergeYAML_SectionReplacedWhole(t *testing.T) {
	target := newCustomTarget()
	overlay := writeOverlay(t, `
unwrap:
  command: blender-unwrap
  timeout: 30s
  params:
    hard_angle: 66
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))

	assert.Equal(t, "blender-unwrap", target.Unwrap.Command)
	assert.Empty(t, target.Unwrap.Args, "args from the lower layer are not kept")
	assert.Equal(t, 30*time.Second, target.Unwrap.Timeout)
	assert.InDelta(t, 66.0, target.Unwrap.Params.HardAngle, 1e-9)
	assert.InDelta(t, 0.15, target.Unwrap.Params.AreaError, 1e-9, "unset params keep their defaults")
}

func TestShallowMergeYAML_EmptyAndCommentOnly(t *testing.T) {
	for name, content := range map[string]string{
		"empty":        "",
		"comment_only": "# nothing here\n",
	} {
		t.Run(name, func(t *testing.T) {
			target := newCustomTarget()
			require.NoError(t, config.ShallowMergeYAML(target, writeOverlay(t, content)))
			assert.Equal(t, newCustomTarget(), target)
		})
	}
}

func TestShallowMergeYAML_UnknownKeysIgnored(t *testing.T) {
	target := newCustomTarget()
	overlay := writeOverlay(t, `
cost:
  cache: true
wizard:
  title: Batch Unwrap
`)

	require.NoError(t, config.ShallowMergeYAML(target, overlay))
	assert.Equal(t, "Batch Unwrap", target.Wizard.Title)
	assert.Equal(t, config.DefaultCreateButton, target.Wizard.CreateButton)
}

func TestShallowMergeYAML_Errors(t *testing.T) {
	t.Run("corrupted", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), writeOverlay(t, "logging: [unclosed"))
		require.Error(t, err)
	})
	t.Run("missing file", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
	t.Run("nil target", func(t *testing.T) {
		err := config.ShallowMergeYAML(nil, writeOverlay(t, "logging: {}"))
		require.Error(t, err)
	})
	t.Run("wrong section type", func(t *testing.T) {
		err := config.ShallowMergeYAML(config.Default(), writeOverlay(t, "unwrap: 12\n"))
		require.Error(t, err)
	})
}
