package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/domain/entities"
)

func load(t *testing.T, cfgFile string) (*Config, error) {
	t.Helper()
	v := viper.New()
	require.NoError(t, Configure(v, cfgFile))
	return NewConfigFromViper(v)
}

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, entities.BrowserChromium, cfg.Browser.Name)
	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Browser.DisableSHM)
	assert.Equal(t, entities.Viewport{Width: 1280, Height: 1000}, cfg.Browser.Viewport)
	assert.Equal(t, time.Second, cfg.Timeouts.Attach)
	assert.Equal(t, 10*time.Millisecond, cfg.Timeouts.PollInterval)
	assert.Equal(t, 9*time.Second, cfg.Timeouts.Idle)
	assert.Equal(t, time.Second, cfg.Retry.Interval)
	assert.Equal(t, 5*time.Second, cfg.Retry.Timeout)
	assert.True(t, cfg.Retry.Reload)
	assert.Equal(t, []string{"scenarios/**/*.yaml"}, cfg.Specs.Pattern)
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uitest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
base_url: https://staging.app.test
browser:
  name: firefox
  headless: false
  args: ["--lang=de"]
timeouts:
  assert: 2s
retry:
  reload: false
specs:
  pattern: ["e2e/*.yaml"]
`), 0o644))

	cfg, err := load(t, path)
	require.NoError(t, err)
	assert.Equal(t, "https://staging.app.test", cfg.BaseURL)
	assert.Equal(t, entities.BrowserFirefox, cfg.Browser.Name)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, []string{"--lang=de"}, cfg.Browser.Args)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Assert)
	assert.Equal(t, 4*time.Second, NewDefaultConfig().Timeouts.Assert)
	assert.False(t, cfg.Retry.Reload)
	assert.Equal(t, []string{"e2e/*.yaml"}, cfg.Specs.Pattern)
}

func TestMissingExplicitFileFails(t *testing.T) {
	v := viper.New()
	assert.Error(t, Configure(v, filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("UITEST_BROWSER_NAME", "webkit")
	t.Setenv("UITEST_TIMEOUTS_IDLE", "3s")
	t.Setenv("BASE_URL", "https://env.app.test")

	t.Chdir(t.TempDir())
	cfg, err := load(t, "")
	require.NoError(t, err)
	assert.Equal(t, entities.BrowserWebKit, cfg.Browser.Name)
	assert.Equal(t, 3*time.Second, cfg.Timeouts.Idle)
	assert.Equal(t, "https://env.app.test", cfg.BaseURL)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("UITEST_LOADENV_PROBE=from-dotenv\n"), 0o600))
	t.Setenv("UITEST_LOADENV_PROBE", "")
	os.Unsetenv("UITEST_LOADENV_PROBE")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("UITEST_LOADENV_PROBE"))

	assert.NoError(t, LoadEnv(filepath.Join(dir, "missing.env")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"unknown browser", func(c *Config) { c.Browser.Name = "netscape" }, "browser.name"},
		{"zero viewport", func(c *Config) { c.Browser.Viewport.Width = 0 }, "browser.viewport"},
		{"zero assert timeout", func(c *Config) { c.Timeouts.Assert = 0 }, "timeouts.assert"},
		{"interval above timeout", func(c *Config) { c.Retry.Interval = time.Minute }, "retry.interval"},
		{"no spec pattern", func(c *Config) { c.Specs.Pattern = nil }, "specs.pattern"},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
