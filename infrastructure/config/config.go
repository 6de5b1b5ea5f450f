// Package config loads run configuration from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"ui_automation/domain/entities"
)

// EnvPrefix prefixes every environment override, UITEST_BROWSER_NAME for
// browser.name.
const EnvPrefix = "UITEST"

// DefaultConfigName is looked up in the working directory when no config file
// is given.
const DefaultConfigName = "uitest"

var supportedBrowsers = mapset.NewSet(entities.BrowserChromium, entities.BrowserFirefox, entities.BrowserWebKit)

// Config is the whole run configuration.
type Config struct {
	BaseURL  string         `mapstructure:"base_url" yaml:"base_url"`
	Browser  BrowserConfig  `mapstructure:"browser" yaml:"browser"`
	Timeouts TimeoutsConfig `mapstructure:"timeouts" yaml:"timeouts"`
	Retry    RetryConfig    `mapstructure:"retry" yaml:"retry"`
	Specs    SpecsConfig    `mapstructure:"specs" yaml:"specs"`
	State    StateConfig    `mapstructure:"state" yaml:"state"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

type BrowserConfig struct {
	Name       string            `mapstructure:"name" yaml:"name"`
	Headless   bool              `mapstructure:"headless" yaml:"headless"`
	SlowMo     time.Duration     `mapstructure:"slow_mo" yaml:"slow_mo"`
	Args       []string          `mapstructure:"args" yaml:"args"`
	Viewport   entities.Viewport `mapstructure:"viewport" yaml:"viewport"`
	DisableSHM bool              `mapstructure:"disable_shm" yaml:"disable_shm"`
}

// TimeoutsConfig bounds every wait of a run.
type TimeoutsConfig struct {
	Command      time.Duration `mapstructure:"command" yaml:"command"`
	PageLoad     time.Duration `mapstructure:"page_load" yaml:"page_load"`
	Attach       time.Duration `mapstructure:"attach" yaml:"attach"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	SettleDelay  time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	Assert       time.Duration `mapstructure:"assert" yaml:"assert"`
	Idle         time.Duration `mapstructure:"idle" yaml:"idle"`
}

// RetryConfig is the policy of verified writes.
type RetryConfig struct {
	Interval time.Duration `mapstructure:"interval" yaml:"interval"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Reload   bool          `mapstructure:"reload" yaml:"reload"`
}

type SpecsConfig struct {
	Pattern []string `mapstructure:"pattern" yaml:"pattern"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

type StateConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path" yaml:"path"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days"`
}

// SetDefaults registers the default of every key. Keys without a default are
// not picked up from the environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "")

	v.SetDefault("browser.name", entities.BrowserChromium)
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", "0s")
	v.SetDefault("browser.args", []string{})
	v.SetDefault("browser.viewport.width", 1280)
	v.SetDefault("browser.viewport.height", 1000)
	v.SetDefault("browser.disable_shm", true)

	v.SetDefault("timeouts.command", "10s")
	v.SetDefault("timeouts.page_load", "15s")
	v.SetDefault("timeouts.attach", "1000ms")
	v.SetDefault("timeouts.poll_interval", "10ms")
	v.SetDefault("timeouts.settle_delay", "10ms")
	v.SetDefault("timeouts.assert", "4s")
	v.SetDefault("timeouts.idle", "9s")

	v.SetDefault("retry.interval", "1000ms")
	v.SetDefault("retry.timeout", "5000ms")
	v.SetDefault("retry.reload", true)

	v.SetDefault("specs.pattern", []string{"scenarios/**/*.yaml"})
	v.SetDefault("specs.exclude", []string{"scenarios/**/*.skip.yaml"})

	v.SetDefault("state.enabled", true)
	v.SetDefault("state.path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)
}

// LoadEnv loads .env files into the process environment. A missing file is
// not an error.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Configure points v at cfgFile, or at ./uitest.yaml when cfgFile is empty,
// and reads it. Only an explicitly named file has to exist.
func Configure(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("base_url", EnvPrefix+"_BASE_URL", "BASE_URL"); err != nil {
		return err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// NewConfigFromViper decodes and validates the configuration held by v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// NewDefaultConfig returns the configuration with every default applied.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if !supportedBrowsers.Contains(c.Browser.Name) {
		return fmt.Errorf("browser.name %q is not one of %v", c.Browser.Name, supportedBrowsers.ToSlice())
	}
	if c.Browser.Viewport.Width <= 0 || c.Browser.Viewport.Height <= 0 {
		return fmt.Errorf("browser.viewport must be positive, got %dx%d", c.Browser.Viewport.Width, c.Browser.Viewport.Height)
	}
	positive := map[string]time.Duration{
		"timeouts.command":       c.Timeouts.Command,
		"timeouts.page_load":     c.Timeouts.PageLoad,
		"timeouts.attach":        c.Timeouts.Attach,
		"timeouts.poll_interval": c.Timeouts.PollInterval,
		"timeouts.assert":        c.Timeouts.Assert,
		"timeouts.idle":          c.Timeouts.Idle,
		"retry.interval":         c.Retry.Interval,
		"retry.timeout":          c.Retry.Timeout,
	}
	for key, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	if c.Timeouts.SettleDelay < 0 {
		return fmt.Errorf("timeouts.settle_delay must not be negative")
	}
	if c.Retry.Interval > c.Retry.Timeout {
		return fmt.Errorf("retry.interval (%s) exceeds retry.timeout (%s)", c.Retry.Interval, c.Retry.Timeout)
	}
	if len(c.Specs.Pattern) == 0 {
		return fmt.Errorf("specs.pattern must list at least one pattern")
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}
