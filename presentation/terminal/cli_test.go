package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/application/plugins"
	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
	"ui_automation/infrastructure/browser/browsertest"
	"ui_automation/infrastructure/config"
)

const formHTML = `<html><head><title>Form</title></head><body>
<input id="name">
<button id="save">Save</button>
</body></html>`

type stubSession struct{ driver *browsertest.Driver }

func (s *stubSession) Driver() interfaces.Driver { return s.driver }

func (s *stubSession) NewPage(context.Context) (interfaces.Driver, error) {
	s.driver = browsertest.New("").Route("/form", formHTML)
	s.driver.OnClick("#save", func(d *browsertest.Driver) { d.SetURL("https://app.test/saved") })
	return s.driver, nil
}

func (s *stubSession) State(context.Context) (*entities.SessionState, error) {
	return &entities.SessionState{}, nil
}

func (s *stubSession) Close() error { return nil }

type stubLauncher struct{ opts *entities.LaunchOptions }

func (l *stubLauncher) Launch(_ context.Context, opts *entities.LaunchOptions) (interfaces.Session, error) {
	copied := *opts
	l.opts = &copied
	return &stubSession{}, nil
}

func workspace(t *testing.T, scenarios map[string]string) (dir, cfgFile string) {
	t.Helper()
	dir = t.TempDir()
	t.Chdir(dir)
	cfgFile = filepath.Join(dir, "uitest.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
base_url: https://app.test
timeouts:
  attach: 100ms
  poll_interval: 5ms
  settle_delay: 1ms
  assert: 100ms
  idle: 10ms
retry:
  interval: 5ms
  timeout: 20ms
state:
  path: `+filepath.Join(dir, "state.json")+`
`), 0o644))
	for rel, content := range scenarios {
		path := filepath.Join(dir, "scenarios", rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir, cfgFile
}

func execute(t *testing.T, launcher *stubLauncher, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand(func(*logrus.Logger) interfaces.Launcher { return launcher })
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

const saveScenario = `name: save form
url_pattern: /saved$
steps:
  - type: open
    url: /form
  - type: fill_verified
    name: Name
    locator: "#name"
    text: Ada
  - type: click
    locator: "#save"
  - type: assert_url
`

func TestRunCommand(t *testing.T) {
	dir, cfgFile := workspace(t, map[string]string{"save.yaml": saveScenario})
	launcher := &stubLauncher{}

	out, err := execute(t, launcher, "run", "--config", cfgFile, "--dir", dir, "--browser", "firefox")
	require.NoError(t, err)
	assert.Contains(t, out, "passed")
	assert.Contains(t, out, "save form")
	assert.Contains(t, out, "1 passed, 0 failed")

	require.NotNil(t, launcher.opts)
	assert.Equal(t, entities.BrowserFirefox, launcher.opts.Browser)
	assert.Equal(t, "https://app.test", launcher.opts.BaseURL)
	assert.NotContains(t, launcher.opts.Args, plugins.DisableSHMArg, "only chromium gets the flag")
	assert.FileExists(t, filepath.Join(dir, "state.json"))
}

func TestRunCommandReportsFailures(t *testing.T) {
	failing := `name: missing
steps:
  - type: open
    url: /form
  - type: assert_visible
    locator: "#nope"
`
	dir, cfgFile := workspace(t, map[string]string{"save.yaml": saveScenario, "missing.yaml": failing})
	launcher := &stubLauncher{}

	out, err := execute(t, launcher, "run", "--config", cfgFile, "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 scenarios failed")
	assert.Contains(t, out, "1 passed, 1 failed")
	assert.Contains(t, launcher.opts.Args, plugins.DisableSHMArg)
}

func TestRunReportHidesSecrets(t *testing.T) {
	secret := `name: wrong password
steps:
  - type: open
    url: /form
  - type: type
    name: Password
    locator: "#name"
    text: s3cr3t
  - type: assert_value
    name: Password
    locator: "#name"
    text: other
`
	dir, cfgFile := workspace(t, map[string]string{"secret.yaml": secret})

	out, err := execute(t, &stubLauncher{}, "run", "--config", cfgFile, "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "wrong password")
	assert.Contains(t, out, "0 passed, 1 failed")
	assert.NotContains(t, out, "s3cr3t")
}

func TestFailingRunReleasesLogFile(t *testing.T) {
	dir, cfgFile := workspace(t, nil)
	logFile := filepath.Join(dir, "logs", "uitest.log")
	t.Setenv("UITEST_LOG_FILE", logFile)
	t.Setenv("UITEST_LOG_LEVEL", "debug")

	app := &App{newLauncher: func(*logrus.Logger) interfaces.Launcher { return &stubLauncher{} }}
	cmd := newRootCommand(app)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--config", cfgFile, "--dir", dir})

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios match")
	assert.Nil(t, app.closer, "the log file is closed even though run failed")
	assert.FileExists(t, logFile)
}

func TestRunWithoutScenarios(t *testing.T) {
	dir, cfgFile := workspace(t, nil)
	_, err := execute(t, &stubLauncher{}, "run", "--config", cfgFile, "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios match")
}

func TestListCommand(t *testing.T) {
	dir, cfgFile := workspace(t, map[string]string{"save.yaml": saveScenario, "nested/other.yaml": saveScenario})
	out, err := execute(t, &stubLauncher{}, "list", "--config", cfgFile, "--dir", dir, "scenarios/*.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "save form (4 steps)")
	assert.NotContains(t, out, "other.yaml")
}

func TestInvalidConfigFails(t *testing.T) {
	dir, _ := workspace(t, nil)
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("browser:\n  name: netscape\n"), 0o644))
	_, err := execute(t, &stubLauncher{}, "list", "--config", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browser.name")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, &stubLauncher{}, "version", "--config", "/does/not/exist.yaml")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestRunConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	rc := RunConfig(cfg)
	assert.Equal(t, cfg.Timeouts.Attach, rc.Timing.AttachTimeout)
	assert.Equal(t, cfg.Timeouts.Idle, rc.IdleTimeout)
	assert.Equal(t, cfg.Retry.Reload, rc.Retry.Reload)
	assert.Equal(t, cfg.Browser.Viewport, rc.Launch.Viewport)
}
