package runner_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/application/element"
	"ui_automation/application/page"
	"ui_automation/application/plugins"
	"ui_automation/application/runner"
	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
	"ui_automation/infrastructure/browser/browsertest"
	"ui_automation/infrastructure/logging"
	"ui_automation/infrastructure/security"
	"ui_automation/infrastructure/storage"
)

const loginHTML = `<html><head><title>Sign in</title></head><body>
	<h1>Sign in</h1>
	<input id="email">
	<input id="password" type="password">
	<input id="remember" type="checkbox">
	<select id="lang"><option value="en">English</option><option value="de">Deutsch</option></select>
	<button id="submit">Log in</button>
</body></html>`

type fakeSession struct {
	launcher *fakeLauncher
	current  *browsertest.Driver
	closed   bool
}

func (s *fakeSession) Driver() interfaces.Driver { return s.current }

func (s *fakeSession) NewPage(context.Context) (interfaces.Driver, error) {
	s.current = s.launcher.newDriver()
	s.launcher.pages = append(s.launcher.pages, s.current)
	return s.current, nil
}

func (s *fakeSession) State(context.Context) (*entities.SessionState, error) {
	state := &entities.SessionState{}
	if s.current == nil {
		return state, nil
	}
	for _, c := range s.current.Cookies() {
		state.Cookies = append(state.Cookies, entities.StoredCookie{Name: c.Name, Value: c.Value})
	}
	return state, nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeLauncher struct {
	launched *entities.LaunchOptions
	session  *fakeSession
	pages    []*browsertest.Driver
	err      error
}

func (l *fakeLauncher) newDriver() *browsertest.Driver {
	d := browsertest.New("")
	d.Route("/login", loginHTML)
	d.Route("/home", `<html><head><title>Home</title></head><body><p id="hello">Hello Ada</p></body></html>`)
	d.OnClick("#submit", func(d *browsertest.Driver) { d.SetURL("https://app.test/home") })
	return d
}

func (l *fakeLauncher) Launch(_ context.Context, opts *entities.LaunchOptions) (interfaces.Session, error) {
	if l.err != nil {
		return nil, l.err
	}
	copied := *opts
	l.launched = &copied
	l.session = &fakeSession{launcher: l}
	return l.session, nil
}

func newRunner(t *testing.T, launcher *fakeLauncher) (*runner.Runner, *logrus.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, _, err := logging.NewLogger(logging.Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	redactor := security.NewSecurityLayer()
	logger.AddHook(redactor)

	cfg := runner.Config{
		Launch: entities.LaunchOptions{Browser: entities.BrowserChromium, Headless: true, BaseURL: "https://app.test"},
		Timing: element.Timing{
			AttachTimeout: 100 * time.Millisecond,
			PollInterval:  5 * time.Millisecond,
			SettleDelay:   time.Millisecond,
			AssertTimeout: 100 * time.Millisecond,
		},
		IdleTimeout: 10 * time.Millisecond,
		Retry:       page.RetryPolicy{Interval: 5 * time.Millisecond, Timeout: 20 * time.Millisecond, Reload: true},
	}
	return runner.NewRunner(launcher, cfg, logger, logging.NewFactory(logger), redactor), logger, &buf
}

func loginScenario() entities.Scenario {
	return entities.Scenario{
		Name:       "login",
		URLPattern: `/home$`,
		Steps: []entities.Step{
			{Type: entities.StepOpen, URL: "/login"},
			{Type: entities.StepTypeText, Name: "Email", Locator: "#email", Text: "ada@example.com"},
			{Type: entities.StepFillVerified, Name: "Password", Locator: "#password", Text: "s3cr3t"},
			{Type: entities.StepAssertValue, Name: "Email", Locator: "#email", Text: "ada@example.com"},
			{Type: entities.StepCheck, Name: "Remember me", Locator: "#remember"},
			{Type: entities.StepSelect, Name: "Language", Locator: "#lang", Text: "Deutsch"},
			{Type: entities.StepClick, Name: "Log in", Locator: "#submit"},
			{Type: entities.StepAssertURL},
			{Type: entities.StepSettle},
		},
	}
}

func TestRunScenario(t *testing.T) {
	launcher := &fakeLauncher{}
	r, _, buf := newRunner(t, launcher)

	report, err := r.Run(context.Background(), []runner.Spec{runner.ScenarioSpec(loginScenario())})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	res := report.Results[0]
	assert.Equal(t, entities.RunStatusPassed, res.Status, res.Error)
	assert.Equal(t, 0, report.Failed())
	assert.NotEmpty(t, report.RunID)

	assert.True(t, launcher.session.closed)
	assert.NotContains(t, buf.String(), "s3cr3t")
	assert.Contains(t, buf.String(), "run_id="+report.RunID)
}

func TestFailingSpecIsReportedWithSnapshot(t *testing.T) {
	launcher := &fakeLauncher{}
	r, _, _ := newRunner(t, launcher)

	broken := entities.Scenario{
		Name: "missing banner",
		Steps: []entities.Step{
			{Type: entities.StepOpen, URL: "/login"},
			{Type: entities.StepAssertVisible, Name: "Banner", Locator: "#banner"},
		},
	}
	panics := runner.Spec{Name: "panics", Run: func(context.Context, *page.Page) error { panic("oops") }}
	ok := runner.Spec{Name: "passes", Run: func(ctx context.Context, p *page.Page) error {
		return p.Open(ctx, "/home")
	}}

	report, err := r.Run(context.Background(), []runner.Spec{runner.ScenarioSpec(broken), panics, ok})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	assert.Equal(t, 2, report.Failed())

	failed := report.Results[0]
	assert.Equal(t, entities.RunStatusFailed, failed.Status)
	assert.Contains(t, failed.Error, "Banner")
	require.NotNil(t, failed.Snapshot)
	assert.Equal(t, "https://app.test/login", failed.Snapshot.URL)
	assert.Equal(t, "Sign in", failed.Snapshot.Title)

	assert.Contains(t, report.Results[1].Error, "oops")
	assert.Equal(t, entities.RunStatusPassed, report.Results[2].Status)
	assert.Len(t, launcher.pages, 3, "every spec gets a fresh page")
}

func TestSecureValueMismatchStaysMasked(t *testing.T) {
	r, _, buf := newRunner(t, &fakeLauncher{})
	sc := entities.Scenario{
		Name: "wrong password",
		Steps: []entities.Step{
			{Type: entities.StepOpen, URL: "/login"},
			{Type: entities.StepTypeText, Name: "Password", Locator: "#password", Text: "s3cr3t"},
			{Type: entities.StepAssertValue, Name: "Password", Locator: "#password", Text: "other"},
		},
	}

	report, err := r.Run(context.Background(), []runner.Spec{runner.ScenarioSpec(sc)})
	require.NoError(t, err)
	res := report.Results[0]
	assert.Equal(t, entities.RunStatusFailed, res.Status)
	assert.Contains(t, res.Error, "Password")
	assert.NotContains(t, res.Error, "s3cr3t")
	assert.NotContains(t, res.Error, "other")
	assert.NotContains(t, buf.String(), "s3cr3t")
}

func TestUnknownStepFails(t *testing.T) {
	r, _, _ := newRunner(t, &fakeLauncher{})
	sc := entities.Scenario{Name: "bad", Steps: []entities.Step{{Type: "dance", Locator: "#x"}}}

	report, err := r.Run(context.Background(), []runner.Spec{runner.ScenarioSpec(sc)})
	require.NoError(t, err)
	assert.Contains(t, report.Results[0].Error, "unknown step type: dance")
}

func TestPluginsCustomizeLaunch(t *testing.T) {
	launcher := &fakeLauncher{}
	r, logger, _ := newRunner(t, launcher)
	store := storage.NewBrowserState(filepath.Join(t.TempDir(), "state.json"))

	plugins.InitPlugins(r.On, logger, plugins.DisableSHM(), plugins.SessionState(store, logger))

	spec := runner.Spec{Name: "cookie", Run: func(ctx context.Context, p *page.Page) error {
		return p.OpenWithCookie(ctx, "/home", "sid", "42")
	}}
	_, err := r.Run(context.Background(), []runner.Spec{spec})
	require.NoError(t, err)

	require.NotNil(t, launcher.launched)
	assert.Contains(t, launcher.launched.Args, plugins.DisableSHMArg)
	assert.Nil(t, launcher.launched.State)

	saved, err := store.LoadState()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "sid", saved.Cookies[0].Name)

	_, err = r.Run(context.Background(), []runner.Spec{spec})
	require.NoError(t, err)
	require.NotNil(t, launcher.launched.State, "second run restores the saved session")
}

func TestOnKeepsOnlyTheLastHook(t *testing.T) {
	r, _, _ := newRunner(t, &fakeLauncher{})
	var fired []string
	r.On(plugins.EventBeforeRun, func(context.Context, any) error { fired = append(fired, "first"); return nil })
	r.On(plugins.EventBeforeRun, func(context.Context, any) error { fired = append(fired, "second"); return nil })

	_, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, fired)
}

func TestFailingBeforeHookAbortsRun(t *testing.T) {
	launcher := &fakeLauncher{}
	r, logger, _ := newRunner(t, launcher)
	errBroken := errors.New("no browser for you")
	plugins.InitPlugins(r.On, logger, func(on plugins.On) {
		on(plugins.EventBeforeBrowserLaunch, func(context.Context, any) error { return errBroken })
	})

	_, err := r.Run(context.Background(), []runner.Spec{runner.ScenarioSpec(loginScenario())})
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrPluginSetup))
	assert.True(t, errors.Is(err, errBroken))
	assert.Nil(t, launcher.session, "browser never launched")
}

func TestLaunchFailure(t *testing.T) {
	r, _, _ := newRunner(t, &fakeLauncher{err: errors.New("no display")})
	_, err := r.Run(context.Background(), nil)
	assert.ErrorContains(t, err, "no display")
}
