package page_test

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/application/element"
	"ui_automation/application/page"
	"ui_automation/domain/entities"
	"ui_automation/infrastructure/browser/browsertest"
	"ui_automation/infrastructure/logging"
	"ui_automation/infrastructure/security"
)

const baseURL = "https://app.test"

const loginHTML = `<html><head><title>Login</title></head><body>
	<h1>Sign in</h1>
	<input id="email" name="email">
	<input id="password" name="password" type="password">
	<div id="notes" contenteditable="true"></div>
	<div id="banner">Welcome</div>
	<input id="remember" type="checkbox">
	<div id="dark" role="switch" aria-checked="false">Dark mode</div>
</body></html>`

func fastPolicy() page.RetryPolicy {
	return page.RetryPolicy{Interval: 10 * time.Millisecond, Timeout: 50 * time.Millisecond, Reload: true}
}

func newPage(t *testing.T, opts ...page.Option) (*page.Page, *browsertest.Driver, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, _, err := logging.NewLogger(logging.Options{Level: "debug", Output: &buf})
	require.NoError(t, err)
	redactor := security.NewSecurityLayer()
	logger.AddHook(redactor)

	driver := browsertest.New("")
	driver.Route("/login", loginHTML)
	driver.Route("/dashboard", `<html><head><title>Home</title></head><body><p>Hello Ada</p></body></html>`)

	env := &element.Env{
		Driver:   driver,
		Logs:     logging.NewFactory(logger),
		Redactor: redactor,
		Timing: element.Timing{
			AttachTimeout: 200 * time.Millisecond,
			PollInterval:  5 * time.Millisecond,
			SettleDelay:   time.Millisecond,
			AssertTimeout: 200 * time.Millisecond,
		},
	}
	opts = append([]page.Option{
		page.WithBaseURL(baseURL),
		page.WithIdleTimeout(20 * time.Millisecond),
		page.WithRetryPolicy(fastPolicy()),
	}, opts...)
	return page.New(env, "Login page", opts...), driver, &buf
}

func TestOpenAndVerifyURL(t *testing.T) {
	ctx := context.Background()
	p, driver, buf := newPage(t, page.WithURLPattern(regexp.MustCompile(`/login$`)))

	require.NoError(t, p.Open(ctx, "/login"))
	assert.Equal(t, []string{baseURL + "/login"}, driver.Visits())
	assert.Contains(t, buf.String(), "Opening [https://app.test/login]")

	require.NoError(t, p.VerifyURLMatches(ctx, nil))

	err := p.VerifyURLMatches(ctx, regexp.MustCompile(`/dashboard`))
	var aErr *entities.AssertionError
	require.True(t, errors.As(err, &aErr))
	assert.Equal(t, "Login page", aErr.Entity)
	assert.Equal(t, baseURL+"/login", aErr.Actual)
}

func TestVerifyURLWithoutPattern(t *testing.T) {
	p, _, _ := newPage(t)
	assert.Error(t, p.VerifyURLMatches(context.Background(), nil))
}

func TestVerifyURLFollowsClientSideRouting(t *testing.T) {
	ctx := context.Background()
	p, driver, _ := newPage(t)
	require.NoError(t, p.Open(ctx, "/login"))

	go func() {
		time.Sleep(30 * time.Millisecond)
		driver.SetURL(baseURL + "/dashboard")
	}()
	assert.NoError(t, p.VerifyURLMatches(ctx, regexp.MustCompile(`/dashboard$`)))
}

func TestResolveURL(t *testing.T) {
	p, _, _ := newPage(t)

	u, err := p.ResolveURL("/login?next=%2Fhome")
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/login?next=%2Fhome", u)

	u, err = p.ResolveURL("https://other.test/x")
	require.NoError(t, err)
	assert.Equal(t, "https://other.test/x", u)

	u, err = p.ResolveURL("")
	require.NoError(t, err)
	assert.Equal(t, baseURL+"/", u)
}

func TestSettleDownOnlyWarnsOnTimeout(t *testing.T) {
	ctx := context.Background()
	p, driver, buf := newPage(t)
	driver.SetBusy(true)

	start := time.Now()
	require.NoError(t, p.SettleDown(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
	assert.Contains(t, buf.String(), "timed out")
}

func TestCookies(t *testing.T) {
	ctx := context.Background()
	p, driver, _ := newPage(t)

	require.NoError(t, p.OpenWithCookie(ctx, "/dashboard", "session", "abc"))
	require.Len(t, driver.Cookies(), 1)
	c := driver.Cookies()[0]
	assert.Equal(t, "session", c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, baseURL+"/dashboard", c.URL)
	assert.Equal(t, []string{baseURL + "/dashboard"}, driver.Visits())

	require.NoError(t, p.SetCookie(ctx, "theme", "dark"))
	assert.Equal(t, baseURL+"/dashboard", driver.Cookies()[1].URL)
}

func TestSetCookieBeforeOpenUsesBaseURL(t *testing.T) {
	p, driver, _ := newPage(t)
	require.NoError(t, p.SetCookie(context.Background(), "theme", "dark"))
	assert.Equal(t, baseURL, driver.Cookies()[0].URL)
}

func TestFillVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("does not reload when the first write lands", func(t *testing.T) {
		p, driver, _ := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		email := element.NewTextInput(p.Env(), "Email", "#email")

		require.NoError(t, p.FillFieldVerified(ctx, email, "ada@example.com"))
		assert.Equal(t, 0, driver.Reloads())
		require.NoError(t, email.AssertHasValue(ctx, "ada@example.com"))
	})

	t.Run("reloads and writes again until the text lands", func(t *testing.T) {
		p, driver, _ := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		email := element.NewTextInput(p.Env(), "Email", "#email")
		driver.DropKeystrokes(2)

		start := time.Now()
		require.NoError(t, p.FillFieldVerified(ctx, email, "ada@example.com"))
		assert.Equal(t, 2, driver.Reloads())
		assert.Len(t, driver.Typed(), 3)
		assert.GreaterOrEqual(t, time.Since(start), 2*fastPolicy().Interval, "every retry waits an interval, the first one too")
	})

	t.Run("gives up with a verification error", func(t *testing.T) {
		p, driver, _ := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		email := element.NewTextInput(p.Env(), "Email", "#email")
		driver.DropKeystrokes(100)

		err := p.FillFieldVerified(ctx, email, "hello world")
		require.Error(t, err)
		assert.True(t, errors.Is(err, entities.ErrVerificationExhausted))

		var vErr *entities.VerificationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, "Email", vErr.Entity)
		assert.Equal(t, 6, vErr.Attempts)
		assert.Equal(t, `"hello world"`, vErr.Expected)
		assert.Equal(t, `"hello"`, vErr.Actual)
		assert.Equal(t, 5, driver.Reloads())
	})

	t.Run("writes again without reloading when reload is off", func(t *testing.T) {
		policy := fastPolicy()
		policy.Reload = false
		p, driver, _ := newPage(t, page.WithRetryPolicy(policy))
		require.NoError(t, p.Open(ctx, "/login"))
		email := element.NewTextInput(p.Env(), "Email", "#email")
		driver.DropKeystrokes(1)

		require.NoError(t, p.FillFieldVerified(ctx, email, "ada@example.com"))
		assert.Equal(t, 0, driver.Reloads())
	})

	t.Run("never logs a secret", func(t *testing.T) {
		p, driver, buf := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		password := element.NewSecureTextInput(p.Env(), "Password", "#password")
		driver.DropKeystrokes(100)

		err := p.FillFieldVerified(ctx, password, "correct-horse-battery")
		var vErr *entities.VerificationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, entities.MaskedValue, vErr.Expected)
		assert.Equal(t, entities.MaskedValue, vErr.Actual)
		assert.NotContains(t, err.Error(), "correct-horse")
		assert.NotContains(t, buf.String(), "correct-horse")
		assert.Contains(t, buf.String(), entities.MaskedValue)
	})
}

func TestRetryPolicyAttempts(t *testing.T) {
	assert.Equal(t, 5, page.DefaultRetryPolicy().Attempts())
	assert.Equal(t, 1, page.RetryPolicy{Interval: time.Second, Timeout: 10 * time.Millisecond}.Attempts())
	assert.Equal(t, 1, page.RetryPolicy{}.Attempts())
}

func TestClearVerified(t *testing.T) {
	ctx := context.Background()

	t.Run("clears an input", func(t *testing.T) {
		p, _, _ := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		email := element.NewTextInput(p.Env(), "Email", "#email")
		require.NoError(t, p.FillField(ctx, email, "ada@example.com"))

		require.NoError(t, p.ClearFieldVerified(ctx, email))
		require.NoError(t, p.VerifyTextBoxIsEmpty(ctx, email))
	})

	t.Run("fails on text that cannot be cleared without reloading", func(t *testing.T) {
		p, driver, _ := newPage(t)
		require.NoError(t, p.Open(ctx, "/login"))
		banner := element.NewTextInput(p.Env(), "Banner", "#banner")

		_, err := p.Writer().ClearVerified(ctx, banner)
		var vErr *entities.VerificationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, `"Welcome"`, vErr.Actual)
		assert.Equal(t, 0, driver.Reloads())
	})
}

func TestLoggedActions(t *testing.T) {
	ctx := context.Background()
	p, _, buf := newPage(t)
	require.NoError(t, p.Open(ctx, "/login"))
	env := p.Env()

	remember := element.NewCheckbox(env, "Remember me", "#remember")
	dark := element.NewSwitch(env, "Dark mode", "#dark")
	banner := element.New(env, "Banner", "#banner")

	require.NoError(t, p.Tick(ctx, remember))
	require.NoError(t, p.VerifyIsChecked(ctx, remember))
	require.NoError(t, p.Untick(ctx, remember))
	require.NoError(t, p.VerifyIsNotChecked(ctx, remember))

	require.NoError(t, p.SlideToggle(ctx, dark))
	require.NoError(t, p.VerifyToggleSetToTrue(ctx, dark))

	require.NoError(t, p.VerifyElementExists(ctx, banner))
	require.NoError(t, p.VerifyElementIsVisible(ctx, banner))
	require.NoError(t, p.VerifyElementHasText(ctx, banner, "Welcome"))
	require.NoError(t, p.VerifyElementTextIsVisible(ctx, banner, "welcome", entities.TextMatch{IgnoreCase: true}))
	require.NoError(t, p.VerifyPageContainsText(ctx, "Sign in"))
	require.NoError(t, p.VerifyPageNotContainsText(ctx, "Sign out"))

	out := buf.String()
	assert.Contains(t, out, "[STEP]")
	assert.Contains(t, out, "Tick the Remember me")
	assert.Contains(t, out, "Sliding [Dark mode] toggle")
	assert.Contains(t, out, "Verifying if the [Banner] has text [Welcome]")
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	p, _, _ := newPage(t)
	require.NoError(t, p.Open(ctx, "/dashboard"))

	snap := p.Snapshot(ctx)
	assert.Equal(t, baseURL+"/dashboard", snap.URL)
	assert.Equal(t, "Home", snap.Title)
}
