// Package page implements page objects: navigation, cookies, URL checks, the
// settle barrier and verified writes into flaky fields.
package page

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"ui_automation/application/element"
	"ui_automation/domain/entities"
)

// DefaultIdleTimeout bounds SettleDown.
const DefaultIdleTimeout = 9 * time.Second

// Page is a page of the application under test. It holds element references
// but no element state.
type Page struct {
	element.Entity
	env         *element.Env
	pattern     *regexp.Regexp
	baseURL     string
	idleTimeout time.Duration
	retry       RetryPolicy
	body        *element.Element
}

// Option customizes a page at construction.
type Option func(*Page)

// WithURLPattern sets the pattern VerifyURLMatches uses by default.
func WithURLPattern(re *regexp.Regexp) Option {
	return func(p *Page) { p.pattern = re }
}

// WithBaseURL resolves relative URLs passed to Open against base.
func WithBaseURL(base string) Option {
	return func(p *Page) { p.baseURL = base }
}

// WithIdleTimeout changes how long SettleDown waits for the page to go idle.
// Zero keeps the default.
func WithIdleTimeout(d time.Duration) Option {
	return func(p *Page) {
		if d > 0 {
			p.idleTimeout = d
		}
	}
}

// WithRetryPolicy changes the policy of verified writes. A policy without an
// interval keeps the default.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(p *Page) {
		if policy.Interval > 0 {
			p.retry = policy
		}
	}
}

// New creates a page named name.
func New(env *element.Env, name string, opts ...Option) *Page {
	p := &Page{
		Entity:      element.NewEntity(name, env.Logs),
		env:         env,
		idleTimeout: DefaultIdleTimeout,
		retry:       DefaultRetryPolicy(),
		body:        element.New(env, "Body", "body"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Env returns the environment elements of this page should be created in.
func (p *Page) Env() *element.Env { return p.env }

// Pattern returns the page URL pattern, nil when none was set.
func (p *Page) Pattern() *regexp.Regexp { return p.pattern }

// Body returns the document body.
func (p *Page) Body() *element.Element { return p.body }

// Writer returns a verified writer using the page retry policy.
func (p *Page) Writer() *RetryableWriter { return NewRetryableWriter(p, p.retry) }

// ResolveURL resolves target against the base URL.
func (p *Page) ResolveURL(target string) (string, error) {
	if target == "" {
		target = "/"
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", target, err)
	}
	if u.IsAbs() || p.baseURL == "" {
		return target, nil
	}
	base, err := url.Parse(p.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", p.baseURL, err)
	}
	return base.ResolveReference(u).String(), nil
}

// Open navigates to target and waits until the document is loaded.
func (p *Page) Open(ctx context.Context, target string) error {
	u, err := p.ResolveURL(target)
	if err != nil {
		return fmt.Errorf("[%s] open: %w", p.Name(), err)
	}
	p.Logger().Stepf("Opening [%s]", u)
	if err := p.env.Driver.Goto(ctx, u); err != nil {
		return fmt.Errorf("[%s] open %s: %w", p.Name(), u, err)
	}
	return nil
}

// OpenWithCookie sets a cookie for target, then opens it.
func (p *Page) OpenWithCookie(ctx context.Context, target, name, value string) error {
	u, err := p.ResolveURL(target)
	if err != nil {
		return fmt.Errorf("[%s] open: %w", p.Name(), err)
	}
	if err := p.setCookie(ctx, u, name, value); err != nil {
		return err
	}
	return p.Open(ctx, u)
}

// SetCookie sets a cookie for the current page, or for the base URL before
// anything was opened.
func (p *Page) SetCookie(ctx context.Context, name, value string) error {
	scope := p.env.Driver.URL()
	if !strings.HasPrefix(scope, "http") {
		scope = p.baseURL
	}
	return p.setCookie(ctx, scope, name, value)
}

func (p *Page) setCookie(ctx context.Context, scope, name, value string) error {
	p.Logger().Debugf("setting cookie %s for %s", name, scope)
	if err := p.env.Driver.SetCookie(ctx, entities.Cookie{Name: name, Value: value, URL: scope}); err != nil {
		return fmt.Errorf("[%s] set cookie %s: %w", p.Name(), name, err)
	}
	return nil
}

// Reload reloads the current page.
func (p *Page) Reload(ctx context.Context) error {
	p.Logger().Debugf("reloading")
	if err := p.env.Driver.Reload(ctx); err != nil {
		return fmt.Errorf("[%s] reload: %w", p.Name(), err)
	}
	return nil
}

// VerifyURLMatches waits until the current URL matches pattern, or the page
// pattern when pattern is nil, then settles the page.
func (p *Page) VerifyURLMatches(ctx context.Context, pattern *regexp.Regexp) error {
	if pattern == nil {
		pattern = p.pattern
	}
	if pattern == nil {
		return fmt.Errorf("[%s] verify url: page has no url pattern", p.Name())
	}
	p.Logger().Stepf("[%s]: Checking if current url [%s] matches [%s]", p.Name(), p.env.Driver.URL(), pattern)

	var current string
	err := element.Eventually(ctx, p.env.Timing.AssertTimeout, p.env.Timing.PollInterval, func(context.Context) error {
		current = p.env.Driver.URL()
		if !pattern.MatchString(current) {
			return entities.ErrAssertion
		}
		return nil
	})
	if err != nil {
		return &entities.AssertionError{Entity: p.Name(), Action: "verify url", Expected: "url matching " + pattern.String(), Actual: current}
	}
	return p.SettleDown(ctx)
}

// SettleDown waits until the page reports it is idle, at most the idle
// timeout. Timing out only logs a warning.
func (p *Page) SettleDown(ctx context.Context) error {
	p.Logger().Debugf("Waiting for network requests to settle...")
	idle, err := p.env.Driver.WaitForIdle(ctx, p.idleTimeout)
	if err != nil {
		return fmt.Errorf("[%s] settle down: %w", p.Name(), err)
	}
	if !idle {
		p.Logger().Warnf("timed out (%s) waiting to settle down", p.idleTimeout)
	}
	return nil
}

// Focus moves focus to el by clicking it.
func (p *Page) Focus(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("[%s]: Moving focus to [%s]", p.Name(), el.Name())
	return el.Click(ctx)
}

// MoveFocusToBody clicks the page body.
func (p *Page) MoveFocusToBody(ctx context.Context) error {
	p.Logger().Stepf("[%s]: Moving focus to page body", p.Name())
	return p.body.Click(ctx)
}

// VerifyPageContainsText waits until the body contains text.
func (p *Page) VerifyPageContainsText(ctx context.Context, text string) error {
	p.Logger().Stepf("Verifying that page contains text [%s]", text)
	return p.body.AssertContainsText(ctx, text)
}

// VerifyPageNotContainsText waits until the body no longer contains text.
func (p *Page) VerifyPageNotContainsText(ctx context.Context, text string) error {
	p.Logger().Stepf("Verifying that page doesn't contain [%s]", text)
	return p.body.AssertNotContainsText(ctx, text)
}

// VerifyPageContainsRegexp waits until the body text matches re.
func (p *Page) VerifyPageContainsRegexp(ctx context.Context, re *regexp.Regexp) error {
	return p.body.AssertContainsRegexp(ctx, re)
}

// ScrollToElement scrolls el into view.
func (p *Page) ScrollToElement(ctx context.Context, el element.Variant) error {
	return el.ScrollIntoView(ctx)
}

// Wait pauses for d. Only for tests that have nothing else to wait on.
func (p *Page) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Snapshot records where the page is, for failure reports.
func (p *Page) Snapshot(ctx context.Context) entities.PageSnapshot {
	snap := entities.PageSnapshot{URL: p.env.Driver.URL()}
	if title, err := p.env.Driver.Title(ctx); err == nil {
		snap.Title = title
	}
	return snap
}
