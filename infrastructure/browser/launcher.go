package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

type launcher struct {
	logger *logrus.Logger
}

// NewLauncher - creates a launcher starting playwright browsers
func NewLauncher(logger *logrus.Logger) interfaces.Launcher {
	return &launcher{logger: logger}
}

func browserType(pw *playwright.Playwright, name string) (playwright.BrowserType, error) {
	switch name {
	case "", entities.BrowserChromium:
		return pw.Chromium, nil
	case entities.BrowserFirefox:
		return pw.Firefox, nil
	case entities.BrowserWebKit:
		return pw.WebKit, nil
	default:
		return nil, fmt.Errorf("unsupported browser %q", name)
	}
}

// Launch - starts playwright and the browser, and opens a context restoring
// opts.State
func (l *launcher) Launch(ctx context.Context, opts *entities.LaunchOptions) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	bt, err := browserType(pw, opts.Browser)
	if err != nil {
		pw.Stop()
		return nil, err
	}

	l.logger.WithFields(logrus.Fields{
		"browser":  opts.Browser,
		"headless": opts.Headless,
		"args":     opts.Args,
	}).Info("launching browser")

	browser, err := bt.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		SlowMo:   millis(opts.SlowMo),
		Args:     opts.Args,
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if opts.Viewport.Width > 0 && opts.Viewport.Height > 0 {
		contextOptions.Viewport = &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height}
	}
	if opts.BaseURL != "" {
		contextOptions.BaseURL = playwright.String(opts.BaseURL)
	}
	if opts.State != nil {
		contextOptions.StorageState = toStorageState(opts.State)
	}

	bc, err := browser.NewContext(contextOptions)
	if err != nil {
		err = multierr.Append(fmt.Errorf("failed to create context: %w", err), browser.Close())
		pw.Stop()
		return nil, err
	}
	if opts.CommandTimeout > 0 {
		bc.SetDefaultTimeout(float64(opts.CommandTimeout.Milliseconds()))
	}

	s := &session{
		pw:       pw,
		browser:  browser,
		context:  bc,
		pageLoad: opts.PageLoad,
		logger:   l.logger,
	}
	if _, err := s.NewPage(ctx); err != nil {
		return nil, multierr.Append(err, s.Close())
	}
	return s, nil
}

type session struct {
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	page     playwright.Page
	driver   interfaces.Driver
	pageLoad time.Duration
	logger   *logrus.Logger
}

func (s *session) Driver() interfaces.Driver {
	return s.driver
}

// NewPage - closes the current page and opens a fresh one in the same
// context, keeping cookies and storage
func (s *session) NewPage(ctx context.Context) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	page, err := s.context.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			s.logger.WithError(err).Debug("failed to close previous page")
		}
	}
	s.page = page
	s.driver = NewPageController(page, s.pageLoad, s.logger)
	return s.driver, nil
}

// State - returns cookies and local storage of the context
func (s *session) State(ctx context.Context) (*entities.SessionState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state, err := s.context.StorageState()
	if err != nil {
		return nil, fmt.Errorf("failed to read browser state: %w", err)
	}
	return fromStorageState(state), nil
}

// Close - closes the context, the browser and playwright, reporting every
// failure
func (s *session) Close() error {
	var err error
	if s.context != nil {
		err = multierr.Append(err, s.context.Close())
		s.context = nil
	}
	if s.browser != nil {
		err = multierr.Append(err, s.browser.Close())
		s.browser = nil
	}
	if s.pw != nil {
		err = multierr.Append(err, s.pw.Stop())
		s.pw = nil
	}
	return err
}

var _ interfaces.Session = (*session)(nil)
