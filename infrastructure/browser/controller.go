// Package browser drives real browsers through playwright.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// idleScript resolves true once the page calls back from requestIdleCallback
// and false when timeout ms pass first.
const idleScript = `(timeout) => new Promise((resolve) => {
	if (typeof window.requestIdleCallback !== 'function') {
		setTimeout(() => resolve(true), 0);
		return;
	}
	window.requestIdleCallback((deadline) => resolve(!deadline.didTimeout), { timeout });
})`

type pageController struct {
	page     playwright.Page
	pageLoad time.Duration
	logger   *logrus.Entry
}

// NewPageController - wraps a playwright page as a Driver
func NewPageController(page playwright.Page, pageLoad time.Duration, logger *logrus.Logger) interfaces.Driver {
	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})
	return &pageController{
		page:     page,
		pageLoad: pageLoad,
		logger:   logger.WithField("component", "browser"),
	}
}

func millis(d time.Duration) *float64 {
	return playwright.Float(float64(d.Milliseconds()))
}

// Query - finds nodes matching selector in the document
func (c *pageController) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := c.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapHandles(handles), nil
}

// Goto - navigates and waits for the load event
func (c *pageController) Goto(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.logger.Debugf("navigating to %s", url)
	_, err := c.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   millis(c.pageLoad),
	})
	if err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Reload - reloads and waits for the load event
func (c *pageController) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.page.Reload(playwright.PageReloadOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
		Timeout:   millis(c.pageLoad),
	})
	if err != nil {
		return fmt.Errorf("failed to reload %s: %w", c.page.URL(), err)
	}
	return nil
}

func (c *pageController) URL() string {
	return c.page.URL()
}

func (c *pageController) Title(ctx context.Context) (string, error) {
	return c.page.Title()
}

// SetCookie - adds a cookie to the browser context
func (c *pageController) SetCookie(ctx context.Context, cookie entities.Cookie) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.page.Context().AddCookies([]playwright.OptionalCookie{{
		Name:  cookie.Name,
		Value: cookie.Value,
		URL:   playwright.String(cookie.URL),
	}})
}

// WaitForIdle - waits for the page's idle callback, at most timeout
func (c *pageController) WaitForIdle(ctx context.Context, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	result, err := c.page.Evaluate(idleScript, timeout.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("idle callback: %w", err)
	}
	idle, _ := result.(bool)
	return idle, nil
}

var _ interfaces.Driver = (*pageController)(nil)
