package interfaces

import (
	"context"
	"time"

	"ui_automation/domain/entities"
)

// Node is a live DOM node returned by a query. It is only valid for the
// operation that obtained it and must never be cached across operations.
type Node interface {
	// IsAttached reports whether the node is still part of the document
	IsAttached(ctx context.Context) (bool, error)

	// Query finds nodes matching selector inside this node
	Query(ctx context.Context, selector string) ([]Node, error)

	Click(ctx context.Context, opts entities.ClickOptions) error
	Hover(ctx context.Context) error
	Type(ctx context.Context, text string, opts entities.TypeOptions) error
	Clear(ctx context.Context) error
	Check(ctx context.Context) error
	Uncheck(ctx context.Context) error

	// SelectOption picks an option of a native select by value or label
	SelectOption(ctx context.Context, value string) error
	ScrollIntoView(ctx context.Context) error

	// Attribute returns the attribute value and whether it is present
	Attribute(ctx context.Context, name string) (string, bool, error)
	Text(ctx context.Context) (string, error)
	Value(ctx context.Context) (string, error)

	IsVisible(ctx context.Context) (bool, error)
	IsEnabled(ctx context.Context) (bool, error)
	IsChecked(ctx context.Context) (bool, error)
}

// Driver is the page-level browser automation surface
type Driver interface {
	// Query finds nodes matching selector in the whole document
	Query(ctx context.Context, selector string) ([]Node, error)

	// Goto navigates and waits until the document is ready
	Goto(ctx context.Context, url string) error

	// Reload reloads the current page and waits until the document is ready
	Reload(ctx context.Context) error

	URL() string
	Title(ctx context.Context) (string, error)
	SetCookie(ctx context.Context, cookie entities.Cookie) error

	// WaitForIdle waits for the page's idle callback, at most timeout. It
	// reports false when the timeout elapsed before the page became idle.
	WaitForIdle(ctx context.Context, timeout time.Duration) (bool, error)
}

// Launcher starts browsers and opens pages on them
type Launcher interface {
	Launch(ctx context.Context, opts *entities.LaunchOptions) (Session, error)
}

// Session is a launched browser with one open page
type Session interface {
	Driver() Driver

	// NewPage replaces the current page with a fresh one in the same context
	NewPage(ctx context.Context) (Driver, error)

	// State returns the cookies and storage of the browser context
	State(ctx context.Context) (*entities.SessionState, error)
	Close() error
}
