package element

import (
	"context"
	"time"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Element is the base of every variant: a named locator resolved afresh on
// each operation.
type Element struct {
	Entity
	desc entities.ElementDescriptor
	env  *Env
	kind entities.VariantKind
}

// Option customizes an element at construction.
type Option func(*Element)

// WithXPath marks the locator as an XPath expression.
func WithXPath() Option {
	return func(e *Element) { e.desc.IsXPath = true }
}

// New creates a plain element.
func New(env *Env, name, locator string, opts ...Option) *Element {
	return newElement(env, entities.KindPlain, name, locator, opts...)
}

// FromDescriptor creates a plain element from a descriptor.
func FromDescriptor(env *Env, d entities.ElementDescriptor) *Element {
	e := New(env, d.Name, d.Locator)
	e.desc.IsXPath = d.IsXPath
	return e
}

func newElement(env *Env, kind entities.VariantKind, name, locator string, opts ...Option) *Element {
	e := &Element{
		Entity: NewEntity(name, env.Logs),
		desc:   entities.ElementDescriptor{Name: name, Locator: locator},
		env:    env,
		kind:   kind,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Descriptor returns how the element is found.
func (e *Element) Descriptor() entities.ElementDescriptor { return e.desc }

// Locator returns the selector handed to the driver.
func (e *Element) Locator() string { return e.desc.Selector() }

// Kind returns the capability variant tag.
func (e *Element) Kind() entities.VariantKind { return e.kind }

// Env returns the environment the element was created in.
func (e *Element) Env() *Env { return e.env }

func (e *Element) query(ctx context.Context) ([]interfaces.Node, error) {
	return e.env.Driver.Query(ctx, e.Locator())
}

// Resolve waits until the locator matches nodes that stay attached, within
// the attach timeout.
func (e *Element) Resolve(ctx context.Context) (Handle, error) {
	return e.ResolveWithin(ctx, e.env.Timing.AttachTimeout)
}

// ResolveWithin is Resolve with an explicit wait window.
func (e *Element) ResolveWithin(ctx context.Context, window time.Duration) (Handle, error) {
	return e.resolve(ctx, "resolve", window)
}

func (e *Element) resolve(ctx context.Context, action string, window time.Duration) (Handle, error) {
	nodes, err := stabilize(ctx, e.query, e.env.Timing, window)
	if err != nil {
		return Handle{}, entities.NewAttachmentTimeout(e.Name(), action, e.Locator(), window, err)
	}
	return Handle{owner: e.Name(), nodes: nodes}, nil
}

// Exists reports whether the locator currently matches anything. It does not
// wait.
func (e *Element) Exists(ctx context.Context) (bool, error) {
	nodes, err := e.query(ctx)
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// IsAttached reports whether the locator currently matches attached nodes
// only. It does not wait.
func (e *Element) IsAttached(ctx context.Context) (bool, error) {
	nodes, err := e.query(ctx)
	if err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, nil
	}
	for _, n := range nodes {
		ok, err := n.IsAttached(ctx)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// IsDetached is the negation of IsAttached.
func (e *Element) IsDetached(ctx context.Context) (bool, error) {
	attached, err := e.IsAttached(ctx)
	return !attached, err
}

// act waits for the element to exist, resolves it and runs fn on the first
// node.
func (e *Element) act(ctx context.Context, action string, fn func(ctx context.Context, n interfaces.Node) error) error {
	if err := e.AssertExists(ctx); err != nil {
		return err
	}
	h, err := e.resolve(ctx, action, e.env.Timing.AttachTimeout)
	if err != nil {
		return err
	}
	if err := fn(ctx, h.First()); err != nil {
		return &entities.ElementError{Entity: e.Name(), Action: action, Locator: e.Locator(), Kind: entities.ErrActionFailed, Err: err}
	}
	return nil
}

// Click clicks the element.
func (e *Element) Click(ctx context.Context, opts ...entities.ClickOptions) error {
	var o entities.ClickOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	e.Logger().Debugf("clicking (force=%t)", o.Force)
	return e.act(ctx, "click", func(ctx context.Context, n interfaces.Node) error {
		return n.Click(ctx, o)
	})
}

// Hover moves the pointer over the element.
func (e *Element) Hover(ctx context.Context) error {
	e.Logger().Debugf("hovering")
	return e.act(ctx, "hover", func(ctx context.Context, n interfaces.Node) error {
		return n.Hover(ctx)
	})
}

// ScrollIntoView scrolls the element into the viewport.
func (e *Element) ScrollIntoView(ctx context.Context) error {
	return e.act(ctx, "scroll into view", func(ctx context.Context, n interfaces.Node) error {
		return n.ScrollIntoView(ctx)
	})
}

// Text returns the text of all matched nodes.
func (e *Element) Text(ctx context.Context) (string, error) {
	h, err := e.resolve(ctx, "read text", e.env.Timing.AttachTimeout)
	if err != nil {
		return "", err
	}
	return h.Text(ctx)
}

// Value returns the value of the first matched node.
func (e *Element) Value(ctx context.Context) (string, error) {
	h, err := e.resolve(ctx, "read value", e.env.Timing.AttachTimeout)
	if err != nil {
		return "", err
	}
	return h.First().Value(ctx)
}

// within resolves the element and queries selector inside its first node.
func (e *Element) within(ctx context.Context, action, selector string) ([]interfaces.Node, error) {
	h, err := e.resolve(ctx, action, e.env.Timing.AttachTimeout)
	if err != nil {
		return nil, err
	}
	return h.First().Query(ctx, selector)
}

// findContaining waits for a node matching selector inside the element whose
// text contains text.
func (e *Element) findContaining(ctx context.Context, action, selector, text string, m entities.TextMatch) (Handle, error) {
	return e.waitContaining(ctx, action, selector, text, m, func(ctx context.Context) ([]interfaces.Node, error) {
		return e.within(ctx, action, selector)
	})
}

// waitContaining polls candidates until one of them contains text.
func (e *Element) waitContaining(ctx context.Context, action, what, text string, m entities.TextMatch, candidates queryFunc) (Handle, error) {
	expected := what + " containing " + quote(text)
	var found interfaces.Node
	err := Eventually(ctx, e.env.Timing.AssertTimeout, e.env.interval(), func(ctx context.Context) error {
		nodes, err := candidates(ctx)
		if err != nil {
			return err
		}
		n, err := firstContaining(ctx, nodes, text, m)
		if err != nil {
			return err
		}
		if n == nil {
			return &entities.AssertionError{
				Entity:   e.Name(),
				Action:   action,
				Expected: expected,
				Actual:   countOf(len(nodes), what) + " without that text",
			}
		}
		found = n
		return nil
	})
	if err != nil {
		return Handle{}, asAssertion(err, e.Name(), action, expected)
	}
	return Handle{owner: e.Name(), nodes: []interfaces.Node{found}}, nil
}

// poll retries fn over the assert timeout and reports the final failure as an
// assertion of action.
func (e *Element) poll(ctx context.Context, action, expected string, fn func(ctx context.Context) (actual string, ok bool, err error)) error {
	err := Eventually(ctx, e.env.Timing.AssertTimeout, e.env.interval(), func(ctx context.Context) error {
		actual, ok, err := fn(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return &entities.AssertionError{Entity: e.Name(), Action: action, Expected: expected, Actual: actual}
		}
		return nil
	})
	if err != nil {
		return asAssertion(err, e.Name(), action, expected)
	}
	return nil
}
