package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

type elementNode struct {
	handle playwright.ElementHandle
}

func wrapHandles(handles []playwright.ElementHandle) []interfaces.Node {
	nodes := make([]interfaces.Node, 0, len(handles))
	for _, h := range handles {
		nodes = append(nodes, &elementNode{handle: h})
	}
	return nodes
}

// IsAttached asks the node itself; a node replaced by a re-render reports
// false even while an equal one is in the document.
func (n *elementNode) IsAttached(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	result, err := n.handle.Evaluate("(el) => el.isConnected")
	if err != nil {
		return false, nil
	}
	connected, _ := result.(bool)
	return connected, nil
}

func (n *elementNode) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := n.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapHandles(handles), nil
}

func (n *elementNode) Click(ctx context.Context, opts entities.ClickOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Click(playwright.ElementHandleClickOptions{Force: playwright.Bool(opts.Force)})
}

func (n *elementNode) Hover(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Hover()
}

// Type sends keystrokes one by one, so widgets listening for key events see
// them. Sensitive text is never part of the returned error.
func (n *elementNode) Type(ctx context.Context, text string, opts entities.TypeOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := n.handle.Type(text, playwright.ElementHandleTypeOptions{
		Delay: playwright.Float(float64(opts.Delay.Milliseconds())),
	})
	if err != nil && opts.Sensitive {
		return fmt.Errorf("typing into secure field failed: %s", strings.ReplaceAll(err.Error(), text, entities.MaskedValue))
	}
	return err
}

func (n *elementNode) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Fill("")
}

func (n *elementNode) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Check()
}

func (n *elementNode) Uncheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.Uncheck()
}

// SelectOption picks by value first, then by label.
func (n *elementNode) SelectOption(ctx context.Context, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	values := []string{value}
	chosen, err := n.handle.SelectOption(playwright.SelectOptionValues{Values: &values})
	if err == nil && len(chosen) > 0 {
		return nil
	}
	if _, err := n.handle.SelectOption(playwright.SelectOptionValues{Labels: &values}); err != nil {
		return fmt.Errorf("no option %q: %w", value, err)
	}
	return nil
}

func (n *elementNode) ScrollIntoView(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.handle.ScrollIntoViewIfNeeded()
}

// Attribute distinguishes a missing attribute from an empty one.
func (n *elementNode) Attribute(ctx context.Context, name string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	result, err := n.handle.Evaluate("(el, name) => el.getAttribute(name)", name)
	if err != nil {
		return "", false, err
	}
	if result == nil {
		return "", false, nil
	}
	value, _ := result.(string)
	return value, true, nil
}

func (n *elementNode) Text(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return n.handle.TextContent()
}

// Value reads the value property, empty for nodes that have none.
func (n *elementNode) Value(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	result, err := n.handle.Evaluate("(el) => ('value' in el && el.value != null) ? String(el.value) : ''")
	if err != nil {
		return "", err
	}
	value, _ := result.(string)
	return value, nil
}

func (n *elementNode) IsVisible(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.handle.IsVisible()
}

func (n *elementNode) IsEnabled(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.handle.IsEnabled()
}

func (n *elementNode) IsChecked(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return n.handle.IsChecked()
}

var _ interfaces.Node = (*elementNode)(nil)
