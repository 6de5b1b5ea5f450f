package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

var (
	errDetached = errors.New("browsertest: node is detached from the document")
	errDisabled = errors.New("browsertest: node is disabled")
	errHidden   = errors.New("browsertest: node is not visible")
)

// Node is a node of the in-memory document.
type Node struct {
	d    *Driver
	node *html.Node
}

func (n *Node) selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(n.node).Selection
}

// attached must be called with the lock held.
func (n *Node) attached() bool {
	top := n.node
	for top.Parent != nil {
		top = top.Parent
	}
	return top == n.d.doc.Nodes[0]
}

func (n *Node) IsAttached(ctx context.Context) (bool, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.attached(), nil
}

func (n *Node) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.d.find(n.selection(), selector)
}

// actionable must be called with the lock held.
func (n *Node) actionable(force bool) error {
	if !n.attached() {
		return errDetached
	}
	if force {
		return nil
	}
	if hasAttr(n.node, "disabled") {
		return errDisabled
	}
	if !visible(n.node) {
		return errHidden
	}
	return nil
}

func (n *Node) Click(ctx context.Context, opts entities.ClickOptions) error {
	n.d.mu.Lock()
	if err := n.actionable(opts.Force); err != nil {
		n.d.mu.Unlock()
		return err
	}
	n.d.clicks = append(n.d.clicks, describe(n.node))
	activate(n.node)
	var handlers []func(d *Driver)
	sel := n.selection()
	for selector, fn := range n.d.onClick {
		if sel.Is(selector) {
			handlers = append(handlers, fn)
		}
	}
	n.d.mu.Unlock()

	for _, fn := range handlers {
		fn(n.d)
	}
	return nil
}

func (n *Node) Hover(ctx context.Context) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.actionable(false)
}

func (n *Node) Type(ctx context.Context, text string, opts entities.TypeOptions) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if err := n.actionable(false); err != nil {
		return err
	}
	n.d.typed = append(n.d.typed, text)
	if n.d.drop > 0 {
		n.d.drop--
		runes := []rune(text)
		text = string(runes[:len(runes)/2])
	}
	current, _ := attr(n.node, "value")
	setAttr(n.node, "value", current+text)
	return nil
}

func (n *Node) Clear(ctx context.Context) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if err := n.actionable(false); err != nil {
		return err
	}
	setAttr(n.node, "value", "")
	return nil
}

func (n *Node) Check(ctx context.Context) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if err := n.actionable(false); err != nil {
		return err
	}
	check(n.node)
	return nil
}

func (n *Node) Uncheck(ctx context.Context) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if err := n.actionable(false); err != nil {
		return err
	}
	removeAttr(n.node, "checked")
	return nil
}

func (n *Node) SelectOption(ctx context.Context, value string) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	if err := n.actionable(false); err != nil {
		return err
	}
	if n.node.Data != "select" {
		return fmt.Errorf("browsertest: %s is not a select", describe(n.node))
	}
	var chosen *html.Node
	n.selection().Find("option").Each(func(_ int, s *goquery.Selection) {
		o := s.Nodes[0]
		v, _ := attr(o, "value")
		if chosen == nil && (v == value || strings.TrimSpace(s.Text()) == value) {
			chosen = o
		}
	})
	if chosen == nil {
		return fmt.Errorf("browsertest: no option %q", value)
	}
	n.selection().Find("option").Each(func(_ int, s *goquery.Selection) {
		removeAttr(s.Nodes[0], "selected")
	})
	setAttr(chosen, "selected", "")
	return nil
}

func (n *Node) ScrollIntoView(ctx context.Context) error {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.actionable(true)
}

func (n *Node) Attribute(ctx context.Context, name string) (string, bool, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	v, ok := attr(n.node, name)
	return v, ok, nil
}

func (n *Node) Text(ctx context.Context) (string, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.selection().Text(), nil
}

func (n *Node) Value(ctx context.Context) (string, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	switch n.node.Data {
	case "select":
		options := n.selection().Find("option")
		selected := options.FilterFunction(func(_ int, s *goquery.Selection) bool {
			return hasAttr(s.Nodes[0], "selected")
		})
		if selected.Length() == 0 {
			selected = options
		}
		if selected.Length() == 0 {
			return "", nil
		}
		if v, ok := attr(selected.Nodes[0], "value"); ok {
			return v, nil
		}
		return strings.TrimSpace(selected.First().Text()), nil
	case "textarea":
		if v, ok := attr(n.node, "value"); ok {
			return v, nil
		}
		return n.selection().Text(), nil
	}
	v, _ := attr(n.node, "value")
	return v, nil
}

func (n *Node) IsVisible(ctx context.Context) (bool, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return n.attached() && visible(n.node), nil
}

func (n *Node) IsEnabled(ctx context.Context) (bool, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return !hasAttr(n.node, "disabled"), nil
}

func (n *Node) IsChecked(ctx context.Context) (bool, error) {
	n.d.mu.Lock()
	defer n.d.mu.Unlock()
	return hasAttr(n.node, "checked"), nil
}

// activate applies the default click behavior of checkboxes, radios, labels
// and switches.
func activate(n *html.Node) {
	if n.Data == "label" {
		if input := goquery.NewDocumentFromNode(n).Find(`input[type="radio"], input[type="checkbox"]`); input.Length() > 0 {
			n = input.Nodes[0]
		}
	}
	if role, _ := attr(n, "role"); role == "switch" {
		state, _ := attr(n, "aria-checked")
		if state == "true" {
			setAttr(n, "aria-checked", "false")
		} else {
			setAttr(n, "aria-checked", "true")
		}
		return
	}
	if n.Data != "input" {
		return
	}
	switch typ, _ := attr(n, "type"); typ {
	case "checkbox":
		if hasAttr(n, "checked") {
			removeAttr(n, "checked")
		} else {
			setAttr(n, "checked", "")
		}
	case "radio":
		check(n)
	}
}

// check ticks n and, for radios, unticks the rest of its group.
func check(n *html.Node) {
	if typ, _ := attr(n, "type"); typ == "radio" {
		name, _ := attr(n, "name")
		top := n
		for top.Parent != nil {
			top = top.Parent
		}
		goquery.NewDocumentFromNode(top).Find(`input[type="radio"]`).Each(func(_ int, s *goquery.Selection) {
			if other, _ := attr(s.Nodes[0], "name"); other == name {
				removeAttr(s.Nodes[0], "checked")
			}
		})
	}
	setAttr(n, "checked", "")
}

func visible(n *html.Node) bool {
	if typ, _ := attr(n, "type"); n.Data == "input" && typ == "hidden" {
		return false
	}
	for p := n; p != nil && p.Type == html.ElementNode; p = p.Parent {
		if hasAttr(p, "hidden") {
			return false
		}
		style, _ := attr(p, "style")
		if strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none") {
			return false
		}
	}
	return true
}

func describe(n *html.Node) string {
	if id, ok := attr(n, "id"); ok {
		return n.Data + "#" + id
	}
	if name, ok := attr(n, "name"); ok {
		return fmt.Sprintf("%s[name=%q]", n.Data, name)
	}
	return n.Data
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := attr(n, key)
	return ok
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			out = append(out, a)
		}
	}
	n.Attr = out
}

var _ interfaces.Node = (*Node)(nil)
