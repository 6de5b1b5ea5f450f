// Package browsertest provides an in-memory Driver over parsed HTML. It can
// detach and re-render nodes, drop keystrokes and hold the page busy, which
// lets tests reproduce the instabilities a real browser shows.
package browsertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// QueryHook runs after a document-level query computed its result. call is
// the 1-based count of queries for that selector so far.
type QueryHook func(d *Driver, selector string, call int)

type detachedNode struct {
	node   *html.Node
	parent *html.Node
	next   *html.Node
}

// Driver is an in-memory page.
type Driver struct {
	mu       sync.Mutex
	routes   map[string]string
	doc      *goquery.Document
	url      string
	reloads  int
	visits   []string
	cookies  []entities.Cookie
	busy     bool
	drop     int
	typed    []string
	clicks   []string
	queries  map[string]int
	hooks    []QueryHook
	onClick  map[string]func(d *Driver)
	detached []detachedNode
}

// New creates a driver showing body on "about:blank".
func New(body string) *Driver {
	d := &Driver{
		routes:  map[string]string{},
		queries: map[string]int{},
		onClick: map[string]func(d *Driver){},
		url:     "about:blank",
	}
	d.doc = mustParse(body)
	return d
}

func mustParse(body string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		panic(fmt.Sprintf("browsertest: parse fixture: %v", err))
	}
	return doc
}

// Route serves body for every URL whose path is path.
func (d *Driver) Route(path, body string) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.routes[path] = body
	return d
}

// AfterQuery registers a hook run after every document-level query.
func (d *Driver) AfterQuery(hook QueryHook) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hooks = append(d.hooks, hook)
	return d
}

// OnClick runs fn whenever a node matching selector is clicked.
func (d *Driver) OnClick(selector string, fn func(d *Driver)) *Driver {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[selector] = fn
	return d
}

// DropKeystrokes makes the next n Type calls lose the second half of their
// text.
func (d *Driver) DropKeystrokes(n int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drop = n
}

// SetBusy keeps WaitForIdle from ever seeing an idle page.
func (d *Driver) SetBusy(busy bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy = busy
}

// Reloads returns how many times the page was reloaded.
func (d *Driver) Reloads() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reloads
}

// Visits returns every URL passed to Goto.
func (d *Driver) Visits() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.visits...)
}

// Cookies returns the cookies set so far.
func (d *Driver) Cookies() []entities.Cookie {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]entities.Cookie(nil), d.cookies...)
}

// Typed returns every text passed to Type, as received.
func (d *Driver) Typed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.typed...)
}

// Clicks returns a description of every clicked node.
func (d *Driver) Clicks() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.clicks...)
}

// Queries returns how many document-level queries ran for selector.
func (d *Driver) Queries(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.queries[selector]
}

// Detach removes every node matching selector from the document. Reattach
// puts them back.
func (d *Driver) Detach(selector string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		if node.Parent == nil {
			return
		}
		d.detached = append(d.detached, detachedNode{node: node, parent: node.Parent, next: node.NextSibling})
		node.Parent.RemoveChild(node)
		n++
	})
	return n
}

// Reattach restores every detached node.
func (d *Driver) Reattach() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(d.detached) - 1; i >= 0; i-- {
		dn := d.detached[i]
		if dn.next != nil && dn.next.Parent == dn.parent {
			dn.parent.InsertBefore(dn.node, dn.next)
		} else {
			dn.parent.AppendChild(dn.node)
		}
	}
	d.detached = nil
}

// Rerender replaces every node matching selector with a fresh copy, the way
// a UI framework swaps a subtree. Handles on the old nodes become detached.
func (d *Driver) Rerender(selector string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		old := s.Nodes[0]
		if old.Parent == nil {
			return
		}
		old.Parent.InsertBefore(cloneNode(old), old)
		old.Parent.RemoveChild(old)
	})
}

// Mutate runs fn on the document under the driver lock.
func (d *Driver) Mutate(fn func(doc *goquery.Document)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(d.doc)
}

// SetContent replaces the whole document.
func (d *Driver) SetContent(body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.doc = mustParse(body)
	d.detached = nil
}

func cloneNode(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneNode(child))
	}
	return c
}

// Query finds nodes matching selector in the document.
func (d *Driver) Query(ctx context.Context, selector string) ([]interfaces.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	nodes, err := d.find(d.doc.Selection, selector)
	d.queries[selector]++
	call := d.queries[selector]
	hooks := append([]QueryHook(nil), d.hooks...)
	d.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, hook := range hooks {
		hook(d, selector, call)
	}
	return nodes, nil
}

// find must be called with the lock held.
func (d *Driver) find(scope *goquery.Selection, selector string) ([]interfaces.Node, error) {
	var sel *goquery.Selection
	switch {
	case selector == "xpath=..":
		sel = scope.Parent()
	case strings.HasPrefix(selector, "xpath="):
		return nil, fmt.Errorf("browsertest: unsupported xpath %q", selector)
	case strings.HasPrefix(selector, ":scope > "):
		sel = scope.ChildrenFiltered(strings.TrimPrefix(selector, ":scope > "))
	default:
		sel = scope.Find(selector)
	}
	out := make([]interfaces.Node, 0, sel.Length())
	for _, n := range sel.Nodes {
		out = append(out, &Node{d: d, node: n})
	}
	return out, nil
}

// Goto loads the route registered for the URL path.
func (d *Driver) Goto(ctx context.Context, rawURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.load(rawURL); err != nil {
		return err
	}
	d.visits = append(d.visits, rawURL)
	return nil
}

func (d *Driver) load(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browsertest: bad url %q: %w", rawURL, err)
	}
	body, ok := d.routes[u.Path]
	if !ok {
		return fmt.Errorf("browsertest: 404 %s", u.Path)
	}
	d.doc = mustParse(body)
	d.detached = nil
	d.url = rawURL
	return nil
}

// Reload renders the current route again from its HTML. Typed values are
// lost, as in a real reload.
func (d *Driver) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reloads++
	if d.url == "about:blank" {
		return nil
	}
	return d.load(d.url)
}

func (d *Driver) URL() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.url
}

// SetURL changes the URL without loading anything, as client side routing
// does.
func (d *Driver) SetURL(u string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.url = u
}

func (d *Driver) Title(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.TrimSpace(d.doc.Find("title").First().Text()), nil
}

func (d *Driver) SetCookie(ctx context.Context, c entities.Cookie) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cookies = append(d.cookies, c)
	return nil
}

// WaitForIdle returns true at once unless the driver is busy, in which case
// it waits out timeout and returns false.
func (d *Driver) WaitForIdle(ctx context.Context, timeout time.Duration) (bool, error) {
	d.mu.Lock()
	busy := d.busy
	d.mu.Unlock()
	if !busy {
		return true, nil
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case <-timer.C:
		return false, nil
	}
}

var _ interfaces.Driver = (*Driver)(nil)
