package element

import (
	"context"
	"fmt"
	"strconv"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// DefaultItemLocator matches list items when no item locator is given.
const DefaultItemLocator = "li"

// List is a list whose items are the element's direct children matching an
// item locator.
type List struct {
	*Element
	item string
}

// NewList creates a list element. An empty itemLocator means DefaultItemLocator.
func NewList(env *Env, name, locator, itemLocator string, opts ...Option) *List {
	return newList(env, entities.KindListLike, name, locator, itemLocator, opts...)
}

func newList(env *Env, kind entities.VariantKind, name, locator, itemLocator string, opts ...Option) *List {
	if itemLocator == "" {
		itemLocator = DefaultItemLocator
	}
	return &List{Element: newElement(env, kind, name, locator, opts...), item: itemLocator}
}

// ItemLocator returns the selector matching list items.
func (l *List) ItemLocator() string { return l.item }

func (l *List) children(ctx context.Context) ([]interfaces.Node, error) {
	return l.within(ctx, "get items", ":scope > "+l.item)
}

// AllItems returns the direct children matching the item locator.
func (l *List) AllItems(ctx context.Context) (Handle, error) {
	nodes, err := l.children(ctx)
	if err != nil {
		return Handle{}, err
	}
	return Handle{owner: l.Name(), nodes: nodes}, nil
}

// GetItem returns the item ref points at: the child at a zero-based position,
// or the first item containing a text.
func (l *List) GetItem(ctx context.Context, ref entities.ItemRef) (Handle, error) {
	if text, m, ok := ref.Text(); ok {
		return l.findContaining(ctx, "get item "+ref.String(), l.item, text, m)
	}
	i, _ := ref.Index()
	if i < 0 {
		return Handle{}, fmt.Errorf("[%s] get item %s: negative index", l.Name(), ref)
	}
	var item interfaces.Node
	err := l.poll(ctx, "get item "+ref.String(), "more than "+strconv.Itoa(i)+" items", func(ctx context.Context) (string, bool, error) {
		nodes, err := l.children(ctx)
		if err != nil || len(nodes) <= i {
			return countOf(len(nodes), "item"), false, err
		}
		item = nodes[i]
		return "", true, nil
	})
	if err != nil {
		return Handle{}, err
	}
	return Handle{owner: l.Name(), nodes: []interfaces.Node{item}}, nil
}

// GetItemContainingText returns the first item containing text.
func (l *List) GetItemContainingText(ctx context.Context, text string, m entities.TextMatch) (Handle, error) {
	ref := entities.ByText(text)
	if m.IgnoreCase {
		ref = ref.IgnoreCase()
	}
	return l.GetItem(ctx, ref)
}

// AssertListLength checks the number of items.
func (l *List) AssertListLength(ctx context.Context, n int) error {
	return l.assertCount(ctx, "assert list length", ":scope > "+l.item, n)
}
