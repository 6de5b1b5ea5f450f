package element

import (
	"context"
	"fmt"
	"strconv"

	"ui_automation/domain/entities"
)

// Table is an HTML table. Rows and columns are addressed structurally.
type Table struct {
	*Element
}

// NewTable creates a table element.
func NewTable(env *Env, name, locator string, opts ...Option) *Table {
	return &Table{Element: newElement(env, entities.KindTabular, name, locator, opts...)}
}

// ClickElementContainsText clicks the first node inside the table matching
// selector whose text contains text.
func (t *Table) ClickElementContainsText(ctx context.Context, selector, text string, m entities.TextMatch) error {
	t.Logger().Debugf("clicking %s containing %q", selector, text)
	h, err := t.findContaining(ctx, "click element containing text", selector, text, m)
	if err != nil {
		return err
	}
	n := h.First()
	if err := n.ScrollIntoView(ctx); err != nil {
		return &entities.ElementError{Entity: t.Name(), Action: "scroll into view", Locator: selector, Kind: entities.ErrActionFailed, Err: err}
	}
	if err := n.Click(ctx, entities.ClickOptions{}); err != nil {
		return &entities.ElementError{Entity: t.Name(), Action: "click", Locator: selector, Kind: entities.ErrActionFailed, Err: err}
	}
	return nil
}

// GetCellContainingText returns the first cell containing text.
func (t *Table) GetCellContainingText(ctx context.Context, text string, m entities.TextMatch) (Handle, error) {
	return t.findContaining(ctx, "get cell", "td", text, m)
}

// GetRowContainingText returns the first row containing text.
func (t *Table) GetRowContainingText(ctx context.Context, text string, m entities.TextMatch) (Handle, error) {
	return t.findContaining(ctx, "get row", "tr", text, m)
}

// GetHeaderContainingText returns the first header cell containing text.
func (t *Table) GetHeaderContainingText(ctx context.Context, text string) (Handle, error) {
	return t.findContaining(ctx, "get header", "th", text, entities.TextMatch{})
}

// GetAllRowsContainingText returns every row containing text. No match is an
// empty handle, not an error.
func (t *Table) GetAllRowsContainingText(ctx context.Context, text string, m entities.TextMatch) (Handle, error) {
	rows, err := t.within(ctx, "get rows", "tr")
	if err != nil {
		return Handle{}, err
	}
	matching, err := allContaining(ctx, rows, text, m)
	if err != nil {
		return Handle{}, err
	}
	return Handle{owner: t.Name(), nodes: matching}, nil
}

// GetBodyRows returns the rows of the table body.
func (t *Table) GetBodyRows(ctx context.Context) (Handle, error) {
	return t.GetBodyRow(ctx, "tr")
}

// GetBodyRow returns the body rows matching rowLocator.
func (t *Table) GetBodyRow(ctx context.Context, rowLocator string) (Handle, error) {
	rows, err := t.within(ctx, "get body rows", "tbody "+rowLocator)
	if err != nil {
		return Handle{}, err
	}
	return Handle{owner: t.Name(), nodes: rows}, nil
}

func columnSelector(index int) (string, error) {
	if index < 1 {
		return "", fmt.Errorf("column index %d: columns are numbered from 1", index)
	}
	return fmt.Sprintf("td:nth-child(%d)", index), nil
}

// GetColumnByIndex returns the cells of the 1-based column index.
func (t *Table) GetColumnByIndex(ctx context.Context, index int) (Handle, error) {
	selector, err := columnSelector(index)
	if err != nil {
		return Handle{}, err
	}
	cells, err := t.within(ctx, "get column", selector)
	if err != nil {
		return Handle{}, err
	}
	return Handle{owner: t.Name(), nodes: cells}, nil
}

// AssertColumnCellsContainText checks that the column has cells and that
// each of them contains text.
func (t *Table) AssertColumnCellsContainText(ctx context.Context, index int, text string, m entities.TextMatch) error {
	selector, err := columnSelector(index)
	if err != nil {
		return err
	}
	expected := "every cell of column " + strconv.Itoa(index) + " containing " + quote(text)
	return t.poll(ctx, "assert column contains text", expected, func(ctx context.Context) (string, bool, error) {
		cells, err := t.within(ctx, "assert column contains text", selector)
		if err != nil {
			return "", false, err
		}
		matching, err := allContaining(ctx, cells, text, m)
		actual := strconv.Itoa(len(matching)) + " of " + strconv.Itoa(len(cells))
		return actual, len(cells) > 0 && len(matching) == len(cells), err
	})
}

// AssertHeadersAmount checks the number of header cells.
func (t *Table) AssertHeadersAmount(ctx context.Context, n int) error {
	return t.assertCount(ctx, "assert headers amount", "th", n)
}

// AssertHeadersContain checks that a header exists for every column name.
func (t *Table) AssertHeadersContain(ctx context.Context, columns ...string) error {
	for _, c := range columns {
		if _, err := t.GetHeaderContainingText(ctx, c); err != nil {
			return err
		}
	}
	return nil
}

// assertCount polls until selector matches n nodes inside the element.
func (e *Element) assertCount(ctx context.Context, action, selector string, n int) error {
	return e.poll(ctx, action, countOf(n, selector), func(ctx context.Context) (string, bool, error) {
		nodes, err := e.within(ctx, action, selector)
		return countOf(len(nodes), selector), len(nodes) == n, err
	})
}
