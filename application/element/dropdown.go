package element

import (
	"context"
	"strconv"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Select is a native select element.
type Select struct {
	*Element
}

// NewSelect creates a native select element.
func NewSelect(env *Env, name, locator string, opts ...Option) *Select {
	return &Select{Element: newElement(env, entities.KindSelectableStatic, name, locator, opts...)}
}

// Select picks option by value or label.
func (s *Select) Select(ctx context.Context, option string) error {
	s.Logger().Debugf("selecting %q", option)
	return s.act(ctx, "select", func(ctx context.Context, n interfaces.Node) error {
		return n.SelectOption(ctx, option)
	})
}

// SelectOptions controls how a dropdown option is picked. The zero value
// matches case-sensitively and force-clicks.
type SelectOptions struct {
	IgnoreCase bool
	NoForce    bool
}

func (o SelectOptions) match() entities.TextMatch {
	return entities.TextMatch{IgnoreCase: o.IgnoreCase}
}

func (o SelectOptions) click() entities.ClickOptions {
	return entities.ClickOptions{Force: !o.NoForce}
}

// Dropdown is a custom dropdown: an input bar that opens a panel of options.
// Options are looked up in the whole document because panels are often
// rendered outside the dropdown's own subtree.
type Dropdown struct {
	*Element
	options  string
	inputBar *Element
}

func newDropdown(env *Env, kind entities.VariantKind, name, locator, optionsLocator string, inputBar *Element, opts ...Option) Dropdown {
	return Dropdown{
		Element:  newElement(env, kind, name, locator, opts...),
		options:  optionsLocator,
		inputBar: inputBar,
	}
}

// InputBar returns the element that opens the dropdown.
func (d *Dropdown) InputBar() *Element { return d.inputBar }

// OptionsLocator returns the selector matching the dropdown options.
func (d *Dropdown) OptionsLocator() string { return d.options }

func (d *Dropdown) open(ctx context.Context, click entities.ClickOptions) error {
	return d.inputBar.Click(ctx, click)
}

func (d *Dropdown) queryOptions(ctx context.Context) ([]interfaces.Node, error) {
	return d.env.Driver.Query(ctx, d.options)
}

// Select opens the dropdown and clicks the first option containing option.
func (d *Dropdown) Select(ctx context.Context, option string, o SelectOptions) error {
	d.Logger().Debugf("selecting %q", option)
	if err := d.open(ctx, o.click()); err != nil {
		return err
	}
	h, err := d.waitContaining(ctx, "select", d.options, option, o.match(), d.queryOptions)
	if err != nil {
		return err
	}
	if err := h.Click(ctx, o.click()); err != nil {
		return &entities.ElementError{Entity: d.Name(), Action: "select", Locator: d.options, Kind: entities.ErrActionFailed, Err: err}
	}
	return nil
}

// VerifyValuesPresent opens the dropdown and checks that every value is
// offered by exactly one option.
func (d *Dropdown) VerifyValuesPresent(ctx context.Context, values ...string) error {
	if err := d.open(ctx, entities.ClickOptions{Force: true}); err != nil {
		return err
	}
	for _, value := range values {
		err := d.poll(ctx, "verify value present", "one option containing "+quote(value), func(ctx context.Context) (string, bool, error) {
			nodes, err := d.queryOptions(ctx)
			if err != nil {
				return "", false, err
			}
			matching, err := allContaining(ctx, nodes, value, entities.TextMatch{})
			return countOf(len(matching), "option"), len(matching) == 1, err
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// VerifyInputEmpty checks that nothing is shown in the input bar.
func (d *Dropdown) VerifyInputEmpty(ctx context.Context) error {
	return d.inputBar.assertBlank(ctx, "verify input empty", true)
}

// VerifySelectedValue checks that the input bar shows value.
func (d *Dropdown) VerifySelectedValue(ctx context.Context, value string) error {
	return d.inputBar.should(ctx, "verify selected value", quote(value), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.First().Value(ctx)
		if err != nil {
			return "", false, err
		}
		if got == "" {
			if got, err = h.Text(ctx); err != nil {
				return "", false, err
			}
		}
		return quote(got), normalize(got) == normalize(value), nil
	})
}

// StaticDropdown is a dropdown with a fixed set of options.
type StaticDropdown struct {
	Dropdown
}

// NewStaticDropdown creates a static dropdown opened through inputBar.
func NewStaticDropdown(env *Env, name, locator, optionsLocator string, inputBar *Element, opts ...Option) *StaticDropdown {
	return &StaticDropdown{Dropdown: newDropdown(env, entities.KindSelectableStatic, name, locator, optionsLocator, inputBar, opts...)}
}

// DynamicDropdown is a search-as-you-type dropdown whose options are rendered
// into a content panel. An empty panel is a valid result.
type DynamicDropdown struct {
	Dropdown
	content *Element
}

// NewDynamicDropdown creates a dynamic dropdown whose results appear in the
// panel matched by contentLocator.
func NewDynamicDropdown(env *Env, name, locator, optionsLocator string, inputBar *Element, contentLocator string, opts ...Option) *DynamicDropdown {
	return &DynamicDropdown{
		Dropdown: newDropdown(env, entities.KindSelectableDynamic, name, locator, optionsLocator, inputBar, opts...),
		content:  newElement(env, entities.KindPlain, name+" content", contentLocator),
	}
}

// Content returns the results panel.
func (d *DynamicDropdown) Content() *Element { return d.content }

// results returns the options rendered inside every matching panel.
func (d *DynamicDropdown) results(ctx context.Context) ([]interfaces.Node, error) {
	h, err := d.content.resolve(ctx, "read results", d.env.Timing.AttachTimeout)
	if err != nil {
		return nil, err
	}
	var out []interfaces.Node
	for _, panel := range h.Nodes() {
		nodes, err := panel.Query(ctx, d.options)
		if err != nil {
			return nil, err
		}
		out = append(out, nodes...)
	}
	return out, nil
}

// VerifyShowsMessage checks that the results panel contains text.
func (d *DynamicDropdown) VerifyShowsMessage(ctx context.Context, text string) error {
	return d.content.AssertContainsText(ctx, text)
}

// GetOptionWithText returns the first result containing text.
func (d *DynamicDropdown) GetOptionWithText(ctx context.Context, text string) (Handle, error) {
	if err := d.VerifyShowsMessage(ctx, text); err != nil {
		return Handle{}, err
	}
	return d.waitContaining(ctx, "get option", d.options, text, entities.TextMatch{}, d.results)
}

// CheckResultsQuantity checks the number of results shown in the panel.
func (d *DynamicDropdown) CheckResultsQuantity(ctx context.Context, n int) error {
	return d.poll(ctx, "check results quantity", strconv.Itoa(n), func(ctx context.Context) (string, bool, error) {
		nodes, err := d.results(ctx)
		return strconv.Itoa(len(nodes)), len(nodes) == n, err
	})
}

// CheckResultsQuantityWithText checks the number of options and that each of
// them contains text, ignoring case.
func (d *DynamicDropdown) CheckResultsQuantityWithText(ctx context.Context, n int, text string) error {
	expected := countOf(n, "option containing "+quote(text))
	return d.poll(ctx, "check results quantity", expected, func(ctx context.Context) (string, bool, error) {
		nodes, err := d.queryOptions(ctx)
		if err != nil {
			return "", false, err
		}
		matching, err := allContaining(ctx, nodes, text, entities.TextMatch{IgnoreCase: true})
		if err != nil {
			return "", false, err
		}
		actual := countOf(len(nodes), "option") + ", " + strconv.Itoa(len(matching)) + " matching"
		return actual, len(nodes) == n && len(matching) == n, nil
	})
}

// GetResultsQuantity returns how many results the panel currently shows.
func (d *DynamicDropdown) GetResultsQuantity(ctx context.Context) (int, error) {
	nodes, err := d.results(ctx)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

// VerifyAllResultsContain checks that every result contains text, ignoring
// case.
func (d *DynamicDropdown) VerifyAllResultsContain(ctx context.Context, text string) error {
	if err := d.VerifyShowsMessage(ctx, text); err != nil {
		return err
	}
	return d.poll(ctx, "verify all results contain", "every result containing "+quote(text), func(ctx context.Context) (string, bool, error) {
		nodes, err := d.results(ctx)
		if err != nil {
			return "", false, err
		}
		matching, err := allContaining(ctx, nodes, text, entities.TextMatch{IgnoreCase: true})
		return strconv.Itoa(len(matching)) + " of " + strconv.Itoa(len(nodes)), len(matching) == len(nodes), err
	})
}
