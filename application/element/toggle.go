package element

import (
	"context"
	"fmt"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Checkbox is a native checkbox.
type Checkbox struct {
	*Element
}

// NewCheckbox creates a checkbox element.
func NewCheckbox(env *Env, name, locator string, opts ...Option) *Checkbox {
	return &Checkbox{Element: newElement(env, entities.KindToggleable, name, locator, opts...)}
}

// Check ticks the checkbox.
func (c *Checkbox) Check(ctx context.Context) error {
	return c.act(ctx, "check", func(ctx context.Context, n interfaces.Node) error {
		return n.Check(ctx)
	})
}

// Uncheck unticks the checkbox.
func (c *Checkbox) Uncheck(ctx context.Context) error {
	return c.act(ctx, "uncheck", func(ctx context.Context, n interfaces.Node) error {
		return n.Uncheck(ctx)
	})
}

// AssertChecked waits until the checkbox is ticked.
func (c *Checkbox) AssertChecked(ctx context.Context) error {
	return c.should(ctx, "assert checked", "checked", boolCheck(isChecked, true, "checked", "unchecked"))
}

// AssertUnchecked waits until the checkbox is not ticked.
func (c *Checkbox) AssertUnchecked(ctx context.Context) error {
	return c.should(ctx, "assert unchecked", "unchecked", boolCheck(isChecked, false, "checked", "unchecked"))
}

// RadioGroup is a group of radio inputs sharing one locator. Options are
// picked by their value attribute and clicked through their label.
type RadioGroup struct {
	*Checkbox
}

// NewRadioGroup creates a radio group element.
func NewRadioGroup(env *Env, name, locator string, opts ...Option) *RadioGroup {
	return &RadioGroup{Checkbox: NewCheckbox(env, name, locator, opts...)}
}

// Choice returns the radio input of the group carrying value.
func (r *RadioGroup) Choice(value string) *Checkbox {
	locator := r.Locator()
	if value != "" {
		locator = fmt.Sprintf(`%s[value=%q]`, locator, value)
	}
	return NewCheckbox(r.env, fmt.Sprintf("[%s] Radio Option", value), locator)
}

// Check clicks the label wrapping the option with value.
func (r *RadioGroup) Check(ctx context.Context, value string) error {
	r.Logger().Debugf("choosing option %q", value)
	option := r.Choice(value)
	return option.act(ctx, "check", func(ctx context.Context, n interfaces.Node) error {
		parents, err := n.Query(ctx, "xpath=..")
		if err != nil {
			return err
		}
		if len(parents) == 0 {
			return fmt.Errorf("option %q has no parent label", value)
		}
		return parents[0].Click(ctx, entities.ClickOptions{})
	})
}

// AssertOptionChecked waits until the option with value is selected.
func (r *RadioGroup) AssertOptionChecked(ctx context.Context, value string) error {
	return r.Choice(value).AssertChecked(ctx)
}

// Switch is a switch-style toggle whose state lives in aria-checked.
type Switch struct {
	*Element
}

// NewSwitch creates a switch element.
func NewSwitch(env *Env, name, locator string, opts ...Option) *Switch {
	return &Switch{Element: newElement(env, entities.KindToggleable, name, locator, opts...)}
}

// Toggle flips the switch.
func (s *Switch) Toggle(ctx context.Context) error {
	s.Logger().Debugf("toggling")
	return s.act(ctx, "toggle", func(ctx context.Context, n interfaces.Node) error {
		return n.Click(ctx, entities.ClickOptions{})
	})
}

// AssertSetToTrue waits until aria-checked is "true".
func (s *Switch) AssertSetToTrue(ctx context.Context) error {
	return s.AssertAttributeEquals(ctx, "aria-checked", "true")
}

// AssertSetToFalse waits until aria-checked is "false".
func (s *Switch) AssertSetToFalse(ctx context.Context) error {
	return s.AssertAttributeEquals(ctx, "aria-checked", "false")
}
