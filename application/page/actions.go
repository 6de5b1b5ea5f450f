package page

import (
	"context"

	"ui_automation/application/element"
	"ui_automation/domain/entities"
)

// The actions below log a step line before delegating to the element, so a
// test's log reads as the list of things it did. Secret field values are
// masked in every line.

// ClickOn clicks el.
func (p *Page) ClickOn(ctx context.Context, el element.Variant, opts ...entities.ClickOptions) error {
	p.Logger().Stepf("Clicking on the [%s]", el.Name())
	return el.Click(ctx, opts...)
}

// Tick checks a checkbox.
func (p *Page) Tick(ctx context.Context, cb *element.Checkbox) error {
	p.Logger().Stepf("Tick the %s", cb.Name())
	return cb.Check(ctx)
}

// Untick unchecks a checkbox.
func (p *Page) Untick(ctx context.Context, cb *element.Checkbox) error {
	p.Logger().Stepf("Untick the %s", cb.Name())
	return cb.Uncheck(ctx)
}

// SlideToggle flips a switch.
func (p *Page) SlideToggle(ctx context.Context, sw *element.Switch) error {
	p.Logger().Stepf("Sliding [%s] toggle", sw.Name())
	return sw.Toggle(ctx)
}

// FillField clears field and types text, without verifying.
func (p *Page) FillField(ctx context.Context, field *element.TextInput, text string) error {
	p.Logger().Stepf("Filling the [%s] field with [%s]", field.Name(), field.Mask(text))
	if err := field.Clear(ctx); err != nil {
		return err
	}
	return field.Type(ctx, text)
}

// FillFieldVerified writes text into an input and retries until its value
// reads back as text.
func (p *Page) FillFieldVerified(ctx context.Context, field *element.TextInput, text string) error {
	p.Logger().Stepf("Filling the [%s] field with [%s]", field.Name(), field.Mask(text))
	_, err := p.Writer().FillVerified(ctx, field, text, ReadValue)
	return err
}

// FillDivFieldVerified is FillFieldVerified for fields whose content is text
// rather than a value.
func (p *Page) FillDivFieldVerified(ctx context.Context, field *element.TextInput, text string) error {
	p.Logger().Stepf("Filling the [%s] field with [%s]", field.Name(), field.Mask(text))
	_, err := p.Writer().FillVerified(ctx, field, text, ReadText)
	return err
}

// ClearField clears field.
func (p *Page) ClearField(ctx context.Context, field *element.TextInput) error {
	p.Logger().Stepf("Clearing the [%s] field", field.Name())
	return field.Clear(ctx)
}

// ClearFieldVerified clears field until it reads back empty.
func (p *Page) ClearFieldVerified(ctx context.Context, field *element.TextInput) error {
	p.Logger().Stepf("Clearing the [%s] field", field.Name())
	_, err := p.Writer().ClearVerified(ctx, field)
	return err
}

// Selectable is a dropdown that can pick an option by its text.
type Selectable interface {
	Name() string
	Select(ctx context.Context, option string, o element.SelectOptions) error
}

// SelectOption picks option in a dropdown.
func (p *Page) SelectOption(ctx context.Context, dd Selectable, option string, o element.SelectOptions) error {
	p.Logger().Stepf("Selecting %s option", option)
	return dd.Select(ctx, option, o)
}

// VerifyDropdownSelectedValue checks the text shown in a dropdown input bar.
func (p *Page) VerifyDropdownSelectedValue(ctx context.Context, dd *element.Dropdown, expected string) error {
	p.Logger().Stepf("Verifying if the [%s] has text: [%s]", dd.Name(), expected)
	return dd.VerifySelectedValue(ctx, expected)
}

func (p *Page) VerifyElementExists(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Verifying that the [%s] exists", el.Name())
	return el.AssertExists(ctx)
}

func (p *Page) VerifyElementDoesNotExist(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Verifying that the [%s] does not exist", el.Name())
	return el.AssertNotExists(ctx)
}

func (p *Page) VerifyElementIsVisible(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Checking that the [%s] is visible", el.Name())
	return el.AssertVisible(ctx)
}

func (p *Page) VerifyElementNotVisible(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Checking that the [%s] is not visible", el.Name())
	return el.AssertNotVisible(ctx)
}

func (p *Page) VerifyElementIsEnabled(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Checking that the [%s] is enabled", el.Name())
	return el.AssertEnabled(ctx)
}

func (p *Page) VerifyElementIsDisabled(ctx context.Context, el element.Variant) error {
	p.Logger().Stepf("Checking that the [%s] is disabled", el.Name())
	return el.AssertDisabled(ctx)
}

func (p *Page) VerifyElementHasText(ctx context.Context, el element.Variant, expected string) error {
	p.Logger().Stepf("Verifying if the [%s] has text [%s]", el.Name(), expected)
	return el.AssertHasText(ctx, expected)
}

func (p *Page) VerifyElementContainsText(ctx context.Context, el element.Variant, expected string) error {
	p.Logger().Stepf("Checking that the [%s] contains text [%s]", el.Name(), expected)
	return el.AssertContainsText(ctx, expected)
}

func (p *Page) VerifyElementNotContainsText(ctx context.Context, el element.Variant, text string) error {
	p.Logger().Stepf("Checking that the [%s] does not contain text [%s]", el.Name(), text)
	return el.AssertNotContainsText(ctx, text)
}

// VerifyElementTextIsVisible scrolls el into view and checks it shows text.
func (p *Page) VerifyElementTextIsVisible(ctx context.Context, el element.Variant, text string, m entities.TextMatch) error {
	p.Logger().Stepf("Checking that the [%s] shows text [%s]", el.Name(), text)
	if err := el.ScrollIntoView(ctx); err != nil {
		return err
	}
	return el.AssertTextVisible(ctx, text, m)
}

// VerifyElementHasValue checks the value of el. Secure fields are masked in
// the step line.
func (p *Page) VerifyElementHasValue(ctx context.Context, el element.Variant, expected string) error {
	shown := expected
	if field, ok := el.(*element.TextInput); ok {
		shown = field.Mask(expected)
	}
	p.Logger().Stepf("Verifying if the [%s] has value [%s]", el.Name(), shown)
	return el.AssertHasValue(ctx, expected)
}

func (p *Page) VerifyAttributeEqualsValue(ctx context.Context, el element.Variant, attribute, expected string) error {
	p.Logger().Stepf("Checking the [%s] attribute of [%s] has a value of [%s]", el.Name(), attribute, expected)
	return el.AssertAttributeEquals(ctx, attribute, expected)
}

func (p *Page) VerifyElementHasAttribute(ctx context.Context, el element.Variant, attribute string) error {
	p.Logger().Stepf("Checking the [%s] has an attribute of [%s]", el.Name(), attribute)
	return el.AssertHasAttribute(ctx, attribute)
}

func (p *Page) VerifyToggleSetToTrue(ctx context.Context, sw *element.Switch) error {
	p.Logger().Stepf("Verifying that the [%s] is set to true", sw.Name())
	return sw.AssertSetToTrue(ctx)
}

func (p *Page) VerifyToggleSetToFalse(ctx context.Context, sw *element.Switch) error {
	p.Logger().Stepf("Verifying that the [%s] is set to false", sw.Name())
	return sw.AssertSetToFalse(ctx)
}

func (p *Page) VerifyIsChecked(ctx context.Context, cb *element.Checkbox) error {
	p.Logger().Stepf("Checking the [%s] is checked", cb.Name())
	return cb.AssertChecked(ctx)
}

func (p *Page) VerifyIsNotChecked(ctx context.Context, cb *element.Checkbox) error {
	p.Logger().Stepf("Checking the [%s] is not checked", cb.Name())
	return cb.AssertUnchecked(ctx)
}

func (p *Page) VerifyTextBoxIsEmpty(ctx context.Context, field *element.TextInput) error {
	p.Logger().Stepf("Checking that the [%s] field is empty", field.Name())
	return field.AssertEmpty(ctx)
}
