package element

import (
	"context"
	"regexp"

	"ui_automation/domain/entities"
)

// Variant is the behavior every capability variant shares through its
// embedded Element.
type Variant interface {
	Name() string
	Kind() entities.VariantKind
	Descriptor() entities.ElementDescriptor
	Locator() string

	Resolve(ctx context.Context) (Handle, error)
	Exists(ctx context.Context) (bool, error)
	IsAttached(ctx context.Context) (bool, error)
	IsDetached(ctx context.Context) (bool, error)

	Click(ctx context.Context, opts ...entities.ClickOptions) error
	Hover(ctx context.Context) error
	ScrollIntoView(ctx context.Context) error
	Text(ctx context.Context) (string, error)

	AssertExists(ctx context.Context) error
	AssertNotExists(ctx context.Context) error
	AssertVisible(ctx context.Context) error
	AssertNotVisible(ctx context.Context) error
	AssertEnabled(ctx context.Context) error
	AssertDisabled(ctx context.Context) error
	AssertHasText(ctx context.Context, text string) error
	AssertContainsText(ctx context.Context, text string) error
	AssertNotContainsText(ctx context.Context, text string) error
	AssertContainsRegexp(ctx context.Context, re *regexp.Regexp) error
	AssertHasValue(ctx context.Context, value string) error
	AssertAttributeEquals(ctx context.Context, name, value string) error
	AssertHasAttribute(ctx context.Context, name string) error
	AssertTextVisible(ctx context.Context, text string, m entities.TextMatch) error
}

var (
	_ Variant = (*Element)(nil)
	_ Variant = (*Checkbox)(nil)
	_ Variant = (*RadioGroup)(nil)
	_ Variant = (*Switch)(nil)
	_ Variant = (*TextInput)(nil)
	_ Variant = (*Select)(nil)
	_ Variant = (*StaticDropdown)(nil)
	_ Variant = (*DynamicDropdown)(nil)
	_ Variant = (*Table)(nil)
	_ Variant = (*List)(nil)
	_ Variant = (*Stepper)(nil)
)
