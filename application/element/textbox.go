package element

import (
	"context"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// TextInput is a text box. A secure text input never renders what is typed
// into it.
type TextInput struct {
	*Element
	secure bool
}

// NewTextInput creates a text box.
func NewTextInput(env *Env, name, locator string, opts ...Option) *TextInput {
	return &TextInput{Element: newElement(env, entities.KindTextInput, name, locator, opts...)}
}

// NewSecureTextInput creates a text box for passwords and other secrets.
func NewSecureTextInput(env *Env, name, locator string, opts ...Option) *TextInput {
	return &TextInput{Element: newElement(env, entities.KindSecureTextInput, name, locator, opts...), secure: true}
}

// IsSecure reports whether typed values are kept out of logs.
func (t *TextInput) IsSecure() bool { return t.secure }

// Mask returns what may be rendered in place of text.
func (t *TextInput) Mask(text string) string {
	if t.secure {
		return entities.MaskedValue
	}
	return text
}

// Clear empties the text box.
func (t *TextInput) Clear(ctx context.Context) error {
	t.Logger().Debugf("clearing")
	return t.act(ctx, "clear", func(ctx context.Context, n interfaces.Node) error {
		return n.Clear(ctx)
	})
}

// Type types text into the text box.
func (t *TextInput) Type(ctx context.Context, text string) error {
	if t.secure {
		t.protect(text)
	}
	t.Logger().Debugf("typing %q", t.Mask(text))
	return t.act(ctx, "type", func(ctx context.Context, n interfaces.Node) error {
		return n.Type(ctx, text, entities.TypeOptions{Sensitive: t.secure})
	})
}

// AssertHasValue waits until the text box value equals value. A secure text
// box renders neither value nor what it read.
func (t *TextInput) AssertHasValue(ctx context.Context, value string) error {
	if !t.secure {
		return t.Element.AssertHasValue(ctx, value)
	}
	t.protect(value)
	return t.should(ctx, "assert has value", entities.MaskedValue, func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.First().Value(ctx)
		if got == "" {
			return `""`, got == value, err
		}
		t.protect(got)
		return entities.MaskedValue, got == value, err
	})
}

func (t *TextInput) protect(secret string) {
	if t.env.Redactor != nil {
		t.env.Redactor.Protect(secret)
	}
}

// AssertEmpty waits until the text box has no value.
func (t *TextInput) AssertEmpty(ctx context.Context) error {
	return t.assertBlank(ctx, "assert empty", true)
}

// AssertNotEmpty waits until the text box has a value.
func (t *TextInput) AssertNotEmpty(ctx context.Context) error {
	return t.assertBlank(ctx, "assert not empty", false)
}
