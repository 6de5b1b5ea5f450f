package element

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// checkFunc inspects a resolved handle and reports what it saw.
type checkFunc func(ctx context.Context, h Handle) (actual string, ok bool, err error)

// should resolves the element and runs check until it passes or the assert
// timeout elapses.
func (e *Element) should(ctx context.Context, action, expected string, check checkFunc) error {
	e.Logger().Debugf("%s: expecting %s", action, expected)
	return e.poll(ctx, action, expected, func(ctx context.Context) (string, bool, error) {
		h, err := e.resolve(ctx, action, e.env.Timing.AttachTimeout)
		if err != nil {
			return "", false, err
		}
		return check(ctx, h)
	})
}

func quote(s string) string { return strconv.Quote(s) }

func countOf(n int, what string) string { return fmt.Sprintf("%d × %s", n, what) }

func boolCheck(probe func(ctx context.Context, n interfaces.Node) (bool, error), want bool, yes, no string) checkFunc {
	return func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := probe(ctx, h.First())
		if err != nil {
			return "", false, err
		}
		if got {
			return yes, got == want, nil
		}
		return no, got == want, nil
	}
}

func isVisible(ctx context.Context, n interfaces.Node) (bool, error) { return n.IsVisible(ctx) }
func isEnabled(ctx context.Context, n interfaces.Node) (bool, error) { return n.IsEnabled(ctx) }
func isChecked(ctx context.Context, n interfaces.Node) (bool, error) { return n.IsChecked(ctx) }

// AssertExists waits until the element is present and attached.
func (e *Element) AssertExists(ctx context.Context) error {
	return e.should(ctx, "assert exists", "element to exist", func(context.Context, Handle) (string, bool, error) {
		return "present", true, nil
	})
}

// AssertNotExists waits until the locator matches nothing.
func (e *Element) AssertNotExists(ctx context.Context) error {
	return e.poll(ctx, "assert not exists", "no matching element", func(ctx context.Context) (string, bool, error) {
		nodes, err := e.query(ctx)
		return countOf(len(nodes), "match"), len(nodes) == 0, err
	})
}

// AssertAttached waits until the element resolves attached.
func (e *Element) AssertAttached(ctx context.Context) error {
	return e.should(ctx, "assert attached", "attached element", func(context.Context, Handle) (string, bool, error) {
		return "attached", true, nil
	})
}

// AssertDetached waits until the locator no longer matches attached nodes.
func (e *Element) AssertDetached(ctx context.Context) error {
	return e.poll(ctx, "assert detached", "element detached", func(ctx context.Context) (string, bool, error) {
		detached, err := e.IsDetached(ctx)
		return "attached", detached, err
	})
}

// AssertVisible waits until the element is visible.
func (e *Element) AssertVisible(ctx context.Context) error {
	return e.should(ctx, "assert visible", "visible", boolCheck(isVisible, true, "visible", "hidden"))
}

// AssertNotVisible waits until the element is present but hidden.
func (e *Element) AssertNotVisible(ctx context.Context) error {
	return e.should(ctx, "assert not visible", "hidden", boolCheck(isVisible, false, "visible", "hidden"))
}

// AssertEnabled waits until the element is enabled.
func (e *Element) AssertEnabled(ctx context.Context) error {
	e.Logger().Stepf("Checking that [%s] element is enabled", e.Name())
	return e.should(ctx, "assert enabled", "enabled", boolCheck(isEnabled, true, "enabled", "disabled"))
}

// AssertDisabled waits until the element is disabled.
func (e *Element) AssertDisabled(ctx context.Context) error {
	e.Logger().Stepf("Checking that [%s] element is disabled", e.Name())
	return e.should(ctx, "assert disabled", "disabled", boolCheck(isEnabled, false, "enabled", "disabled"))
}

// AssertHasText waits until the element text equals text exactly.
func (e *Element) AssertHasText(ctx context.Context, text string) error {
	return e.should(ctx, "assert has text", quote(text), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.Text(ctx)
		return quote(got), got == text, err
	})
}

// AssertContainsText waits until the element text contains text.
func (e *Element) AssertContainsText(ctx context.Context, text string) error {
	return e.should(ctx, "assert contains text", "text containing "+quote(text), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.Text(ctx)
		return quote(got), containsText(got, text, entities.TextMatch{}), err
	})
}

// AssertNotContainsText waits until the element text does not contain text.
func (e *Element) AssertNotContainsText(ctx context.Context, text string) error {
	return e.should(ctx, "assert not contains text", "text without "+quote(text), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.Text(ctx)
		return quote(got), !containsText(got, text, entities.TextMatch{}), err
	})
}

// AssertTextVisible waits until the element shows text and is visible.
func (e *Element) AssertTextVisible(ctx context.Context, text string, m entities.TextMatch) error {
	return e.should(ctx, "assert text visible", "visible text "+quote(text), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.Text(ctx)
		if err != nil {
			return "", false, err
		}
		if !containsText(got, text, m) {
			return quote(got), false, nil
		}
		visible, err := h.First().IsVisible(ctx)
		if err != nil {
			return "", false, err
		}
		return "hidden " + quote(got), visible, nil
	})
}

// AssertContainsRegexp waits until the element text matches re.
func (e *Element) AssertContainsRegexp(ctx context.Context, re *regexp.Regexp) error {
	return e.should(ctx, "assert matches", "text matching "+re.String(), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.Text(ctx)
		return quote(got), re.MatchString(got), err
	})
}

// AssertHasValue waits until the element value equals value.
func (e *Element) AssertHasValue(ctx context.Context, value string) error {
	return e.should(ctx, "assert has value", quote(value), func(ctx context.Context, h Handle) (string, bool, error) {
		got, err := h.First().Value(ctx)
		return quote(got), got == value, err
	})
}

// AssertHasAttribute waits until the element carries attribute name.
func (e *Element) AssertHasAttribute(ctx context.Context, name string) error {
	return e.should(ctx, "assert has attribute", "attribute "+name, func(ctx context.Context, h Handle) (string, bool, error) {
		_, ok, err := h.First().Attribute(ctx, name)
		return "no attribute " + name, ok, err
	})
}

// AssertAttributeEquals waits until attribute name equals value.
func (e *Element) AssertAttributeEquals(ctx context.Context, name, value string) error {
	return e.should(ctx, "assert attribute "+name, quote(value), func(ctx context.Context, h Handle) (string, bool, error) {
		got, ok, err := h.First().Attribute(ctx, name)
		if !ok {
			return "no attribute " + name, false, err
		}
		return quote(got), got == value, err
	})
}

// AssertHasClass waits until the class list contains class.
func (e *Element) AssertHasClass(ctx context.Context, class string) error {
	return e.should(ctx, "assert has class", "class "+class, func(ctx context.Context, h Handle) (string, bool, error) {
		got, _, err := h.First().Attribute(ctx, "class")
		for _, c := range strings.Fields(got) {
			if c == class {
				return quote(got), true, err
			}
		}
		return quote(got), false, err
	})
}

// assertBlank waits until the element has no value and no text, or until it
// has either when blank is false.
func (e *Element) assertBlank(ctx context.Context, action string, blank bool) error {
	expected := "empty"
	if !blank {
		expected = "not empty"
	}
	return e.should(ctx, action, expected, func(ctx context.Context, h Handle) (string, bool, error) {
		value, err := h.First().Value(ctx)
		if err != nil {
			return "", false, err
		}
		text, err := h.Text(ctx)
		if err != nil {
			return "", false, err
		}
		empty := value == "" && normalize(text) == ""
		return quote(value + text), empty == blank, nil
	})
}

// AssertLength waits until the locator matches exactly n attached nodes.
func (e *Element) AssertLength(ctx context.Context, n int) error {
	return e.should(ctx, "assert length", strconv.Itoa(n), func(ctx context.Context, h Handle) (string, bool, error) {
		return strconv.Itoa(h.Len()), h.Len() == n, nil
	})
}

// AssertLengthAtLeast waits until the locator matches at least n nodes.
func (e *Element) AssertLengthAtLeast(ctx context.Context, n int) error {
	return e.should(ctx, "assert length at least", strconv.Itoa(n), func(ctx context.Context, h Handle) (string, bool, error) {
		return strconv.Itoa(h.Len()), h.Len() >= n, nil
	})
}
