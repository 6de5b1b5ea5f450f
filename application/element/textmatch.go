package element

import (
	"context"
	"strings"

	"golang.org/x/text/cases"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// normalize collapses runs of whitespace the way rendered text reads.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func containsText(haystack, needle string, m entities.TextMatch) bool {
	haystack, needle = normalize(haystack), normalize(needle)
	if m.IgnoreCase {
		fold := cases.Fold()
		return strings.Contains(fold.String(haystack), fold.String(needle))
	}
	return strings.Contains(haystack, needle)
}

// firstContaining returns the first node whose text contains text.
func firstContaining(ctx context.Context, nodes []interfaces.Node, text string, m entities.TextMatch) (interfaces.Node, error) {
	for _, n := range nodes {
		got, err := n.Text(ctx)
		if err != nil {
			return nil, err
		}
		if containsText(got, text, m) {
			return n, nil
		}
	}
	return nil, nil
}

// allContaining returns every node whose text contains text.
func allContaining(ctx context.Context, nodes []interfaces.Node, text string, m entities.TextMatch) ([]interfaces.Node, error) {
	var out []interfaces.Node
	for _, n := range nodes {
		got, err := n.Text(ctx)
		if err != nil {
			return nil, err
		}
		if containsText(got, text, m) {
			out = append(out, n)
		}
	}
	return out, nil
}
