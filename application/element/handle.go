package element

import (
	"context"
	"strings"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Handle is the node set an operation resolved. It belongs to the call chain
// that produced it: keep it for the next line of a test, not across steps.
type Handle struct {
	owner string
	nodes []interfaces.Node
}

// Len returns the number of nodes.
func (h Handle) Len() int { return len(h.nodes) }

// Nodes returns the resolved nodes.
func (h Handle) Nodes() []interfaces.Node { return h.nodes }

// First returns the first node, or nil for an empty handle.
func (h Handle) First() interfaces.Node {
	if len(h.nodes) == 0 {
		return nil
	}
	return h.nodes[0]
}

// Text returns the text of all nodes joined together.
func (h Handle) Text(ctx context.Context) (string, error) {
	var b strings.Builder
	for _, n := range h.nodes {
		t, err := n.Text(ctx)
		if err != nil {
			return "", err
		}
		b.WriteString(t)
	}
	return b.String(), nil
}

// Click clicks the first node.
func (h Handle) Click(ctx context.Context, opts entities.ClickOptions) error {
	if len(h.nodes) == 0 {
		return &entities.ElementError{Entity: h.owner, Action: "click", Kind: entities.ErrActionFailed, Err: errNotFound}
	}
	return h.nodes[0].Click(ctx, opts)
}
