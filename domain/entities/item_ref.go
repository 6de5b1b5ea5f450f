package entities

import "fmt"

type itemRefKind int

const (
	refByIndex itemRefKind = iota
	refByText
)

// TextMatch controls how text is compared. The zero value is a case-sensitive
// substring match.
type TextMatch struct {
	IgnoreCase bool `json:"ignore_case,omitempty" yaml:"ignore_case,omitempty"`
}

// ItemRef addresses one item of a list: either by zero-based position or by
// the first item containing a text.
type ItemRef struct {
	kind  itemRefKind
	index int
	text  string
	match TextMatch
}

// ByIndex addresses the item at zero-based position i.
func ByIndex(i int) ItemRef {
	return ItemRef{kind: refByIndex, index: i}
}

// ByText addresses the first item whose text contains s.
func ByText(s string) ItemRef {
	return ItemRef{kind: refByText, text: s}
}

// IgnoreCase returns a copy of r matching text case-insensitively.
func (r ItemRef) IgnoreCase() ItemRef {
	r.match.IgnoreCase = true
	return r
}

// Index reports the position and whether r addresses by position.
func (r ItemRef) Index() (int, bool) {
	return r.index, r.kind == refByIndex
}

// Text reports the text, its match mode and whether r addresses by text.
func (r ItemRef) Text() (string, TextMatch, bool) {
	return r.text, r.match, r.kind == refByText
}

func (r ItemRef) String() string {
	if r.kind == refByIndex {
		return fmt.Sprintf("#%d", r.index)
	}
	return fmt.Sprintf("%q", r.text)
}
