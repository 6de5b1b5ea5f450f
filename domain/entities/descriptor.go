package entities

import "strings"

// ElementDescriptor describes how to find a node on the page. It never holds a
// live reference: the node is re-queried on every operation.
type ElementDescriptor struct {
	Name    string `json:"name" yaml:"name"`
	Locator string `json:"locator" yaml:"locator"`
	IsXPath bool   `json:"is_xpath,omitempty" yaml:"xpath,omitempty"`
}

// Selector returns the locator in the form the driver understands.
func (d ElementDescriptor) Selector() string {
	if d.IsXPath && !strings.HasPrefix(d.Locator, "xpath=") {
		return "xpath=" + d.Locator
	}
	return d.Locator
}
