package entities

import "time"

// ClickOptions controls a single click.
type ClickOptions struct {
	// Force skips actionability checks (visibility, covering elements).
	Force bool `json:"force,omitempty" yaml:"force,omitempty"`
}

// TypeOptions controls keyboard input.
type TypeOptions struct {
	Delay time.Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	// Sensitive marks the text as secret: drivers must not log or trace it.
	Sensitive bool `json:"-" yaml:"-"`
}

// Cookie is a browser cookie scoped to URL.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	URL   string `json:"url,omitempty"`
}

// MaskedValue replaces secret values wherever they would be rendered.
const MaskedValue = "********"
