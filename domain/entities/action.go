package entities

import "time"

// StepType is the kind of operation a scenario step performs
type StepType string

const (
	StepOpen           StepType = "open"
	StepOpenWithCookie StepType = "open_with_cookie"
	StepSetCookie      StepType = "set_cookie"
	StepReload         StepType = "reload"
	StepClick          StepType = "click"
	StepHover          StepType = "hover"
	StepTypeText       StepType = "type"
	StepFillVerified   StepType = "fill_verified"
	StepClear          StepType = "clear"
	StepCheck          StepType = "check"
	StepUncheck        StepType = "uncheck"
	StepToggle         StepType = "toggle"
	StepSelect         StepType = "select"
	StepAssertVisible  StepType = "assert_visible"
	StepAssertHidden   StepType = "assert_not_visible"
	StepAssertExists   StepType = "assert_exists"
	StepAssertAbsent   StepType = "assert_not_exists"
	StepAssertText     StepType = "assert_text"
	StepAssertContains StepType = "assert_contains_text"
	StepAssertValue    StepType = "assert_value"
	StepAssertURL      StepType = "assert_url"
	StepSettle         StepType = "settle"
	StepWait           StepType = "wait"
)

// Step represents a single operation of a scenario
type Step struct {
	Type        StepType      `yaml:"type" json:"type"`
	Name        string        `yaml:"name,omitempty" json:"name,omitempty"`
	Locator     string        `yaml:"locator,omitempty" json:"locator,omitempty"`
	XPath       bool          `yaml:"xpath,omitempty" json:"xpath,omitempty"`
	Text        string        `yaml:"text,omitempty" json:"text,omitempty"`
	URL         string        `yaml:"url,omitempty" json:"url,omitempty"`
	Pattern     string        `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Cookie      *Cookie       `yaml:"cookie,omitempty" json:"cookie,omitempty"`
	Secure      bool          `yaml:"secure,omitempty" json:"secure,omitempty"`
	Force       bool          `yaml:"force,omitempty" json:"force,omitempty"`
	Duration    time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
	Description string        `yaml:"description,omitempty" json:"description,omitempty"`
}

// Descriptor returns the element the step acts on
func (s Step) Descriptor() ElementDescriptor {
	name := s.Name
	if name == "" {
		name = s.Locator
	}
	return ElementDescriptor{Name: name, Locator: s.Locator, IsXPath: s.XPath}
}
