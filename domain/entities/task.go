package entities

import "time"

// Scenario is a named sequence of steps loaded from a spec file
type Scenario struct {
	Name       string `yaml:"name" json:"name"`
	URLPattern string `yaml:"url_pattern,omitempty" json:"url_pattern,omitempty"`
	Steps      []Step `yaml:"steps" json:"steps"`
	Source     string `yaml:"-" json:"source,omitempty"`
}

// RunStatus represents the status of a spec run
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusPassed  RunStatus = "passed"
	RunStatusFailed  RunStatus = "failed"
	RunStatusSkipped RunStatus = "skipped"
)

// SpecResult is the outcome of one spec
type SpecResult struct {
	Name     string        `json:"name"`
	Status   RunStatus     `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
	Snapshot *PageSnapshot `json:"snapshot,omitempty"`
}
