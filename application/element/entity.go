// Package element implements page-object elements: a stabilized way to
// address DOM nodes and the capability variants built on top of it.
package element

import (
	"time"

	"ui_automation/domain/interfaces"
)

// Entity is a named thing on a page with its own log sink.
type Entity struct {
	name   string
	logger interfaces.EntityLogger
}

// NewEntity creates an entity logging through logs.
func NewEntity(name string, logs interfaces.LoggerFactory) Entity {
	return Entity{name: name, logger: logs.ForEntity(name)}
}

// Name is the human readable name used in logs and errors.
func (e Entity) Name() string { return e.name }

// Logger returns the entity's log sink.
func (e Entity) Logger() interfaces.EntityLogger { return e.logger }

// Timing holds the wait windows used while resolving and asserting.
type Timing struct {
	// AttachTimeout bounds how long Resolve waits for an attached node.
	AttachTimeout time.Duration
	// PollInterval is the pause between two resolution attempts.
	PollInterval time.Duration
	// SettleDelay is waited between finding a node and checking that it is
	// still attached. A node detached by a re-render can still be returned
	// by the query that ran just before the re-render finished.
	SettleDelay time.Duration
	// AssertTimeout bounds how long assertions keep retrying.
	AssertTimeout time.Duration
}

// DefaultTiming returns the stock wait windows.
func DefaultTiming() Timing {
	return Timing{
		AttachTimeout: time.Second,
		PollInterval:  10 * time.Millisecond,
		SettleDelay:   10 * time.Millisecond,
		AssertTimeout: 4 * time.Second,
	}
}

// Env is what every element of one page shares.
type Env struct {
	Driver   interfaces.Driver
	Logs     interfaces.LoggerFactory
	Redactor interfaces.Redactor
	Timing   Timing
}

func (env *Env) interval() time.Duration {
	if env.Timing.PollInterval <= 0 {
		return time.Millisecond
	}
	return env.Timing.PollInterval
}
