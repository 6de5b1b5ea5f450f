// Package plugins lets independent contributors share the lifecycle hooks of
// a runner that only keeps one hook per event.
package plugins

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ui_automation/domain/entities"
)

// Lifecycle events of a run
const (
	EventBeforeRun           = "before:run"
	EventBeforeBrowserLaunch = "before:browser:launch"
	EventBeforeSpec          = "before:spec"
	EventAfterSpec           = "after:spec"
	EventAfterRun            = "after:run"
)

// Callback handles one event. payload is event specific, a
// *entities.LaunchOptions for before:browser:launch.
type Callback func(ctx context.Context, payload any) error

// On subscribes a callback to an event.
type On func(event string, cb Callback)

// Contributor is a plugin. It subscribes to events through on and must not
// keep on after it returns.
type Contributor func(on On)

// RegisterHook is the single-slot hook registration of a host runner.
type RegisterHook func(event string, hook Callback)

type phase int

const (
	registering phase = iota
	frozen
)

// Registry holds the callbacks of every event in subscription order. It is
// written while contributors run and only read afterwards.
type Registry struct {
	phase     phase
	events    []string
	callbacks map[string][]Callback
	logger    *logrus.Entry
}

// InitPlugins runs every contributor, freezes the registry and installs one
// hook per subscribed event with register. Each hook runs the callbacks of
// its event one after another in subscription order.
func InitPlugins(register RegisterHook, logger *logrus.Logger, contributors ...Contributor) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Registry{
		callbacks: map[string][]Callback{},
		logger:    logger.WithField("component", "plugins"),
	}
	for _, contribute := range contributors {
		contribute(r.on)
	}
	r.phase = frozen

	for _, event := range r.events {
		r.logger.Debugf("installing %s hook with %d callbacks", event, len(r.callbacks[event]))
		register(event, r.dispatcher(event))
	}
	return r
}

func (r *Registry) on(event string, cb Callback) {
	if r.phase != registering {
		panic(fmt.Sprintf("plugins: subscribing to %q after registration closed", event))
	}
	if cb == nil {
		return
	}
	if _, seen := r.callbacks[event]; !seen {
		r.events = append(r.events, event)
	}
	r.callbacks[event] = append(r.callbacks[event], cb)
}

// Events returns the subscribed events in the order they were first seen.
func (r *Registry) Events() []string {
	return append([]string(nil), r.events...)
}

// Callbacks returns how many callbacks are subscribed to event.
func (r *Registry) Callbacks(event string) int {
	return len(r.callbacks[event])
}

// Dispatch runs the callbacks of event. It stops at the first failure, which
// is returned as a *entities.PluginSetupError.
func (r *Registry) Dispatch(ctx context.Context, event string, payload any) error {
	return r.dispatcher(event)(ctx, payload)
}

func (r *Registry) dispatcher(event string) Callback {
	callbacks := r.callbacks[event]
	return func(ctx context.Context, payload any) error {
		for i, cb := range callbacks {
			if err := ctx.Err(); err != nil {
				return &entities.PluginSetupError{Event: event, Index: i, Err: err}
			}
			if err := invoke(ctx, cb, payload); err != nil {
				r.logger.WithError(err).Errorf("%s callback #%d failed", event, i)
				return &entities.PluginSetupError{Event: event, Index: i, Err: err}
			}
		}
		return nil
	}
}

func invoke(ctx context.Context, cb Callback, payload any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return cb(ctx, payload)
}
