package entities

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrAttachmentTimeout means the element never appeared attached to the
	// document within the wait window.
	ErrAttachmentTimeout = errors.New("element never stabilized")
	// ErrVerificationExhausted means a verified write kept reading back a
	// different value until the retry budget ran out.
	ErrVerificationExhausted = errors.New("verification retries exhausted")
	// ErrAssertion is an expectation mismatch.
	ErrAssertion = errors.New("assertion failed")
	// ErrPluginSetup means a lifecycle plugin callback failed.
	ErrPluginSetup = errors.New("plugin setup failed")
	// ErrActionFailed means the driver rejected an action on a resolved node.
	ErrActionFailed = errors.New("action failed")
)

// ElementError reports a failed operation on a named element.
type ElementError struct {
	Entity  string
	Action  string
	Locator string
	Kind    error
	Err     error
}

func (e *ElementError) Error() string {
	msg := fmt.Sprintf("[%s] %s: %v (locator %q)", e.Entity, e.Action, e.Kind, e.Locator)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ElementError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// NewAttachmentTimeout builds the error returned when polling gives up.
func NewAttachmentTimeout(entity, action, locator string, window time.Duration, last error) *ElementError {
	err := fmt.Errorf("not attached after %s", window)
	if last != nil {
		err = fmt.Errorf("not attached after %s: %w", window, last)
	}
	return &ElementError{Entity: entity, Action: action, Locator: locator, Kind: ErrAttachmentTimeout, Err: err}
}

// AssertionError is an expectation mismatch on a named entity.
type AssertionError struct {
	Entity   string
	Action   string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("[%s] %s: expected %s, got %s", e.Entity, e.Action, e.Expected, e.Actual)
}

func (e *AssertionError) Is(target error) bool { return target == ErrAssertion }

// VerificationError is returned when a verified write never reads back the
// written text.
type VerificationError struct {
	Entity   string
	Attempts int
	Expected string
	Actual   string
	Err      error
}

func (e *VerificationError) Error() string {
	msg := fmt.Sprintf("[%s] fill verified: %v after %d attempts: expected %s, got %s",
		e.Entity, ErrVerificationExhausted, e.Attempts, e.Expected, e.Actual)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *VerificationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrVerificationExhausted, ErrAssertion}
	}
	return []error{ErrVerificationExhausted, ErrAssertion, e.Err}
}

// PluginSetupError wraps a failing lifecycle callback.
type PluginSetupError struct {
	Event string
	Index int
	Err   error
}

func (e *PluginSetupError) Error() string {
	return fmt.Sprintf("%v: event %q callback #%d: %v", ErrPluginSetup, e.Event, e.Index, e.Err)
}

func (e *PluginSetupError) Unwrap() []error { return []error{ErrPluginSetup, e.Err} }
