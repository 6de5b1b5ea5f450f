package element

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

var (
	errNotFound = errors.New("no node matches the locator")
	errDetached = errors.New("node detached from the document")
)

type queryFunc func(ctx context.Context) ([]interfaces.Node, error)

// Eventually calls fn every interval until it returns nil or timeout elapses.
// It returns the last error fn produced, so callers see the real mismatch
// rather than a bare deadline error.
func Eventually(ctx context.Context, timeout, interval time.Duration, fn func(ctx context.Context) error) error {
	if interval <= 0 {
		interval = time.Millisecond
	}
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var last error
	op := func() error {
		err := fn(pollCtx)
		if err != nil && (last == nil || pollCtx.Err() == nil) {
			last = err
		}
		return err
	}
	err := backoff.Retry(op, backoff.WithContext(backoff.NewConstantBackOff(interval), pollCtx))
	if err == nil {
		return nil
	}
	if last != nil {
		return last
	}
	return err
}

// stabilize re-queries until every matched node is attached after the settle
// delay. The returned nodes passed the attachment check right before return.
func stabilize(ctx context.Context, query queryFunc, t Timing, window time.Duration) ([]interfaces.Node, error) {
	var nodes []interfaces.Node
	err := Eventually(ctx, window, t.PollInterval, func(ctx context.Context) error {
		found, err := query(ctx)
		if err != nil {
			return err
		}
		if len(found) == 0 {
			return errNotFound
		}
		if err := sleep(ctx, t.SettleDelay); err != nil {
			return err
		}
		for _, n := range found {
			attached, err := n.IsAttached(ctx)
			if err != nil {
				return err
			}
			if !attached {
				return errDetached
			}
		}
		nodes = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// asAssertion keeps assertion and attachment errors as they are and reports
// anything else as a mismatch of the named action.
func asAssertion(err error, entity, action, expected string) error {
	if errors.Is(err, entities.ErrAssertion) || errors.Is(err, entities.ErrAttachmentTimeout) {
		return err
	}
	return &entities.AssertionError{Entity: entity, Action: action, Expected: expected, Actual: err.Error()}
}
