package page

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"ui_automation/application/element"
	"ui_automation/domain/entities"
)

// RetryPolicy bounds verified writes: one attempt every Interval until
// Timeout is used up. With Reload set the page is reloaded before each retry.
type RetryPolicy struct {
	Interval time.Duration
	Timeout  time.Duration
	Reload   bool
}

// DefaultRetryPolicy retries every second for five seconds, reloading in
// between.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Interval: time.Second, Timeout: 5 * time.Second, Reload: true}
}

// Attempts returns how many retries follow a failed first write.
func (p RetryPolicy) Attempts() int {
	if p.Interval <= 0 {
		return 1
	}
	n := int(p.Timeout / p.Interval)
	if n < 1 {
		return 1
	}
	return n
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(p.Attempts()-1))
	return backoff.WithContext(b, ctx)
}

// ReadBack selects where a written field is read back from.
type ReadBack int

const (
	// ReadValue reads the value of input-like fields.
	ReadValue ReadBack = iota
	// ReadText reads the text of contenteditable and div-based fields.
	ReadText
)

var errMismatch = errors.New("read back differs from written text")

// RetryableWriter writes into fields that may drop keystrokes and checks that
// the text actually arrived.
type RetryableWriter struct {
	page   *Page
	policy RetryPolicy
}

// NewRetryableWriter creates a writer reloading p between attempts.
func NewRetryableWriter(p *Page, policy RetryPolicy) *RetryableWriter {
	return &RetryableWriter{page: p, policy: policy}
}

func read(ctx context.Context, field *element.TextInput, from ReadBack) (string, error) {
	if from == ReadText {
		return field.Text(ctx)
	}
	return field.Value(ctx)
}

// FillVerified clears field, types text and reads it back. On a mismatch it
// keeps reloading the page and writing again until the text reads back or
// the policy is used up. No reload happens when the first write lands.
func (w *RetryableWriter) FillVerified(ctx context.Context, field *element.TextInput, text string, from ReadBack) (*element.TextInput, error) {
	var got string
	write := func(ctx context.Context) error {
		if err := field.Clear(ctx); err != nil {
			return err
		}
		if err := field.Type(ctx, text); err != nil {
			return err
		}
		var err error
		if got, err = read(ctx, field, from); err != nil {
			return err
		}
		if got != text {
			return errMismatch
		}
		return nil
	}

	err := write(ctx)
	if err == nil {
		return field, nil
	}

	attempts := 1
	retry := func() error {
		if err := w.spaceFirstRetry(ctx, attempts); err != nil {
			return err
		}
		attempts++
		if w.policy.Reload {
			if err := w.page.Reload(ctx); err != nil {
				return backoff.Permanent(err)
			}
		}
		return write(ctx)
	}
	notify := func(err error, next time.Duration) {
		field.Logger().Warnf("fill verified: %v (read %q), retrying in %s", err, field.Mask(got), next)
	}
	field.Logger().Warnf("fill verified: first write read back %q", field.Mask(got))
	if err = backoff.RetryNotify(retry, w.policy.backOff(ctx), notify); err == nil {
		return field, nil
	}

	verr := &entities.VerificationError{
		Entity:   field.Name(),
		Attempts: attempts,
		Expected: quoteMasked(field, text),
		Actual:   quoteMasked(field, got),
	}
	if !errors.Is(err, errMismatch) {
		verr.Err = err
	}
	return field, verr
}

// ClearVerified clears field and, while text remains, clicks and clears it
// again within the policy. It never reloads.
func (w *RetryableWriter) ClearVerified(ctx context.Context, field *element.TextInput) (*element.TextInput, error) {
	var left string
	check := func(ctx context.Context) error {
		value, err := field.Value(ctx)
		if err != nil {
			return err
		}
		text, err := field.Text(ctx)
		if err != nil {
			return err
		}
		if left = value + strings.TrimSpace(text); left != "" {
			return errMismatch
		}
		return nil
	}

	if err := field.Clear(ctx); err != nil {
		return field, err
	}
	err := check(ctx)
	if err == nil {
		return field, nil
	}

	attempts := 1
	retry := func() error {
		if err := w.spaceFirstRetry(ctx, attempts); err != nil {
			return err
		}
		attempts++
		if err := field.Click(ctx); err != nil {
			return err
		}
		if err := field.Clear(ctx); err != nil {
			return err
		}
		return check(ctx)
	}
	if err = backoff.Retry(retry, w.policy.backOff(ctx)); err == nil {
		return field, nil
	}

	verr := &entities.VerificationError{
		Entity:   field.Name(),
		Attempts: attempts,
		Expected: `""`,
		Actual:   quoteMasked(field, left),
	}
	if !errors.Is(err, errMismatch) {
		verr.Err = err
	}
	return field, verr
}

// spaceFirstRetry waits one interval before the first retry. The backoff
// only spaces the retries after it.
func (w *RetryableWriter) spaceFirstRetry(ctx context.Context, attempts int) error {
	if attempts > 1 {
		return nil
	}
	timer := time.NewTimer(w.policy.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return backoff.Permanent(ctx.Err())
	case <-timer.C:
		return nil
	}
}

func quoteMasked(field *element.TextInput, s string) string {
	if field.IsSecure() {
		return entities.MaskedValue
	}
	return `"` + s + `"`
}
