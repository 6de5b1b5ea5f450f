package element

import (
	"context"
	"strings"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// StepMarkers are the selectors of the three marker elements a step shows,
// one per state. A step is in a state when exactly that marker is present.
type StepMarkers struct {
	Active   string
	Ticked   string
	Inactive string
}

// Stepper is a progress indicator: a list of steps, each carrying one marker.
type Stepper struct {
	*List
	markers StepMarkers
}

// NewStepper creates a stepper whose steps are li children of locator.
func NewStepper(env *Env, name, locator string, markers StepMarkers, opts ...Option) *Stepper {
	return &Stepper{List: newList(env, entities.KindStepper, name, locator, DefaultItemLocator, opts...), markers: markers}
}

// classify reads the markers of a step.
func (s *Stepper) classify(ctx context.Context, step interfaces.Node) (entities.StepState, error) {
	state := entities.StepUnknown
	present := 0
	for _, m := range []struct {
		state    entities.StepState
		selector string
	}{
		{entities.StepActive, s.markers.Active},
		{entities.StepTicked, s.markers.Ticked},
		{entities.StepInactive, s.markers.Inactive},
	} {
		nodes, err := step.Query(ctx, m.selector)
		if err != nil {
			return entities.StepUnknown, err
		}
		if len(nodes) > 0 {
			present++
			state = m.state
		}
	}
	if present != 1 {
		return entities.StepUnknown, nil
	}
	return state, nil
}

// StepState returns the current state of the step ref points at.
func (s *Stepper) StepState(ctx context.Context, ref entities.ItemRef) (entities.StepState, error) {
	h, err := s.GetItem(ctx, ref)
	if err != nil {
		return entities.StepUnknown, err
	}
	return s.classify(ctx, h.First())
}

func (s *Stepper) assertState(ctx context.Context, ref entities.ItemRef, want entities.StepState) error {
	action := "assert step " + ref.String() + " " + string(want)
	return s.poll(ctx, action, string(want), func(ctx context.Context) (string, bool, error) {
		got, err := s.StepState(ctx, ref)
		return string(got), got == want, err
	})
}

// AssertStepIsActive checks that the active marker is the only one present.
func (s *Stepper) AssertStepIsActive(ctx context.Context, ref entities.ItemRef) error {
	return s.assertState(ctx, ref, entities.StepActive)
}

// AssertStepNotActive checks that the inactive marker is the only one present.
func (s *Stepper) AssertStepNotActive(ctx context.Context, ref entities.ItemRef) error {
	return s.assertState(ctx, ref, entities.StepInactive)
}

// AssertStepTicked checks that the ticked marker is the only one present.
func (s *Stepper) AssertStepTicked(ctx context.Context, ref entities.ItemRef) error {
	return s.assertState(ctx, ref, entities.StepTicked)
}

// AssertStepsAmount checks the number of steps.
func (s *Stepper) AssertStepsAmount(ctx context.Context, n int) error {
	return s.AssertListLength(ctx, n)
}

// AssertStepIncludesText checks that the step's text contains text.
func (s *Stepper) AssertStepIncludesText(ctx context.Context, ref entities.ItemRef, text string) error {
	return s.poll(ctx, "assert step "+ref.String()+" includes text", "text containing "+quote(text), func(ctx context.Context) (string, bool, error) {
		h, err := s.GetItem(ctx, ref)
		if err != nil {
			return "", false, err
		}
		got, err := h.Text(ctx)
		return quote(strings.TrimSpace(got)), containsText(got, text, entities.TextMatch{}), err
	})
}
