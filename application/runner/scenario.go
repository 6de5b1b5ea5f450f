package runner

import (
	"context"
	"fmt"
	"regexp"

	"ui_automation/application/element"
	"ui_automation/application/page"
	"ui_automation/domain/entities"
)

// ScenarioSpec turns a scenario into a spec running its steps in order.
func ScenarioSpec(sc entities.Scenario) Spec {
	return Spec{
		Name: sc.Name,
		Run: func(ctx context.Context, p *page.Page) error {
			var pattern *regexp.Regexp
			if sc.URLPattern != "" {
				var err error
				if pattern, err = regexp.Compile(sc.URLPattern); err != nil {
					return fmt.Errorf("scenario %q: invalid url_pattern: %w", sc.Name, err)
				}
			}
			for i, step := range sc.Steps {
				if err := executeStep(ctx, p, pattern, step); err != nil {
					return fmt.Errorf("step %d (%s): %w", i+1, step.Type, err)
				}
			}
			return nil
		},
	}
}

func elementOptions(step entities.Step) []element.Option {
	if step.XPath {
		return []element.Option{element.WithXPath()}
	}
	return nil
}

func requireLocator(step entities.Step) error {
	if step.Locator == "" {
		return fmt.Errorf("locator is required for %s", step.Type)
	}
	return nil
}

// executeStep - executes single scenario step
func executeStep(ctx context.Context, p *page.Page, pattern *regexp.Regexp, step entities.Step) error {
	if step.Description != "" {
		p.Logger().Stepf("%s", step.Description)
	}

	switch step.Type {
	case entities.StepOpen:
		return p.Open(ctx, step.URL)

	case entities.StepOpenWithCookie:
		if step.Cookie == nil {
			return fmt.Errorf("cookie is required for %s", step.Type)
		}
		return p.OpenWithCookie(ctx, step.URL, step.Cookie.Name, step.Cookie.Value)

	case entities.StepSetCookie:
		if step.Cookie == nil {
			return fmt.Errorf("cookie is required for %s", step.Type)
		}
		return p.SetCookie(ctx, step.Cookie.Name, step.Cookie.Value)

	case entities.StepReload:
		return p.Reload(ctx)

	case entities.StepSettle:
		return p.SettleDown(ctx)

	case entities.StepWait:
		return p.Wait(ctx, step.Duration)

	case entities.StepAssertURL:
		re := pattern
		if step.Pattern != "" {
			var err error
			if re, err = regexp.Compile(step.Pattern); err != nil {
				return fmt.Errorf("invalid pattern: %w", err)
			}
		}
		return p.VerifyURLMatches(ctx, re)
	}

	if err := requireLocator(step); err != nil {
		return err
	}
	d := step.Descriptor()
	env := p.Env()
	opts := elementOptions(step)

	switch step.Type {
	case entities.StepClick:
		return p.ClickOn(ctx, element.New(env, d.Name, d.Locator, opts...), entities.ClickOptions{Force: step.Force})

	case entities.StepHover:
		return element.New(env, d.Name, d.Locator, opts...).Hover(ctx)

	case entities.StepTypeText:
		return p.FillField(ctx, textInput(p, step, d), step.Text)

	case entities.StepFillVerified:
		return p.FillFieldVerified(ctx, textInput(p, step, d), step.Text)

	case entities.StepClear:
		return p.ClearField(ctx, textInput(p, step, d))

	case entities.StepCheck:
		return p.Tick(ctx, element.NewCheckbox(env, d.Name, d.Locator, opts...))

	case entities.StepUncheck:
		return p.Untick(ctx, element.NewCheckbox(env, d.Name, d.Locator, opts...))

	case entities.StepToggle:
		return p.SlideToggle(ctx, element.NewSwitch(env, d.Name, d.Locator, opts...))

	case entities.StepSelect:
		p.Logger().Stepf("Selecting %s option", step.Text)
		return element.NewSelect(env, d.Name, d.Locator, opts...).Select(ctx, step.Text)

	case entities.StepAssertVisible:
		return p.VerifyElementIsVisible(ctx, element.New(env, d.Name, d.Locator, opts...))

	case entities.StepAssertHidden:
		return p.VerifyElementNotVisible(ctx, element.New(env, d.Name, d.Locator, opts...))

	case entities.StepAssertExists:
		return p.VerifyElementExists(ctx, element.New(env, d.Name, d.Locator, opts...))

	case entities.StepAssertAbsent:
		return p.VerifyElementDoesNotExist(ctx, element.New(env, d.Name, d.Locator, opts...))

	case entities.StepAssertText:
		return p.VerifyElementHasText(ctx, element.New(env, d.Name, d.Locator, opts...), step.Text)

	case entities.StepAssertContains:
		return p.VerifyElementContainsText(ctx, element.New(env, d.Name, d.Locator, opts...), step.Text)

	case entities.StepAssertValue:
		return p.VerifyElementHasValue(ctx, textInput(p, step, d), step.Text)

	default:
		return fmt.Errorf("unknown step type: %s", step.Type)
	}
}

// textInput is secure when the step says so or the field name looks like it
// holds a secret.
func textInput(p *page.Page, step entities.Step, d entities.ElementDescriptor) *element.TextInput {
	env := p.Env()
	opts := elementOptions(step)
	if step.Secure || (env.Redactor != nil && env.Redactor.IsSensitiveName(d.Name)) {
		return element.NewSecureTextInput(env, d.Name, d.Locator, opts...)
	}
	return element.NewTextInput(env, d.Name, d.Locator, opts...)
}
