// Package runner launches a browser and runs specs against it, firing the
// lifecycle hooks plugins subscribe to.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ui_automation/application/element"
	"ui_automation/application/page"
	"ui_automation/application/plugins"
	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// Spec is one test. It gets a fresh page opened on nothing.
type Spec struct {
	Name string
	Run  func(ctx context.Context, p *page.Page) error
}

// Config is what a run needs besides the browser.
type Config struct {
	Launch      entities.LaunchOptions
	Timing      element.Timing
	IdleTimeout time.Duration
	Retry       page.RetryPolicy
}

// Report summarizes a run.
type Report struct {
	RunID   string
	Results []entities.SpecResult
}

// Failed returns how many specs failed.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == entities.RunStatusFailed {
			n++
		}
	}
	return n
}

// Runner runs specs. It keeps a single hook per event, so a second On for the
// same event replaces the first; plugins.InitPlugins fans out over that slot.
type Runner struct {
	launcher interfaces.Launcher
	cfg      Config
	logger   *logrus.Logger
	logs     interfaces.LoggerFactory
	redactor interfaces.Redactor
	hooks    map[string]plugins.Callback
}

// NewRunner - creates a runner launching browsers with launcher
func NewRunner(launcher interfaces.Launcher, cfg Config, logger *logrus.Logger, logs interfaces.LoggerFactory, redactor interfaces.Redactor) *Runner {
	if cfg.Timing == (element.Timing{}) {
		cfg.Timing = element.DefaultTiming()
	}
	return &Runner{
		launcher: launcher,
		cfg:      cfg,
		logger:   logger,
		logs:     logs,
		redactor: redactor,
		hooks:    map[string]plugins.Callback{},
	}
}

// On sets the hook of event, replacing any earlier one.
func (r *Runner) On(event string, hook plugins.Callback) {
	if _, ok := r.hooks[event]; ok {
		r.logger.Warnf("replacing the %s hook", event)
	}
	r.hooks[event] = hook
}

func (r *Runner) fire(ctx context.Context, event string, payload any) error {
	hook, ok := r.hooks[event]
	if !ok {
		return nil
	}
	if err := hook(ctx, payload); err != nil {
		var pErr *entities.PluginSetupError
		if errors.As(err, &pErr) {
			return err
		}
		return &entities.PluginSetupError{Event: event, Err: err}
	}
	return nil
}

// fireAfter runs an after:* hook. Failures there are reported, not fatal.
func (r *Runner) fireAfter(ctx context.Context, log *logrus.Entry, event string, payload any) {
	if err := r.fire(ctx, event, payload); err != nil {
		log.WithError(err).Errorf("%s hook failed", event)
	}
}

// Run launches the browser and runs specs in order. A failing before:* hook
// aborts the run with its error; failing specs only show in the report.
func (r *Runner) Run(ctx context.Context, specs []Spec) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	log := r.logger.WithField("run_id", report.RunID)
	log.Infof("starting run of %d specs", len(specs))

	if err := r.fire(ctx, plugins.EventBeforeRun, report.RunID); err != nil {
		return report, err
	}

	opts := r.cfg.Launch
	opts.Args = append([]string(nil), opts.Args...)
	if err := r.fire(ctx, plugins.EventBeforeBrowserLaunch, &opts); err != nil {
		return report, err
	}

	session, err := r.launcher.Launch(ctx, &opts)
	if err != nil {
		return report, fmt.Errorf("failed to launch %s: %w", opts.Browser, err)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("failed to close browser")
		}
	}()

	for _, spec := range specs {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("run canceled: %w", ctx.Err())
		default:
		}

		if err := r.fire(ctx, plugins.EventBeforeSpec, &plugins.SpecStart{RunID: report.RunID, Name: spec.Name}); err != nil {
			return report, err
		}
		result := r.runSpec(ctx, log, session, opts, spec)
		report.Results = append(report.Results, result)
		r.fireAfter(ctx, log, plugins.EventAfterSpec, &result)
	}

	r.fireAfter(ctx, log, plugins.EventAfterRun, &plugins.RunEnd{RunID: report.RunID, Results: report.Results, Session: session})
	log.Infof("run finished: %d passed, %d failed", len(report.Results)-report.Failed(), report.Failed())
	return report, nil
}

func (r *Runner) runSpec(ctx context.Context, log *logrus.Entry, session interfaces.Session, opts entities.LaunchOptions, spec Spec) entities.SpecResult {
	result := entities.SpecResult{Name: spec.Name, Status: entities.RunStatusRunning}
	start := time.Now()
	log = log.WithField("spec", spec.Name)
	log.Info("running")

	driver, err := session.NewPage(ctx)
	if err != nil {
		result.Status = entities.RunStatusFailed
		result.Error = r.redact(fmt.Sprintf("failed to open page: %v", err))
		result.Duration = time.Since(start)
		log.Error(result.Error)
		return result
	}

	env := &element.Env{Driver: driver, Logs: r.logs, Redactor: r.redactor, Timing: r.cfg.Timing}
	p := page.New(env, spec.Name,
		page.WithBaseURL(opts.BaseURL),
		page.WithIdleTimeout(r.cfg.IdleTimeout),
		page.WithRetryPolicy(r.cfg.Retry),
	)

	err = runProtected(ctx, spec, p)
	result.Duration = time.Since(start)
	if err != nil {
		snap := p.Snapshot(ctx)
		result.Status = entities.RunStatusFailed
		result.Error = r.redact(err.Error())
		result.Snapshot = &snap
		log.WithError(err).WithField("url", snap.URL).Error("failed")
		return result
	}
	result.Status = entities.RunStatusPassed
	log.Infof("passed in %s", result.Duration.Round(time.Millisecond))
	return result
}

// redact masks protected values in text that leaves the process outside the
// logger, like result errors.
func (r *Runner) redact(text string) string {
	if r.redactor == nil {
		return text
	}
	return r.redactor.Redact(text)
}

func runProtected(ctx context.Context, spec Spec, p *page.Page) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("spec panicked: %v", rec)
		}
	}()
	return spec.Run(ctx, p)
}
