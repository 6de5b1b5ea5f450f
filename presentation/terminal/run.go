package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"ui_automation/application/element"
	"ui_automation/application/page"
	"ui_automation/application/plugins"
	"ui_automation/application/runner"
	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
	"ui_automation/infrastructure/config"
	"ui_automation/infrastructure/logging"
	"ui_automation/infrastructure/scenario"
	"ui_automation/infrastructure/storage"
)

// RunConfig converts the file configuration into what the runner takes.
func RunConfig(cfg *config.Config) runner.Config {
	return runner.Config{
		Launch: entities.LaunchOptions{
			Browser:        cfg.Browser.Name,
			Headless:       cfg.Browser.Headless,
			SlowMo:         cfg.Browser.SlowMo,
			Args:           append([]string(nil), cfg.Browser.Args...),
			Viewport:       cfg.Browser.Viewport,
			BaseURL:        cfg.BaseURL,
			CommandTimeout: cfg.Timeouts.Command,
			PageLoad:       cfg.Timeouts.PageLoad,
		},
		Timing: element.Timing{
			AttachTimeout: cfg.Timeouts.Attach,
			PollInterval:  cfg.Timeouts.PollInterval,
			SettleDelay:   cfg.Timeouts.SettleDelay,
			AssertTimeout: cfg.Timeouts.Assert,
		},
		IdleTimeout: cfg.Timeouts.Idle,
		Retry: page.RetryPolicy{
			Interval: cfg.Retry.Interval,
			Timeout:  cfg.Retry.Timeout,
			Reload:   cfg.Retry.Reload,
		},
	}
}

func (a *App) loadScenarios(args []string) ([]entities.Scenario, error) {
	patterns := a.cfg.Specs.Pattern
	if len(args) > 0 {
		patterns = args
	}
	m, err := scenario.NewMatcher(patterns, a.cfg.Specs.Exclude)
	if err != nil {
		return nil, err
	}
	scenarios, err := scenario.Load(a.dir, m)
	if err != nil {
		return nil, err
	}
	if len(scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios match %v under %s", patterns, a.dir)
	}
	return scenarios, nil
}

func newRunCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [patterns...]",
		Short: "Run the scenarios matching the configured or given patterns",
		RunE:  app.closeOnError(app.run),
	}
	cmd.Flags().String("base-url", "", "URL relative scenario paths are resolved against")
	cmd.Flags().String("browser", "", "browser engine: chromium, firefox or webkit")
	cmd.Flags().Bool("headed", false, "show the browser window")
	return cmd
}

func (a *App) run(cmd *cobra.Command, args []string) error {
	scenarios, err := a.loadScenarios(args)
	if err != nil {
		return err
	}
	specs := make([]runner.Spec, 0, len(scenarios))
	for _, sc := range scenarios {
		specs = append(specs, runner.ScenarioSpec(sc))
	}

	r := runner.NewRunner(a.newLauncher(a.logger), RunConfig(a.cfg), a.logger, logging.NewFactory(a.logger), a.redactor)

	var contributors []plugins.Contributor
	if a.cfg.Browser.DisableSHM {
		contributors = append(contributors, plugins.DisableSHM())
	}
	if a.cfg.State.Enabled {
		contributors = append(contributors, plugins.SessionState(storage.NewBrowserState(a.cfg.State.Path), a.logger))
	}
	plugins.InitPlugins(r.On, a.logger, contributors...)

	report, err := r.Run(cmd.Context(), specs)
	if report != nil {
		printReport(cmd.OutOrStdout(), report, a.redactor)
	}
	if err != nil {
		return err
	}
	if failed := report.Failed(); failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(report.Results))
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// printReport renders one row per scenario and a passed/failed footer.
// Errors go through the redactor since they never pass the log hook.
func printReport(out io.Writer, report *runner.Report, redactor interfaces.Redactor) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Run %s", report.RunID))
	t.AppendHeader(table.Row{"Status", "Scenario", "Duration", "Error"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Scenario", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Error", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	var total time.Duration
	for _, res := range report.Results {
		total += res.Duration
		msg := res.Error
		if redactor != nil {
			msg = redactor.Redact(msg)
		}
		t.AppendRow(table.Row{res.Status, res.Name, formatDuration(res.Duration), msg})
	}

	failed := report.Failed()
	if failed == 0 {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}
	if !isTerminal(out) {
		t.Style().Color = table.ColorOptions{}
	}
	t.Style().Format.Footer = text.FormatDefault
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d passed, %d failed", len(report.Results)-failed, failed),
		formatDuration(total),
		"",
	})
	t.Render()
}

func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [patterns...]",
		Short: "List the scenarios a run would execute",
		RunE: app.closeOnError(func(cmd *cobra.Command, args []string) error {
			scenarios, err := app.loadScenarios(args)
			if err != nil {
				return err
			}
			for _, sc := range scenarios {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s (%d steps)\n", sc.Source, sc.Name, len(sc.Steps))
			}
			return nil
		}),
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// Printing the version needs no configuration.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	}
}
