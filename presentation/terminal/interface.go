// Package terminal is the uitest command line.
package terminal

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"ui_automation/domain/interfaces"
	"ui_automation/infrastructure/browser"
	"ui_automation/infrastructure/config"
	"ui_automation/infrastructure/logging"
	"ui_automation/infrastructure/security"
)

// Version is set at build time with
// -ldflags "-X ui_automation/presentation/terminal.Version=1.2.3".
var Version = "dev"

// LauncherFactory builds the browser launcher of a run.
type LauncherFactory func(logger *logrus.Logger) interfaces.Launcher

// App holds what every command shares once the configuration is read.
type App struct {
	cfgFile     string
	envFiles    []string
	dir         string
	newLauncher LauncherFactory

	cfg      *config.Config
	logger   *logrus.Logger
	closer   io.Closer
	redactor *security.SecurityLayer
}

// flagKeys maps command flags onto configuration keys.
var flagKeys = map[string]string{
	"base-url": "base_url",
	"browser":  "browser.name",
}

// NewRootCommand - builds the uitest command tree. Tests pass their own
// launcher factory; nil means Playwright.
func NewRootCommand(newLauncher LauncherFactory) *cobra.Command {
	if newLauncher == nil {
		newLauncher = browser.NewLauncher
	}
	return newRootCommand(&App{newLauncher: newLauncher})
}

func newRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "uitest",
		Short:         "Runs browser UI scenarios against a web application.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initialize(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.PersistentFlags().StringVarP(&app.cfgFile, "config", "c", "", "config file (default is ./uitest.yaml)")
	root.PersistentFlags().StringSliceVar(&app.envFiles, "env-file", nil, "dotenv files to load (default is ./.env)")
	root.PersistentFlags().StringVarP(&app.dir, "dir", "d", ".", "directory the spec patterns are matched under")

	root.AddCommand(newRunCommand(app), newListCommand(app), newVersionCommand())
	return root
}

func (a *App) initialize(cmd *cobra.Command) error {
	if err := config.LoadEnv(a.envFiles...); err != nil {
		return err
	}

	v := viper.New()
	if err := bindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	if err := config.Configure(v, a.cfgFile); err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("headed"); f != nil && f.Changed {
		v.Set("browser.headless", false)
	}
	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}

	logger, closer, err := logging.NewLogger(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Output:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.redactor = security.NewSecurityLayer()
	logger.AddHook(a.redactor)

	a.cfg, a.logger, a.closer = cfg, logger, closer
	logger.WithField("version", Version).Debug("configuration loaded")
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind --%s: %w", name, err)
		}
	}
	return nil
}

// closeOnError releases the log file when run fails. cobra skips the post
// run hooks after an error.
func (a *App) closeOnError(run func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := run(cmd, args)
		if err != nil {
			err = multierr.Append(err, a.Close())
		}
		return err
	}
}

// Close releases the log file.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCommand(nil).ExecuteContext(ctx)
}
