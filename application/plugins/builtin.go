package plugins

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"ui_automation/domain/entities"
	"ui_automation/domain/interfaces"
)

// DisableSHMArg keeps chromium off /dev/shm, which is tiny in containers.
const DisableSHMArg = "--disable-dev-shm-usage"

// RunEnd is the payload of after:run.
type RunEnd struct {
	RunID   string
	Results []entities.SpecResult
	// Session is the browser of the run, still open.
	Session interfaces.Session
}

// SpecStart is the payload of before:spec.
type SpecStart struct {
	RunID string
	Name  string
}

func launchOptions(event string, payload any) (*entities.LaunchOptions, error) {
	opts, ok := payload.(*entities.LaunchOptions)
	if !ok || opts == nil {
		return nil, fmt.Errorf("%s: unexpected payload %T", event, payload)
	}
	return opts, nil
}

// DisableSHM adds DisableSHMArg to chromium launches. Other browsers are left
// alone.
func DisableSHM() Contributor {
	return func(on On) {
		on(EventBeforeBrowserLaunch, func(_ context.Context, payload any) error {
			opts, err := launchOptions(EventBeforeBrowserLaunch, payload)
			if err != nil {
				return err
			}
			if opts.Browser == entities.BrowserChromium && !opts.HasArg(DisableSHMArg) {
				opts.Args = append(opts.Args, DisableSHMArg)
			}
			return nil
		})
	}
}

// SessionState restores the saved session into every launch and saves the
// session of the run when it ends.
func SessionState(store interfaces.StateStore, logger *logrus.Logger) Contributor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	log := logger.WithField("component", "session-state")
	return func(on On) {
		on(EventBeforeBrowserLaunch, func(_ context.Context, payload any) error {
			opts, err := launchOptions(EventBeforeBrowserLaunch, payload)
			if err != nil {
				return err
			}
			state, err := store.LoadState()
			if err != nil {
				return fmt.Errorf("restore session: %w", err)
			}
			if state != nil {
				log.Debugf("restoring %d cookies", len(state.Cookies))
				opts.State = state
			}
			return nil
		})
		on(EventAfterRun, func(ctx context.Context, payload any) error {
			end, ok := payload.(*RunEnd)
			if !ok || end.Session == nil {
				return nil
			}
			state, err := end.Session.State(ctx)
			if err != nil {
				log.WithError(err).Warn("could not read browser session state")
				return nil
			}
			if err := store.SaveState(state); err != nil {
				return fmt.Errorf("save session: %w", err)
			}
			log.Debugf("saved %d cookies", len(state.Cookies))
			return nil
		})
	}
}
