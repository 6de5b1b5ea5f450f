package plugins_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/application/plugins"
	"ui_automation/domain/entities"
)

// singleSlot mimics a host runner keeping the last hook per event.
type singleSlot struct {
	hooks map[string]plugins.Callback
	calls map[string]int
}

func newSingleSlot() *singleSlot {
	return &singleSlot{hooks: map[string]plugins.Callback{}, calls: map[string]int{}}
}

func (s *singleSlot) On(event string, hook plugins.Callback) {
	s.hooks[event] = hook
	s.calls[event]++
}

func (s *singleSlot) fire(t *testing.T, event string, payload any) error {
	t.Helper()
	hook, ok := s.hooks[event]
	require.True(t, ok, "no hook for %s", event)
	return hook(context.Background(), payload)
}

func quietLogger() *logrus.Logger {
	logger, _ := test.NewNullLogger()
	return logger
}

func TestInitPluginsRunsCallbacksInOrder(t *testing.T) {
	host := newSingleSlot()
	var got []string
	record := func(name string) plugins.Callback {
		return func(context.Context, any) error {
			got = append(got, name)
			return nil
		}
	}

	c1 := func(on plugins.On) { on("E", record("c1")) }
	c2 := func(on plugins.On) {
		on("E", record("c2"))
		on("F", record("c2-f"))
	}
	reg := plugins.InitPlugins(host.On, quietLogger(), c1, c2)

	assert.Equal(t, 1, host.calls["E"], "one underlying hook per event")
	assert.Equal(t, 1, host.calls["F"])
	assert.Equal(t, []string{"E", "F"}, reg.Events())
	assert.Equal(t, 2, reg.Callbacks("E"))

	require.NoError(t, host.fire(t, "E", nil))
	assert.Equal(t, []string{"c1", "c2"}, got)
}

func TestContributorsShareTheLaunchPayload(t *testing.T) {
	host := newSingleSlot()
	addArg := func(arg string) plugins.Contributor {
		return func(on plugins.On) {
			on(plugins.EventBeforeBrowserLaunch, func(_ context.Context, payload any) error {
				opts := payload.(*entities.LaunchOptions)
				opts.Args = append(opts.Args, arg)
				return nil
			})
		}
	}
	plugins.InitPlugins(host.On, quietLogger(), addArg("--a"), addArg("--b"))

	opts := &entities.LaunchOptions{Browser: entities.BrowserChromium}
	require.NoError(t, host.fire(t, plugins.EventBeforeBrowserLaunch, opts))
	assert.Equal(t, []string{"--a", "--b"}, opts.Args)
}

func TestDispatchStopsAtFirstFailure(t *testing.T) {
	host := newSingleSlot()
	errBroken := errors.New("broken plugin")
	ran := 0
	plugins.InitPlugins(host.On, quietLogger(),
		func(on plugins.On) {
			on("E", func(context.Context, any) error { ran++; return nil })
			on("E", func(context.Context, any) error { return errBroken })
			on("E", func(context.Context, any) error { ran++; return nil })
		},
	)

	err := host.fire(t, "E", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrPluginSetup))
	assert.True(t, errors.Is(err, errBroken))

	var pErr *entities.PluginSetupError
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, "E", pErr.Event)
	assert.Equal(t, 1, pErr.Index)
	assert.Equal(t, 1, ran)
}

func TestDispatchRecoversPanics(t *testing.T) {
	host := newSingleSlot()
	plugins.InitPlugins(host.On, quietLogger(), func(on plugins.On) {
		on("E", func(context.Context, any) error { panic("boom") })
	})

	err := host.fire(t, "E", nil)
	assert.True(t, errors.Is(err, entities.ErrPluginSetup))
	assert.Contains(t, err.Error(), "boom")
}

func TestSubscribingAfterFreezePanics(t *testing.T) {
	var leaked plugins.On
	reg := plugins.InitPlugins(newSingleSlot().On, quietLogger(), func(on plugins.On) { leaked = on })

	assert.Panics(t, func() {
		leaked("late", func(context.Context, any) error { return nil })
	})
	assert.Empty(t, reg.Events())
}

func TestDispatchWithoutCallbacks(t *testing.T) {
	reg := plugins.InitPlugins(newSingleSlot().On, nil)
	assert.NoError(t, reg.Dispatch(context.Background(), plugins.EventAfterRun, nil))
}
