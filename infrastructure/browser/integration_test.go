package browser_test

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ui_automation/application/element"
	"ui_automation/domain/entities"
	"ui_automation/infrastructure/browser"
	"ui_automation/infrastructure/logging"
	"ui_automation/infrastructure/security"
)

const fixture = `<html><head><title>Fixture</title></head><body>
<input id="name">
<input id="agree" type="checkbox">
<select id="lang"><option value="en">English</option><option value="de">Deutsch</option></select>
<div id="later"></div>
<script>setTimeout(() => { document.getElementById('later').innerHTML = '<span id="ready">ready</span>' }, 200)</script>
</body></html>`

func TestPlaywrightDriver(t *testing.T) {
	if testing.Short() || os.Getenv("UITEST_PLAYWRIGHT") != "1" {
		t.Skip("set UITEST_PLAYWRIGHT=1 to run against a real browser")
	}
	ctx := context.Background()
	logger := logrus.New()
	redactor := security.NewSecurityLayer()
	logger.AddHook(redactor)

	session, err := browser.NewLauncher(logger).Launch(ctx, &entities.LaunchOptions{
		Browser:  entities.BrowserChromium,
		Headless: true,
		Args:     []string{"--disable-dev-shm-usage"},
		PageLoad: 15 * time.Second,
	})
	require.NoError(t, err)
	defer func() { assert.NoError(t, session.Close()) }()

	driver := session.Driver()
	require.NoError(t, driver.Goto(ctx, "data:text/html,"+url.PathEscape(fixture)))

	title, err := driver.Title(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fixture", title)

	idle, err := driver.WaitForIdle(ctx, 2*time.Second)
	require.NoError(t, err)
	assert.True(t, idle)

	env := &element.Env{Driver: driver, Logs: logging.NewFactory(logger), Redactor: redactor, Timing: element.DefaultTiming()}

	name := element.NewTextInput(env, "Name", "#name")
	require.NoError(t, name.Type(ctx, "Ada"))
	require.NoError(t, name.AssertHasValue(ctx, "Ada"))
	require.NoError(t, name.Clear(ctx))
	require.NoError(t, name.AssertEmpty(ctx))

	agree := element.NewCheckbox(env, "Agree", "#agree")
	require.NoError(t, agree.Check(ctx))
	require.NoError(t, agree.AssertChecked(ctx))

	require.NoError(t, element.NewSelect(env, "Language", "#lang").Select(ctx, "Deutsch"))
	require.NoError(t, element.New(env, "Language", "#lang").AssertHasValue(ctx, "de"))

	require.NoError(t, element.New(env, "Ready", "#ready").AssertHasText(ctx, "ready"))
}
