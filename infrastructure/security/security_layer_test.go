package security

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"

	"ui_automation/domain/entities"
)

func TestIsSensitiveName(t *testing.T) {
	s := NewSecurityLayer()
	tests := []struct {
		name string
		want bool
	}{
		{"Password", true},
		{"Confirm password", true},
		{"API Key", true},
		{"access_token", true},
		{"Пароль", true},
		{"PIN code", true},
		{"Shipping", false},
		{"Spinner", false},
		{"Email", false},
		{"otp-input", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsSensitiveName(tt.name))
		})
	}
}

func TestRedact(t *testing.T) {
	s := NewSecurityLayer()
	assert.Equal(t, "nothing to hide", s.Redact("nothing to hide"))

	s.Protect("hunter2")
	s.Protect("hunter2hunter2")
	s.Protect("   ")
	assert.Equal(t, "typed "+entities.MaskedValue+" and "+entities.MaskedValue,
		s.Redact("typed hunter2hunter2 and hunter2"))
}

func TestHookMasksEntries(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	s := NewSecurityLayer()
	logger.AddHook(s)
	// registered after the mask so it records what was written
	hook := test.NewLocal(logger)
	s.Protect("s3cr3t")

	logger.WithField("value", "s3cr3t").WithError(errors.New("bad s3cr3t")).Warn("typing s3cr3t")

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, "typing "+entities.MaskedValue, entry.Message)
		assert.Equal(t, entities.MaskedValue, entry.Data["value"])
		assert.Equal(t, "bad "+entities.MaskedValue, entry.Data[logrus.ErrorKey])
	}
	assert.NotContains(t, buf.String(), "s3cr3t")
}
