package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	secret := Secret("super-secret-password")

	assert.Equal(t, "[REDACTED]", secret.String())
	assert.Equal(t, "[REDACTED]", secret.GoString())
	assert.Equal(t, "token=[REDACTED]", fmt.Sprintf("token=%s", secret))
	assert.Equal(t, "token=[REDACTED]", fmt.Sprintf("token=%#v", secret))
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(false, true)
	logger.SetOutput(&buf)

	logger.Info("rendered %d placeholders", 3)
	logger.Warn("file contains secrets")
	logger.Error("request failed")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "✓ rendered 3 placeholders\n")
	assert.Contains(t, out, "⚠ file contains secrets\n")
	assert.Contains(t, out, "✗ request failed\n")
	assert.NotContains(t, out, "hidden")
	assert.NotContains(t, out, "\033[", "no-color logger must not emit ANSI codes")
}

func TestLoggerVerbose(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(true, false)
	logger.SetOutput(&buf)

	assert.True(t, logger.Verbose())
	logger.Debug("found keys: %v", []string{"db", "minio"})

	assert.Contains(t, buf.String(), "[DEBUG]")
	assert.Contains(t, buf.String(), "found keys: [db minio]")
}

func TestNilAndDiscardLoggers(t *testing.T) {
	t.Parallel()

	var nilLogger *Logger
	assert.NotPanics(t, func() {
		nilLogger.Info("x")
		nilLogger.Debug("x")
	})
	assert.False(t, nilLogger.Verbose())

	assert.NotPanics(t, func() {
		Discard().Error("dropped")
	})
}

func TestRedact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		secrets  []string
		expected string
	}{
		{
			name:     "single secret redacted",
			input:    `{"token":"0.abcd-1234"}`,
			secrets:  []string{"0.abcd-1234"},
			expected: `{"token":"[REDACTED]"}`,
		},
		{
			name:     "multiple secrets redacted",
			input:    "user admin password secret123",
			secrets:  []string{"admin", "secret123"},
			expected: "user [REDACTED] password [REDACTED]",
		},
		{
			name:     "empty secret ignored",
			input:    "nothing here",
			secrets:  []string{""},
			expected: "nothing here",
		},
		{
			name:     "short secret ignored",
			input:    "Short secret: ab",
			secrets:  []string{"ab"},
			expected: "Short secret: ab",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, Redact(tt.input, tt.secrets))
		})
	}
}
