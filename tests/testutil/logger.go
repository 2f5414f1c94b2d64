// Package testutil holds helpers shared by package tests.
package testutil

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/systmms/bwsconnect/internal/logging"
)

// LogCapture records everything written by a logging.Logger.
//
// Example usage:
//
//	logger, logs := testutil.NewCapturedLogger(t, true)
//	client, _ := bws.New(bws.Config{Logger: logger, ...})
//	...
//	logs.AssertContains(t, "found keys")
//	logs.AssertNotContains(t, token)
type LogCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// NewCapturedLogger returns a colorless logger writing into a LogCapture.
// debug enables Debug output.
func NewCapturedLogger(t *testing.T, debug bool) (*logging.Logger, *LogCapture) {
	t.Helper()

	capture := &LogCapture{}
	logger := logging.New(debug, true)
	logger.SetOutput(capture)
	return logger, capture
}

// Write implements io.Writer.
func (c *LogCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns everything captured so far.
func (c *LogCapture) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Lines returns the captured output split into lines.
func (c *LogCapture) Lines() []string {
	out := strings.TrimRight(c.String(), "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

// AssertContains checks that the output contains substr.
func (c *LogCapture) AssertContains(t *testing.T, substr string) {
	t.Helper()
	assert.Contains(t, c.String(), substr, "log output should contain %q", substr)
}

// AssertNotContains checks that the output does not contain substr.
func (c *LogCapture) AssertNotContains(t *testing.T, substr string) {
	t.Helper()
	assert.NotContains(t, c.String(), substr, "log output should not contain %q", substr)
}

// AssertRedacted checks that no secret leaked into the output.
func (c *LogCapture) AssertRedacted(t *testing.T, secrets ...string) {
	t.Helper()
	for _, s := range secrets {
		c.AssertNotContains(t, s)
	}
}
