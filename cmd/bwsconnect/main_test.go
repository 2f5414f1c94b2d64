package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systmms/bwsconnect/internal/config"
	"github.com/systmms/bwsconnect/internal/credentials"
	"github.com/systmms/bwsconnect/tests/fakes"
)

func runRoot(t *testing.T, cfg *config.Config, env map[string]string, stdin string, args ...string) (string, error) {
	t.Helper()

	if cfg.Credentials == nil {
		cfg.Credentials = &credentials.Store{Keyring: fakes.NewFakeKeyring(), Getenv: func(string) string { return "" }}
	}

	root := newRootCommand(cfg, func(name string) string { return env[name] })
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSettingsPrecedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	settingsPath := filepath.Join(dir, "bwsconnect.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(`
base_url: http://file-host:9998/rest/api/1
api_url: https://api.file.example
organization_id: file-org
timeout: 10s
`), 0o600))

	cfg := &config.Config{}
	_, err := runRoot(t, cfg,
		map[string]string{config.EnvOrganizationID: "env-org", config.EnvBaseURL: "http://env-host:9998/rest/api/1"},
		"",
		"--config", settingsPath, "--base-url", "http://flag-host:9998/rest/api/1", "--timeout", "3s", "logout")
	require.NoError(t, err)

	assert.Equal(t, "http://flag-host:9998/rest/api/1", cfg.Settings.BaseURL, "flag beats env and file")
	assert.Equal(t, "env-org", cfg.Settings.OrganizationID, "env beats file")
	assert.Equal(t, "https://api.file.example", cfg.Settings.APIURL, "file beats default")
	assert.Equal(t, config.DefaultIdentityURL, cfg.Settings.IdentityURL)
	assert.Equal(t, 3*time.Second, cfg.Settings.Timeout)
}

func TestMissingExplicitConfig(t *testing.T) {
	t.Parallel()

	_, err := runRoot(t, &config.Config{}, nil, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "logout")
	assert.ErrorContains(t, err, "configuration file not found")
}

func emptySettingsFile(t *testing.T) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), "bwsconnect.yaml")
	require.NoError(t, os.WriteFile(p, nil, 0o600))
	return p
}

func TestEmptyExplicitConfig(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	_, err := runRoot(t, cfg, nil, "", "--config", emptySettingsFile(t), "logout")
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBaseURL, cfg.Settings.BaseURL)
}

func TestInvalidBaseURLFlag(t *testing.T) {
	t.Parallel()

	_, err := runRoot(t, &config.Config{}, nil, "", "--config", emptySettingsFile(t),
		"--base-url", "localhost:9998", "logout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url")
}

func TestRenderEndToEnd(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeSDKServer(t, "0.e2e-token")
	srv.Store.AddSecret("db", `{"user":"admin","password":"hunter2"}`)

	metricsPath := filepath.Join(t.TempDir(), "bwsconnect.prom")
	cfg := &config.Config{}
	out, err := runRoot(t, cfg,
		map[string]string{config.EnvOrganizationID: fakes.FakeOrganizationID},
		"user: bws://db/user\npass: bws://db/password\n",
		"--config", emptySettingsFile(t),
		"--base-url", srv.BaseURL(),
		"--access-token", "0.e2e-token",
		"--metrics-file", metricsPath,
		"--state-path", "/tmp/state",
		"render", "--cache")
	require.NoError(t, err)
	assert.Equal(t, "user: admin\npass: hunter2\n\n", out)

	reqs := srv.Requests()
	require.NotEmpty(t, reqs)
	assert.Equal(t, "/tmp/state", reqs[0].Header.Get("Warden-State-Path"))
	assert.Equal(t, config.DefaultAPIURL, reqs[0].Header.Get("Warden-Api-Url"))

	require.NotNil(t, cfg.Metrics)
	require.NoError(t, cfg.Metrics.WriteTextfile(metricsPath))
	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `bwsconnect_placeholders_total{outcome="resolved"} 2`)
}

func TestGetByKeyEndToEndParseValue(t *testing.T) {
	t.Parallel()

	srv := fakes.NewFakeSDKServer(t, "0.e2e-token")
	srv.Store.AddSecret("db", `{"user":"admin"}`)

	out, err := runRoot(t, &config.Config{},
		map[string]string{config.EnvOrganizationID: fakes.FakeOrganizationID},
		"",
		"--config", emptySettingsFile(t),
		"--base-url", srv.BaseURL(),
		"--access-token", "0.e2e-token",
		"--parse-value",
		"get-by-key", "db")
	require.NoError(t, err)
	assert.Contains(t, out, "\"value\": {\n    \"user\": \"admin\"\n  }")
}
