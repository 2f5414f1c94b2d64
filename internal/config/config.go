package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/systmms/bwsconnect/internal/credentials"
	dserrors "github.com/systmms/bwsconnect/internal/errors"
	"github.com/systmms/bwsconnect/internal/logging"
	"github.com/systmms/bwsconnect/internal/metrics"
)

// DefaultPath is the settings file read when --config is not given.
const DefaultPath = "bwsconnect.yaml"

// Environment variables read by Load.
const (
	EnvOrganizationID = "WARDEN_ORGANIZATION_ID"
	EnvBaseURL        = "WARDEN_BASE_URL"
)

// Defaults
const (
	DefaultBaseURL     = "http://127.0.0.1:9998/rest/api/1"
	DefaultAPIURL      = "https://api.bitwarden.com"
	DefaultIdentityURL = "https://identity.bitwarden.com"
	DefaultTimeout     = 30 * time.Second
	DefaultScheme      = "bws"
)

//go:embed schema.json
var settingsSchema string

// Config holds the runtime configuration
type Config struct {
	Path         string
	PathExplicit bool
	Logger       *logging.Logger
	Metrics      *metrics.Metrics
	Credentials  *credentials.Store
	Settings     Settings

	// Global display flags
	AccessToken string
	ParseValue  bool
	Field       string
	MetricsFile string
}

// Settings are the effective connection and rendering settings.
type Settings struct {
	BaseURL        string
	APIURL         string
	IdentityURL    string
	StatePath      string
	OrganizationID string
	CACert         string
	Insecure       bool
	Timeout        time.Duration
	Scheme         string
	Cache          bool
	Concurrency    int
}

// File is the bwsconnect.yaml structure
type File struct {
	BaseURL        string `yaml:"base_url"`
	APIURL         string `yaml:"api_url"`
	IdentityURL    string `yaml:"identity_url"`
	StatePath      string `yaml:"state_path"`
	OrganizationID string `yaml:"organization_id"`
	CACert         string `yaml:"ca_cert"`
	Insecure       *bool  `yaml:"insecure"`
	Timeout        string `yaml:"timeout"`
	Scheme         string `yaml:"scheme"`
	Cache          *bool  `yaml:"cache"`
	Concurrency    int    `yaml:"concurrency"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		BaseURL:     DefaultBaseURL,
		APIURL:      DefaultAPIURL,
		IdentityURL: DefaultIdentityURL,
		Timeout:     DefaultTimeout,
		Scheme:      DefaultScheme,
		Concurrency: 1,
	}
}

// Load builds Settings from the defaults, the settings file and the
// environment, in increasing precedence. Flags are applied by the caller.
func (c *Config) Load(getenv func(string) string) error {
	settings := Defaults()

	if c.Path == "" {
		c.Path = DefaultPath
	}

	data, err := os.ReadFile(c.Path)
	switch {
	case err == nil:
		file, err := ParseFile(data)
		if err != nil {
			return err
		}
		if err := file.apply(&settings); err != nil {
			return err
		}
		c.Logger.Debug("loaded settings from %s", c.Path)
	case errors.Is(err, os.ErrNotExist) && !c.PathExplicit:
		c.Logger.Debug("no settings file at %s, using defaults", c.Path)
	case errors.Is(err, os.ErrNotExist):
		return dserrors.ConfigError{
			Field:      "config",
			Value:      c.Path,
			Message:    "configuration file not found",
			Suggestion: "Check the --config path, or omit it to use defaults and environment variables",
		}
	default:
		return dserrors.UserError{
			Message:    "Failed to read configuration file",
			Details:    err.Error(),
			Suggestion: "Check file permissions and path",
			Err:        err,
		}
	}

	if getenv != nil {
		if v := strings.TrimSpace(getenv(EnvOrganizationID)); v != "" {
			settings.OrganizationID = v
		}
		if v := strings.TrimSpace(getenv(EnvBaseURL)); v != "" {
			settings.BaseURL = v
		}
	}

	c.Settings = settings
	return nil
}

// ParseFile validates a settings document against the embedded JSON
// schema and decodes it.
func ParseFile(data []byte) (*File, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dserrors.ConfigError{
			Message:    "invalid YAML syntax in configuration file",
			Suggestion: "Check for indentation errors, missing quotes, or invalid characters. Use a YAML validator",
		}
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}

	if err := validateWithSchema(doc); err != nil {
		return nil, err
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, dserrors.ConfigError{Message: fmt.Sprintf("invalid configuration: %v", err)}
	}
	return &file, nil
}

// validateWithSchema validates a decoded document against the settings schema
func validateWithSchema(doc map[string]interface{}) error {
	jsonData, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal settings for validation: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(settingsSchema),
		gojsonschema.NewBytesLoader(jsonData),
	)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		var errorMessages []string
		for _, desc := range result.Errors() {
			errorMessages = append(errorMessages, desc.String())
		}
		return dserrors.ConfigError{
			Message:    fmt.Sprintf("schema validation failed:\n  - %s", strings.Join(errorMessages, "\n  - ")),
			Suggestion: "Allowed keys: base_url, api_url, identity_url, state_path, organization_id, ca_cert, insecure, timeout, scheme, cache, concurrency",
		}
	}

	return nil
}

func (f *File) apply(s *Settings) error {
	setString(&s.BaseURL, f.BaseURL)
	setString(&s.APIURL, f.APIURL)
	setString(&s.IdentityURL, f.IdentityURL)
	setString(&s.StatePath, f.StatePath)
	setString(&s.OrganizationID, f.OrganizationID)
	setString(&s.CACert, f.CACert)
	setString(&s.Scheme, f.Scheme)

	if f.Insecure != nil {
		s.Insecure = *f.Insecure
	}
	if f.Cache != nil {
		s.Cache = *f.Cache
	}
	if f.Concurrency > 0 {
		s.Concurrency = f.Concurrency
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return dserrors.ConfigError{
				Field:      "timeout",
				Value:      f.Timeout,
				Message:    "invalid duration",
				Suggestion: "Use a Go duration such as 30s or 2m",
			}
		}
		s.Timeout = d
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// Validate checks settings that flags and environment can still break.
func (s Settings) Validate() error {
	u, err := url.Parse(s.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return dserrors.ConfigError{
			Field:      "base_url",
			Value:      s.BaseURL,
			Message:    "invalid URL",
			Suggestion: "Use format: http://hostname:port/rest/api/1",
		}
	}
	if s.Timeout < 0 {
		return dserrors.ConfigError{Field: "timeout", Value: s.Timeout, Message: "must not be negative"}
	}
	if s.Concurrency < 1 {
		return dserrors.ConfigError{
			Field:      "concurrency",
			Value:      s.Concurrency,
			Message:    "must be at least 1",
			Suggestion: "Use --concurrency 1 to resolve placeholders sequentially",
		}
	}
	return nil
}

// OrganizationID returns override when set, else the configured
// organization. It is a ConfigError when neither is available.
func (c *Config) OrganizationID(override string) (string, error) {
	if org := strings.TrimSpace(override); org != "" {
		return org, nil
	}
	if c.Settings.OrganizationID != "" {
		return c.Settings.OrganizationID, nil
	}
	return "", dserrors.ConfigError{
		Field:      "organization_id",
		Message:    "organization ID is required",
		Suggestion: fmt.Sprintf("Set %s, add organization_id to %s, or pass it as an argument", EnvOrganizationID, DefaultPath),
	}
}
