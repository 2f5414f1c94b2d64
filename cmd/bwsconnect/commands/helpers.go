package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/systmms/bwsconnect/internal/bws"
	"github.com/systmms/bwsconnect/internal/config"
	dserrors "github.com/systmms/bwsconnect/internal/errors"
	"github.com/systmms/bwsconnect/internal/output"
)

// newClient builds an API client from the effective settings. The returned
// release func wipes the access token.
func newClient(cfg *config.Config) (*bws.Client, func(), error) {
	token, source, err := credentialStore(cfg).AccessToken(cfg.AccessToken)
	if err != nil {
		return nil, nil, err
	}
	cfg.Logger.Debug("using access token from %s", source)

	s := cfg.Settings
	client, err := bws.New(bws.Config{
		BaseURL:            s.BaseURL,
		AccessToken:        token,
		APIURL:             s.APIURL,
		IdentityURL:        s.IdentityURL,
		StatePath:          s.StatePath,
		CACert:             s.CACert,
		InsecureSkipVerify: s.Insecure,
		Timeout:            s.Timeout,
		Logger:             cfg.Logger,
		Metrics:            cfg.Metrics,
	})
	if err != nil {
		token.Destroy()
		return nil, nil, dserrors.UserError{
			Message:    "Failed to create secrets API client",
			Details:    err.Error(),
			Suggestion: "Check --ca-cert and --base-url",
			Err:        err,
		}
	}

	if s.Insecure {
		cfg.Logger.Warn("TLS certificate verification is disabled")
	}
	return client, token.Destroy, nil
}

// printOptions maps the global display flags.
func printOptions(cfg *config.Config) output.Options {
	return output.Options{ParseValue: cfg.ParseValue, Field: cfg.Field}
}

// apiError wraps a request failure for display. Errors that already carry
// a user message are returned as is.
func apiError(op string, err error) error {
	var ue dserrors.UserError
	if errors.As(err, &ue) {
		return err
	}
	return dserrors.APIError(op, err)
}

// parseID checks that id is a UUID.
func parseID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if _, err := uuid.Parse(id); err != nil {
		return "", dserrors.UserError{
			Message:    fmt.Sprintf("Invalid secret ID %q", id),
			Details:    err.Error(),
			Suggestion: "Secret IDs are UUIDs; run 'bwsconnect list' to see them",
		}
	}
	return id, nil
}

// parseIDs splits a comma separated list of secret IDs.
func parseIDs(list string) ([]string, error) {
	var ids []string
	for _, part := range strings.Split(list, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := parseID(part)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, dserrors.UserError{Message: "No secret IDs given"}
	}
	return ids, nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// optionalArg returns args[i] when present.
func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
