// Package credentials locates the secrets API access token.
//
// The token is taken from the --access-token flag, then the
// WARDEN_ACCESS_TOKEN environment variable, then the OS keyring entry
// written by "bwsconnect login". It is held in a memguard enclave from the
// moment it is found.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	dserrors "github.com/systmms/bwsconnect/internal/errors"
	"github.com/systmms/bwsconnect/internal/logging"
	"github.com/systmms/bwsconnect/internal/secure"
)

// EnvAccessToken is the environment variable holding the access token.
const EnvAccessToken = "WARDEN_ACCESS_TOKEN"

// Source names where a token came from.
type Source string

const (
	SourceFlag    Source = "flag"
	SourceEnv     Source = "env"
	SourceKeyring Source = "keyring"
)

// Store looks up and persists the access token.
type Store struct {
	Keyring Keyring
	Getenv  func(string) string
	Logger  *logging.Logger
}

// NewStore creates a store backed by the system keyring and process
// environment.
func NewStore(logger *logging.Logger) *Store {
	return &Store{Keyring: SystemKeyring{}, Getenv: os.Getenv, Logger: logger}
}

// AccessToken returns the first non-empty token from flagValue, the
// environment and the keyring. Keyring failures other than a missing entry
// are logged and treated as no token.
func (s *Store) AccessToken(flagValue string) (*secure.SecureBuffer, Source, error) {
	if token := strings.TrimSpace(flagValue); token != "" {
		return wrap(token, SourceFlag)
	}

	if s.Getenv != nil {
		if token := strings.TrimSpace(s.Getenv(EnvAccessToken)); token != "" {
			return wrap(token, SourceEnv)
		}
	}

	if s.Keyring != nil {
		token, err := s.Keyring.Get(KeyringService, KeyringAccount)
		switch {
		case err == nil && strings.TrimSpace(token) != "":
			return wrap(strings.TrimSpace(token), SourceKeyring)
		case err != nil && !errors.Is(err, ErrKeyringItemNotFound):
			s.Logger.Debug("keyring lookup failed: %v", err)
		}
	}

	return nil, "", dserrors.UserError{
		Message:    "No access token configured",
		Suggestion: fmt.Sprintf("Pass --access-token, set %s, or run 'bwsconnect login'", EnvAccessToken),
	}
}

// Save writes token to the keyring.
func (s *Store) Save(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return dserrors.UserError{Message: "Access token is empty"}
	}
	if err := s.Keyring.Set(KeyringService, KeyringAccount, token); err != nil {
		return keyringError("store", err)
	}
	return nil
}

// Remove deletes the keyring entry. It reports false when there was none.
func (s *Store) Remove() (bool, error) {
	err := s.Keyring.Delete(KeyringService, KeyringAccount)
	if errors.Is(err, ErrKeyringItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, keyringError("delete", err)
	}
	return true, nil
}

func wrap(token string, src Source) (*secure.SecureBuffer, Source, error) {
	buf, err := secure.NewSecureString(token)
	if err != nil {
		return nil, "", err
	}
	return buf, src, nil
}

func keyringError(op string, err error) error {
	suggestion := "Check that the OS keyring is unlocked"
	if IsHeadless() {
		suggestion = fmt.Sprintf("No desktop keyring is available in headless sessions; use %s instead", EnvAccessToken)
	}
	return dserrors.UserError{
		Message:    fmt.Sprintf("Failed to %s access token in keyring", op),
		Details:    err.Error(),
		Suggestion: suggestion,
		Err:        err,
	}
}
