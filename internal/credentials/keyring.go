package credentials

import (
	"errors"
	"os"

	"github.com/zalando/go-keyring"
)

// Keyring entry holding the access token.
const (
	KeyringService = "bwsconnect"
	KeyringAccount = "access-token"
)

// ErrKeyringItemNotFound is returned when the keyring has no entry.
var ErrKeyringItemNotFound = errors.New("keyring item not found")

// Keyring stores secrets in the operating system credential store.
type Keyring interface {
	Get(service, account string) (string, error)
	Set(service, account, secret string) error
	Delete(service, account string) error
}

// SystemKeyring uses the OS keychain (macOS Keychain, Secret Service on
// Linux, Windows Credential Manager).
type SystemKeyring struct{}

// Get retrieves a secret
func (SystemKeyring) Get(service, account string) (string, error) {
	secret, err := keyring.Get(service, account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrKeyringItemNotFound
		}
		return "", err
	}
	return secret, nil
}

// Set stores a secret, replacing any existing one
func (SystemKeyring) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

// Delete removes a secret
func (SystemKeyring) Delete(service, account string) error {
	if err := keyring.Delete(service, account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrKeyringItemNotFound
		}
		return err
	}
	return nil
}

// IsHeadless reports whether the process likely has no desktop session,
// in which case the Secret Service is usually unavailable.
func IsHeadless() bool {
	if os.Getenv("SSH_TTY") != "" || os.Getenv("CI") != "" {
		return true
	}
	return os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == ""
}

var _ Keyring = SystemKeyring{}
