package fakes

import (
	"sync"

	"github.com/systmms/bwsconnect/internal/credentials"
)

// FakeKeyring is an in-memory test double for credentials.Keyring
type FakeKeyring struct {
	mu sync.Mutex

	// Secrets is a map of service -> account -> value
	Secrets map[string]map[string]string

	// GetErr is returned by Get() if set
	GetErr error

	// SetErr is returned by Set() if set
	SetErr error

	// DeleteErr is returned by Delete() if set
	DeleteErr error
}

// NewFakeKeyring creates an empty fake keyring
func NewFakeKeyring() *FakeKeyring {
	return &FakeKeyring{Secrets: make(map[string]map[string]string)}
}

// Get retrieves a secret from the fake keyring
func (f *FakeKeyring) Get(service, account string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.GetErr != nil {
		return "", f.GetErr
	}
	if accounts, ok := f.Secrets[service]; ok {
		if value, ok := accounts[account]; ok {
			return value, nil
		}
	}
	return "", credentials.ErrKeyringItemNotFound
}

// Set stores a secret in the fake keyring
func (f *FakeKeyring) Set(service, account, secret string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.SetErr != nil {
		return f.SetErr
	}
	if f.Secrets[service] == nil {
		f.Secrets[service] = make(map[string]string)
	}
	f.Secrets[service][account] = secret
	return nil
}

// Delete removes a secret from the fake keyring
func (f *FakeKeyring) Delete(service, account string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.Secrets[service][account]; !ok {
		return credentials.ErrKeyringItemNotFound
	}
	delete(f.Secrets[service], account)
	return nil
}

// Ensure FakeKeyring implements credentials.Keyring
var _ credentials.Keyring = (*FakeKeyring)(nil)
