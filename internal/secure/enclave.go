// Package secure keeps sensitive values, such as the secrets API access
// token, encrypted in memory between uses.
//
// The plaintext only exists inside a memguard LockedBuffer for the duration
// of a Reveal callback and is wiped afterwards.
package secure

import (
	"errors"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrEmpty is returned when a SecureBuffer is created from no data.
var ErrEmpty = errors.New("secure: refusing to protect empty value")

// ErrDestroyed is returned when a destroyed SecureBuffer is used.
var ErrDestroyed = errors.New("secure: buffer destroyed")

// SecureBuffer provides memory-safe storage for sensitive data.
// It wraps memguard.Enclave so the value is encrypted at rest in memory.
type SecureBuffer struct {
	mu        sync.RWMutex
	enclave   *memguard.Enclave
	destroyed bool
}

// NewSecureBuffer creates a protected buffer from secret bytes.
// The input is copied into the enclave and then wiped.
func NewSecureBuffer(data []byte) (*SecureBuffer, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	return &SecureBuffer{enclave: memguard.NewEnclave(data)}, nil
}

// NewSecureString is NewSecureBuffer for string values.
func NewSecureString(s string) (*SecureBuffer, error) {
	return NewSecureBuffer([]byte(s))
}

// Reveal decrypts the value into a locked buffer, hands it to fn and wipes
// it when fn returns. fn must not retain the slice.
func (s *SecureBuffer) Reveal(fn func(plaintext []byte) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.destroyed {
		return ErrDestroyed
	}

	locked, err := s.enclave.Open()
	if err != nil {
		return err
	}
	defer locked.Destroy()

	return fn(locked.Bytes())
}

// Destroy drops the enclave. It is safe to call more than once.
// Call memguard.Purge at process exit for a full wipe of memguard state.
func (s *SecureBuffer) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enclave = nil
	s.destroyed = true
}
