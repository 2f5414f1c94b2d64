package fakes

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/systmms/bwsconnect/internal/bws"
)

// FakeOrganizationID is the organization every fake secret belongs to.
const FakeOrganizationID = "9a5b1c3e-0f4d-4a8e-b7c2-6d1e2f3a4b5c"

// ErrFakeSecretNotFound is returned by GetSecret for unknown ids.
var ErrFakeSecretNotFound = &bws.StatusError{Op: "secret", Method: "GET", StatusCode: 404, Body: "not found"}

// FakeSecret is one stored secret.
type FakeSecret struct {
	ID      string
	Key     string
	Payload []byte
}

// FakeSecretStore is an in-memory test double for the secrets API,
// satisfying resolve.SecretStore.
type FakeSecretStore struct {
	mu sync.Mutex

	// Secrets is the listing, in order.
	Secrets []FakeSecret

	// ListErr is returned by ListSecrets if set
	ListErr error

	// GetErr is returned by GetSecret if set
	GetErr error

	// GetErrs overrides GetSecret for specific ids
	GetErrs map[string]error

	// ListCalls counts ListSecrets calls
	ListCalls int

	// GetCalls counts GetSecret calls per id
	GetCalls map[string]int

	// Organizations records the organization passed to each ListSecrets call
	Organizations []string
}

// NewFakeSecretStore creates an empty fake store
func NewFakeSecretStore() *FakeSecretStore {
	return &FakeSecretStore{
		GetErrs:  make(map[string]error),
		GetCalls: make(map[string]int),
	}
}

// AddSecret stores a secret whose "value" member is the given string, the
// way Bitwarden Secrets Manager returns it. It returns the generated id.
func (f *FakeSecretStore) AddSecret(key, value string) string {
	id := uuid.NewString()
	payload, _ := json.Marshal(map[string]any{
		"id":             id,
		"organizationId": FakeOrganizationID,
		"key":            key,
		"value":          value,
		"note":           "",
	})
	f.addRaw(id, key, payload)
	return id
}

// AddRawSecret stores a secret with an arbitrary payload body.
func (f *FakeSecretStore) AddRawSecret(key, payload string) string {
	id := uuid.NewString()
	f.addRaw(id, key, []byte(payload))
	return id
}

func (f *FakeSecretStore) addRaw(id, key string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Secrets = append(f.Secrets, FakeSecret{ID: id, Key: key, Payload: payload})
}

// ListSecrets returns the identifiers of all stored secrets
func (f *FakeSecretStore) ListSecrets(ctx context.Context, organizationID string) ([]bws.SecretIdentifier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ListCalls++
	f.Organizations = append(f.Organizations, organizationID)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	out := make([]bws.SecretIdentifier, len(f.Secrets))
	for i, s := range f.Secrets {
		out[i] = bws.SecretIdentifier{ID: s.ID, OrganizationID: organizationID, Key: s.Key}
	}
	return out, nil
}

// GetSecret returns the stored payload for id
func (f *FakeSecretStore) GetSecret(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.GetCalls[id]++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.GetErrs[id]; err != nil {
		return nil, err
	}
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	for _, s := range f.Secrets {
		if s.ID == id {
			return append([]byte(nil), s.Payload...), nil
		}
	}
	return nil, ErrFakeSecretNotFound
}

// TotalGetCalls sums GetSecret calls over all ids
func (f *FakeSecretStore) TotalGetCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := 0
	for _, n := range f.GetCalls {
		total += n
	}
	return total
}

// ListCallCount returns ListCalls under the lock
func (f *FakeSecretStore) ListCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls
}

// IsFakeNotFound reports whether err is ErrFakeSecretNotFound
func IsFakeNotFound(err error) bool {
	return errors.Is(err, ErrFakeSecretNotFound)
}
