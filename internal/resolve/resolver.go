package resolve

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/systmms/bwsconnect/internal/bws"
	"github.com/systmms/bwsconnect/internal/logging"
)

// SecretStore is the part of the secrets API the resolver needs.
// *bws.Client implements it.
type SecretStore interface {
	ListSecrets(ctx context.Context, organizationID string) ([]bws.SecretIdentifier, error)
	GetSecret(ctx context.Context, id string) ([]byte, error)
}

// Resolver maps secret keys to normalized secret values.
//
// Without caching every Resolve call lists the organization and fetches the
// matching secret, so repeated keys cost repeated round trips. WithCache
// makes a Resolver remember the listing and every looked up key; such a
// Resolver should live for one render only.
type Resolver struct {
	store          SecretStore
	organizationID string
	logger         *logging.Logger
	timeout        time.Duration
	cache          bool

	group   singleflight.Group
	mu      sync.Mutex
	listing []bws.SecretIdentifier
	listed  bool
	values  map[string]lookup
}

type lookup struct {
	value Value
	found bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache enables the request-scoped listing and value cache.
func WithCache() Option {
	return func(r *Resolver) { r.cache = true }
}

// WithLogger sets the debug logger.
func WithLogger(l *logging.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithTimeout bounds each Resolve call.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) { r.timeout = d }
}

// New creates a resolver for the given organization.
func New(store SecretStore, organizationID string, opts ...Option) *Resolver {
	r := &Resolver{
		store:          store,
		organizationID: organizationID,
		logger:         logging.Discard(),
		values:         make(map[string]lookup),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the normalized value of the secret whose key equals key.
// found is false when no listed secret has that key or its payload is not
// JSON. Transport errors are returned as err.
func (r *Resolver) Resolve(ctx context.Context, key string) (value Value, found bool, err error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	if !r.cache {
		value, found, err = r.fetch(ctx, key)
		return value, found, timeoutError(err, key, r.timeout)
	}

	r.mu.Lock()
	cached, ok := r.values[key]
	r.mu.Unlock()
	if ok {
		return cached.value, cached.found, nil
	}

	res, err, _ := r.group.Do("value:"+key, func() (any, error) {
		r.mu.Lock()
		cached, ok := r.values[key]
		r.mu.Unlock()
		if ok {
			return cached, nil
		}

		v, found, err := r.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		l := lookup{value: v, found: found}
		r.mu.Lock()
		r.values[key] = l
		r.mu.Unlock()
		return l, nil
	})
	if err != nil {
		return Null, false, timeoutError(err, key, r.timeout)
	}
	l := res.(lookup)
	return l.value, l.found, nil
}

// FindID returns the id of the first listed secret whose key equals key.
// Matching is exact and case-sensitive.
func (r *Resolver) FindID(ctx context.Context, key string) (string, bool, error) {
	records, err := r.list(ctx)
	if err != nil {
		return "", false, err
	}
	for _, rec := range records {
		if rec.Key == key {
			return rec.ID, true, nil
		}
	}
	return "", false, nil
}

func (r *Resolver) fetch(ctx context.Context, key string) (Value, bool, error) {
	id, ok, err := r.FindID(ctx, key)
	if err != nil {
		return Null, false, err
	}
	if !ok {
		r.logger.Debug("no secret with key %q in organization %s", key, r.organizationID)
		return Null, false, nil
	}

	payload, err := r.store.GetSecret(ctx, id)
	if err != nil {
		return Null, false, err
	}

	value, err := NormalizeBytes(payload)
	if err != nil {
		r.logger.Debug("secret %q returned a non-JSON payload, leaving it unresolved: %v", key, err)
		return Null, false, nil
	}
	return value, true, nil
}

func (r *Resolver) list(ctx context.Context) ([]bws.SecretIdentifier, error) {
	if !r.cache {
		return r.store.ListSecrets(ctx, r.organizationID)
	}

	r.mu.Lock()
	if r.listed {
		listing := r.listing
		r.mu.Unlock()
		return listing, nil
	}
	r.mu.Unlock()

	res, err, _ := r.group.Do("list", func() (any, error) {
		r.mu.Lock()
		if r.listed {
			listing := r.listing
			r.mu.Unlock()
			return listing, nil
		}
		r.mu.Unlock()

		listing, err := r.store.ListSecrets(ctx, r.organizationID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.listing, r.listed = listing, true
		r.mu.Unlock()
		return listing, nil
	})
	if err != nil {
		return nil, err
	}
	return res.([]bws.SecretIdentifier), nil
}
