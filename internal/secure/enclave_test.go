package secure

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSecureBuffer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{"token", []byte("0.48b4774c-68fa-4d53.access-token"), nil},
		{"binary", []byte{0x00, 0xFF, 0x10, 0x20}, nil},
		{"empty", []byte{}, ErrEmpty},
		{"nil", nil, ErrEmpty},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, err := NewSecureBuffer(append([]byte(nil), tt.data...))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, buf)
				return
			}
			require.NoError(t, err)
			defer buf.Destroy()

			var got []byte
			require.NoError(t, buf.Reveal(func(p []byte) error {
				got = append([]byte(nil), p...)
				return nil
			}))
			assert.Equal(t, tt.data, got)
		})
	}
}

func TestRevealPropagatesCallbackError(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("s3cret-value")
	require.NoError(t, err)
	defer buf.Destroy()

	boom := errors.New("boom")
	assert.ErrorIs(t, buf.Reveal(func([]byte) error { return boom }), boom)
}

func TestDestroyIsIdempotent(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("s3cret-value")
	require.NoError(t, err)

	buf.Destroy()
	buf.Destroy()

	err = buf.Reveal(func([]byte) error {
		t.Fatal("callback must not run after destroy")
		return nil
	})
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestConcurrentReveal(t *testing.T) {
	t.Parallel()

	buf, err := NewSecureString("shared-token")
	require.NoError(t, err)
	defer buf.Destroy()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, buf.Reveal(func(p []byte) error {
				if string(p) != "shared-token" {
					return errors.New("unexpected plaintext")
				}
				return nil
			}))
		}()
	}
	wg.Wait()
}
