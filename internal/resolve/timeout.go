package resolve

import (
	"context"
	"errors"
	"fmt"
	"time"

	dserrors "github.com/systmms/bwsconnect/internal/errors"
)

// withTimeout bounds ctx by d when d is positive.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// timeoutError turns a deadline overrun into a user-facing error
func timeoutError(err error, key string, d time.Duration) error {
	if err == nil || !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	details := "deadline exceeded"
	if d > 0 {
		details = fmt.Sprintf("lookup exceeded %s", d)
	}
	return dserrors.UserError{
		Message:    fmt.Sprintf("Lookup of secret %q timed out", key),
		Details:    details,
		Suggestion: "Check that bitwarden-sdk-server is reachable, or raise --timeout",
		Err:        err,
	}
}
