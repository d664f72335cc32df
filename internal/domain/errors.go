package domain

import "github.com/pkg/errors"

var (
	// ErrNotFound signals that a referenced credential does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCredential signals an attempted second credential for the
	// same (userId, provider) pair.
	ErrDuplicateCredential = errors.New("credential already exists")

	// ErrRefreshRejected signals that the provider invalidated the refresh
	// token. The user must re-authorize; the refresh is not retried.
	ErrRefreshRejected = errors.New("refresh token rejected by provider")

	// ErrProviderUnavailable signals a failed metrics fetch (network error,
	// timeout or non-2xx response). Recovered locally with simulated data.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrInvalidWebhookState signals a malformed or unresolvable webhook
	// payload. Such events are acknowledged and dropped.
	ErrInvalidWebhookState = errors.New("invalid webhook state")

	// ErrUnknownProvider signals a provider name outside the supported set.
	ErrUnknownProvider = errors.New("unknown provider")
)
