package payment

import "errors"

var (
	// ErrInvalidSignature means the webhook body could not be verified
	// against the shared secret. Fails closed: nothing is processed.
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrProviderUnreachable covers timeouts and transport failures to the
	// provider. The caller must not assume the session was or was not
	// created; the error is retryable.
	ErrProviderUnreachable = errors.New("payment provider unreachable")
)
