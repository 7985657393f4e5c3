package oidc

import (
	"errors"
	"fmt"
)

// ErrDisabled is returned by Verify when no provider server URL is
// configured. Callers treat it as "feature not configured", not as a
// transient failure.
var ErrDisabled = errors.New("oidc bearer authentication is not configured")

// RejectedError reports a non-200 response from the userinfo endpoint.
// The body is surfaced to logs for diagnosis but never to request callers.
type RejectedError struct {
	Status int
	Body   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("provider returned %d - %s", e.Status, e.Body)
}

// InvalidClaimsError reports a 200 response whose body could not be used:
// malformed JSON, or a claims object without a non-empty email.
type InvalidClaimsError struct {
	Reason string
}

func (e *InvalidClaimsError) Error() string {
	return "invalid userinfo response: " + e.Reason
}

// TransportError wraps a network-level fault (DNS, connect, TLS handshake,
// timeout) on the verification round trip.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "userinfo request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }
