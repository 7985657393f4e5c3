// Package contracts — interfaces for the pluggable authentication layer.
//
// These types form the boundary between the gateway core and its
// authentication strategies. The gateway ships an API key provider (the
// host's own mechanism) and the OIDC bearer provider; deployments can
// register additional strategies on the same chain.
package contracts

import (
	"context"
	"net/http"

	"github.com/tokengate/tokengate/pkg/models"
)

// AuthProvider authenticates an HTTP request and returns the local user it
// resolves to. Each provider implements one authentication strategy.
//
// The chain pattern:
//   - Return (*User, nil) → authenticated, stop chain
//   - Return (nil, nil) → this provider doesn't handle this request, try next
//   - Return (nil, error) → authentication was attempted but failed, reject
type AuthProvider interface {
	// Name returns the provider identifier (e.g. "apikey", "oidc-bearer").
	Name() string

	// Authenticate inspects the request and returns a local user.
	Authenticate(ctx context.Context, r *http.Request) (*models.User, error)

	// Enabled returns whether this provider is configured and active.
	Enabled() bool
}

// AuthChain tries providers in registration order until one returns a user.
// The host's primary mechanism goes first; the OIDC bearer provider only
// sees requests the earlier providers declined.
type AuthChain interface {
	// Authenticate walks the chain of providers in order.
	// Returns the first resolved user, or (nil, nil) if no provider matched.
	Authenticate(ctx context.Context, r *http.Request) (*models.User, error)

	// RegisterProvider adds a provider to the end of the chain.
	RegisterProvider(provider AuthProvider)
}
