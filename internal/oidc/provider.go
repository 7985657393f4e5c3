package oidc

import (
	"context"
	"net/http"

	"github.com/tokengate/tokengate/internal/settings"
	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/pkg/models"
)

const providerName = "oidc-bearer"

// Provider adapts the Resolver to the auth chain contract. It never returns
// an error: a bearer token the provider cannot verify simply resolves to no
// user, so later chain entries (or the final denial) take over.
type Provider struct {
	resolver *Resolver
}

// NewProvider wires a chain provider over the given settings source and user
// store, using the default userinfo client.
func NewProvider(source settings.Source, users store.UserStore) *Provider {
	return &Provider{
		resolver: NewResolver(NewClient(), source, users),
	}
}

// NewProviderWithResolver wires a chain provider over an explicit resolver.
func NewProviderWithResolver(resolver *Resolver) *Provider {
	return &Provider{resolver: resolver}
}

func (p *Provider) Name() string { return providerName }

// Enabled is true whenever a settings source is wired. Whether the feature is
// actually configured is a per-request question (settings are read fresh on
// every attempt), answered inside Resolve.
func (p *Provider) Enabled() bool {
	return p.resolver != nil
}

// Authenticate resolves the request's bearer token to a local user.
// Returns (nil, nil) — never an error — when resolution declines.
func (p *Provider) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	return p.resolver.Resolve(ctx, r), nil
}
