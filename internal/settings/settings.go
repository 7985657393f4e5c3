// Package settings supplies the OIDC provider configuration consulted on
// every verification attempt. Sources are read fresh per attempt — there is
// deliberately no caching, so configuration changes take effect immediately.
package settings

import "context"

// Config is the set of recognized OIDC bearer options.
type Config struct {
	// ServerURL is the base URL of the OIDC provider. Empty means the bearer
	// feature is disabled.
	ServerURL string

	// DisableSSLValidation skips certificate and hostname verification on the
	// userinfo call. SECURITY TRADE-OFF: this makes the verification round
	// trip interceptable and must only be enabled for test realms behind
	// self-signed certificates. Every call made with it logs a warning.
	DisableSSLValidation bool

	// CreateUserIfNotExists provisions a local user on first sight of a
	// verified mail address with no matching record.
	CreateUserIfNotExists bool

	// AdminGroup names the group claim that confers admin rights. Empty
	// disables admin sync entirely.
	AdminGroup string
}

// Enabled reports whether the bearer feature is configured at all.
func (c Config) Enabled() bool {
	return c.ServerURL != ""
}

// Source loads the current Config. Implementations must be safe for
// concurrent use; the resolver calls Load once per authentication attempt.
type Source interface {
	Load(ctx context.Context) (Config, error)
}
