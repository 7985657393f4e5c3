package oidc

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/internal/settings"
	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/pkg/models"
)

// bearerPrefix is matched case-sensitively: exactly "Bearer", one space.
const bearerPrefix = "Bearer "

// Defaults for provisioned users when the provider omits name claims.
const (
	defaultFirstname = "OIDC"
	defaultLastname  = "User"
)

// Verifier round-trips a bearer token to the provider. Implemented by Client.
type Verifier interface {
	Verify(ctx context.Context, token string, cfg settings.Config) (*Claims, error)
}

// Resolver maps inbound requests to local users via bearer-token
// verification. Every failure collapses to "no user": the resolver never
// rejects a request, it only declines to authenticate it.
type Resolver struct {
	verifier Verifier
	source   settings.Source
	users    store.UserStore
}

// NewResolver creates a resolver over the given verifier, settings source
// and user store.
func NewResolver(verifier Verifier, source settings.Source, users store.UserStore) *Resolver {
	return &Resolver{
		verifier: verifier,
		source:   source,
		users:    users,
	}
}

// Resolve runs the verification pipeline for one request:
// extract bearer token → verify against the provider → look up by mail →
// provision if configured → sync the admin flag if configured.
// Returns nil when the request carries no bearer token or any step fails.
func (r *Resolver) Resolve(ctx context.Context, req *http.Request) *models.User {
	token := extractBearer(req)
	if token == "" {
		// Not a bearer request — defer to other mechanisms.
		return nil
	}

	cfg, err := r.source.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("OIDC bearer: failed to load settings")
		return nil
	}

	claims, err := r.verifier.Verify(ctx, token, cfg)
	if err != nil {
		logVerifyFailure(err)
		return nil
	}

	user, err := r.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		log.Error().Err(err).Msg("OIDC bearer: user lookup failed")
		return nil
	}

	if user == nil && cfg.CreateUserIfNotExists {
		user = r.provision(ctx, claims)
	}
	if user == nil {
		return nil
	}

	if cfg.AdminGroup != "" {
		r.syncAdmin(ctx, user, claims, cfg.AdminGroup)
	}

	return user
}

// provision creates a local user from verified claims. Returns nil on any
// persistence failure; a concurrent create of the same mail is an ordinary
// duplicate rejection here, not a fatal condition.
func (r *Resolver) provision(ctx context.Context, claims *Claims) *models.User {
	login := claims.PreferredUsername
	if login == "" {
		login = claims.Email
	}
	firstname := claims.GivenName
	if firstname == "" {
		firstname = defaultFirstname
	}
	lastname := claims.FamilyName
	if lastname == "" {
		lastname = defaultLastname
	}

	user := &models.User{
		Login:            login,
		Mail:             claims.Email,
		Firstname:        firstname,
		Lastname:         lastname,
		Status:           models.StatusActive,
		CredentialDigest: randomCredential(),
	}

	if err := r.users.CreateUser(ctx, user); err != nil {
		log.Error().Err(err).Msg("OIDC bearer: failed to create user")
		return nil
	}

	log.Info().Str("login", user.Login).Msg("OIDC bearer: provisioned user")
	return user
}

// syncAdmin reconciles the admin flag with group membership. Idempotent:
// identical claims never produce a second write.
func (r *Resolver) syncAdmin(ctx context.Context, user *models.User, claims *Claims, adminGroup string) {
	isAdmin := slices.Contains(claims.Groups, adminGroup)
	if user.Admin == isAdmin {
		return
	}

	user.Admin = isAdmin
	if err := r.users.UpdateUser(ctx, user); err != nil {
		log.Error().Err(err).Str("login", user.Login).Msg("OIDC bearer: failed to update admin status")
		return
	}

	log.Info().
		Str("login", user.Login).
		Bool("admin", isAdmin).
		Msg("OIDC bearer: updated admin status")
}

// extractBearer returns the token from the Authorization header, or "" when
// the header is absent or not an exact-case "Bearer " credential.
func extractBearer(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return header[len(bearerPrefix):]
}

// randomCredential generates placeholder credential material for provisioned
// users. Never logged.
func randomCredential() string {
	b := make([]byte, 32)
	rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func logVerifyFailure(err error) {
	switch err.(type) {
	case *RejectedError:
		log.Error().Err(err).Msg("OIDC bearer: provider rejected token")
	case *InvalidClaimsError:
		log.Error().Err(err).Msg("OIDC bearer: unusable userinfo response")
	case *TransportError:
		log.Error().Err(err).Msg("OIDC bearer: provider unreachable")
	default:
		if err == ErrDisabled {
			log.Debug().Msg("OIDC bearer: not configured, skipping")
			return
		}
		log.Error().Err(err).Msg("OIDC bearer: verification failed")
	}
}
