package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tokengate/tokengate/pkg/contracts"
	pkgmw "github.com/tokengate/tokengate/pkg/middleware"
)

// AuthMiddleware authenticates requests through the provider chain and
// stores the resolved user in the request context.
//
// The chain order carries the fall-through contract: the host's own
// mechanism first, the OIDC bearer provider after it. If every provider
// declines, the request is denied — nothing in the chain raises beyond a
// clean 401.
type AuthMiddleware struct {
	chain contracts.AuthChain
}

// NewAuthMiddleware creates the auth middleware over the given chain.
func NewAuthMiddleware(chain contracts.AuthChain) *AuthMiddleware {
	return &AuthMiddleware{chain: chain}
}

// Handler returns the HTTP middleware that authenticates requests.
func (am *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := am.chain.Authenticate(r.Context(), r)
		if err != nil {
			log.Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
			unauthorized(w, "authentication_failed")
			return
		}

		if user == nil {
			unauthorized(w, "authentication_required")
			return
		}

		ctx := pkgmw.SetUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects requests whose authenticated user lacks the admin
// flag. Must run after Handler.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := pkgmw.GetUser(r.Context())
		if user == nil || !user.Admin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin_required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="tokengate"`)
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
