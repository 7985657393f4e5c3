package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/pkg/models"
)

// APIKeyProvider is the host's own authentication mechanism: static API keys
// mapped to local user mail addresses. It runs first in the chain, so the
// OIDC bearer provider only activates when no API key is presented.
//
// It reads the X-API-Key header only — the Authorization header belongs to
// the bearer provider further down the chain.
//
// Config: TOKENGATE_API_KEYS env var, comma-separated "key:mail" pairs.
type APIKeyProvider struct {
	mu    sync.RWMutex
	keys  map[string]string // key → mail
	users store.UserStore
}

// NewAPIKeyProvider creates an API key auth provider from environment config.
func NewAPIKeyProvider(users store.UserStore) *APIKeyProvider {
	p := &APIKeyProvider{
		keys:  make(map[string]string),
		users: users,
	}

	for _, pair := range strings.Split(os.Getenv("TOKENGATE_API_KEYS"), ",") {
		key, mail, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if ok && key != "" && mail != "" {
			p.keys[key] = mail
		}
	}

	return p
}

func (p *APIKeyProvider) Name() string { return "apikey" }

func (p *APIKeyProvider) Enabled() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.keys) > 0
}

// Authenticate validates the API key and resolves its user.
// Returns (nil, nil) if no API key is present (let next provider try).
// Returns (nil, error) if an API key is present but invalid.
func (p *APIKeyProvider) Authenticate(ctx context.Context, r *http.Request) (*models.User, error) {
	apiKey := r.Header.Get("X-API-Key")
	if apiKey == "" {
		// No API key in request — not our concern, let next provider try
		return nil, nil
	}

	mail, ok := p.lookupKey(apiKey)
	if !ok {
		return nil, fmt.Errorf("invalid API key")
	}

	user, err := p.users.FindByEmail(ctx, mail)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.Active() {
		return nil, fmt.Errorf("API key maps to no active user")
	}

	return user, nil
}

// AddKey registers a key at runtime (used by tests and embedding hosts).
func (p *APIKeyProvider) AddKey(key, mail string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys[key] = mail
}

func (p *APIKeyProvider) lookupKey(candidate string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for key, mail := range p.keys {
		if subtle.ConstantTimeCompare([]byte(key), []byte(candidate)) == 1 {
			return mail, true
		}
	}
	return "", false
}
