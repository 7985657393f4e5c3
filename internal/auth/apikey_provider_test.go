package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/tokengate/tokengate/internal/auth"
	"github.com/tokengate/tokengate/internal/store"
	"github.com/tokengate/tokengate/pkg/models"
)

func seedUser(t *testing.T, users store.UserStore, mail, status string) {
	t.Helper()
	err := users.CreateUser(context.Background(), &models.User{
		Login:  mail,
		Mail:   mail,
		Status: status,
	})
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func TestAPIKeyProvider_Disabled(t *testing.T) {
	os.Unsetenv("TOKENGATE_API_KEYS")

	p := auth.NewAPIKeyProvider(store.NewMemoryStore())
	if p.Enabled() {
		t.Error("expected provider to be disabled when TOKENGATE_API_KEYS is not set")
	}
}

func TestAPIKeyProvider_ValidKey(t *testing.T) {
	os.Setenv("TOKENGATE_API_KEYS", "key-1:ops@x.com, key-2:ci@x.com")
	defer os.Unsetenv("TOKENGATE_API_KEYS")

	users := store.NewMemoryStore()
	seedUser(t, users, "ops@x.com", models.StatusActive)

	p := auth.NewAPIKeyProvider(users)
	if !p.Enabled() {
		t.Fatal("expected provider to be enabled")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-API-Key", "key-1")

	user, err := p.Authenticate(context.Background(), req)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user == nil || user.Mail != "ops@x.com" {
		t.Errorf("user = %v, want ops@x.com", user)
	}
}

func TestAPIKeyProvider_InvalidKey(t *testing.T) {
	os.Setenv("TOKENGATE_API_KEYS", "valid:ops@x.com")
	defer os.Unsetenv("TOKENGATE_API_KEYS")

	p := auth.NewAPIKeyProvider(store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-API-Key", "wrong")

	if _, err := p.Authenticate(context.Background(), req); err == nil {
		t.Error("expected rejection for invalid key")
	}
}

func TestAPIKeyProvider_NoKeyFallsThrough(t *testing.T) {
	os.Setenv("TOKENGATE_API_KEYS", "valid:ops@x.com")
	defer os.Unsetenv("TOKENGATE_API_KEYS")

	p := auth.NewAPIKeyProvider(store.NewMemoryStore())

	// Bearer tokens are not this provider's concern.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer some-oidc-token")

	user, err := p.Authenticate(context.Background(), req)
	if user != nil || err != nil {
		t.Errorf("got (%v, %v), want (nil, nil) fall-through", user, err)
	}
}

func TestAPIKeyProvider_LockedUserRejected(t *testing.T) {
	os.Unsetenv("TOKENGATE_API_KEYS")

	users := store.NewMemoryStore()
	seedUser(t, users, "gone@x.com", models.StatusLocked)

	p := auth.NewAPIKeyProvider(users)
	p.AddKey("k", "gone@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-API-Key", "k")

	if _, err := p.Authenticate(context.Background(), req); err == nil {
		t.Error("expected rejection for locked user")
	}
}
