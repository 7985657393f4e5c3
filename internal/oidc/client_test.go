package oidc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tokengate/tokengate/internal/oidc"
	"github.com/tokengate/tokengate/internal/settings"
)

func TestVerify_Disabled(t *testing.T) {
	client := oidc.NewClient()

	_, err := client.Verify(context.Background(), "abc123", settings.Config{})
	if !errors.Is(err, oidc.ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestVerify_Success(t *testing.T) {
	var gotPath, gotAuth, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"email":"a@x.com","preferred_username":"alice","groups":["admins","dev"]}`))
	}))
	defer srv.Close()

	client := oidc.NewClient()
	claims, err := client.Verify(context.Background(), "abc123", settings.Config{ServerURL: srv.URL})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if gotPath != "/protocol/openid-connect/userinfo" {
		t.Errorf("path = %q, want userinfo path", gotPath)
	}
	if gotAuth != "Bearer abc123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer abc123")
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email = %q, want a@x.com", claims.Email)
	}
	if claims.PreferredUsername != "alice" {
		t.Errorf("preferred_username = %q, want alice", claims.PreferredUsername)
	}
	if len(claims.Groups) != 2 || claims.Groups[0] != "admins" {
		t.Errorf("groups = %v, want [admins dev]", claims.Groups)
	}
}

func TestVerify_TrailingSlashStripped(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"email":"a@x.com"}`))
	}))
	defer srv.Close()

	client := oidc.NewClient()
	_, err := client.Verify(context.Background(), "t", settings.Config{ServerURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if gotPath != "/protocol/openid-connect/userinfo" {
		t.Errorf("path = %q, double slash not stripped", gotPath)
	}
}

func TestVerify_ProviderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	client := oidc.NewClient()
	_, err := client.Verify(context.Background(), "expired", settings.Config{ServerURL: srv.URL})

	var rejected *oidc.RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("err = %T, want *RejectedError", err)
	}
	if rejected.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rejected.Status)
	}
	if rejected.Body != "invalid_token" {
		t.Errorf("body = %q, want invalid_token", rejected.Body)
	}
	if !strings.Contains(rejected.Error(), "401") || !strings.Contains(rejected.Error(), "invalid_token") {
		t.Errorf("error message %q should carry status and body", rejected.Error())
	}
}

func TestVerify_MissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"preferred_username":"alice"}`))
	}))
	defer srv.Close()

	client := oidc.NewClient()
	_, err := client.Verify(context.Background(), "t", settings.Config{ServerURL: srv.URL})

	var invalid *oidc.InvalidClaimsError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %T, want *InvalidClaimsError", err)
	}
}

func TestVerify_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := oidc.NewClient()
	_, err := client.Verify(context.Background(), "t", settings.Config{ServerURL: srv.URL})

	var invalid *oidc.InvalidClaimsError
	if !errors.As(err, &invalid) {
		t.Fatalf("err = %T, want *InvalidClaimsError", err)
	}
}

func TestVerify_TransportFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := oidc.NewClient()
	_, err := client.Verify(context.Background(), "t", settings.Config{ServerURL: srv.URL})

	var transport *oidc.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("err = %T, want *TransportError", err)
	}
}

func TestVerify_InsecureTLSOptIn(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"a@x.com"}`))
	}))
	defer srv.Close()

	client := oidc.NewClient()

	// Self-signed certificate: verification must fail without the opt-in...
	_, err := client.Verify(context.Background(), "t", settings.Config{ServerURL: srv.URL})
	var transport *oidc.TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("err = %T, want *TransportError for untrusted cert", err)
	}

	// ...and succeed with it.
	claims, err := client.Verify(context.Background(), "t", settings.Config{
		ServerURL:            srv.URL,
		DisableSSLValidation: true,
	})
	if err != nil {
		t.Fatalf("Verify with DisableSSLValidation failed: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Errorf("email = %q, want a@x.com", claims.Email)
	}
}
