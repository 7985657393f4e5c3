// Package store provides the user storage interface and implementations for
// the TokenGate gateway. The in-memory store is the zero-config default;
// PostgreSQL-backed persistence is selected via DATABASE_URL.
package store

import (
	"context"
	"fmt"

	"github.com/tokengate/tokengate/pkg/models"
)

// UserStore is the persistence boundary for local user records. All resolver
// code depends on this interface, making it easy to swap between in-memory
// (tests, local dev) and PostgreSQL (production) implementations.
type UserStore interface {
	// FindByEmail returns the user with the given mail address, or (nil, nil)
	// if no such user exists. Lookup is case-insensitive on the mail.
	FindByEmail(ctx context.Context, mail string) (*models.User, error)

	// CreateUser persists a new user. A duplicate mail or missing required
	// field is reported as a *ValidationError.
	CreateUser(ctx context.Context, user *models.User) error

	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// Ping checks if the backing store is reachable.
	Ping(ctx context.Context) error

	// Close releases all resources held by the store.
	Close() error
}

// ValidationError reports a user record the store refused to persist.
// Concurrent provisioning of the same mail surfaces here as a duplicate-mail
// rejection; callers treat it like any other failed create.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid user: %s %s", e.Field, e.Reason)
}
