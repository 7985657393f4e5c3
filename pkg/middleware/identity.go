// Package middleware provides shared context helpers for the TokenGate
// gateway. It lives in pkg/ so host applications embedding the gateway can
// read the authenticated user from their own handlers.
package middleware

import (
	"context"

	"github.com/tokengate/tokengate/pkg/models"
)

type contextKey string

const userKey contextKey = "user"

// SetUser stores the authenticated user in the context.
// Called by the auth middleware after the chain resolves a user.
func SetUser(ctx context.Context, user *models.User) context.Context {
	if user == nil {
		return ctx
	}
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user from the context.
// Returns nil if no user is set (anonymous/unauthenticated request).
func GetUser(ctx context.Context) *models.User {
	if v, ok := ctx.Value(userKey).(*models.User); ok {
		return v
	}
	return nil
}
