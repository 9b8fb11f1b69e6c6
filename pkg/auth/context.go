package auth

import (
	"context"

	pkgerrors "promptline/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "auth.user"

// UserContext carries the authenticated caller's identity through a request
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the user has the given role
func (u *UserContext) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// SetUserInContext stores the authenticated user in the context
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil {
		return nil, pkgerrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
