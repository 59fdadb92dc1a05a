package auth

import (
	"context"

	"simpleTwitter/domain"
)

const (
	userKey privateKey = "user"
)

type privateKey string

// SetUser stashes the authenticated user in the request context.
func SetUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUser retrieves the authenticated user from the request context.
// It returns nil if no user has been authenticated.
func GetUser(ctx context.Context) *domain.User {
	if temp := ctx.Value(userKey); temp != nil {
		if user, ok := temp.(*domain.User); ok {
			return user
		}
	}
	return nil
}
