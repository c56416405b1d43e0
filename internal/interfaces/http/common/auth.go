package common

import (
	"context"
	"strings"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthenticatedUser represents the JWT-derived principal.
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// DisplayName は通知などに表示する名前を返す。Username → Name → ID の順に採用する。
func (u AuthenticatedUser) DisplayName() string {
	for _, v := range []string{u.Username, u.Name, u.ID} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// ContextWithUser stores the authenticated user into context.
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}
