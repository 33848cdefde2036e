package authctx

import (
	"context"

	"github.com/ttvMolten/Egov-services-db/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the employee identified by the request's access token.
type CurrentUser struct {
	ID       int64
	Name     string
	Role     domain.Role
	BranchID int64
}

func (u CurrentUser) IsAdmin() bool { return u.Role == domain.RoleAdmin }

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
