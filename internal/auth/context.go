package auth

import (
	"context"

	"github.com/addreeh/ph-shopping-list/internal/model"
)

type contextKey struct{}

// AuthContext carries the authenticated identity through a request.
type AuthContext struct {
	User      model.User
	SessionID int64
	Token     string
}

func WithAuth(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}

// CurrentUser returns the authenticated user, or the zero User when the
// context carries no identity.
func CurrentUser(ctx context.Context) model.User {
	ac, ok := FromContext(ctx)
	if !ok {
		return model.User{}
	}
	return ac.User
}

func UserID(ctx context.Context) int64 {
	ac, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return ac.User.ID
}
