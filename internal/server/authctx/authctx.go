package authctx

import (
	"context"

	"github.com/arnaldoeur/erp.nobreza.site-sub001/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

// CurrentUser is the authenticated identity carried through a request.
// CompanyID is the tenant every query is scoped to.
type CurrentUser struct {
	ID        int64
	CompanyID int64
	Email     string
	Name      string
	Role      domain.UserRole
}

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
