package httpapi

import (
	"context"

	"github.com/dmitrijs2005/csemanager/internal/server/models"
	"github.com/gofiber/fiber/v2"
)

type ctxKey string

// principalKey holds the authenticated *models.User in fiber locals and in
// the request context.
const principalKey ctxKey = "principal"

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// UserFromContext returns the principal attached by the auth filter.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(principalKey).(*models.User)
	return u, ok && u != nil
}

// currentUser reads the principal from fiber locals.
func currentUser(c *fiber.Ctx) (*models.User, bool) {
	u, ok := c.Locals(principalKey).(*models.User)
	return u, ok && u != nil
}
