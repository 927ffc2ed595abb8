package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/kasir-pos/internal/httpx"
)

const identityKey = "identity"

type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*Identity, error)
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	raw := strings.TrimPrefix(h, "Bearer ")
	if raw == h || raw == "" {
		return "", false
	}
	return raw, true
}

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the caller's Identity otherwise.
func RequireAuth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := bearer(c)
		if !ok {
			httpx.Fail(c, ErrMissingToken)
			return
		}
		id, err := a.Authenticate(c.Request.Context(), raw)
		if err != nil {
			httpx.Fail(c, err)
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAbility must run after RequireAuth.
func RequireAbility(ability string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := FromContext(c)
		if !ok {
			httpx.Fail(c, ErrMissingToken)
			return
		}
		if !id.Can(ability) {
			httpx.Fail(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func FromContext(c *gin.Context) (*Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*Identity)
	return id, ok
}
