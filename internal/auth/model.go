// Package auth is the access gate: it issues session tokens on login,
// resolves bearer tokens to an Identity and guards routes by ability.
package auth

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

// AbilityAll grants every ability.
const AbilityAll = "*"

var (
	ErrMissingToken = fmt.Errorf("missing bearer token: %w", apperr.ErrUnauthorized)
	ErrInvalidToken = fmt.Errorf("invalid or expired token: %w", apperr.ErrUnauthorized)
	ErrForbidden    = fmt.Errorf("this action is unauthorized: %w", apperr.ErrForbidden)

	errTokenNotFound = fmt.Errorf("access token %w", apperr.ErrNotFound)
)

// Token is the server side record of an issued session. Deleting it revokes
// the session even while the signed JWT is still within its lifetime.
type Token struct {
	ID         string
	UserID     int64
	Abilities  []string
	LastUsedAt *time.Time
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// Identity is the authenticated caller of a request.
type Identity struct {
	User      *user.User
	TokenID   string
	Abilities []string
}

func (id *Identity) Can(ability string) bool {
	for _, a := range id.Abilities {
		if a == AbilityAll || a == ability {
			return true
		}
	}
	return false
}
