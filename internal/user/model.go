package user

import (
	"fmt"
	"time"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
)

const RoleAdmin = "admin"

var (
	ErrNotFound           = fmt.Errorf("user %w", apperr.ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", apperr.ErrUnauthorized)
)

type User struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
