package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MikeMC777/kasir-pos/internal/user"
)

// Credentials checks an email/password pair.
type Credentials interface {
	Authenticate(ctx context.Context, in user.LoginRequest) (*user.User, error)
}

// Users resolves the subject of a token.
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type Service struct {
	tokens Repository
	creds  Credentials
	users  Users
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(tokens Repository, creds Credentials, users Users, secret string, ttl time.Duration) *Service {
	return &Service{
		tokens: tokens,
		creds:  creds,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

type claims struct {
	Abilities []string `json:"abilities"`
	jwt.RegisteredClaims
}

// Login checks the credentials and issues a signed session token whose only
// ability is the user's role.
func (s *Service) Login(ctx context.Context, in user.LoginRequest) (string, *user.User, error) {
	u, err := s.creds.Authenticate(ctx, in)
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	t := &Token{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Abilities: []string{u.Role},
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.tokens.Create(ctx, t); err != nil {
		return "", nil, fmt.Errorf("store token: %w", err)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Abilities: t.Abilities,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        t.ID,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(t.ExpiresAt),
		},
	}).SignedString(s.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	log.Printf("[auth] login user=%d token=%s", u.ID, t.ID)
	return signed, u, nil
}

// Authenticate resolves a raw bearer token. The token must verify, still be
// stored and belong to an existing user.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Identity, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	jti, err := uuid.Parse(c.ID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	t, err := s.tokens.Get(ctx, jti.String())
	if errors.Is(err, errTokenNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !now.Before(t.ExpiresAt) || c.Subject != strconv.FormatInt(t.UserID, 10) {
		return nil, ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, t.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	if err := s.tokens.Touch(ctx, t.ID, now); err != nil {
		log.Printf("[auth] touch token %s: %v", t.ID, err)
	}
	return &Identity{User: u, TokenID: t.ID, Abilities: t.Abilities}, nil
}

// Logout revokes the token the identity was authenticated with.
func (s *Service) Logout(ctx context.Context, id *Identity) error {
	if err := s.tokens.Delete(ctx, id.TokenID); err != nil {
		return err
	}
	log.Printf("[auth] logout user=%d token=%s", id.User.ID, id.TokenID)
	return nil
}
