package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeMC777/kasir-pos/internal/apperr"
	"github.com/MikeMC777/kasir-pos/internal/user"
)

type memTokens struct {
	rows    map[string]Token
	touched map[string]time.Time
}

func newMemTokens() *memTokens {
	return &memTokens{rows: map[string]Token{}, touched: map[string]time.Time{}}
}

func (m *memTokens) Create(ctx context.Context, t *Token) error {
	t.CreatedAt = time.Now()
	m.rows[t.ID] = *t
	return nil
}

func (m *memTokens) Get(ctx context.Context, id string) (*Token, error) {
	t, ok := m.rows[id]
	if !ok {
		return nil, errTokenNotFound
	}
	return &t, nil
}

func (m *memTokens) Touch(ctx context.Context, id string, at time.Time) error {
	m.touched[id] = at
	return nil
}

func (m *memTokens) Delete(ctx context.Context, id string) error {
	delete(m.rows, id)
	return nil
}

// directory serves both Credentials and Users.
type directory struct {
	users     map[int64]*user.User
	passwords map[string]string
}

func newDirectory() *directory {
	return &directory{
		users: map[int64]*user.User{
			1: {ID: 1, Email: "admin@kasir.test", Role: user.RoleAdmin},
			2: {ID: 2, Email: "staff@kasir.test", Role: "staff"},
		},
		passwords: map[string]string{"admin@kasir.test": "secret123", "staff@kasir.test": "secret456"},
	}
}

func (d *directory) Authenticate(ctx context.Context, in user.LoginRequest) (*user.User, error) {
	for _, u := range d.users {
		if u.Email == in.Email && d.passwords[in.Email] == in.Password {
			return u, nil
		}
	}
	return nil, user.ErrInvalidCredentials
}

func (d *directory) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := d.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func newTestService() (*Service, *memTokens, *directory) {
	toks, dir := newMemTokens(), newDirectory()
	return NewService(toks, dir, dir, "test-secret", time.Hour), toks, dir
}

func TestLogin_IssuesTokenWithRoleAbility(t *testing.T) {
	svc, toks, _ := newTestService()
	ctx := context.Background()

	raw, u, err := svc.Login(ctx, user.LoginRequest{Email: "admin@kasir.test", Password: "secret123"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, u.ID)
	require.Len(t, toks.rows, 1)

	id, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "admin@kasir.test", id.User.Email)
	assert.Equal(t, []string{user.RoleAdmin}, id.Abilities)
	assert.True(t, id.Can(user.RoleAdmin))
	assert.Contains(t, toks.touched, id.TokenID)
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, toks, _ := newTestService()
	_, _, err := svc.Login(context.Background(), user.LoginRequest{Email: "admin@kasir.test", Password: "nope"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Empty(t, toks.rows)
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, toks, _ := newTestService()
	ctx := context.Background()
	raw, _, err := svc.Login(ctx, user.LoginRequest{Email: "staff@kasir.test", Password: "secret456"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, id))
	assert.Empty(t, toks.rows)

	_, err = svc.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticate_Expired(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	raw, _, err := svc.Login(ctx, user.LoginRequest{Email: "staff@kasir.test", Password: "secret456"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
}

func TestAuthenticate_Rejects(t *testing.T) {
	svc, _, dir := newTestService()
	ctx := context.Background()
	raw, _, err := svc.Login(ctx, user.LoginRequest{Email: "staff@kasir.test", Password: "secret456"})
	require.NoError(t, err)

	other := NewService(newMemTokens(), dir, dir, "other-secret", time.Hour)
	_, err = other.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong signing key")

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, none)
	assert.ErrorIs(t, err, ErrInvalidToken, "alg none")

	_, err = svc.Authenticate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	delete(dir.users, 2)
	_, err = svc.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, ErrInvalidToken, "deleted user")
}

func TestAuthenticate_NonUUIDTokenID(t *testing.T) {
	svc, toks, _ := newTestService()
	toks.rows["not-a-uuid"] = Token{ID: "not-a-uuid", UserID: 2, ExpiresAt: time.Now().Add(time.Hour)}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "not-a-uuid",
			Subject:   "2",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.Empty(t, toks.touched)
}

func TestAuthenticate_LooksUpCanonicalID(t *testing.T) {
	svc, toks, _ := newTestService()
	ctx := context.Background()
	raw, _, err := svc.Login(ctx, user.LoginRequest{Email: "staff@kasir.test", Password: "secret456"})
	require.NoError(t, err)

	id, err := svc.Authenticate(ctx, raw)
	require.NoError(t, err)
	_, err = uuid.Parse(id.TokenID)
	require.NoError(t, err)
	assert.Contains(t, toks.touched, id.TokenID)
}

func TestIdentity_Can(t *testing.T) {
	staff := &Identity{Abilities: []string{"staff"}}
	assert.False(t, staff.Can(user.RoleAdmin))
	assert.True(t, staff.Can("staff"))

	root := &Identity{Abilities: []string{AbilityAll}}
	assert.True(t, root.Can(user.RoleAdmin))

	assert.False(t, (&Identity{}).Can(user.RoleAdmin))
}
