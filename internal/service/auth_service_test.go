package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pmhscreen/internal/model"
	"pmhscreen/internal/platform/logger"
	"pmhscreen/internal/repository"
)

func newAuth(t *testing.T) (*AuthService, repository.UserRepo) {
	t.Helper()
	_, users := newRepos(t)
	svc := NewAuthService(users, "test-secret", time.Hour, logger.Nop())
	svc.SetHashCost(bcrypt.MinCost)
	return svc, users
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, users := newAuth(t)

	user, err := svc.Register(ctx, model.RegisterRequest{Email: "Sam@Example.com", Password: "correct horse", FirstName: " Sam "})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "sam@example.com", user.Email)
	assert.Equal(t, "Sam", user.FirstName)
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	resp, err := svc.Login(ctx, model.LoginRequest{Email: "sam@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.UserID)
	assert.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	stored, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "nope", Password: "long enough"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "a@b.example", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(ctx, model.RegisterRequest{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, model.RegisterRequest{Email: "A@B.example", Password: "long enough"})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "a@b.example", Password: "wrong password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ghost@b.example", Password: "long enough"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_Rejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuth(t)

	_, err := svc.Register(ctx, model.RegisterRequest{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)
	resp, err := svc.Login(ctx, model.LoginRequest{Email: "a@b.example", Password: "long enough"})
	require.NoError(t, err)

	_, err = svc.ValidateToken("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(nil, "other-secret", time.Hour, logger.Nop())
	_, err = other.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noUser := jwt.NewWithClaims(jwt.SigningMethodHS256, &model.UserClaims{})
	signed, err := noUser.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	svc.now = time.Now
	_, err = svc.ValidateToken(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
