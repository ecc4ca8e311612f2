package service

import (
	"context"
	"testing"

	"taskchat-be/internal/dto"
	"taskchat-be/internal/repository/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAuthFixture() IAuthService {
	return NewAuthService(memory.NewRepositoryFactory(memory.NewStore()), testSecret)
}

func TestSignupIssuesToken(t *testing.T) {
	service := newAuthFixture()

	res, err := service.Signup(context.Background(), &dto.SignupRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, "alice", res.Username)
	assert.NotZero(t, res.UserId)

	// The token carries a numeric user_id claim.
	token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(res.UserId), claims["user_id"])
}

func TestSignupDuplicateEmail(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	req := &dto.SignupRequest{Email: "a@b.c", Username: "alice", Password: "hunter2hunter2"}
	_, err := service.Signup(ctx, req)
	require.NoError(t, err)

	_, err = service.Signup(ctx, req)
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin(t *testing.T) {
	service := newAuthFixture()
	ctx := context.Background()

	_, err := service.Signup(ctx, &dto.SignupRequest{
		Email:    "a@b.c",
		Username: "alice",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	res, err := service.Login(ctx, &dto.LoginRequest{Email: "a@b.c", Password: "hunter2hunter2"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Username)

	_, err = service.Login(ctx, &dto.LoginRequest{Email: "a@b.c", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = service.Login(ctx, &dto.LoginRequest{Email: "nobody@b.c", Password: "hunter2hunter2"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
