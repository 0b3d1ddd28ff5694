package service

import (
	"studypath_backend/internal/config"
	"studypath_backend/internal/model"
	"studypath_backend/internal/repository"
	"studypath_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthService(t)

	user := &model.User{
		Name:     "小王",
		Email:    "wang@example.com",
		Password: "password123",
	}
	require.NoError(t, auth.Register(user))

	// 口令已散列存储
	assert.NotEqual(t, "password123", user.Password)

	token, err := auth.Login("wang@example.com", "password123")
	require.NoError(t, err)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthService(t)

	require.NoError(t, auth.Register(&model.User{Name: "a", Email: "dup@example.com", Password: "x12345"}))

	err := auth.Register(&model.User{Name: "b", Email: "dup@example.com", Password: "y12345"})
	assert.ErrorIs(t, err, util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	auth := newAuthService(t)

	require.NoError(t, auth.Register(&model.User{Name: "a", Email: "a@example.com", Password: "right-one"}))

	_, err := auth.Login("a@example.com", "wrong-one")
	assert.Error(t, err)

	_, err = auth.Login("nobody@example.com", "whatever")
	assert.Error(t, err)
}
