package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/internal/model"
	"parley/pkg/apperr"
	"parley/pkg/auth"
)

func newAuthTestService() (*AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthService(repo, jwtManager, nil), repo
}

func TestRegister_ProvisionsChatUser(t *testing.T) {
	svc, repo := newAuthTestService()

	resp, err := svc.Register(model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.IDAlias)
	require.NotNil(t, resp.User.AuthUserID)

	// Password is stored hashed.
	authUser, err := repo.FindAuthUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, authUser)
	assert.NotEqual(t, "secret-password", authUser.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthTestService()

	req := model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	}
	_, err := svc.Register(req)
	require.NoError(t, err)

	req.IDAlias = "alice2"
	_, err = svc.Register(req)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))
}

func TestRegister_DuplicateAlias(t *testing.T) {
	svc, _ := newAuthTestService()

	_, err := svc.Register(model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	_, err = svc.Register(model.RegisterRequest{
		Email:       "other@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Other",
	})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindInvalidRequest))
}

func TestLogin_RoundTrip(t *testing.T) {
	svc, _ := newAuthTestService()

	_, err := svc.Register(model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	resp, err := svc.Login(model.LoginRequest{Email: "alice@example.com", Password: "secret-password"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.IDAlias)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthTestService()

	_, err := svc.Register(model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	_, err = svc.Login(model.LoginRequest{Email: "alice@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))

	_, err = svc.Login(model.LoginRequest{Email: "nobody@example.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthenticated))
}

func TestGetProfile(t *testing.T) {
	svc, repo := newAuthTestService()

	resp, err := svc.Register(model.RegisterRequest{
		Email:       "alice@example.com",
		Password:    "secret-password",
		IDAlias:     "alice",
		DisplayName: "Alice",
	})
	require.NoError(t, err)

	authUser, err := repo.FindAuthUserByEmail("alice@example.com")
	require.NoError(t, err)

	profile, err := svc.GetProfile(authUser.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, profile.ID)

	_, err = svc.GetProfile(uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
}
