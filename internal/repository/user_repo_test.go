package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parley/internal/model"
)

func TestUserRepository_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	user := &model.User{IDAlias: "alice", DisplayName: "Alice"}
	require.NoError(t, repo.Create(user))
	require.NotEqual(t, uuid.Nil, user.ID)

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.IDAlias)

	byAlias, err := repo.FindByIDAlias("alice")
	require.NoError(t, err)
	require.NotNil(t, byAlias)
	assert.Equal(t, user.ID, byAlias.ID)

	missing, err := repo.FindByID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepository_AliasAvailability(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	available, err := repo.IsIDAliasAvailable("alice")
	require.NoError(t, err)
	assert.True(t, available)

	require.NoError(t, repo.Create(&model.User{IDAlias: "alice", DisplayName: "Alice"}))

	available, err = repo.IsIDAliasAvailable("alice")
	require.NoError(t, err)
	assert.False(t, available)
}

func TestUserRepository_AuthUserLink(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)

	authUser := &model.AuthUser{Email: "alice@example.com", PasswordHash: "hash"}
	require.NoError(t, repo.CreateAuthUser(authUser))

	chatUser := &model.User{IDAlias: "alice", DisplayName: "Alice", AuthUserID: &authUser.ID}
	require.NoError(t, repo.Create(chatUser))

	byEmail, err := repo.FindAuthUserByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, authUser.ID, byEmail.ID)

	byAuthID, err := repo.FindByAuthUserID(authUser.ID)
	require.NoError(t, err)
	require.NotNil(t, byAuthID)
	assert.Equal(t, chatUser.ID, byAuthID.ID)

	noAuth, err := repo.FindAuthUserByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, noAuth)

	noLink, err := repo.FindByAuthUserID(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, noLink)
}
