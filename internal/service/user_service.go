package service

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"parley/internal/model"
	"parley/internal/repository"
	"parley/pkg/apperr"
)

// UserService owns chat-user identity: creating users, alias uniqueness, and
// resolving an authenticated principal to its chat-user row.
type UserService struct {
	repo repository.User
}

func NewUserService(repo repository.User) *UserService {
	return &UserService{repo: repo}
}

// CreateUser validates the alias and re-checks availability immediately
// before insert. The pre-check only improves the error message; the unique
// index on id_alias is the authoritative guard against races.
func (s *UserService) CreateUser(req model.CreateUserRequest) (*model.User, error) {
	alias := strings.TrimSpace(req.IDAlias)
	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		return nil, apperr.Invalid("displayName is required")
	}
	if alias == "" {
		return nil, apperr.Invalid("idAlias is required")
	}

	available, err := s.repo.IsIDAliasAvailable(alias)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !available {
		return nil, apperr.Invalid(fmt.Sprintf("idAlias %q is already taken", alias))
	}

	user := &model.User{
		IDAlias:     alias,
		DisplayName: displayName,
		AvatarURL:   req.AvatarURL,
	}
	if err := s.repo.Create(user); err != nil {
		return nil, apperr.Internal(err)
	}
	return user, nil
}

func (s *UserService) GetUser(id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(id)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *UserService) IsIDAliasAvailable(alias string) (bool, error) {
	available, err := s.repo.IsIDAliasAvailable(alias)
	if err != nil {
		return false, apperr.Internal(err)
	}
	return available, nil
}

// ResolveChatUserID maps an authenticated principal to its chat-user id. A
// missing link is a provisioning error, not a normal runtime path.
func (s *UserService) ResolveChatUserID(authUserID uuid.UUID) (uuid.UUID, error) {
	user, err := s.repo.FindByAuthUserID(authUserID)
	if err != nil {
		return uuid.Nil, apperr.Internal(err)
	}
	if user == nil {
		return uuid.Nil, apperr.NotFound(fmt.Sprintf("Chat user not found for auth user %s", authUserID))
	}
	return user.ID, nil
}
