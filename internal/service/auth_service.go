package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"parley/internal/model"
	"parley/internal/repository"
	"parley/pkg/apperr"
	"parley/pkg/auth"
)

// AuthService is the username/password collaborator: sign-up, sign-in,
// logout and profile. Sign-up provisions the linked chat user so every
// authenticated principal resolves to a chat identity.
type AuthService struct {
	userRepo   repository.User
	jwtManager *auth.JWTManager
	rdb        *redis.Client
}

func NewAuthService(userRepo repository.User, jwtManager *auth.JWTManager, rdb *redis.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtManager: jwtManager,
		rdb:        rdb,
	}
}

// Register creates an auth user plus its linked chat user and returns a
// session token.
func (s *AuthService) Register(req model.RegisterRequest) (*model.LoginResponse, error) {
	existing, err := s.userRepo.FindAuthUserByEmail(req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if existing != nil {
		return nil, apperr.Invalid("email already registered")
	}

	alias := strings.TrimSpace(req.IDAlias)
	available, err := s.userRepo.IsIDAliasAvailable(alias)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if !available {
		return nil, apperr.Invalid("idAlias is already taken")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	authUser := &model.AuthUser{
		Email:        req.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.CreateAuthUser(authUser); err != nil {
		return nil, apperr.Internal(err)
	}

	chatUser := &model.User{
		IDAlias:     alias,
		DisplayName: strings.TrimSpace(req.DisplayName),
		AuthUserID:  &authUser.ID,
	}
	if err := s.userRepo.Create(chatUser); err != nil {
		return nil, apperr.Internal(err)
	}

	token, err := s.jwtManager.GenerateToken(authUser.ID, authUser.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: *chatUser}, nil
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(req model.LoginRequest) (*model.LoginResponse, error) {
	authUser, err := s.userRepo.FindAuthUserByEmail(req.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if authUser == nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(authUser.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperr.Unauthenticated("invalid email or password")
	}

	chatUser, err := s.userRepo.FindByAuthUserID(authUser.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if chatUser == nil {
		return nil, apperr.NotFound("Chat user not found for auth user " + authUser.ID.String())
	}

	token, err := s.jwtManager.GenerateToken(authUser.ID, authUser.Email)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: *chatUser}, nil
}

// Logout blacklists the token until it would have expired anyway.
func (s *AuthService) Logout(tokenString string) error {
	claims, err := s.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return apperr.Unauthenticated("invalid token")
	}

	expiresIn := time.Until(claims.ExpiresAt.Time)
	if expiresIn <= 0 {
		return nil
	}

	if err := s.rdb.Set(context.Background(), "blacklist:"+tokenString, "revoked", expiresIn).Err(); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// GetProfile returns the chat user linked to the authenticated principal.
func (s *AuthService) GetProfile(authUserID uuid.UUID) (*model.User, error) {
	chatUser, err := s.userRepo.FindByAuthUserID(authUserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if chatUser == nil {
		return nil, apperr.NotFound("Chat user not found for auth user " + authUserID.String())
	}
	return chatUser, nil
}
