package repository

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"parley/internal/model"
)

// UserRepository handles database operations for chat users and the linked
// auth-user table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ User = (*UserRepository)(nil)

// Create inserts a new chat user. The unique index on id_alias is the
// authoritative guard against alias races.
func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByIDAlias(alias string) (*model.User, error) {
	var user model.User
	err := r.db.Where("id_alias = ?", alias).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByAuthUserID resolves the chat user linked to an auth principal.
func (r *UserRepository) FindByAuthUserID(authUserID uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Where("auth_user_id = ?", authUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) IsIDAliasAvailable(alias string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("id_alias = ?", alias).Count(&count).Error
	return count == 0, err
}

// CreateAuthUser inserts a credential record.
func (r *UserRepository) CreateAuthUser(user *model.AuthUser) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindAuthUserByEmail(email string) (*model.AuthUser, error) {
	var user model.AuthUser
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindAuthUserByID(id uuid.UUID) (*model.AuthUser, error) {
	var user model.AuthUser
	err := r.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
