package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthUser is the credential record owned by the auth subsystem. Chat code
// never references it directly; the chat User links back via AuthUserID.
type AuthUser struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AuthUser) TableName() string { return "auth_users" }

// User is the chat identity. It is separate from AuthUser so the chat domain
// never leaks credentials; the two are linked by AuthUserID.
type User struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	IDAlias     string     `json:"idAlias" gorm:"column:id_alias;uniqueIndex;not null;size:100"`
	DisplayName string     `json:"displayName" gorm:"size:100;not null"`
	AvatarURL   *string    `json:"avatarUrl,omitempty" gorm:"size:500"`
	AuthUserID  *uuid.UUID `json:"-" gorm:"type:uuid;uniqueIndex"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (User) TableName() string { return "users" }
