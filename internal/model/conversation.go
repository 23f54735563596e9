package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationType defines whether the conversation is direct or group
type ConversationType string

const (
	ConversationTypeDirect ConversationType = "direct"
	ConversationTypeGroup  ConversationType = "group"
)

// Conversation represents a chat conversation (1-1 or group). Name is set
// for groups only; type and name are immutable after creation.
type Conversation struct {
	ID        uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	Type      ConversationType `json:"type" gorm:"type:varchar(20);not null"`
	Name      *string          `json:"name,omitempty" gorm:"size:100"`
	CreatedAt time.Time        `json:"createdAt"`

	// Relations
	Participants []Participant `json:"participants,omitempty" gorm:"foreignKey:ConversationID"`
}

// ParticipantRole defines the role of a participant in a conversation
type ParticipantRole string

const (
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleMember ParticipantRole = "member"
)

// Participant represents a user's membership in a conversation. The
// (conversation, user) pair is unique for the whole join/leave history;
// leaving sets LeftAt and re-joining clears it again.
type Participant struct {
	ID             uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID uuid.UUID       `json:"conversationId" gorm:"type:uuid;uniqueIndex:idx_participant_conv_user;not null"`
	UserID         uuid.UUID       `json:"userId" gorm:"type:uuid;uniqueIndex:idx_participant_conv_user;not null"`
	Role           ParticipantRole `json:"role" gorm:"type:varchar(20);default:'member'"`
	JoinedAt       time.Time       `json:"joinedAt"`
	LeftAt         *time.Time      `json:"leftAt,omitempty"`

	// Relations
	User User `json:"user" gorm:"foreignKey:UserID"`
}

// IsActive reports whether the participant has not left the conversation.
func (p *Participant) IsActive() bool {
	return p.LeftAt == nil
}
