package model

import (
	"time"

	"github.com/google/uuid"
)

// MessageType defines the type of message content
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeSystem MessageType = "system"
)

// SystemEvent is the structured event a system message carries
type SystemEvent string

const (
	SystemEventJoin  SystemEvent = "join"
	SystemEventLeave SystemEvent = "leave"
)

// MessageStatus defines the lifecycle state of a message. Deletion is a
// status transition, never row removal, so reactions, bookmarks and replies
// stay referentially valid.
type MessageStatus string

const (
	MessageStatusActive  MessageStatus = "active"
	MessageStatusDeleted MessageStatus = "deleted"
)

// Message represents a chat message. System messages have no sender and
// carry a SystemEvent instead of free text.
type Message struct {
	ID               uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID   uuid.UUID     `json:"conversationId" gorm:"type:uuid;index;not null"`
	SenderUserID     *uuid.UUID    `json:"senderUserId,omitempty" gorm:"type:uuid;index"`
	Type             MessageType   `json:"type" gorm:"type:varchar(20);default:'text'"`
	Text             *string       `json:"text,omitempty" gorm:"type:text"`
	ReplyToMessageID *uuid.UUID    `json:"replyToMessageId,omitempty" gorm:"type:uuid"`
	SystemEvent      *SystemEvent  `json:"systemEvent,omitempty" gorm:"type:varchar(20)"`
	Status           MessageStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	DeletedAt        *time.Time    `json:"deletedAt,omitempty"`
	DeletedByUserID  *uuid.UUID    `json:"deletedByUserId,omitempty" gorm:"type:uuid"`
	CreatedAt        time.Time     `json:"createdAt"`

	// Populated by the repository, not preloaded by gorm.
	Reactions []Reaction `json:"reactions" gorm:"-"`
}

// IsDeleted reports whether the message has been soft-deleted.
func (m *Message) IsDeleted() bool {
	return m.Status == MessageStatusDeleted
}

// Reaction is a user's emoji reaction to a message. The
// (message, user, emoji) triple is unique; re-adding is an idempotent upsert.
type Reaction struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MessageID uuid.UUID `json:"messageId" gorm:"type:uuid;uniqueIndex:idx_reaction_msg_user_emoji;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:idx_reaction_msg_user_emoji;not null"`
	Emoji     string    `json:"emoji" gorm:"uniqueIndex:idx_reaction_msg_user_emoji;size:64;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// ConversationRead is a per-user read cursor, upserted on every mark-read.
type ConversationRead struct {
	ID                uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	ConversationID    uuid.UUID  `json:"conversationId" gorm:"type:uuid;uniqueIndex:idx_read_conv_user;not null"`
	UserID            uuid.UUID  `json:"userId" gorm:"type:uuid;uniqueIndex:idx_read_conv_user;not null"`
	LastReadMessageID *uuid.UUID `json:"lastReadMessageId,omitempty" gorm:"type:uuid"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

func (ConversationRead) TableName() string { return "conversation_reads" }

// Bookmark marks a message saved by a user; unique per (message, user).
type Bookmark struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	MessageID uuid.UUID `json:"messageId" gorm:"type:uuid;uniqueIndex:idx_bookmark_msg_user;not null"`
	UserID    uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex:idx_bookmark_msg_user;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (Bookmark) TableName() string { return "message_bookmarks" }

// BookmarkListItem is a bookmark joined with its message for the personal
// cross-conversation bookmark view.
type BookmarkListItem struct {
	MessageID        uuid.UUID `json:"messageId"`
	ConversationID   uuid.UUID `json:"conversationId"`
	Text             *string   `json:"text,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	MessageCreatedAt time.Time `json:"messageCreatedAt"`
}
