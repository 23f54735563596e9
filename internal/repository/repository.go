package repository

import (
	"time"

	"github.com/google/uuid"

	"parley/internal/model"
)

// MessageQuery controls message listing: page size and an optional
// created-at upper bound (exclusive).
type MessageQuery struct {
	Limit  int
	Before *time.Time
}

// CreateMessageParams carries everything needed to append a message. System
// messages set Type/SystemEvent and leave SenderUserID nil.
type CreateMessageParams struct {
	SenderUserID     *uuid.UUID
	Type             model.MessageType
	Text             *string
	ReplyToMessageID *uuid.UUID
	SystemEvent      *model.SystemEvent
}

// Chat is the persistence surface the consistency engine depends on. Lookups
// return (nil, nil) when the row is absent; only storage failures produce
// errors. Idempotent upserts (participants, reactions, bookmarks, read
// cursors) absorb uniqueness conflicts and return the surviving row.
type Chat interface {
	CreateConversation(convType model.ConversationType, name *string, participantIDs []uuid.UUID) (*model.Conversation, error)
	GetConversation(id uuid.UUID) (*model.Conversation, error)
	ListConversationsForUser(userID uuid.UUID) ([]model.Conversation, error)

	AddParticipant(conversationID, userID uuid.UUID, role model.ParticipantRole) (*model.Participant, error)
	FindParticipant(conversationID, userID uuid.UUID) (*model.Participant, error)
	MarkParticipantLeft(conversationID, userID uuid.UUID) (*model.Participant, error)

	CreateMessage(conversationID uuid.UUID, params CreateMessageParams) (*model.Message, error)
	ListMessages(conversationID uuid.UUID, query MessageQuery) ([]model.Message, error)
	FindMessageByID(id uuid.UUID) (*model.Message, error)
	DeleteMessage(id, byUserID uuid.UUID) error

	AddReaction(messageID, userID uuid.UUID, emoji string) (*model.Reaction, error)
	RemoveReaction(messageID uuid.UUID, emoji string, userID uuid.UUID) (*model.Reaction, error)
	ListReactions(messageID uuid.UUID) ([]model.Reaction, error)

	UpdateConversationRead(conversationID, userID, lastReadMessageID uuid.UUID) (*model.ConversationRead, error)
	CountUnread(conversationID, userID uuid.UUID) (int64, error)

	AddBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error)
	RemoveBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error)
	ListBookmarks(userID uuid.UUID) ([]model.BookmarkListItem, error)
}

// User is the persistence surface for chat users and the linked auth-user
// table pair.
type User interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByIDAlias(alias string) (*model.User, error)
	FindByAuthUserID(authUserID uuid.UUID) (*model.User, error)
	IsIDAliasAvailable(alias string) (bool, error)

	CreateAuthUser(user *model.AuthUser) error
	FindAuthUserByEmail(email string) (*model.AuthUser, error)
	FindAuthUserByID(id uuid.UUID) (*model.AuthUser, error)
}
