package model

import "github.com/google/uuid"

// ========== Auth DTOs ==========

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	IDAlias     string `json:"idAlias" binding:"required,min=3,max=100"`
	DisplayName string `json:"displayName" binding:"required,min=1,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ========== User DTOs ==========

type CreateUserRequest struct {
	IDAlias     string  `json:"idAlias" binding:"required,min=3,max=100"`
	DisplayName string  `json:"displayName" binding:"required,min=1,max=100"`
	AvatarURL   *string `json:"avatarUrl" binding:"omitempty,max=500"`
}

type AliasAvailableResponse struct {
	Alias     string `json:"alias"`
	Available bool   `json:"available"`
}

// ========== Conversation DTOs ==========

type CreateConversationRequest struct {
	Type           ConversationType `json:"type" binding:"required,oneof=direct group"`
	Name           *string          `json:"name"` // required for group
	ParticipantIDs []uuid.UUID      `json:"participantIds"`
}

type AddParticipantRequest struct {
	UserID uuid.UUID        `json:"userId" binding:"required"`
	Role   *ParticipantRole `json:"role" binding:"omitempty,oneof=member admin"`
}

type SendMessageRequest struct {
	Text             *string    `json:"text" binding:"required"`
	ReplyToMessageID *uuid.UUID `json:"replyToMessageId"`
}

type MessageListRequest struct {
	Before string `form:"before"` // RFC3339 timestamp; only older messages are returned
	Limit  int    `form:"limit,default=50"`
}

type MarkReadRequest struct {
	LastReadMessageID uuid.UUID `json:"lastReadMessageId" binding:"required"`
}

type MarkReadResponse struct {
	Status string           `json:"status"`
	Read   ConversationRead `json:"read"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unreadCount"`
}

// ========== Reaction / Bookmark DTOs ==========

type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required,max=64"`
}

type BookmarkResponse struct {
	Status   string   `json:"status"`
	Bookmark Bookmark `json:"bookmark"`
}

// ========== Common ==========

type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}
