package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parley/internal/model"
	"parley/internal/repository"
	"parley/internal/service"
	"parley/pkg/logger"
)

// ChatHandler serves conversation-scoped routes. Every route resolves the
// session's chat-user id first; membership checks happen in the service.
type ChatHandler struct {
	chatService *service.ChatService
	userService *service.UserService
	log         *logger.Logger
}

func NewChatHandler(chatService *service.ChatService, userService *service.UserService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, userService: userService, log: log}
}

// CreateConversation godoc
// @Summary Create a direct or group conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body model.CreateConversationRequest true "Conversation details"
// @Success 201 {object} model.Conversation
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations [post]
func (h *ChatHandler) CreateConversation(c *gin.Context) {
	var req model.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	conv, err := h.chatService.CreateConversation(req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// ListConversations godoc
// @Summary List conversations the current user belongs to
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Conversation
// @Router /conversations [get]
func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	conversations, err := h.chatService.ListConversationsForUser(userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, conversations)
}

// GetConversation godoc
// @Summary Get a conversation with its participants
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.Conversation
// @Failure 404 {object} model.ErrorResponse
// @Router /conversations/{id} [get]
func (h *ChatHandler) GetConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	conv, err := h.chatService.GetConversation(conversationID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, conv)
}

// AddParticipant godoc
// @Summary Add a user to a conversation, or restore a departed one
// @Tags Conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param body body model.AddParticipantRequest true "Participant details"
// @Success 201 {object} model.Participant
// @Failure 404 {object} model.ErrorResponse
// @Router /conversations/{id}/participants [post]
func (h *ChatHandler) AddParticipant(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	var req model.AddParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	participant, err := h.chatService.AddParticipant(conversationID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, participant)
}

// LeaveConversation godoc
// @Summary Leave a conversation
// @Tags Conversations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.Participant
// @Failure 404 {object} model.ErrorResponse
// @Router /conversations/{id}/participants/me [delete]
func (h *ChatHandler) LeaveConversation(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	participant, err := h.chatService.MarkParticipantLeft(conversationID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// ListMessages godoc
// @Summary List messages, newest first
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param before query string false "Only messages created before this RFC3339 timestamp"
// @Param limit query int false "Page size, max 100"
// @Success 200 {array} model.Message
// @Failure 403 {object} model.ErrorResponse
// @Router /conversations/{id}/messages [get]
func (h *ChatHandler) ListMessages(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	var req model.MessageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	query := repository.MessageQuery{Limit: req.Limit}
	if req.Before != "" {
		before, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "before must be an RFC3339 timestamp"})
			return
		}
		query.Before = &before
	}

	messages, err := h.chatService.ListMessages(conversationID, userID, query)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// SendMessage godoc
// @Summary Send a text message to a conversation
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param body body model.SendMessageRequest true "Message body"
// @Success 201 {object} model.Message
// @Failure 403 {object} model.ErrorResponse
// @Router /conversations/{id}/messages [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	var req model.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	msg, err := h.chatService.SendMessage(conversationID, userID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead godoc
// @Summary Move the caller's read cursor for a conversation
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Param body body model.MarkReadRequest true "Read cursor"
// @Success 200 {object} model.MarkReadResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /conversations/{id}/read [post]
func (h *ChatHandler) MarkRead(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	var req model.MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	read, err := h.chatService.MarkConversationRead(conversationID, userID, req.LastReadMessageID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.MarkReadResponse{Status: "ok", Read: *read})
}

// UnreadCount godoc
// @Summary Count messages newer than the caller's read cursor
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Conversation ID"
// @Success 200 {object} model.UnreadCountResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /conversations/{id}/unread-count [get]
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	conversationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid conversation ID"})
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	count, err := h.chatService.CountUnread(conversationID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.UnreadCountResponse{UnreadCount: count})
}
