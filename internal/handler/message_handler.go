package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parley/internal/model"
	"parley/internal/service"
	"parley/pkg/logger"
)

// MessageHandler serves message-scoped routes: delete, reactions, bookmarks.
type MessageHandler struct {
	chatService *service.ChatService
	userService *service.UserService
	log         *logger.Logger
}

func NewMessageHandler(chatService *service.ChatService, userService *service.UserService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{chatService: chatService, userService: userService, log: log}
}

func messageID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid message ID"})
		return uuid.Nil, false
	}
	return id, true
}

// DeleteMessage godoc
// @Summary Soft-delete a message (sender or conversation admin)
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} model.SuccessResponse
// @Failure 403 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /messages/{id} [delete]
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	if err := h.chatService.DeleteMessage(id, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.SuccessResponse{Message: "Message deleted"})
}

// AddReaction godoc
// @Summary React to a message; repeating the same emoji is a no-op
// @Tags Reactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param body body model.ReactionRequest true "Emoji"
// @Success 201 {object} model.Reaction
// @Failure 400 {object} model.ErrorResponse
// @Router /messages/{id}/reactions [post]
func (h *MessageHandler) AddReaction(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	var req model.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	reaction, err := h.chatService.AddReaction(id, userID, req.Emoji)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, reaction)
}

// RemoveReaction godoc
// @Summary Remove the caller's reaction for an emoji
// @Tags Reactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param emoji path string true "Emoji"
// @Success 200 {object} model.Reaction
// @Failure 404 {object} model.ErrorResponse
// @Router /messages/{id}/reactions/{emoji} [delete]
func (h *MessageHandler) RemoveReaction(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	emoji := c.Param("emoji")
	removed, err := h.chatService.RemoveReaction(id, emoji, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, removed)
}

// ListReactions godoc
// @Summary List reactions on a message, oldest first
// @Tags Reactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {array} model.Reaction
// @Failure 404 {object} model.ErrorResponse
// @Router /messages/{id}/reactions [get]
func (h *MessageHandler) ListReactions(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	reactions, err := h.chatService.ListReactions(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, reactions)
}

// AddBookmark godoc
// @Summary Bookmark a message; repeating is a no-op
// @Tags Bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 201 {object} model.BookmarkResponse
// @Failure 400 {object} model.ErrorResponse
// @Router /messages/{id}/bookmarks [post]
func (h *MessageHandler) AddBookmark(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	bookmark, err := h.chatService.AddBookmark(id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, model.BookmarkResponse{Status: "ok", Bookmark: *bookmark})
}

// RemoveBookmark godoc
// @Summary Remove the caller's bookmark from a message
// @Tags Bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} model.BookmarkResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /messages/{id}/bookmarks [delete]
func (h *MessageHandler) RemoveBookmark(c *gin.Context) {
	id, ok := messageID(c)
	if !ok {
		return
	}

	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	removed, err := h.chatService.RemoveBookmark(id, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.BookmarkResponse{Status: "ok", Bookmark: *removed})
}

// ListBookmarks godoc
// @Summary List the caller's bookmarks across all conversations
// @Tags Bookmarks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.BookmarkListItem
// @Router /bookmarks [get]
func (h *MessageHandler) ListBookmarks(c *gin.Context) {
	userID, ok := chatUserID(c, h.userService)
	if !ok {
		return
	}

	bookmarks, err := h.chatService.ListBookmarks(userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, bookmarks)
}
