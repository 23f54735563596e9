package service

import (
	"fmt"

	"github.com/google/uuid"

	"parley/internal/model"
	"parley/internal/repository"
	"parley/pkg/apperr"
	"parley/pkg/logger"
)

const maxMessageLimit = 100

// ChatService enforces every chat-domain invariant and authorization rule
// before delegating to the repository. It raises typed errors
// (pkg/apperr); the handlers translate them to status codes.
type ChatService struct {
	repo repository.Chat
	log  *logger.Logger
}

func NewChatService(repo repository.Chat, log *logger.Logger) *ChatService {
	return &ChatService{repo: repo, log: log}
}

// CreateConversation validates the group-name and participant-list rules and
// delegates verbatim.
func (s *ChatService) CreateConversation(req model.CreateConversationRequest) (*model.Conversation, error) {
	if req.Type == model.ConversationTypeGroup && (req.Name == nil || *req.Name == "") {
		return nil, apperr.Invalid("Group conversations require a name")
	}
	if len(req.ParticipantIDs) == 0 {
		return nil, apperr.Invalid("At least one participant is required")
	}

	conv, err := s.repo.CreateConversation(req.Type, req.Name, req.ParticipantIDs)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return conv, nil
}

func (s *ChatService) ListConversationsForUser(userID uuid.UUID) ([]model.Conversation, error) {
	if userID == uuid.Nil {
		return nil, apperr.Invalid("userId is required")
	}

	conversations, err := s.repo.ListConversationsForUser(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return conversations, nil
}

func (s *ChatService) GetConversation(conversationID uuid.UUID) (*model.Conversation, error) {
	conv, err := s.repo.GetConversation(conversationID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if conv == nil {
		return nil, apperr.NotFound("Conversation not found")
	}
	return conv, nil
}

// AddParticipant upserts the membership and synthesizes the join system
// message. The system message is best-effort: the membership change has
// already committed, so a failure there is logged, not rolled back.
func (s *ChatService) AddParticipant(conversationID uuid.UUID, req model.AddParticipantRequest) (*model.Participant, error) {
	if _, err := s.GetConversation(conversationID); err != nil {
		return nil, err
	}

	role := model.ParticipantRoleMember
	if req.Role != nil {
		role = *req.Role
	}

	participant, err := s.repo.AddParticipant(conversationID, req.UserID, role)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	text := fmt.Sprintf("%s joined", req.UserID)
	if _, err := s.createSystemMessage(conversationID, model.SystemEventJoin, &text); err != nil {
		s.log.Errorf("failed to create join system message for conversation %s: %v", conversationID, err)
	}

	return participant, nil
}

// MarkParticipantLeft soft-leaves the conversation and synthesizes the leave
// system message.
func (s *ChatService) MarkParticipantLeft(conversationID, userID uuid.UUID) (*model.Participant, error) {
	if _, err := s.GetConversation(conversationID); err != nil {
		return nil, err
	}

	participant, err := s.repo.MarkParticipantLeft(conversationID, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if participant == nil {
		return nil, apperr.NotFound("Participant not found")
	}

	if _, err := s.createSystemMessage(conversationID, model.SystemEventLeave, nil); err != nil {
		s.log.Errorf("failed to create leave system message for conversation %s: %v", conversationID, err)
	}

	return participant, nil
}

// ListMessages requires active membership and returns a newest-first page.
func (s *ChatService) ListMessages(conversationID, userID uuid.UUID, query repository.MessageQuery) ([]model.Message, error) {
	if err := s.ensureActiveParticipant(conversationID, userID); err != nil {
		return nil, err
	}

	if query.Limit <= 0 || query.Limit > maxMessageLimit {
		query.Limit = 0 // repository applies the default
	}

	messages, err := s.repo.ListMessages(conversationID, query)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return messages, nil
}

// SendMessage appends a text message from an active participant. Replies
// must reference a message in the same conversation.
func (s *ChatService) SendMessage(conversationID, senderUserID uuid.UUID, req model.SendMessageRequest) (*model.Message, error) {
	if senderUserID == uuid.Nil {
		return nil, apperr.Invalid("senderUserId is required for messages")
	}

	if err := s.ensureActiveParticipant(conversationID, senderUserID); err != nil {
		return nil, err
	}

	if req.ReplyToMessageID != nil {
		referenced, err := s.repo.FindMessageByID(*req.ReplyToMessageID)
		if err != nil {
			return nil, apperr.Internal(err)
		}
		if referenced == nil || referenced.ConversationID != conversationID {
			return nil, apperr.Invalid("Referenced message must belong to the same conversation")
		}
	}

	msg, err := s.repo.CreateMessage(conversationID, repository.CreateMessageParams{
		SenderUserID:     &senderUserID,
		Type:             model.MessageTypeText,
		Text:             req.Text,
		ReplyToMessageID: req.ReplyToMessageID,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return msg, nil
}

// DeleteMessage is allowed for the sender, or for a conversation admin.
func (s *ChatService) DeleteMessage(messageID, requestUserID uuid.UUID) error {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return err
	}

	if msg.SenderUserID == nil || *msg.SenderUserID != requestUserID {
		participant, err := s.repo.FindParticipant(msg.ConversationID, requestUserID)
		if err != nil {
			return apperr.Internal(err)
		}
		if participant == nil || participant.Role != model.ParticipantRoleAdmin {
			return apperr.Forbidden("You are not authorized to delete this message")
		}
	}

	if err := s.repo.DeleteMessage(messageID, requestUserID); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// AddReaction requires the message to exist, not be deleted, and the caller
// to be an active participant in its conversation. Duplicate reactions are
// idempotent.
func (s *ChatService) AddReaction(messageID, userID uuid.UUID, emoji string) (*model.Reaction, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted() {
		return nil, apperr.Invalid("Cannot react to a deleted message")
	}

	if err := s.ensureActiveParticipant(msg.ConversationID, userID); err != nil {
		return nil, err
	}

	reaction, err := s.repo.AddReaction(messageID, userID, emoji)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reaction, nil
}

func (s *ChatService) RemoveReaction(messageID uuid.UUID, emoji string, userID uuid.UUID) (*model.Reaction, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureActiveParticipant(msg.ConversationID, userID); err != nil {
		return nil, err
	}

	removed, err := s.repo.RemoveReaction(messageID, emoji, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if removed == nil {
		return nil, apperr.NotFound("Reaction not found")
	}
	return removed, nil
}

func (s *ChatService) ListReactions(messageID uuid.UUID) ([]model.Reaction, error) {
	if _, err := s.findMessage(messageID); err != nil {
		return nil, err
	}

	reactions, err := s.repo.ListReactions(messageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return reactions, nil
}

// MarkConversationRead upserts the caller's read cursor. The referenced
// message must belong to the conversation being marked.
func (s *ChatService) MarkConversationRead(conversationID, userID, lastReadMessageID uuid.UUID) (*model.ConversationRead, error) {
	if err := s.ensureActiveParticipant(conversationID, userID); err != nil {
		return nil, err
	}

	msg, err := s.repo.FindMessageByID(lastReadMessageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if msg == nil || msg.ConversationID != conversationID {
		return nil, apperr.Invalid("lastReadMessageId must belong to the conversation")
	}

	read, err := s.repo.UpdateConversationRead(conversationID, userID, lastReadMessageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return read, nil
}

func (s *ChatService) CountUnread(conversationID, userID uuid.UUID) (int64, error) {
	if err := s.ensureActiveParticipant(conversationID, userID); err != nil {
		return 0, err
	}

	count, err := s.repo.CountUnread(conversationID, userID)
	if err != nil {
		return 0, apperr.Internal(err)
	}
	return count, nil
}

// AddBookmark is idempotent per (message, user).
func (s *ChatService) AddBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}
	if msg.IsDeleted() {
		return nil, apperr.Invalid("Cannot bookmark a deleted message")
	}

	if err := s.ensureActiveParticipant(msg.ConversationID, userID); err != nil {
		return nil, err
	}

	bookmark, err := s.repo.AddBookmark(messageID, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookmark, nil
}

func (s *ChatService) RemoveBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error) {
	msg, err := s.findMessage(messageID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureActiveParticipant(msg.ConversationID, userID); err != nil {
		return nil, err
	}

	removed, err := s.repo.RemoveBookmark(messageID, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if removed == nil {
		return nil, apperr.NotFound("Bookmark not found")
	}
	return removed, nil
}

// ListBookmarks is a personal cross-conversation view; no membership check.
func (s *ChatService) ListBookmarks(userID uuid.UUID) ([]model.BookmarkListItem, error) {
	if userID == uuid.Nil {
		return nil, apperr.Invalid("userId is required")
	}

	bookmarks, err := s.repo.ListBookmarks(userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return bookmarks, nil
}

// createSystemMessage is the internal creation path for join/leave events;
// it bypasses the sender requirement of the public SendMessage path.
func (s *ChatService) createSystemMessage(conversationID uuid.UUID, event model.SystemEvent, text *string) (*model.Message, error) {
	return s.repo.CreateMessage(conversationID, repository.CreateMessageParams{
		Type:        model.MessageTypeSystem,
		SystemEvent: &event,
		Text:        text,
	})
}

func (s *ChatService) findMessage(messageID uuid.UUID) (*model.Message, error) {
	msg, err := s.repo.FindMessageByID(messageID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if msg == nil {
		return nil, apperr.NotFound("Message not found")
	}
	return msg, nil
}

// ensureActiveParticipant is the single authorization primitive for every
// conversation-scoped operation.
func (s *ChatService) ensureActiveParticipant(conversationID, userID uuid.UUID) error {
	participant, err := s.repo.FindParticipant(conversationID, userID)
	if err != nil {
		return apperr.Internal(err)
	}
	if participant == nil || !participant.IsActive() {
		return apperr.Forbidden("User is not an active participant in this conversation")
	}
	return nil
}
