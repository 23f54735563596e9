package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parley/internal/model"
	"parley/pkg/logger"
)

// ChatRepository is the gorm adapter behind the Chat interface. It runs
// unchanged against postgres and sqlite.
type ChatRepository struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatRepository(db *gorm.DB, log *logger.Logger) *ChatRepository {
	return &ChatRepository{db: db, log: log}
}

var _ Chat = (*ChatRepository)(nil)

func participantOrder(db *gorm.DB) *gorm.DB {
	return db.Order("participants.joined_at ASC")
}

// CreateConversation inserts the conversation and one participant row per
// user id, atomically. Returned participants follow the input id order so
// callers get a deterministic ordering.
func (r *ChatRepository) CreateConversation(convType model.ConversationType, name *string, participantIDs []uuid.UUID) (*model.Conversation, error) {
	conv := &model.Conversation{
		Type: convType,
		Name: name,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		now := time.Now()
		for _, userID := range participantIDs {
			participant := model.Participant{
				ConversationID: conv.ID,
				UserID:         userID,
				Role:           model.ParticipantRoleMember,
				JoinedAt:       now,
			}
			if err := tx.Create(&participant).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var rows []model.Participant
	if err := r.db.
		Preload("User").
		Where("conversation_id = ?", conv.ID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	// Reorder to match the request's participant id order.
	byUser := make(map[uuid.UUID]model.Participant, len(rows))
	for _, row := range rows {
		byUser[row.UserID] = row
	}
	ordered := make([]model.Participant, 0, len(rows))
	for _, userID := range participantIDs {
		if row, ok := byUser[userID]; ok {
			ordered = append(ordered, row)
		}
	}
	conv.Participants = ordered

	return conv, nil
}

// GetConversation returns the conversation with its full participant list,
// or nil when it does not exist.
func (r *ChatRepository) GetConversation(id uuid.UUID) (*model.Conversation, error) {
	var conv model.Conversation
	err := r.db.
		Preload("Participants", participantOrder).
		Preload("Participants.User").
		Where("id = ?", id).
		First(&conv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListConversationsForUser returns every conversation the user has a
// participant row in (active or left), newest first.
func (r *ChatRepository) ListConversationsForUser(userID uuid.UUID) ([]model.Conversation, error) {
	conversations := []model.Conversation{}
	err := r.db.
		Joins("JOIN participants ON participants.conversation_id = conversations.id").
		Where("participants.user_id = ?", userID).
		Preload("Participants", participantOrder).
		Preload("Participants.User").
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// AddParticipant upserts a membership row. A previously-left user is
// reactivated (left_at cleared, role updated) instead of duplicated.
func (r *ChatRepository) AddParticipant(conversationID, userID uuid.UUID, role model.ParticipantRole) (*model.Participant, error) {
	participant := model.Participant{
		ConversationID: conversationID,
		UserID:         userID,
		Role:           role,
		JoinedAt:       time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"left_at": nil,
			"role":    role,
		}),
	}).Create(&participant).Error
	if err != nil {
		return nil, err
	}

	return r.FindParticipant(conversationID, userID)
}

// FindParticipant returns the membership row regardless of left state, or
// nil when the pair never joined.
func (r *ChatRepository) FindParticipant(conversationID, userID uuid.UUID) (*model.Participant, error) {
	var participant model.Participant
	err := r.db.
		Preload("User").
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&participant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// MarkParticipantLeft soft-leaves the conversation by stamping left_at.
// Returns nil when no membership row exists.
func (r *ChatRepository) MarkParticipantLeft(conversationID, userID uuid.UUID) (*model.Participant, error) {
	res := r.db.Model(&model.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		Update("left_at", time.Now())
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	return r.FindParticipant(conversationID, userID)
}
