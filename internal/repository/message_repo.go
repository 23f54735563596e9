package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"parley/internal/model"
)

const (
	defaultMessageLimit = 50
	// Caps the reaction payload per message in list responses.
	reactionLimitPerMessage = 100
)

// CreateMessage appends a message. New messages always start with an empty
// reaction list and status active.
func (r *ChatRepository) CreateMessage(conversationID uuid.UUID, params CreateMessageParams) (*model.Message, error) {
	msg := model.Message{
		ConversationID:   conversationID,
		SenderUserID:     params.SenderUserID,
		Type:             params.Type,
		Text:             params.Text,
		ReplyToMessageID: params.ReplyToMessageID,
		SystemEvent:      params.SystemEvent,
		Status:           model.MessageStatusActive,
	}
	if err := r.db.Create(&msg).Error; err != nil {
		return nil, err
	}
	msg.Reactions = []model.Reaction{}
	return &msg, nil
}

// ListMessages returns active messages newest first, optionally bounded to
// created_at < query.Before. Reactions for the whole page are fetched in one
// batched query; if that query fails the page is still returned with empty
// reaction lists.
func (r *ChatRepository) ListMessages(conversationID uuid.UUID, query MessageQuery) ([]model.Message, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}

	messages := []model.Message{}
	q := r.db.
		Where("conversation_id = ? AND status = ?", conversationID, model.MessageStatusActive).
		Order("created_at DESC").
		Limit(limit)
	if query.Before != nil {
		q = q.Where("created_at < ?", *query.Before)
	}
	if err := q.Find(&messages).Error; err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return messages, nil
	}

	messageIDs := make([]uuid.UUID, len(messages))
	for i := range messages {
		messages[i].Reactions = []model.Reaction{}
		messageIDs[i] = messages[i].ID
	}

	var reactions []model.Reaction
	if err := r.db.
		Where("message_id IN ?", messageIDs).
		Order("created_at DESC").
		Find(&reactions).Error; err != nil {
		// Degrade to messages without reactions instead of failing the page.
		r.log.Errorf("failed to fetch reactions for message page: %v", err)
		return messages, nil
	}

	grouped := make(map[uuid.UUID][]model.Reaction, len(messageIDs))
	for _, reaction := range reactions {
		if len(grouped[reaction.MessageID]) < reactionLimitPerMessage {
			grouped[reaction.MessageID] = append(grouped[reaction.MessageID], reaction)
		}
	}
	for i := range messages {
		if list, ok := grouped[messages[i].ID]; ok {
			messages[i].Reactions = list
		}
	}

	return messages, nil
}

// FindMessageByID resolves any message including soft-deleted ones, with its
// reactions attached. Returns nil when the id does not exist.
func (r *ChatRepository) FindMessageByID(id uuid.UUID) (*model.Message, error) {
	var msg model.Message
	err := r.db.Where("id = ?", id).First(&msg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	reactions := []model.Reaction{}
	if err := r.db.Where("message_id = ?", id).Find(&reactions).Error; err != nil {
		return nil, err
	}
	msg.Reactions = reactions
	return &msg, nil
}

// DeleteMessage soft-deletes: status flips to deleted and the row records
// who deleted it and when.
func (r *ChatRepository) DeleteMessage(id, byUserID uuid.UUID) error {
	return r.db.Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":             model.MessageStatusDeleted,
			"deleted_at":         time.Now(),
			"deleted_by_user_id": byUserID,
		}).Error
}

// AddReaction upserts the (message, user, emoji) triple. A duplicate is
// absorbed and the existing row is returned.
func (r *ChatRepository) AddReaction(messageID, userID uuid.UUID, emoji string) (*model.Reaction, error) {
	reaction := model.Reaction{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}, {Name: "emoji"}},
		DoNothing: true,
	}).Create(&reaction)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &reaction, nil
	}

	var existing model.Reaction
	err := r.db.
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// RemoveReaction deletes the triple and returns the removed row, or nil when
// no such reaction exists.
func (r *ChatRepository) RemoveReaction(messageID uuid.UUID, emoji string, userID uuid.UUID) (*model.Reaction, error) {
	var reaction model.Reaction
	err := r.db.
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		First(&reaction).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(&model.Reaction{}, "id = ?", reaction.ID).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *ChatRepository) ListReactions(messageID uuid.UUID) ([]model.Reaction, error) {
	reactions := []model.Reaction{}
	err := r.db.
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&reactions).Error
	return reactions, err
}

// UpdateConversationRead upserts the per-user read cursor.
func (r *ChatRepository) UpdateConversationRead(conversationID, userID, lastReadMessageID uuid.UUID) (*model.ConversationRead, error) {
	read := model.ConversationRead{
		ConversationID:    conversationID,
		UserID:            userID,
		LastReadMessageID: &lastReadMessageID,
		UpdatedAt:         time.Now(),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "conversation_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"last_read_message_id": lastReadMessageID,
			"updated_at":           time.Now(),
		}),
	}).Create(&read).Error
	if err != nil {
		return nil, err
	}

	var current model.ConversationRead
	err = r.db.
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&current).Error
	if err != nil {
		return nil, err
	}
	return &current, nil
}

// CountUnread counts active messages created strictly after the user's read
// cursor. Comparison is on creation timestamp: message ids are random UUIDs
// and carry no ordering. No cursor means every active message is unread.
func (r *ChatRepository) CountUnread(conversationID, userID uuid.UUID) (int64, error) {
	var read model.ConversationRead
	err := r.db.
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&read).Error
	hasCursor := err == nil && read.LastReadMessageID != nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, err
	}

	q := r.db.Model(&model.Message{}).
		Where("conversation_id = ? AND status = ?", conversationID, model.MessageStatusActive)

	if hasCursor {
		var lastRead model.Message
		err := r.db.Select("created_at").Where("id = ?", *read.LastReadMessageID).First(&lastRead).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, err
		}
		if err == nil {
			q = q.Where("created_at > ?", lastRead.CreatedAt)
		}
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddBookmark upserts the (message, user) pair, idempotently.
func (r *ChatRepository) AddBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error) {
	bookmark := model.Bookmark{
		MessageID: messageID,
		UserID:    userID,
	}
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(&bookmark)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &bookmark, nil
	}

	var existing model.Bookmark
	err := r.db.
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&existing).Error
	if err != nil {
		return nil, err
	}
	return &existing, nil
}

// RemoveBookmark deletes the pair and returns the removed row, or nil when
// the bookmark does not exist.
func (r *ChatRepository) RemoveBookmark(messageID, userID uuid.UUID) (*model.Bookmark, error) {
	var bookmark model.Bookmark
	err := r.db.
		Where("message_id = ? AND user_id = ?", messageID, userID).
		First(&bookmark).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := r.db.Delete(&model.Bookmark{}, "id = ?", bookmark.ID).Error; err != nil {
		return nil, err
	}
	return &bookmark, nil
}

// ListBookmarks is the personal cross-conversation view: bookmarks joined
// with their messages, newest bookmark first.
func (r *ChatRepository) ListBookmarks(userID uuid.UUID) ([]model.BookmarkListItem, error) {
	items := []model.BookmarkListItem{}
	err := r.db.
		Table("message_bookmarks").
		Select("message_bookmarks.message_id, messages.conversation_id, messages.text, message_bookmarks.created_at, messages.created_at AS message_created_at").
		Joins("JOIN messages ON messages.id = message_bookmarks.message_id").
		Where("message_bookmarks.user_id = ?", userID).
		Order("message_bookmarks.created_at DESC").
		Scan(&items).Error
	return items, err
}
