package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"parley/internal/config"
	"parley/internal/model"
	"parley/pkg/logger"
)

// Repository tests run against the embedded backend. The adapter is the same
// code path the hosted backend uses; only the dialector differs.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DBConfig{Driver: "sqlite", SQLitePath: ":memory:"}, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func newTestRepo(t *testing.T) (*ChatRepository, *gorm.DB) {
	db := newTestDB(t)
	return NewChatRepository(db, logger.NewNop()), db
}

func seedUser(t *testing.T, db *gorm.DB, alias string) *model.User {
	t.Helper()
	user := &model.User{IDAlias: alias, DisplayName: alias}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedConversation(t *testing.T, repo *ChatRepository, userIDs ...uuid.UUID) *model.Conversation {
	t.Helper()
	name := "room"
	conv, err := repo.CreateConversation(model.ConversationTypeGroup, &name, userIDs)
	require.NoError(t, err)
	return conv
}

func mustSend(t *testing.T, repo *ChatRepository, convID uuid.UUID, sender *uuid.UUID, text string) *model.Message {
	t.Helper()
	msg, err := repo.CreateMessage(convID, CreateMessageParams{
		SenderUserID: sender,
		Type:         model.MessageTypeText,
		Text:         &text,
	})
	require.NoError(t, err)
	// Keep created_at strictly increasing across sends.
	time.Sleep(2 * time.Millisecond)
	return msg
}

func TestCreateConversation_ParticipantsFollowRequestOrder(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	carol := seedUser(t, db, "carol")

	conv := seedConversation(t, repo, carol.ID, alice.ID, bob.ID)
	require.Len(t, conv.Participants, 3)
	assert.Equal(t, carol.ID, conv.Participants[0].UserID)
	assert.Equal(t, alice.ID, conv.Participants[1].UserID)
	assert.Equal(t, bob.ID, conv.Participants[2].UserID)
	for _, p := range conv.Participants {
		assert.Equal(t, model.ParticipantRoleMember, p.Role)
		assert.Nil(t, p.LeftAt)
	}
}

func TestGetConversation_MissingIsNil(t *testing.T) {
	repo, _ := newTestRepo(t)

	conv, err := repo.GetConversation(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, conv)
}

func TestAddParticipant_UpsertConverges(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	conv := seedConversation(t, repo, alice.ID)

	first, err := repo.AddParticipant(conv.ID, bob.ID, model.ParticipantRoleMember)
	require.NoError(t, err)

	second, err := repo.AddParticipant(conv.ID, bob.ID, model.ParticipantRoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, model.ParticipantRoleAdmin, second.Role)

	var count int64
	require.NoError(t, db.Model(&model.Participant{}).
		Where("conversation_id = ? AND user_id = ?", conv.ID, bob.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestMarkParticipantLeft_AndRejoin(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)

	left, err := repo.MarkParticipantLeft(conv.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, left)
	assert.NotNil(t, left.LeftAt)

	missing, err := repo.MarkParticipantLeft(conv.ID, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)

	rejoined, err := repo.AddParticipant(conv.ID, alice.ID, model.ParticipantRoleMember)
	require.NoError(t, err)
	assert.Nil(t, rejoined.LeftAt)
	assert.Equal(t, left.ID, rejoined.ID)
}

func TestListMessages_OrderLimitBefore(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)

	var sent []*model.Message
	for i := 1; i <= 5; i++ {
		sent = append(sent, mustSend(t, repo, conv.ID, &alice.ID, fmt.Sprintf("msg %d", i)))
	}

	page, err := repo.ListMessages(conv.ID, MessageQuery{Limit: 3})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, sent[4].ID, page[0].ID)
	assert.Equal(t, sent[3].ID, page[1].ID)
	assert.Equal(t, sent[2].ID, page[2].ID)

	older, err := repo.ListMessages(conv.ID, MessageQuery{Before: &sent[2].CreatedAt})
	require.NoError(t, err)
	require.Len(t, older, 2)
	assert.Equal(t, sent[1].ID, older[0].ID)
	assert.Equal(t, sent[0].ID, older[1].ID)
}

func TestListMessages_ExcludesDeleted(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)

	keep := mustSend(t, repo, conv.ID, &alice.ID, "keep")
	gone := mustSend(t, repo, conv.ID, &alice.ID, "gone")
	require.NoError(t, repo.DeleteMessage(gone.ID, alice.ID))

	page, err := repo.ListMessages(conv.ID, MessageQuery{})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, keep.ID, page[0].ID)

	// Soft-deleted rows remain resolvable by id.
	found, err := repo.FindMessageByID(gone.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.IsDeleted())
	assert.Equal(t, alice.ID, *found.DeletedByUserID)
	assert.NotNil(t, found.DeletedAt)
}

func TestListMessages_AttachesReactions(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	conv := seedConversation(t, repo, alice.ID, bob.ID)

	plain := mustSend(t, repo, conv.ID, &alice.ID, "plain")
	reacted := mustSend(t, repo, conv.ID, &alice.ID, "reacted")

	_, err := repo.AddReaction(reacted.ID, alice.ID, "👍")
	require.NoError(t, err)
	_, err = repo.AddReaction(reacted.ID, bob.ID, "🎉")
	require.NoError(t, err)

	page, err := repo.ListMessages(conv.ID, MessageQuery{})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, reacted.ID, page[0].ID)
	assert.Len(t, page[0].Reactions, 2)
	assert.Equal(t, plain.ID, page[1].ID)
	assert.Empty(t, page[1].Reactions)
}

func TestAddReaction_UpsertConverges(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)
	msg := mustSend(t, repo, conv.ID, &alice.ID, "hello")

	first, err := repo.AddReaction(msg.ID, alice.ID, "👍")
	require.NoError(t, err)

	second, err := repo.AddReaction(msg.ID, alice.ID, "👍")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&model.Reaction{}).
		Where("message_id = ?", msg.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Different emoji from the same user is a distinct row.
	_, err = repo.AddReaction(msg.ID, alice.ID, "🎉")
	require.NoError(t, err)

	reactions, err := repo.ListReactions(msg.ID)
	require.NoError(t, err)
	assert.Len(t, reactions, 2)
}

func TestRemoveReaction_MissingIsNil(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)
	msg := mustSend(t, repo, conv.ID, &alice.ID, "hello")

	removed, err := repo.RemoveReaction(msg.ID, "👍", alice.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)

	added, err := repo.AddReaction(msg.ID, alice.ID, "👍")
	require.NoError(t, err)

	removed, err = repo.RemoveReaction(msg.ID, "👍", alice.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, added.ID, removed.ID)
}

func TestUpdateConversationRead_UpsertConverges(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)
	first := mustSend(t, repo, conv.ID, &alice.ID, "one")
	second := mustSend(t, repo, conv.ID, &alice.ID, "two")

	read1, err := repo.UpdateConversationRead(conv.ID, alice.ID, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, *read1.LastReadMessageID)

	read2, err := repo.UpdateConversationRead(conv.ID, alice.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, read1.ID, read2.ID)
	assert.Equal(t, second.ID, *read2.LastReadMessageID)

	var count int64
	require.NoError(t, db.Model(&model.ConversationRead{}).
		Where("conversation_id = ? AND user_id = ?", conv.ID, alice.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCountUnread_CursorAndDeletion(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	conv := seedConversation(t, repo, alice.ID, bob.ID)

	mustSend(t, repo, conv.ID, &alice.ID, "one")
	second := mustSend(t, repo, conv.ID, &alice.ID, "two")
	third := mustSend(t, repo, conv.ID, &alice.ID, "three")

	count, err := repo.CountUnread(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	_, err = repo.UpdateConversationRead(conv.ID, bob.ID, second.ID)
	require.NoError(t, err)

	count, err = repo.CountUnread(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Deleting the only unread message empties the count.
	require.NoError(t, repo.DeleteMessage(third.ID, alice.ID))
	count, err = repo.CountUnread(conv.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestBookmarks_UpsertListRemove(t *testing.T) {
	repo, db := newTestRepo(t)
	alice := seedUser(t, db, "alice")
	conv := seedConversation(t, repo, alice.ID)
	other := seedConversation(t, repo, alice.ID)

	m1 := mustSend(t, repo, conv.ID, &alice.ID, "first keeper")
	m2 := mustSend(t, repo, other.ID, &alice.ID, "second keeper")

	b1, err := repo.AddBookmark(m1.ID, alice.ID)
	require.NoError(t, err)

	again, err := repo.AddBookmark(m1.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, again.ID)

	time.Sleep(2 * time.Millisecond)
	_, err = repo.AddBookmark(m2.ID, alice.ID)
	require.NoError(t, err)

	items, err := repo.ListBookmarks(alice.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, m2.ID, items[0].MessageID)
	assert.Equal(t, other.ID, items[0].ConversationID)
	assert.Equal(t, "second keeper", *items[0].Text)
	assert.Equal(t, m1.ID, items[1].MessageID)

	removed, err := repo.RemoveBookmark(m1.ID, alice.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, b1.ID, removed.ID)

	missing, err := repo.RemoveBookmark(m1.ID, alice.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
