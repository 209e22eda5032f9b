package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barterin/internal/domain/entity"
)

func newChatFixture(t *testing.T) *barterFixture {
	t.Helper()
	f := newBarterFixture()
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.seedItem(t, "item-a", "alice", "books")
	f.seedItem(t, "item-b", "bob", "toys")
	return f
}

func (f *barterFixture) seedChat(t *testing.T, messages []entity.Message) *entity.Chat {
	t.Helper()
	chat := &entity.Chat{
		RelationItems:  map[string]string{"alice": "item-a", "bob": "item-b"},
		ParticipantIDs: []string{"alice", "bob"},
		Users: []entity.ChatUser{
			{ID: "alice", Nickname: "user-alice"},
			{ID: "bob", Nickname: "user-bob"},
		},
		Messages: messages,
	}
	require.NoError(t, f.chatRepo.Create(context.Background(), chat))
	return chat
}

func TestCreateOrGetChatroomIdempotent(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	first, existed, err := f.chat.CreateOrGetChatroom(ctx, "alice", "item-a", "bob", "item-b")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, map[string]string{"alice": "item-a", "bob": "item-b"}, first.RelationItems)
	assert.Len(t, first.Users, 2)

	// Same pair, arguments swapped, resolves to the same room
	second, existed, err := f.chat.CreateOrGetChatroom(ctx, "bob", "item-b", "alice", "item-a")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, first.ID, second.ID)

	assert.Len(t, f.chatRepo.chats, 1)
}

func TestCreateOrGetChatroomDistinctPairs(t *testing.T) {
	f := newChatFixture(t)
	f.seedItem(t, "item-b2", "bob", "music")
	ctx := context.Background()

	first, _, err := f.chat.CreateOrGetChatroom(ctx, "alice", "item-a", "bob", "item-b")
	require.NoError(t, err)

	// A different item pair between the same users is a different room
	second, existed, err := f.chat.CreateOrGetChatroom(ctx, "alice", "item-a", "bob", "item-b2")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateOrGetChatroomSelf(t *testing.T) {
	f := newChatFixture(t)

	_, _, err := f.chat.CreateOrGetChatroom(context.Background(), "alice", "item-a", "alice", "item-a")
	assertCode(t, err, "SELF_CHAT")
}

func TestCreateDirectRequiresOwnItem(t *testing.T) {
	f := newChatFixture(t)

	_, _, err := f.chat.CreateDirect(context.Background(), "alice", CreateChatInput{
		MyItemID:     "item-b", // bob's item
		TargetUserID: "bob",
		TargetItemID: "item-a",
	})
	assertCode(t, err, "FORBIDDEN")
}

func TestCreateDirectRateLimited(t *testing.T) {
	f := newChatFixture(t)
	ctx := context.Background()

	input := CreateChatInput{MyItemID: "item-a", TargetUserID: "bob", TargetItemID: "item-b"}
	for i := 0; i < 5; i++ {
		_, _, err := f.chat.CreateDirect(ctx, "alice", input)
		require.NoError(t, err)
	}

	_, _, err := f.chat.CreateDirect(ctx, "alice", input)
	assertCode(t, err, "TOO_MANY_REQUESTS")
}

func TestSendMessage(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})
	ctx := context.Background()

	msg, err := f.chat.SendMessage(ctx, "alice", SendMessageInput{ChatroomID: chat.ID, Content: "hello"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "alice", msg.SenderID)
	assert.Empty(t, msg.SeenUserIDs)

	stored, err := f.chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 1)
	assert.Equal(t, "hello", stored.Messages[0].Content)
}

func TestSendMessageAcknowledgesCounterpart(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{
		{ID: "m1", SenderID: "bob", Content: "hi", SeenUserIDs: []string{}, CreatedAt: time.Now().Add(-time.Minute)},
	})
	ctx := context.Background()

	_, err := f.chat.SendMessage(ctx, "alice", SendMessageInput{ChatroomID: chat.ID, Content: "hey"})
	require.NoError(t, err)

	stored, err := f.chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	require.Len(t, stored.Messages, 2)
	// Replying marks everything received so far as seen
	assert.True(t, stored.Messages[0].SeenBy("alice"))
}

func TestSendMessageNotParticipant(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})

	_, err := f.chat.SendMessage(context.Background(), "carol", SendMessageInput{ChatroomID: chat.ID, Content: "hi"})
	assertCode(t, err, "FORBIDDEN")
}

func TestSendMessageEmptyContent(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})

	_, err := f.chat.SendMessage(context.Background(), "alice", SendMessageInput{ChatroomID: chat.ID, Content: ""})
	assertCode(t, err, "BAD_REQUEST")
}

func TestGetUnseenMessagesWatermark(t *testing.T) {
	f := newChatFixture(t)
	base := time.Now().Add(-time.Hour)
	chat := f.seedChat(t, []entity.Message{
		{ID: "m1", SenderID: "alice", Content: "one", SeenUserIDs: []string{"bob"}, CreatedAt: base},
		{ID: "m2", SenderID: "bob", Content: "two", SeenUserIDs: []string{"bob"}, CreatedAt: base.Add(time.Minute)},
		{ID: "m3", SenderID: "alice", Content: "three", SeenUserIDs: []string{}, CreatedAt: base.Add(2 * time.Minute)},
	})
	ctx := context.Background()

	unseen, err := f.chat.GetUnseenMessages(ctx, "bob", chat.ID)
	require.NoError(t, err)
	require.Len(t, unseen, 1)
	assert.Equal(t, "m3", unseen[0].ID)

	// Viewing acknowledged m3 for bob
	stored, err := f.chatRepo.GetByID(ctx, chat.ID)
	require.NoError(t, err)
	assert.True(t, stored.Messages[2].SeenBy("bob"))

	// A second view finds nothing new
	unseen, err = f.chat.GetUnseenMessages(ctx, "bob", chat.ID)
	require.NoError(t, err)
	assert.Empty(t, unseen)
}

func TestGetUnseenMessagesNoWatermark(t *testing.T) {
	f := newChatFixture(t)
	base := time.Now().Add(-time.Hour)
	chat := f.seedChat(t, []entity.Message{
		{ID: "m1", SenderID: "alice", Content: "one", SeenUserIDs: []string{}, CreatedAt: base},
		{ID: "m2", SenderID: "alice", Content: "two", SeenUserIDs: []string{}, CreatedAt: base.Add(time.Minute)},
	})

	// Without any seen message the whole conversation is unseen
	unseen, err := f.chat.GetUnseenMessages(context.Background(), "bob", chat.ID)
	require.NoError(t, err)
	assert.Len(t, unseen, 2)
}

func TestGetUnseenMessagesIncludeOwnAfterWatermark(t *testing.T) {
	f := newChatFixture(t)
	base := time.Now().Add(-time.Hour)
	chat := f.seedChat(t, []entity.Message{
		{ID: "m1", SenderID: "alice", Content: "one", SeenUserIDs: []string{"bob"}, CreatedAt: base},
		{ID: "m2", SenderID: "bob", Content: "two", SeenUserIDs: []string{}, CreatedAt: base.Add(time.Minute)},
		{ID: "m3", SenderID: "alice", Content: "three", SeenUserIDs: []string{}, CreatedAt: base.Add(2 * time.Minute)},
	})

	// Everything after the watermark is unseen regardless of sender, so bob's
	// own m2 is included.
	unseen, err := f.chat.GetUnseenMessages(context.Background(), "bob", chat.ID)
	require.NoError(t, err)
	require.Len(t, unseen, 2)
	assert.Equal(t, "m2", unseen[0].ID)
	assert.Equal(t, "m3", unseen[1].ID)
}

func TestGetUnseenMessagesNotParticipant(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})

	_, err := f.chat.GetUnseenMessages(context.Background(), "carol", chat.ID)
	assertCode(t, err, "FORBIDDEN")
}

func TestDeleteChatroom(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})
	ctx := context.Background()

	require.NoError(t, f.chat.DeleteChatroom(ctx, "bob", chat.ID))

	_, err := f.chatRepo.GetByID(ctx, chat.ID)
	assertCode(t, err, "NOT_FOUND")
}

func TestDeleteChatroomNotParticipant(t *testing.T) {
	f := newChatFixture(t)
	chat := f.seedChat(t, []entity.Message{})

	err := f.chat.DeleteChatroom(context.Background(), "carol", chat.ID)
	assertCode(t, err, "FORBIDDEN")

	_, err = f.chatRepo.GetByID(context.Background(), chat.ID)
	assert.NoError(t, err)
}

func TestListChatrooms(t *testing.T) {
	f := newChatFixture(t)
	f.seedChat(t, []entity.Message{})

	chats, total, err := f.chat.ListChatrooms(context.Background(), "alice", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, chats, 1)

	chats, total, err = f.chat.ListChatrooms(context.Background(), "carol", 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, chats)
}
