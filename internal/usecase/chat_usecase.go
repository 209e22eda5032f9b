package usecase

import (
	"context"
	"encoding/json"
	"time"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/internal/infrastructure/ratelimit"
	ws "barterin/internal/infrastructure/websocket"
	"barterin/pkg/errors"
	"barterin/pkg/logger"

	"github.com/google/uuid"
)

// ChatUseCase owns chatroom formation and the message/read-tracking protocol.
// A chatroom is keyed by the pair of items that produced it: two creation
// requests for the same two-item pair resolve to the same room.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	itemRepo    repository.ItemRepository
	wsManager   *ws.Manager
	rateLimiter *ratelimit.RateLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	itemRepo repository.ItemRepository,
	wsManager *ws.Manager,
) *ChatUseCase {
	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		itemRepo:    itemRepo,
		wsManager:   wsManager,
		rateLimiter: rateLimiter,
	}
}

type CreateChatInput struct {
	MyItemID     string
	TargetUserID string
	TargetItemID string
}

type SendMessageInput struct {
	ChatroomID string
	Content    string
}

// CreateDirect opens a chatroom from an explicit user action, without a prior
// match. The caller must own the item they bring as their side of the
// conversation; the formation routine itself does not re-check ownership.
func (uc *ChatUseCase) CreateDirect(ctx context.Context, userID string, input CreateChatInput) (*entity.Chat, bool, error) {
	allowed, _ := uc.rateLimiter.Allow(userID, "create_chat")
	if !allowed {
		return nil, false, errors.TooManyRequests("Rate limit exceeded. Please wait before creating another chat")
	}

	myItem, err := uc.itemRepo.GetByID(ctx, input.MyItemID)
	if err != nil {
		return nil, false, err
	}
	if myItem.OwnerID != userID {
		return nil, false, errors.Forbidden("You can only open a chat with your own item", nil)
	}

	if _, err := uc.itemRepo.GetByID(ctx, input.TargetItemID); err != nil {
		return nil, false, err
	}

	return uc.CreateOrGetChatroom(ctx, userID, input.MyItemID, input.TargetUserID, input.TargetItemID)
}

// CreateOrGetChatroom creates a two-party chatroom tied to a specific pair of
// items, or returns the existing one for that pair. The boolean reports
// whether the room already existed.
func (uc *ChatUseCase) CreateOrGetChatroom(ctx context.Context, userA, itemA, userB, itemB string) (*entity.Chat, bool, error) {
	if userA == userB {
		return nil, false, errors.InvalidState("SELF_CHAT", "You cannot create a chat with yourself")
	}

	a, err := uc.userRepo.GetByID(ctx, userA)
	if err != nil {
		return nil, false, err
	}
	b, err := uc.userRepo.GetByID(ctx, userB)
	if err != nil {
		return nil, false, err
	}

	relation := map[string]string{
		userA: itemA,
		userB: itemB,
	}

	existing, err := uc.chatRepo.GetByRelationItems(ctx, relation)
	if err == nil && existing != nil {
		return existing, true, nil
	}
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return nil, false, err
	}

	chat := &entity.Chat{
		RelationItems:  relation,
		ParticipantIDs: []string{userA, userB},
		Users:          []entity.ChatUser{a.Snapshot(), b.Snapshot()},
		Messages:       []entity.Message{},
	}

	if err := uc.chatRepo.Create(ctx, chat); err != nil {
		return nil, false, err
	}

	return chat, false, nil
}

// SendMessage appends a message and, in the same save, records the sender's
// acknowledgement of every counterpart message in the room. Sending implies
// having read everything received so far.
func (uc *ChatUseCase) SendMessage(ctx context.Context, senderID string, input SendMessageInput) (*entity.Message, error) {
	allowed, _ := uc.rateLimiter.Allow(senderID, "send_message")
	if !allowed {
		return nil, errors.TooManyRequests("Rate limit exceeded. Please slow down")
	}

	if input.Content == "" {
		return nil, errors.BadRequest("Message content must not be empty", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatroomID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant of this chatroom", nil)
	}

	message := entity.Message{
		ID:          uuid.New().String(),
		SenderID:    senderID,
		Content:     input.Content,
		SeenUserIDs: []string{},
		CreatedAt:   time.Now(),
	}

	for i := range chat.Messages {
		if chat.Messages[i].SenderID != senderID {
			chat.Messages[i].MarkSeen(senderID)
		}
	}
	chat.Messages = append(chat.Messages, message)

	if err := uc.chatRepo.Update(ctx, chat); err != nil {
		return nil, err
	}

	uc.notifyCounterpart(chat, senderID, &message)

	return &message, nil
}

// GetUnseenMessages returns every message created after the requester's read
// watermark: the last message, in sequence order, whose seen set contains the
// requester. With no watermark the whole conversation is unseen. Viewing is
// itself an acknowledgement, so all counterpart messages are marked seen
// before returning.
func (uc *ChatUseCase) GetUnseenMessages(ctx context.Context, requesterID, chatroomID string) ([]entity.Message, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatroomID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(requesterID) {
		return nil, errors.Forbidden("You are not a participant of this chatroom", nil)
	}

	watermark := -1
	for i := range chat.Messages {
		if chat.Messages[i].SeenBy(requesterID) {
			watermark = i
		}
	}

	var unseen []entity.Message
	if watermark < 0 {
		unseen = append(unseen, chat.Messages...)
	} else {
		since := chat.Messages[watermark].CreatedAt
		for _, m := range chat.Messages {
			if m.CreatedAt.After(since) {
				unseen = append(unseen, m)
			}
		}
	}

	changed := false
	for i := range chat.Messages {
		if chat.Messages[i].SenderID != requesterID && !chat.Messages[i].SeenBy(requesterID) {
			chat.Messages[i].MarkSeen(requesterID)
			changed = true
		}
	}
	if changed {
		if err := uc.chatRepo.Update(ctx, chat); err != nil {
			return nil, err
		}
	}

	return unseen, nil
}

// DeleteChatroom removes a chatroom unconditionally. Either participant may
// delete; the counterpart is not notified.
func (uc *ChatUseCase) DeleteChatroom(ctx context.Context, requesterID, chatroomID string) error {
	chat, err := uc.chatRepo.GetByID(ctx, chatroomID)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(requesterID) {
		return errors.Forbidden("You are not a participant of this chatroom", nil)
	}

	return uc.chatRepo.Delete(ctx, chatroomID)
}

// ListChatrooms returns the chatrooms the user participates in.
func (uc *ChatUseCase) ListChatrooms(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	return uc.chatRepo.ListByUserID(ctx, userID, limit, offset)
}

type wsMessagePayload struct {
	Type       string          `json:"type"`
	ChatroomID string          `json:"chatroom_id"`
	Message    *entity.Message `json:"message"`
}

func (uc *ChatUseCase) notifyCounterpart(chat *entity.Chat, senderID string, message *entity.Message) {
	if uc.wsManager == nil {
		return
	}

	counterpart := chat.Counterpart(senderID)
	if counterpart == "" {
		return
	}

	payload, err := json.Marshal(wsMessagePayload{
		Type:       "new_message",
		ChatroomID: chat.ID,
		Message:    message,
	})
	if err != nil {
		logger.Warn("Failed to marshal websocket payload for chat %s: %v", chat.ID, err)
		return
	}

	uc.wsManager.SendToUser(counterpart, payload)
}
