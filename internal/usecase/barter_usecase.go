package usecase

import (
	"context"
	"net/http"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/pkg/errors"
	"barterin/pkg/logger"
)

// BarterUseCase drives the like/unlike/match transitions of a
// (requester, target item) pair. All relationship state lives on the target
// item document; a requester's own item is never touched by like or unlike.
type BarterUseCase struct {
	itemRepo    repository.ItemRepository
	chatUseCase *ChatUseCase
}

func NewBarterUseCase(itemRepo repository.ItemRepository, chatUseCase *ChatUseCase) *BarterUseCase {
	return &BarterUseCase{
		itemRepo:    itemRepo,
		chatUseCase: chatUseCase,
	}
}

// MatchResult reports the chatroom produced by a confirmed match. The room
// may predate the match when the two users already opened a direct chat about
// the same item pair.
type MatchResult struct {
	ChatroomID         string `json:"chatroom_id"`
	ChatAlreadyExisted bool   `json:"chat_already_existed"`
}

// RequestLike records requester's interest in the target item, offering their
// own item in exchange. Re-liking is idempotent; liking overrides a previous
// unlike.
func (uc *BarterUseCase) RequestLike(ctx context.Context, requesterID, requesterItemID, targetItemID string) error {
	if requesterItemID == targetItemID {
		return errors.InvalidState("SELF_MATCH", "You cannot barter an item with itself")
	}

	myItem, err := uc.itemRepo.GetByID(ctx, requesterItemID)
	if err != nil {
		return err
	}
	if myItem.OwnerID != requesterID {
		return errors.Forbidden("You can only offer your own item", nil)
	}

	target, err := uc.itemRepo.GetByID(ctx, targetItemID)
	if err != nil {
		return err
	}
	if target.OwnerID == requesterID {
		return errors.InvalidState("SELF_MATCH", "You cannot like your own item")
	}

	if target.MatchedWith(requesterID) {
		return errors.InvalidState("ALREADY_MATCHED", "This item is already matched with you")
	}

	// Idempotent re-like
	if target.LikedBy(requesterID) {
		return nil
	}

	target.RemoveUnlike(requesterID)
	if target.LikedUsers == nil {
		target.LikedUsers = make(map[string]string)
	}
	target.LikedUsers[requesterID] = requesterItemID

	return uc.itemRepo.Update(ctx, target)
}

// RequestUnlike records requester's decline of the target item. A liked
// relationship cannot be overwritten by unlike; it must be withdrawn through
// its own path first.
func (uc *BarterUseCase) RequestUnlike(ctx context.Context, requesterID, targetItemID string) error {
	target, err := uc.itemRepo.GetByID(ctx, targetItemID)
	if err != nil {
		return err
	}

	if target.MatchedWith(requesterID) {
		return errors.InvalidState("ALREADY_MATCHED", "This item is already matched with you")
	}
	if target.LikedBy(requesterID) {
		return errors.InvalidState("ALREADY_LIKED", "You have already liked this item")
	}
	if target.UnlikedBy(requesterID) {
		return nil
	}

	target.UnlikedUsers = append(target.UnlikedUsers, requesterID)

	return uc.itemRepo.Update(ctx, target)
}

// RequestMatch confirms an incoming like on the owner's item and reserves
// both items. The owner's item must currently list the target item's owner as
// a liker; a match can only confirm existing interest, never manufacture it.
//
// The two item writes and the chatroom creation are a best-effort sequence,
// not a transaction. When chatroom creation fails after both items were
// saved, the items stay reserved and the caller receives CHAT_CREATION_FAILED
// so the partial state can be surfaced instead of silently discarded.
func (uc *BarterUseCase) RequestMatch(ctx context.Context, ownerID, myItemID, targetItemID string) (*MatchResult, error) {
	if myItemID == targetItemID {
		return nil, errors.InvalidState("SELF_MATCH", "You cannot match an item with itself")
	}

	myItem, err := uc.itemRepo.GetByID(ctx, myItemID)
	if err != nil {
		return nil, err
	}
	if myItem.OwnerID != ownerID {
		return nil, errors.Forbidden("You can only confirm matches on your own item", nil)
	}

	target, err := uc.itemRepo.GetByID(ctx, targetItemID)
	if err != nil {
		return nil, err
	}

	counterpartID := target.OwnerID
	if counterpartID == ownerID {
		return nil, errors.InvalidState("SELF_MATCH", "You cannot match with your own item")
	}

	if !myItem.LikedBy(counterpartID) {
		return nil, errors.InvalidState("NO_PENDING_LIKE", "The item's owner has not liked your item")
	}

	delete(myItem.LikedUsers, counterpartID)
	delete(target.LikedUsers, ownerID)

	if myItem.MatchedUsers == nil {
		myItem.MatchedUsers = make(map[string]string)
	}
	if target.MatchedUsers == nil {
		target.MatchedUsers = make(map[string]string)
	}
	myItem.MatchedUsers[counterpartID] = targetItemID
	target.MatchedUsers[ownerID] = myItemID

	myItem.Status = entity.ItemStatusReserved
	target.Status = entity.ItemStatusReserved

	if err := uc.itemRepo.Update(ctx, myItem); err != nil {
		return nil, err
	}
	if err := uc.itemRepo.Update(ctx, target); err != nil {
		logger.Error("Match %s/%s: first item saved but second save failed: %v", myItemID, targetItemID, err)
		return nil, err
	}

	chat, existed, err := uc.chatUseCase.CreateOrGetChatroom(ctx, ownerID, myItemID, counterpartID, targetItemID)
	if err != nil {
		logger.Error("Match %s/%s: items reserved but chatroom creation failed: %v", myItemID, targetItemID, err)
		return nil, errors.New("CHAT_CREATION_FAILED", "Items were matched but the chatroom could not be created", http.StatusInternalServerError, err)
	}

	return &MatchResult{
		ChatroomID:         chat.ID,
		ChatAlreadyExisted: existed,
	}, nil
}
