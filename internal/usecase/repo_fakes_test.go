package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"barterin/internal/domain/entity"
	"barterin/internal/domain/repository"
	"barterin/pkg/errors"
)

// In-memory repositories for use case tests. They mirror the load-mutate-save
// semantics of the Firestore adapters: reads hand out copies, writes replace
// the stored copy.

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo() *fakeItemRepo {
	return &fakeItemRepo{items: make(map[string]*entity.Item)}
}

func cloneItem(item *entity.Item) *entity.Item {
	cp := *item
	cp.Images = append([]string(nil), item.Images...)
	cp.UnlikedUsers = append([]string(nil), item.UnlikedUsers...)
	cp.LikedUsers = make(map[string]string, len(item.LikedUsers))
	for k, v := range item.LikedUsers {
		cp.LikedUsers[k] = v
	}
	cp.MatchedUsers = make(map[string]string, len(item.MatchedUsers))
	for k, v := range item.MatchedUsers {
		cp.MatchedUsers[k] = v
	}
	return &cp
}

func (r *fakeItemRepo) Create(ctx context.Context, item *entity.Item) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *fakeItemRepo) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Item", nil)
	}
	return cloneItem(item), nil
}

func (r *fakeItemRepo) Update(ctx context.Context, item *entity.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return errors.NotFound("Item", nil)
	}
	item.UpdatedAt = time.Now()
	r.items[item.ID] = cloneItem(item)
	return nil
}

func (r *fakeItemRepo) Delete(ctx context.Context, id string) error {
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) List(ctx context.Context, params repository.ItemListParams) ([]*entity.Item, int64, error) {
	var matched []*entity.Item
	for _, item := range r.items {
		if len(params.Categories) > 0 {
			found := false
			for _, c := range params.Categories {
				if item.Category == c {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if !fakeItemMatches(item, params) {
			continue
		}
		matched = append(matched, cloneItem(item))
	}

	sortItems(matched, params.Sort)

	total := int64(len(matched))
	start := params.Offset
	end := params.Offset + params.Limit
	if params.Limit <= 0 {
		end = len(matched)
	}
	if start >= len(matched) {
		return []*entity.Item{}, total, nil
	}
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func fakeItemMatches(item *entity.Item, params repository.ItemListParams) bool {
	if params.ViewerID != "" {
		if item.OwnerID == params.ViewerID ||
			item.LikedBy(params.ViewerID) ||
			item.UnlikedBy(params.ViewerID) ||
			item.MatchedWith(params.ViewerID) {
			return false
		}
	}
	for _, c := range params.ExcludeCategories {
		if item.Category == c {
			return false
		}
	}
	if params.NameQuery != "" && !strings.Contains(strings.ToLower(item.Name), strings.ToLower(params.NameQuery)) {
		return false
	}
	if params.MinPrice > 0 && item.Price < params.MinPrice {
		return false
	}
	if params.MaxPrice > 0 && item.Price > params.MaxPrice {
		return false
	}
	if params.MaxConditionRank >= 0 && item.ConditionRank > params.MaxConditionRank {
		return false
	}
	if len(params.Statuses) > 0 {
		ok := false
		for _, s := range params.Statuses {
			if item.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

func sortItems(items []*entity.Item, sortStr string) {
	switch sortStr {
	case "price_asc":
		sort.Slice(items, func(i, j int) bool { return items[i].Price < items[j].Price })
	case "price_desc":
		sort.Slice(items, func(i, j int) bool { return items[i].Price > items[j].Price })
	case "createdAt_asc":
		sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	default:
		sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	}
}

func (r *fakeItemRepo) ListByOwnerID(ctx context.Context, ownerID string, limit, offset int) ([]*entity.Item, int64, error) {
	var items []*entity.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			items = append(items, cloneItem(item))
		}
	}
	sortItems(items, "createdAt_desc")
	return items, int64(len(items)), nil
}

func (r *fakeItemRepo) IncrementViews(ctx context.Context, id string) error {
	if item, ok := r.items[id]; ok {
		item.Views++
	}
	return nil
}

type fakeChatRepo struct {
	chats     map[string]*entity.Chat
	createErr error
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{chats: make(map[string]*entity.Chat)}
}

func cloneChat(chat *entity.Chat) *entity.Chat {
	cp := *chat
	cp.ParticipantIDs = append([]string(nil), chat.ParticipantIDs...)
	cp.Users = append([]entity.ChatUser(nil), chat.Users...)
	cp.RelationItems = make(map[string]string, len(chat.RelationItems))
	for k, v := range chat.RelationItems {
		cp.RelationItems[k] = v
	}
	cp.Messages = make([]entity.Message, len(chat.Messages))
	for i, m := range chat.Messages {
		cp.Messages[i] = m
		cp.Messages[i].SeenUserIDs = append([]string(nil), m.SeenUserIDs...)
	}
	return &cp
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if r.createErr != nil {
		return r.createErr
	}
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	r.chats[chat.ID] = cloneChat(chat)
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chatroom", nil)
	}
	return cloneChat(chat), nil
}

func (r *fakeChatRepo) GetByRelationItems(ctx context.Context, relationItems map[string]string) (*entity.Chat, error) {
	for _, chat := range r.chats {
		if len(chat.RelationItems) != len(relationItems) {
			continue
		}
		equal := true
		for k, v := range relationItems {
			if chat.RelationItems[k] != v {
				equal = false
				break
			}
		}
		if equal {
			return cloneChat(chat), nil
		}
	}
	return nil, errors.NotFound("Chatroom", nil)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			chats = append(chats, cloneChat(chat))
		}
	}
	return chats, int64(len(chats)), nil
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	if _, ok := r.chats[chat.ID]; !ok {
		return errors.NotFound("Chatroom", nil)
	}
	chat.UpdatedAt = time.Now()
	r.chats[chat.ID] = cloneChat(chat)
	return nil
}

func (r *fakeChatRepo) Delete(ctx context.Context, id string) error {
	delete(r.chats, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *user
	return &cp, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	delete(r.users, id)
	return nil
}
