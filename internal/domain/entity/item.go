package entity

import (
	"time"
)

// Item status codes
const (
	ItemStatusUnreserved = 0
	ItemStatusReserved   = 1
	ItemStatusCompleted  = 2
)

// Condition ranks run 0-4, lower is better
const (
	ConditionNew      = 0
	ConditionLikeNew  = 1
	ConditionGood     = 2
	ConditionFair     = 3
	ConditionWellUsed = 4
)

var itemCategories = map[string]bool{
	"electronics": true,
	"clothing":    true,
	"books":       true,
	"sports":      true,
	"beauty":      true,
	"toys":        true,
	"furniture":   true,
	"appliances":  true,
	"music":       true,
	"etc":         true,
}

// IsValidCategory reports whether category is a known item category.
func IsValidCategory(category string) bool {
	return itemCategories[category]
}

// Categories returns every known item category.
func Categories() []string {
	out := make([]string, 0, len(itemCategories))
	for c := range itemCategories {
		out = append(out, c)
	}
	return out
}

type Item struct {
	ID             string   `json:"id" firestore:"id"`
	OwnerID        string   `json:"owner_id" firestore:"ownerId"`
	Category       string   `json:"category" firestore:"category"`
	Name           string   `json:"name" firestore:"name"`
	Images         []string `json:"images" firestore:"images"`
	Description    string   `json:"description" firestore:"description"`
	Price          int64    `json:"price" firestore:"price"`
	ConditionRank  int      `json:"condition_rank" firestore:"conditionRank"`
	BarterLocation string   `json:"barter_location" firestore:"barterLocation"`
	Status         int      `json:"status" firestore:"status"`
	Views          int      `json:"views" firestore:"views"`

	// LikedUsers maps a requesting user's UUID to the UUID of the item that
	// user offers in exchange. A (requester, item) pair lives in at most one
	// of LikedUsers, UnlikedUsers, MatchedUsers at a time.
	LikedUsers map[string]string `json:"liked_users" firestore:"likedUsers"`

	// UnlikedUsers holds UUIDs of users who declined this item. Set semantics.
	UnlikedUsers []string `json:"unliked_users" firestore:"unlikedUsers"`

	// MatchedUsers maps a counterpart user's UUID to the counterpart's item
	// UUID, populated once a match is confirmed.
	MatchedUsers map[string]string `json:"matched_users" firestore:"matchedUsers"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// LikedBy reports whether userID currently likes this item.
func (i *Item) LikedBy(userID string) bool {
	_, ok := i.LikedUsers[userID]
	return ok
}

// UnlikedBy reports whether userID has declined this item.
func (i *Item) UnlikedBy(userID string) bool {
	for _, id := range i.UnlikedUsers {
		if id == userID {
			return true
		}
	}
	return false
}

// MatchedWith reports whether userID holds a confirmed match on this item.
func (i *Item) MatchedWith(userID string) bool {
	_, ok := i.MatchedUsers[userID]
	return ok
}

// RemoveUnlike deletes userID from the unliked set, no-op when absent.
func (i *Item) RemoveUnlike(userID string) {
	for idx, id := range i.UnlikedUsers {
		if id == userID {
			i.UnlikedUsers = append(i.UnlikedUsers[:idx], i.UnlikedUsers[idx+1:]...)
			return
		}
	}
}
