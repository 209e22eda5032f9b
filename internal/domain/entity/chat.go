package entity

import "time"

// ChatUser is a display snapshot of a participant captured at chatroom
// creation time, not a live reference to the user document.
type ChatUser struct {
	ID       string `json:"id" firestore:"id"`
	Nickname string `json:"nickname" firestore:"nickname"`
	Avatar   string `json:"avatar" firestore:"avatar"`
	Gender   string `json:"gender" firestore:"gender"`
}

type Chat struct {
	ID string `json:"id" firestore:"id"`

	// RelationItems maps each participant's UUID to the item UUID that user
	// brought into the conversation. Exactly two entries; this mapping is the
	// idempotency key for chatroom creation.
	RelationItems map[string]string `json:"relation_items" firestore:"relationItems"`

	// ParticipantIDs duplicates the RelationItems keys for array-contains
	// queries; map keys are not queryable in Firestore.
	ParticipantIDs []string `json:"participant_ids" firestore:"participantIds"`

	Users []ChatUser `json:"users" firestore:"users"`

	// Messages is append-only, chronological by creation time.
	Messages []Message `json:"messages" firestore:"messages"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// HasParticipant reports whether userID is one of the two chat participants.
func (c *Chat) HasParticipant(userID string) bool {
	_, ok := c.RelationItems[userID]
	return ok
}

// Counterpart returns the other participant's UUID, or "" when userID is not
// a participant.
func (c *Chat) Counterpart(userID string) string {
	for id := range c.RelationItems {
		if id != userID {
			return id
		}
	}
	return ""
}
