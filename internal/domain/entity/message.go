package entity

import "time"

// Message is embedded in its chat document. Immutable once appended except
// for growth of SeenUserIDs. The sender is never recorded in their own
// message's seen set; only counterpart acknowledgements are.
type Message struct {
	ID          string    `json:"id" firestore:"id"`
	SenderID    string    `json:"sender_id" firestore:"senderId"`
	Content     string    `json:"content" firestore:"content"`
	SeenUserIDs []string  `json:"seen_user_ids" firestore:"seenUserIds"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
}

// SeenBy reports whether userID has acknowledged this message.
func (m *Message) SeenBy(userID string) bool {
	for _, id := range m.SeenUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// MarkSeen records userID's acknowledgement, no-op when already present.
func (m *Message) MarkSeen(userID string) {
	if m.SeenBy(userID) {
		return
	}
	m.SeenUserIDs = append(m.SeenUserIDs, userID)
}
