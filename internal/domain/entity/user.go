package entity

import (
	"time"
)

type User struct {
	ID       string `json:"id" firestore:"id"`
	Nickname string `json:"nickname" firestore:"nickname"`
	Avatar   string `json:"avatar,omitempty" firestore:"avatar,omitempty"`
	Gender   string `json:"gender,omitempty" firestore:"gender,omitempty"`
	Location string `json:"location,omitempty" firestore:"location,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Snapshot captures the display fields stored on a chatroom at creation.
func (u *User) Snapshot() ChatUser {
	return ChatUser{
		ID:       u.ID,
		Nickname: u.Nickname,
		Avatar:   u.Avatar,
		Gender:   u.Gender,
	}
}
