package model

import "time"

// Friendship is a directed edge from UserID to FriendID.
type Friendship struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	FriendID  uint64    `json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Message is a direct message between two users.
type Message struct {
	ID         uint64    `json:"id"`
	SenderID   uint64    `json:"sender_id"`
	ReceiverID uint64    `json:"receiver_id"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
