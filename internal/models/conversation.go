package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a conversation log. Parts holds the textual
// content; image bytes are never persisted, only the prompt that
// accompanied them.
type Message struct {
	Role  Role     `json:"role"`
	Parts []string `json:"parts"`
}

func (m Message) Text() string {
	if len(m.Parts) == 0 {
		return ""
	}
	return m.Parts[0]
}

type Conversation struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Log       []Message `json:"log"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ConversationSummary is the listing shape: identifier plus display title.
type ConversationSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
)

type Feedback struct {
	UserID         string    `json:"user_id"`
	ConversationID string    `json:"conversation_id"`
	Rating         Rating    `json:"rating"`
	CreatedAt      time.Time `json:"created_at"`
}
