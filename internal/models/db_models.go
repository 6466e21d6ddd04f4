package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type UserDB struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID               string    `bun:"id,pk" json:"id"`
	Email            string    `bun:"email,notnull,unique" json:"email"`
	Name             string    `bun:"name" json:"name"`
	Tier             Tier      `bun:"tier,notnull,default:'free'" json:"tier"`
	APIKey           *string   `bun:"api_key,unique" json:"api_key,omitempty"`
	StripeCustomerID *string   `bun:"stripe_customer_id" json:"stripe_customer_id,omitempty"`
	QuotaUsedToday   int64     `bun:"quota_used_today,notnull,default:0" json:"quota_used_today"`
	QuotaResetDate   string    `bun:"quota_reset_date,notnull,default:''" json:"quota_reset_date"`
	CreatedAt        time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (u *UserDB) ToUser() *User {
	return &User{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Tier:             u.Tier,
		APIKey:           u.APIKey,
		StripeCustomerID: u.StripeCustomerID,
		QuotaUsedToday:   u.QuotaUsedToday,
		QuotaResetDate:   u.QuotaResetDate,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func UserFromDomain(u *User) *UserDB {
	return &UserDB{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Tier:             u.Tier,
		APIKey:           u.APIKey,
		StripeCustomerID: u.StripeCustomerID,
		QuotaUsedToday:   u.QuotaUsedToday,
		QuotaResetDate:   u.QuotaResetDate,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

// ConversationDB persists the whole message log as one jsonb column. Saves
// overwrite the full log, so a reader never sees a user turn without its
// paired model reply.
type ConversationDB struct {
	bun.BaseModel `bun:"table:conversations,alias:c"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"user_id"`
	User      *UserDB   `bun:"rel:belongs-to,join:user_id=id,on_delete:CASCADE"`
	Title     string    `bun:"title,notnull" json:"title"`
	Log       []Message `bun:"log,type:jsonb" json:"log"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

func (c *ConversationDB) ToConversation() *Conversation {
	return &Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Log:       c.Log,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ConversationFromDomain(c *Conversation) *ConversationDB {
	return &ConversationDB{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		Log:       c.Log,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

type FeedbackDB struct {
	bun.BaseModel `bun:"table:feedback,alias:f"`

	ID             uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	UserID         string    `bun:"user_id,notnull" json:"user_id"`
	ConversationID string    `bun:"conversation_id,notnull" json:"conversation_id"`
	Rating         Rating    `bun:"rating,notnull" json:"rating"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
