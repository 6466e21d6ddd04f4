package models

import "time"

type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	Tier             Tier      `json:"tier"`
	APIKey           *string   `json:"api_key,omitempty"`
	StripeCustomerID *string   `json:"stripe_customer_id,omitempty"`
	QuotaUsedToday   int64     `json:"quota_used_today"`
	QuotaResetDate   string    `json:"quota_reset_date"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
