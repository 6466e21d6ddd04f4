package billing

import "github.com/dimasprs/obrolan/internal/models"

// SubscriptionTier defines a subscription plan tier.
type SubscriptionTier struct {
	ID                models.Tier
	DisplayName       string
	MonthlyPriceCents int64
	// DailyQuotaUnits is the rolling daily generation allowance. One unit
	// is roughly four characters of prompt or reply text.
	DailyQuotaUnits int64
	StripePriceID   string
}

// Tiers holds all available subscription tiers keyed by tier ID.
var Tiers = map[models.Tier]*SubscriptionTier{
	models.TierFree: {
		ID:              models.TierFree,
		DisplayName:     "Free",
		DailyQuotaUnits: 50_000,
	},
	models.TierPro: {
		ID:                models.TierPro,
		DisplayName:       "Pro",
		MonthlyPriceCents: 900,
		DailyQuotaUnits:   1_000_000,
	},
}

// DailyQuota returns the daily ceiling for a tier, falling back to the
// free allowance for unknown values.
func DailyQuota(tier models.Tier) int64 {
	if t, ok := Tiers[tier]; ok {
		return t.DailyQuotaUnits
	}
	return Tiers[models.TierFree].DailyQuotaUnits
}
