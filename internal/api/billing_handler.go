package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/dimasprs/obrolan/internal/billing"
	"github.com/dimasprs/obrolan/internal/logger"
	"github.com/dimasprs/obrolan/internal/models"
	"github.com/dimasprs/obrolan/internal/user"
)

// BillingHandler syncs subscription state from Stripe webhooks onto the
// user's tier. The payment flow itself lives entirely on the Stripe side.
type BillingHandler struct {
	billing *billing.Billing
	users   user.Repository
}

func NewBillingHandler(b *billing.Billing, users user.Repository) *BillingHandler {
	return &BillingHandler{
		billing: b,
		users:   users,
	}
}

func (h *BillingHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := h.billing.VerifyWebhookSignature(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var sub struct {
		Customer string `json:"customer"`
		Status   string `json:"status"`
	}

	switch event.Type {
	case "customer.subscription.created", "customer.subscription.updated":
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		tier := models.TierPro
		if sub.Status != "active" && sub.Status != "trialing" {
			tier = models.TierFree
		}
		h.setTierByCustomer(w, r, sub.Customer, tier)

	case "customer.subscription.deleted":
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.setTierByCustomer(w, r, sub.Customer, models.TierFree)

	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (h *BillingHandler) setTierByCustomer(w http.ResponseWriter, r *http.Request, customerID string, tier models.Tier) {
	u, err := h.users.GetByStripeCustomerID(r.Context(), customerID)
	if err != nil {
		logger.Log.Warn("webhook for unknown stripe customer", "customer_id", customerID)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.users.SetTier(r.Context(), u.ID, tier); err != nil {
		http.Error(w, internalServerError, http.StatusInternalServerError)
		return
	}

	logger.Log.Info("subscription tier synced", "user_id", u.ID, "tier", tier)
	w.WriteHeader(http.StatusOK)
}
