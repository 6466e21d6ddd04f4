package billing

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v84"
	"github.com/stripe/stripe-go/v84/webhook"
)

type Billing struct {
	sc            *stripe.Client
	webhookSecret string
}

func NewBilling(secretKey, webhookSecret string) *Billing {
	sc := stripe.NewClient(secretKey)
	return &Billing{
		sc:            sc,
		webhookSecret: webhookSecret,
	}
}

func (b *Billing) CreateCustomer(ctx context.Context, userID, email string) (*stripe.Customer, error) {
	params := &stripe.CustomerCreateParams{
		Email:    stripe.String(email),
		Metadata: map[string]string{"user_id": userID},
	}
	return b.sc.V1Customers.Create(ctx, params)
}

func (b *Billing) VerifyWebhookSignature(payload []byte, signature string) (*stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signature, b.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}
	return &event, nil
}
