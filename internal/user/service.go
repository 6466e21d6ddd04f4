package user

import (
	"context"

	"github.com/dimasprs/obrolan/internal/models"
	"github.com/stripe/stripe-go/v84"
)

// CustomerCreator is the billing surface the service needs to provision a
// Stripe customer for a first-time user.
type CustomerCreator interface {
	CreateCustomer(ctx context.Context, userID, email string) (*stripe.Customer, error)
}

// Service resolves callers to persisted users. It is the layer the auth
// middleware talks to.
type Service interface {
	GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
}

type UserService struct {
	repo    Repository
	billing CustomerCreator
}

func NewUserService(repo Repository, billing CustomerCreator) *UserService {
	return &UserService{
		repo:    repo,
		billing: billing,
	}
}

// GetOrCreate resolves the user and lazily provisions their Stripe customer,
// so subscription webhooks can always map a customer back to a user.
func (s *UserService) GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, error) {
	u, err := s.repo.GetOrCreate(ctx, userID, email, name)
	if err != nil {
		return nil, err
	}

	if s.billing != nil && u.StripeCustomerID == nil {
		customer, err := s.billing.CreateCustomer(ctx, userID, email)
		if err != nil {
			return nil, err
		}
		if err := s.repo.UpdateStripeCustomerID(ctx, userID, customer.ID); err != nil {
			return nil, err
		}
		u.StripeCustomerID = &customer.ID
	}

	return u, nil
}

func (s *UserService) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	return s.repo.GetByAPIKey(ctx, apiKey)
}
