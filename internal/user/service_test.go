package user

import (
	"context"
	"errors"
	"testing"

	"github.com/dimasprs/obrolan/internal/models"
	"github.com/stripe/stripe-go/v84"
)

type stubRepo struct {
	user             *models.User
	storedCustomerID string
}

func (r *stubRepo) InitializeDatabase(_ context.Context) error { return nil }
func (r *stubRepo) GetByID(_ context.Context, _ string) (*models.User, error) {
	return nil, ErrNotFound
}
func (r *stubRepo) GetByAPIKey(_ context.Context, _ string) (*models.User, error) {
	return nil, ErrNotFound
}
func (r *stubRepo) GetByStripeCustomerID(_ context.Context, _ string) (*models.User, error) {
	return nil, ErrNotFound
}
func (r *stubRepo) GetOrCreate(_ context.Context, _, _, _ string) (*models.User, error) {
	return r.user, nil
}
func (r *stubRepo) SetAPIKey(_ context.Context, _, _ string) error          { return nil }
func (r *stubRepo) SetTier(_ context.Context, _ string, _ models.Tier) error { return nil }
func (r *stubRepo) UpdateStripeCustomerID(_ context.Context, _, customerID string) error {
	r.storedCustomerID = customerID
	return nil
}
func (r *stubRepo) ResetQuota(_ context.Context, _, _ string) error { return nil }
func (r *stubRepo) ReserveQuota(_ context.Context, _ string, _, _ int64) (bool, error) {
	return true, nil
}

type stubCustomers struct {
	created int
	err     error
}

func (c *stubCustomers) CreateCustomer(_ context.Context, _, _ string) (*stripe.Customer, error) {
	c.created++
	if c.err != nil {
		return nil, c.err
	}
	return &stripe.Customer{ID: "cus_test123"}, nil
}

func TestGetOrCreateProvisionsCustomer(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: "user-1", Email: "a@b.co", Tier: models.TierFree}}
	customers := &stubCustomers{}
	svc := NewUserService(repo, customers)

	u, err := svc.GetOrCreate(context.Background(), "user-1", "a@b.co", "Andi")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if customers.created != 1 {
		t.Errorf("CreateCustomer called %d times, want 1", customers.created)
	}
	if repo.storedCustomerID != "cus_test123" {
		t.Errorf("stored customer id = %q, want cus_test123", repo.storedCustomerID)
	}
	if u.StripeCustomerID == nil || *u.StripeCustomerID != "cus_test123" {
		t.Error("returned user must carry the freshly provisioned customer id")
	}
}

func TestGetOrCreateExistingCustomerSkipsBilling(t *testing.T) {
	existing := "cus_existing"
	repo := &stubRepo{user: &models.User{ID: "user-1", StripeCustomerID: &existing}}
	customers := &stubCustomers{}
	svc := NewUserService(repo, customers)

	u, err := svc.GetOrCreate(context.Background(), "user-1", "a@b.co", "Andi")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if customers.created != 0 {
		t.Error("a user with a customer must not be re-provisioned")
	}
	if *u.StripeCustomerID != existing {
		t.Errorf("customer id = %q, want %q", *u.StripeCustomerID, existing)
	}
}

func TestGetOrCreateWithoutBilling(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: "user-1", Tier: models.TierFree}}
	svc := NewUserService(repo, nil)

	u, err := svc.GetOrCreate(context.Background(), "user-1", "a@b.co", "Andi")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	if u.StripeCustomerID != nil {
		t.Error("no billing configured, customer id must stay unset")
	}
}

func TestGetOrCreateCustomerFailure(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: "user-1", Tier: models.TierFree}}
	customers := &stubCustomers{err: errors.New("stripe unavailable")}
	svc := NewUserService(repo, customers)

	if _, err := svc.GetOrCreate(context.Background(), "user-1", "a@b.co", "Andi"); err == nil {
		t.Fatal("provisioning failure must surface")
	}
	if repo.storedCustomerID != "" {
		t.Error("no customer id may be stored when provisioning failed")
	}
}
