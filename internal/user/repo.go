package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dimasprs/obrolan/internal/models"
	"github.com/uptrace/bun"
)

var ErrNotFound = errors.New("user not found")

type Repository interface {
	InitializeDatabase(ctx context.Context) error
	GetByID(ctx context.Context, userID string) (*models.User, error)
	GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.User, error)
	GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, error)
	SetAPIKey(ctx context.Context, userID, apiKey string) error
	SetTier(ctx context.Context, userID string, tier models.Tier) error
	UpdateStripeCustomerID(ctx context.Context, userID, stripeCustomerID string) error
	ResetQuota(ctx context.Context, userID, date string) error
	ReserveQuota(ctx context.Context, userID string, amount, ceiling int64) (bool, error)
}

type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) InitializeDatabase(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*models.UserDB)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.UserDB)(nil)).
		Index("idx_users_email").
		Column("email").
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return err
	}

	_, err = r.db.NewCreateIndex().
		Model((*models.UserDB)(nil)).
		Index("idx_users_api_key").
		Column("api_key").
		IfNotExists().
		Exec(ctx)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("id = ?", userID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("api_key = ?", apiKey).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) GetByStripeCustomerID(ctx context.Context, stripeCustomerID string) (*models.User, error) {
	userDB := new(models.UserDB)
	err := r.db.NewSelect().
		Model(userDB).
		Where("stripe_customer_id = ?", stripeCustomerID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return userDB.ToUser(), nil
}

func (r *UserRepository) GetOrCreate(ctx context.Context, userID, email, name string) (*models.User, error) {
	user, err := r.GetByID(ctx, userID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	newUser := &models.User{
		ID:    userID,
		Email: email,
		Name:  name,
		Tier:  models.TierFree,
	}

	userDB := models.UserFromDomain(newUser)
	userDB.CreatedAt = time.Now()
	userDB.UpdatedAt = time.Now()
	if _, err := r.db.NewInsert().Model(userDB).Exec(ctx); err != nil {
		return nil, err
	}

	return newUser, nil
}

func (r *UserRepository) SetAPIKey(ctx context.Context, userID, apiKey string) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("api_key = ?", apiKey).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *UserRepository) SetTier(ctx context.Context, userID string, tier models.Tier) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("tier = ?", tier).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *UserRepository) UpdateStripeCustomerID(ctx context.Context, userID, stripeCustomerID string) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("stripe_customer_id = ?", stripeCustomerID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Exec(ctx)
	return err
}

func (r *UserRepository) ResetQuota(ctx context.Context, userID, date string) error {
	_, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("quota_used_today = 0").
		Set("quota_reset_date = ?", date).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("quota_reset_date != ?", date).
		Exec(ctx)
	return err
}

// ReserveQuota adds amount to the user's counter only while the result stays
// below the ceiling. The conditional update keeps concurrent requests from
// the same user from over-reserving.
func (r *UserRepository) ReserveQuota(ctx context.Context, userID string, amount, ceiling int64) (bool, error) {
	res, err := r.db.NewUpdate().
		Model((*models.UserDB)(nil)).
		Set("quota_used_today = quota_used_today + ?", amount).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", userID).
		Where("quota_used_today + ? < ?", amount, ceiling).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
