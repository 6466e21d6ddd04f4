package quota

import (
	"context"
	"errors"
	"time"

	"github.com/dimasprs/obrolan/internal/billing"
	"github.com/dimasprs/obrolan/internal/models"
)

// ErrQuotaExceeded signals a pre-call denial: the daily allowance would be
// reached or passed by the requested reservation.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// UserStore is the slice of the user repository the ledger mutates.
type UserStore interface {
	ResetQuota(ctx context.Context, userID, date string) error
	ReserveQuota(ctx context.Context, userID string, amount, ceiling int64) (bool, error)
}

type Ledger struct {
	users UserStore
	now   func() time.Time
}

type LedgerOption func(*Ledger)

func NewLedger(users UserStore, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		users: users,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// WithClock overrides the ledger's clock.
func WithClock(now func() time.Time) LedgerOption {
	return func(l *Ledger) {
		l.now = now
	}
}

func (l *Ledger) today() string {
	return l.now().UTC().Format("2006-01-02")
}

// rollover zeroes the counter when the stored reset date no longer matches
// the current day. It mutates the passed user so callers see the fresh
// window without a re-read.
func (l *Ledger) rollover(ctx context.Context, user *models.User) error {
	today := l.today()
	if user.QuotaResetDate == today {
		return nil
	}
	if err := l.users.ResetQuota(ctx, user.ID, today); err != nil {
		return err
	}
	user.QuotaUsedToday = 0
	user.QuotaResetDate = today
	return nil
}

// CheckAndReserve denies with ErrQuotaExceeded when used+estimated would
// reach the tier ceiling, otherwise pre-debits the estimate. The daily
// rollover happens here as a side effect, before any comparison.
func (l *Ledger) CheckAndReserve(ctx context.Context, user *models.User, estimated int64) error {
	if err := l.rollover(ctx, user); err != nil {
		return err
	}

	ceiling := billing.DailyQuota(user.Tier)
	if user.QuotaUsedToday+estimated >= ceiling {
		return ErrQuotaExceeded
	}

	ok, err := l.users.ReserveQuota(ctx, user.ID, estimated, ceiling)
	if err != nil {
		return err
	}
	if !ok {
		// A concurrent request from the same user claimed the remaining
		// units between our read and the conditional update.
		return ErrQuotaExceeded
	}

	user.QuotaUsedToday += estimated
	return nil
}

// Remaining reports the unused allowance in the current window.
func (l *Ledger) Remaining(ctx context.Context, user *models.User) (int64, error) {
	if err := l.rollover(ctx, user); err != nil {
		return 0, err
	}
	remaining := billing.DailyQuota(user.Tier) - user.QuotaUsedToday
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
