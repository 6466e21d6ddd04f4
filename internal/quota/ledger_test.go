package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dimasprs/obrolan/internal/billing"
	"github.com/dimasprs/obrolan/internal/models"
)

// fakeUserStore mirrors the repository's conditional-update semantics in
// memory.
type fakeUserStore struct {
	used       map[string]int64
	resetDates map[string]string
	resetCalls int
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		used:       make(map[string]int64),
		resetDates: make(map[string]string),
	}
}

func (f *fakeUserStore) ResetQuota(ctx context.Context, userID, date string) error {
	f.used[userID] = 0
	f.resetDates[userID] = date
	f.resetCalls++
	return nil
}

func (f *fakeUserStore) ReserveQuota(ctx context.Context, userID string, amount, ceiling int64) (bool, error) {
	if f.used[userID]+amount >= ceiling {
		return false, nil
	}
	f.used[userID] += amount
	return true, nil
}

func freshUser(date string) *models.User {
	return &models.User{
		ID:             "user-1",
		Tier:           models.TierFree,
		QuotaResetDate: date,
	}
}

func fixedClock(day string) func() time.Time {
	ts, _ := time.Parse("2006-01-02", day)
	return func() time.Time { return ts }
}

func TestCheckAndReserveBoundary(t *testing.T) {
	ceiling := billing.DailyQuota(models.TierFree)
	store := newFakeUserStore()
	ledger := NewLedger(store, WithClock(fixedClock("2025-03-01")))

	u := freshUser("2025-03-01")

	// Two reservations summing to exactly the ceiling: the first is below
	// the line, the second reaches it and must be denied.
	half := ceiling / 2
	if err := ledger.CheckAndReserve(context.Background(), u, half); err != nil {
		t.Fatalf("first reservation failed: %v", err)
	}
	if err := ledger.CheckAndReserve(context.Background(), u, half); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("reservation reaching the ceiling should deny, got %v", err)
	}
	if store.used[u.ID] != half {
		t.Errorf("denied reservation must not mutate the counter: used = %d, want %d", store.used[u.ID], half)
	}
}

func TestCheckAndReserveExactCeilingDenies(t *testing.T) {
	ceiling := billing.DailyQuota(models.TierFree)
	store := newFakeUserStore()
	ledger := NewLedger(store, WithClock(fixedClock("2025-03-01")))

	u := freshUser("2025-03-01")

	// used + cost == ceiling denies; one unit under is allowed.
	if err := ledger.CheckAndReserve(context.Background(), u, ceiling); !errors.Is(err, ErrQuotaExceeded) {
		t.Errorf("cost equal to ceiling should deny, got %v", err)
	}
	if err := ledger.CheckAndReserve(context.Background(), u, ceiling-1); err != nil {
		t.Errorf("cost one unit under ceiling should allow, got %v", err)
	}
}

func TestDailyRollover(t *testing.T) {
	store := newFakeUserStore()
	ledger := NewLedger(store, WithClock(fixedClock("2025-03-02")))

	u := freshUser("2025-03-01")
	u.QuotaUsedToday = billing.DailyQuota(models.TierFree) // exhausted yesterday
	store.used[u.ID] = u.QuotaUsedToday
	store.resetDates[u.ID] = "2025-03-01"

	if err := ledger.CheckAndReserve(context.Background(), u, 10); err != nil {
		t.Fatalf("new day should start with a zeroed counter: %v", err)
	}
	if u.QuotaResetDate != "2025-03-02" {
		t.Errorf("reset date not advanced: %s", u.QuotaResetDate)
	}
	if store.used[u.ID] != 10 {
		t.Errorf("used = %d, want 10", store.used[u.ID])
	}

	// Further calls on the same day must not reset again.
	for i := 0; i < 3; i++ {
		if err := ledger.CheckAndReserve(context.Background(), u, 10); err != nil {
			t.Fatalf("reservation %d failed: %v", i, err)
		}
	}
	if store.resetCalls != 1 {
		t.Errorf("reset ran %d times, want exactly once per day boundary", store.resetCalls)
	}
}

func TestRemaining(t *testing.T) {
	ceiling := billing.DailyQuota(models.TierFree)
	store := newFakeUserStore()
	ledger := NewLedger(store, WithClock(fixedClock("2025-03-01")))

	u := freshUser("2025-03-01")
	u.QuotaUsedToday = 100
	store.used[u.ID] = 100
	store.resetDates[u.ID] = "2025-03-01"

	remaining, err := ledger.Remaining(context.Background(), u)
	if err != nil {
		t.Fatalf("Remaining failed: %v", err)
	}
	if remaining != ceiling-100 {
		t.Errorf("remaining = %d, want %d", remaining, ceiling-100)
	}
}

func TestRemainingAfterStaleDate(t *testing.T) {
	ceiling := billing.DailyQuota(models.TierFree)
	store := newFakeUserStore()
	ledger := NewLedger(store, WithClock(fixedClock("2025-03-05")))

	u := freshUser("2025-03-01")
	u.QuotaUsedToday = ceiling

	remaining, err := ledger.Remaining(context.Background(), u)
	if err != nil {
		t.Fatalf("Remaining failed: %v", err)
	}
	if remaining != ceiling {
		t.Errorf("stale counter must read as zero: remaining = %d, want %d", remaining, ceiling)
	}
}
