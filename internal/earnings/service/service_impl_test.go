package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pulsefit/pulsefit/internal/config"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/earnings/repository"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubDirectory struct {
	accounts directorydomain.PayoutAccounts
	err      error
}

func (s *stubDirectory) Resolve(_ context.Context, userID string) (directorydomain.PayoutAccounts, error) {
	if s.err != nil {
		return directorydomain.PayoutAccounts{}, s.err
	}
	accounts := s.accounts
	accounts.UserID = userID
	return accounts, nil
}

type stubProcessor struct {
	balance   processordomain.Balance
	intents   []processordomain.PaymentIntent
	charges   []processordomain.Charge
	transfers []processordomain.Transfer
	payouts   []processordomain.Payout

	balanceErr error
	intentsErr error
}

func (s *stubProcessor) GetBalance(context.Context, string) (processordomain.Balance, error) {
	if s.balanceErr != nil {
		return processordomain.Balance{}, s.balanceErr
	}
	return s.balance, nil
}

func (s *stubProcessor) ListPayouts(context.Context, string, int) ([]processordomain.Payout, error) {
	return s.payouts, nil
}

func (s *stubProcessor) ListTransfers(context.Context, string, int) ([]processordomain.Transfer, error) {
	return s.transfers, nil
}

func (s *stubProcessor) ListCharges(context.Context, int) ([]processordomain.Charge, error) {
	return s.charges, nil
}

func (s *stubProcessor) ListPaymentIntents(context.Context, string, int) ([]processordomain.PaymentIntent, error) {
	if s.intentsErr != nil {
		return nil, s.intentsErr
	}
	return s.intents, nil
}

func (s *stubProcessor) CreatePayout(context.Context, string, int64, string) (processordomain.Payout, error) {
	return processordomain.Payout{}, processordomain.ErrRequestFailed
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.PaymentRecord{}, &domain.PrizeRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM payment_records")
		db.Exec("DELETE FROM prize_records")
	})
	return db
}

func bothReady() directorydomain.PayoutAccounts {
	return directorydomain.PayoutAccounts{
		Creator: directorydomain.AccountRef{AccountID: "acct_c", Onboarding: directorydomain.OnboardingComplete},
		Winner:  directorydomain.AccountRef{AccountID: "acct_w", Onboarding: directorydomain.OnboardingComplete},
	}
}

func newTestService(t *testing.T, db *gorm.DB, directory directorydomain.Service, processor processordomain.Client) domain.Service {
	t.Helper()
	return New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Cfg:       config.Config{DefaultCurrency: "usd", MinimumPayout: decimal.NewFromInt(10), SourceHistoryLimit: 100},
		Directory: directory,
		Processor: processor,
		Repo:      repository.Provide(),
	})
}

func TestSnapshotCombinesBothSides(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	db.Create(&domain.PaymentRecord{
		ID: 1, UserID: "user_1", IntentID: "pi_1",
		AmountCents: 2500, Currency: "usd",
		Status: domain.PaymentStatusCompleted, CreatedAt: now.Add(-time.Hour),
	})
	db.Create(&domain.PrizeRecord{
		ID: 2, UserID: "user_1",
		AmountCents: 5000, Currency: "usd",
		Status: domain.PrizeStatusPaid, AwardedAt: now,
	})
	db.Create(&domain.PrizeRecord{
		ID: 3, UserID: "user_1",
		AmountCents: 1500, Currency: "usd",
		Status: domain.PrizeStatusPending, AwardedAt: now.Add(-2 * time.Hour),
	})

	processor := &stubProcessor{
		balance: processordomain.Balance{
			Available: []processordomain.BalanceAmount{{Amount: 700, Currency: "usd"}},
			Pending:   []processordomain.BalanceAmount{{Amount: 300, Currency: "usd"}},
		},
		transfers: []processordomain.Transfer{{ID: "tr_1", Amount: 2500, Currency: "usd"}},
		payouts:   []processordomain.Payout{{ID: "po_1", Amount: 2500, Currency: "usd", Status: processordomain.PayoutStatusPaid}},
	}

	svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, processor)

	snapshot, err := svc.Snapshot(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// creator: 25.00 transferred + 7.00 on balance; winner: 50.00 paid + 15.00 pending
	assert.True(t, snapshot.Creator.TotalEarned.Equal(decimal.RequireFromString("32")), "creator total %s", snapshot.Creator.TotalEarned)
	assert.True(t, snapshot.Winner.TotalEarned.Equal(decimal.RequireFromString("65")), "winner total %s", snapshot.Winner.TotalEarned)
	assert.True(t, snapshot.TotalEarned.Equal(decimal.RequireFromString("97")))
	assert.True(t, snapshot.Available.Equal(decimal.RequireFromString("57")))
	assert.True(t, snapshot.PendingPayout.Equal(decimal.RequireFromString("18")))
	assert.True(t, snapshot.CanRequestPayout)
	assert.False(t, snapshot.Degraded)

	// newest first across both sides
	if len(snapshot.Recent) != 3 {
		t.Fatalf("expected 3 recent transactions, got %d", len(snapshot.Recent))
	}
	assert.Equal(t, domain.SideWinner, snapshot.Recent[0].Side)
	assert.Equal(t, "pi_1", snapshot.Recent[1].ID)
	assert.Equal(t, domain.TransactionPending, snapshot.Recent[2].Status)
}

func TestSnapshotProcessingPrizeCountsAsPending(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)

	db.Create(&domain.PrizeRecord{
		ID: 1, UserID: "user_1",
		AmountCents: 2000, Currency: "usd",
		Status: domain.PrizeStatusProcessing, AwardedAt: now,
	})
	db.Create(&domain.PrizeRecord{
		ID: 2, UserID: "user_1",
		AmountCents: 1000, Currency: "usd",
		Status: domain.PrizeStatusPending, AwardedAt: now.Add(-time.Hour),
	})

	svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, &stubProcessor{})

	snapshot, err := svc.Snapshot(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a prize in processing is committed but not yet withdrawable
	assert.True(t, snapshot.Winner.Pending.Equal(decimal.RequireFromString("30")), "got %s", snapshot.Winner.Pending)
	assert.True(t, snapshot.Winner.Available.IsZero())
	assert.True(t, snapshot.Winner.TotalEarned.Equal(decimal.RequireFromString("30")))
	if len(snapshot.Recent) != 2 {
		t.Fatalf("expected 2 recent transactions, got %d", len(snapshot.Recent))
	}
	assert.Equal(t, domain.TransactionPending, snapshot.Recent[0].Status)
	assert.Equal(t, domain.TransactionPending, snapshot.Recent[1].Status)
}

func TestSnapshotDegradedSourceDoesNotFail(t *testing.T) {
	db := openTestDB(t)
	processor := &stubProcessor{
		balanceErr: processordomain.ErrRequestFailed,
		intentsErr: processordomain.ErrRequestFailed,
	}

	svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, processor)

	snapshot, err := svc.Snapshot(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, snapshot.Degraded)
	assert.True(t, snapshot.Creator.Degraded)
	assert.False(t, snapshot.Winner.Degraded)
	assert.Contains(t, snapshot.DegradedSources, "processor_balance")
	assert.Contains(t, snapshot.DegradedSources, "processor_intents")
	assert.True(t, snapshot.Available.IsZero())
	assert.False(t, snapshot.CanRequestPayout)
}

func TestSnapshotUnreadyAccountsYieldZeroView(t *testing.T) {
	db := openTestDB(t)
	accounts := directorydomain.PayoutAccounts{
		Creator: directorydomain.AccountRef{AccountID: "acct_c", Onboarding: directorydomain.OnboardingPending},
		Winner:  directorydomain.AccountRef{Onboarding: directorydomain.OnboardingNotStarted},
	}
	svc := newTestService(t, db, &stubDirectory{accounts: accounts}, &stubProcessor{})

	snapshot, err := svc.Snapshot(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.True(t, snapshot.TotalEarned.IsZero())
	assert.True(t, snapshot.Available.IsZero())
	assert.Empty(t, snapshot.Recent)
	assert.False(t, snapshot.Degraded)
	assert.Equal(t, directorydomain.OnboardingPending, snapshot.Creator.Onboarding)
	assert.False(t, snapshot.CanRequestPayout)
}

func TestSnapshotRecentWindowCapped(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < domain.RecentWindow+5; i++ {
		db.Create(&domain.PrizeRecord{
			ID:          snowflake.ID(i + 1),
			UserID:      "user_1",
			AmountCents: 100,
			Currency:    "usd",
			Status:      domain.PrizeStatusPaid,
			AwardedAt:   now.Add(-time.Duration(i) * time.Minute),
		})
	}

	svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, &stubProcessor{})

	snapshot, err := svc.Snapshot(context.Background(), "user_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assert.Len(t, snapshot.Recent, domain.RecentWindow)
	// totals cover the full set, not the window
	assert.True(t, snapshot.Winner.Available.Equal(decimal.RequireFromString("15")), "got %s", snapshot.Winner.Available)
}

func TestSnapshotMinimumPayoutBoundary(t *testing.T) {
	db := openTestDB(t)

	cases := []struct {
		name      string
		available int64
		want      bool
	}{
		{"just below", 999, false},
		{"exactly at minimum", 1000, true},
		{"above", 1001, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			processor := &stubProcessor{
				balance: processordomain.Balance{
					Available: []processordomain.BalanceAmount{{Amount: tc.available, Currency: "usd"}},
				},
			}
			svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, processor)

			snapshot, err := svc.Snapshot(context.Background(), "user_1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assert.Equal(t, tc.want, snapshot.CanRequestPayout)
		})
	}
}

func TestSnapshotRejectsBlankUser(t *testing.T) {
	db := openTestDB(t)
	svc := newTestService(t, db, &stubDirectory{accounts: bothReady()}, &stubProcessor{})

	_, err := svc.Snapshot(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}
