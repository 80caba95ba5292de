package service

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/pulsefit/pulsefit/internal/config"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/earnings/reconcile"
	obsmetrics "github.com/pulsefit/pulsefit/internal/observability/metrics"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Directory directorydomain.Service
	Processor processordomain.Client
	Repo      domain.Repository
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	directory    directorydomain.Service
	processor    processordomain.Client
	repo         domain.Repository
	metrics      *obsmetrics.Metrics
	currency     string
	minPayout    decimal.Decimal
	historyLimit int
}

func New(p Params) domain.Service {
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("earnings.service"),
		directory:    p.Directory,
		processor:    p.Processor,
		repo:         p.Repo,
		metrics:      p.Metrics,
		currency:     p.Cfg.DefaultCurrency,
		minPayout:    p.Cfg.MinimumPayout,
		historyLimit: p.Cfg.SourceHistoryLimit,
	}
}

type sideResult struct {
	breakdown    domain.SideBreakdown
	transactions []domain.Transaction
	degraded     []string
}

// Snapshot resolves the user's accounts and reconciles both sides
// concurrently. A failure on one side never fails the other: each side
// independently falls back to a zero-valued new-account view so downstream
// repair flows can detect missing linkage instead of hitting a hard error.
func (s *Service) Snapshot(ctx context.Context, userID string) (*domain.Snapshot, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}

	accounts, err := s.directory.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}

	var (
		creator sideResult
		winner  sideResult
		wg      sync.WaitGroup
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		creator = s.creatorSide(ctx, userID, accounts.Creator)
	}()
	go func() {
		defer wg.Done()
		winner = s.winnerSide(ctx, userID, accounts.Winner)
	}()
	wg.Wait()

	recent := append(creator.transactions, winner.transactions...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > domain.RecentWindow {
		recent = recent[:domain.RecentWindow]
	}

	available := creator.breakdown.Available.Add(winner.breakdown.Available)
	degradedSources := append(creator.degraded, winner.degraded...)

	return &domain.Snapshot{
		UserID:           userID,
		TotalEarned:      creator.breakdown.TotalEarned.Add(winner.breakdown.TotalEarned),
		Available:        available,
		PendingPayout:    creator.breakdown.Pending.Add(winner.breakdown.Pending),
		Creator:          creator.breakdown,
		Winner:           winner.breakdown,
		Recent:           recent,
		MinimumPayout:    s.minPayout,
		CanRequestPayout: available.GreaterThanOrEqual(s.minPayout),
		Degraded:         len(degradedSources) > 0,
		DegradedSources:  degradedSources,
	}, nil
}

// creatorSide fans out the five evidence fetches, merges them, and computes
// totals. All fetches settle before merging; the slowest fetch, not the sum,
// bounds latency.
func (s *Service) creatorSide(ctx context.Context, userID string, ref directorydomain.AccountRef) sideResult {
	result := sideResult{breakdown: zeroBreakdown(domain.SideCreator, ref)}
	if !ref.Ready() {
		return result
	}

	var (
		balance   processordomain.Balance
		intents   []processordomain.PaymentIntent
		charges   []processordomain.Charge
		transfers []processordomain.Transfer
		payouts   []processordomain.Payout
		records   []domain.PaymentRecord

		balanceOK, intentsOK, chargesOK, transfersOK, payoutsOK, recordsOK bool
	)

	var wg sync.WaitGroup
	wg.Add(6)
	go func() { defer wg.Done(); balance, balanceOK = s.fetchBalance(ctx, ref.AccountID) }()
	go func() { defer wg.Done(); intents, intentsOK = s.fetchIntents(ctx, ref.AccountID) }()
	go func() { defer wg.Done(); charges, chargesOK = s.fetchCharges(ctx) }()
	go func() { defer wg.Done(); transfers, transfersOK = s.fetchTransfers(ctx, ref.AccountID) }()
	go func() { defer wg.Done(); payouts, payoutsOK = s.fetchPayouts(ctx, ref.AccountID) }()
	go func() { defer wg.Done(); records, recordsOK = s.fetchPaymentRecords(ctx, userID) }()
	wg.Wait()

	merged := reconcile.Merge(domain.SideCreator, reconcile.Inputs{
		Internal: records,
		Intents:  intents,
		Charges:  filterChargesForAccount(charges, ref.AccountID),
	})
	for _, gap := range merged.SyncGaps {
		s.log.Warn("processor charge has no internal record",
			zap.String("user_id", userID),
			zap.String("charge_id", gap.ChargeID),
			zap.String("intent_id", gap.IntentID),
			zap.String("amount", gap.Amount.String()),
		)
		s.metrics.RecordSyncGap()
	}

	totals := reconcile.Totals(s.currency, balance, transfers, payouts)
	result.breakdown.TotalEarned = totals.TotalEarned
	result.breakdown.Available = totals.Available
	result.breakdown.Pending = totals.Pending
	result.breakdown.PaidOut = totals.PaidOut
	result.transactions = merged.Transactions

	for source, ok := range map[string]bool{
		sourceBalance:        balanceOK,
		sourceIntents:        intentsOK,
		sourceCharges:        chargesOK,
		sourceTransfers:      transfersOK,
		sourcePayouts:        payoutsOK,
		sourcePaymentRecords: recordsOK,
	} {
		if !ok {
			result.degraded = append(result.degraded, source)
		}
	}
	sort.Strings(result.degraded)
	result.breakdown.Degraded = len(result.degraded) > 0

	s.metrics.RecordReconciliation(string(domain.SideCreator))
	return result
}

// winnerSide summarizes prize records. Winner balances derive from record
// status rather than a live external balance, because prize payouts are
// recorded at disbursement time.
func (s *Service) winnerSide(ctx context.Context, userID string, ref directorydomain.AccountRef) sideResult {
	result := sideResult{breakdown: zeroBreakdown(domain.SideWinner, ref)}
	if !ref.Ready() {
		return result
	}

	records, ok := s.fetchPrizeRecords(ctx, userID)
	if !ok {
		result.degraded = append(result.degraded, sourcePrizeRecords)
		result.breakdown.Degraded = true
		return result
	}

	available := decimal.Zero
	pending := decimal.Zero
	for _, record := range records {
		amount := domain.FromCents(record.AmountCents)
		status := domain.TransactionPending
		switch record.Status {
		case domain.PrizeStatusPaid:
			available = available.Add(amount)
			status = domain.TransactionCompleted
		case domain.PrizeStatusPending, domain.PrizeStatusProcessing:
			pending = pending.Add(amount)
		default:
			continue
		}
		result.transactions = append(result.transactions, domain.Transaction{
			ID:        record.ID.String(),
			Amount:    amount,
			Currency:  record.Currency,
			Status:    status,
			Side:      domain.SideWinner,
			CreatedAt: record.AwardedAt.UTC(),
		})
	}

	result.breakdown.Available = available
	result.breakdown.Pending = pending
	result.breakdown.TotalEarned = available.Add(pending)

	s.metrics.RecordReconciliation(string(domain.SideWinner))
	return result
}

func zeroBreakdown(side domain.Side, ref directorydomain.AccountRef) domain.SideBreakdown {
	return domain.SideBreakdown{
		Side:        side,
		AccountID:   ref.AccountID,
		Onboarding:  ref.Onboarding,
		TotalEarned: decimal.Zero,
		Available:   decimal.Zero,
		Pending:     decimal.Zero,
		PaidOut:     decimal.Zero,
	}
}

// filterChargesForAccount keeps charges routed to the creator's account.
// Charges without a destination are platform-level and kept; the merge's
// claim rules decide whether they duplicate an intent.
func filterChargesForAccount(charges []processordomain.Charge, accountID string) []processordomain.Charge {
	filtered := make([]processordomain.Charge, 0, len(charges))
	for _, charge := range charges {
		if charge.Destination != "" && charge.Destination != accountID {
			continue
		}
		filtered = append(filtered, charge)
	}
	return filtered
}
