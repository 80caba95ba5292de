package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pulsefit/pulsefit/internal/clock"
	"github.com/pulsefit/pulsefit/internal/config"
	directorydomain "github.com/pulsefit/pulsefit/internal/directory/domain"
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/payout/domain"
	"github.com/pulsefit/pulsefit/internal/payout/executor"
	"github.com/pulsefit/pulsefit/internal/payout/planner"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Cfg       config.Config
	Clock     clock.Clock
	Directory directorydomain.Service
	Earnings  earningsdomain.Service
	Executor  *executor.Executor
	Repo      domain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	directory directorydomain.Service
	earnings  earningsdomain.Service
	executor  *executor.Executor
	repo      domain.Repository
	currency  string
	minPayout decimal.Decimal
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("payout.service"),
		clock:     p.Clock,
		directory: p.Directory,
		earnings:  p.Earnings,
		executor:  p.Executor,
		repo:      p.Repo,
		currency:  p.Cfg.DefaultCurrency,
		minPayout: p.Cfg.MinimumPayout,
	}
}

// Withdraw validates the request, plans the split against current balances,
// executes every leg, and logs the outcome. Failures before any external
// call propagate as hard errors; once execution starts the receipt carries
// the per-leg truth even when some legs failed.
func (s *Service) Withdraw(ctx context.Context, userID string, amount decimal.Decimal, currency string) (*domain.Receipt, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if amount.LessThan(s.minPayout) {
		return nil, domain.ErrBelowMinimum
	}
	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = s.currency
	}
	if currency != s.currency {
		return nil, domain.ErrUnsupportedCurrency
	}

	accounts, err := s.directory.Resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !accounts.Creator.Ready() && !accounts.Winner.Ready() {
		return nil, domain.ErrNoAccount
	}

	snapshot, err := s.earnings.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	balances := planner.Balances{
		CreatorAvailable: snapshot.Creator.Available,
		WinnerAvailable:  snapshot.Winner.Available,
	}
	if accounts.Creator.Ready() {
		balances.CreatorAccountID = accounts.Creator.AccountID
	}
	if accounts.Winner.Ready() {
		balances.WinnerAccountID = accounts.Winner.AccountID
	}

	plan, err := planner.Plan(amount, currency, balances)
	if err != nil {
		return nil, err
	}

	results := s.executor.Execute(ctx, plan)
	receipt := buildReceipt(plan, results)
	receipt.RecordID = s.persistRecord(ctx, userID, plan, results, receipt.Status)
	return receipt, nil
}

func (s *Service) History(ctx context.Context, userID string, limit int) ([]domain.Record, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.ErrInvalidUser
	}
	return s.repo.ListByUser(ctx, s.db, userID, limit)
}

// persistRecord writes the audit record best-effort. The payout already
// happened; a lost audit record is an acceptable degraded state, so
// persistence failures are logged and swallowed.
func (s *Service) persistRecord(ctx context.Context, userID string, plan domain.Plan, results []domain.LegResult, status domain.Status) string {
	legs, err := json.Marshal(results)
	if err != nil {
		s.log.Error("marshal payout legs", zap.String("user_id", userID), zap.Error(err))
		return ""
	}

	record := domain.Record{
		ID:             ulid.Make().String(),
		UserID:         userID,
		RequestedCents: executor.MinorUnits(plan.Requested),
		Currency:       plan.Currency,
		Status:         status,
		Legs:           datatypes.JSON(legs),
		CreatedAt:      s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		s.log.Error("persist payout record",
			zap.String("user_id", userID),
			zap.String("record_id", record.ID),
			zap.Error(err),
		)
		return ""
	}
	return record.ID
}

func buildReceipt(plan domain.Plan, results []domain.LegResult) *domain.Receipt {
	succeeded := 0
	var arrival time.Time
	for _, result := range results {
		if result.Success {
			succeeded++
			if result.ArrivalAt.After(arrival) {
				arrival = result.ArrivalAt
			}
		}
	}

	status := domain.StatusFailed
	switch {
	case succeeded == len(results) && len(results) > 0:
		status = domain.StatusCompleted
	case succeeded > 0:
		status = domain.StatusPartial
	}

	receipt := &domain.Receipt{
		Requested: plan.Requested,
		Currency:  plan.Currency,
		Status:    status,
		Legs:      results,
	}
	if !arrival.IsZero() {
		receipt.EstimatedArrival = &arrival
	}
	return receipt
}
