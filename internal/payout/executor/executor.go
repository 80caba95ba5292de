// Package executor issues one processor payout call per planned leg. Legs
// target independent external accounts, so they run concurrently with no
// ordering guarantee and no shared state beyond the immutable plan.
package executor

import (
	"context"

	"github.com/pulsefit/pulsefit/internal/clock"
	obsmetrics "github.com/pulsefit/pulsefit/internal/observability/metrics"
	"github.com/pulsefit/pulsefit/internal/payout/domain"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Processor processordomain.Client
	Metrics   *obsmetrics.Metrics `optional:"true"`
}

type Executor struct {
	log       *zap.Logger
	clock     clock.Clock
	processor processordomain.Client
	metrics   *obsmetrics.Metrics
}

func New(p Params) *Executor {
	return &Executor{
		log:       p.Log.Named("payout.executor"),
		clock:     p.Clock,
		processor: p.Processor,
		metrics:   p.Metrics,
	}
}

// Execute attempts every planned leg regardless of earlier leg outcomes and
// returns one result per leg. A succeeded leg is never rolled back when a
// later leg fails: the external payout is not reversible through this
// interface. Failed legs are reported, not retried, because retrying risks
// duplicate disbursement. Once a leg's call is issued it is in flight and
// uncancellable.
func (e *Executor) Execute(ctx context.Context, plan domain.Plan) []domain.LegResult {
	results := make([]domain.LegResult, len(plan.Legs))

	g, ctx := errgroup.WithContext(ctx)
	for i, leg := range plan.Legs {
		i, leg := i, leg
		g.Go(func() error {
			results[i] = e.executeLeg(ctx, plan.Currency, leg)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (e *Executor) executeLeg(ctx context.Context, currency string, leg domain.Leg) domain.LegResult {
	result := domain.LegResult{
		Side:      leg.Side,
		Amount:    leg.Amount,
		AccountID: leg.AccountID,
	}

	payout, err := e.processor.CreatePayout(ctx, leg.AccountID, MinorUnits(leg.Amount), currency)
	if err != nil {
		result.Error = err.Error()
		e.log.Error("payout leg failed",
			zap.String("side", string(leg.Side)),
			zap.String("account_id", leg.AccountID),
			zap.String("amount", leg.Amount.String()),
			zap.Error(err),
		)
		e.metrics.RecordPayoutLeg(string(leg.Side), false)
		return result
	}

	result.Success = true
	result.PayoutID = payout.ID
	result.ArrivalAt = payout.ArrivalDate
	if result.ArrivalAt.IsZero() {
		result.ArrivalAt = e.clock.Now().AddDate(0, 0, 2)
	}
	e.metrics.RecordPayoutLeg(string(leg.Side), true)
	return result
}

// MinorUnits converts a display amount to processor minor units, rounding
// to nearest with ties away from zero. Applied once per leg, never on the
// aggregate, so split legs cannot lose a cent between them.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}
