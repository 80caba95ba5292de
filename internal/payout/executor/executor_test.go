package executor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pulsefit/pulsefit/internal/clock"
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/payout/domain"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeProcessor struct {
	mu      sync.Mutex
	calls   []createCall
	failFor map[string]error
	arrival time.Time
}

type createCall struct {
	accountID string
	amount    int64
	currency  string
}

func (f *fakeProcessor) CreatePayout(_ context.Context, accountID string, amount int64, currency string) (processordomain.Payout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, createCall{accountID: accountID, amount: amount, currency: currency})
	if err := f.failFor[accountID]; err != nil {
		return processordomain.Payout{}, err
	}
	return processordomain.Payout{
		ID:          "po_" + accountID,
		Amount:      amount,
		Currency:    currency,
		Status:      processordomain.PayoutStatusPending,
		ArrivalDate: f.arrival,
	}, nil
}

func (f *fakeProcessor) GetBalance(context.Context, string) (processordomain.Balance, error) {
	return processordomain.Balance{}, nil
}

func (f *fakeProcessor) ListPayouts(context.Context, string, int) ([]processordomain.Payout, error) {
	return nil, nil
}

func (f *fakeProcessor) ListTransfers(context.Context, string, int) ([]processordomain.Transfer, error) {
	return nil, nil
}

func (f *fakeProcessor) ListCharges(context.Context, int) ([]processordomain.Charge, error) {
	return nil, nil
}

func (f *fakeProcessor) ListPaymentIntents(context.Context, string, int) ([]processordomain.PaymentIntent, error) {
	return nil, nil
}

func newTestExecutor(processor processordomain.Client) *Executor {
	return New(Params{
		Log:       zap.NewNop(),
		Clock:     clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Processor: processor,
	})
}

func TestExecuteAllLegsSucceed(t *testing.T) {
	arrival := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	processor := &fakeProcessor{arrival: arrival}
	exec := newTestExecutor(processor)

	plan := domain.Plan{
		Requested: decimal.NewFromInt(10),
		Currency:  "usd",
		Legs: []domain.Leg{
			{Side: earningsdomain.SideCreator, Amount: decimal.NewFromInt(7), AccountID: "acct_c"},
			{Side: earningsdomain.SideWinner, Amount: decimal.NewFromInt(3), AccountID: "acct_w"},
		},
	}

	results := exec.Execute(context.Background(), plan)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	// results keep plan order even though legs run concurrently
	assert.Equal(t, earningsdomain.SideCreator, results[0].Side)
	assert.Equal(t, earningsdomain.SideWinner, results[1].Side)
	for _, r := range results {
		assert.True(t, r.Success)
		assert.NotEmpty(t, r.PayoutID)
		assert.Equal(t, arrival, r.ArrivalAt)
	}
	assert.Len(t, processor.calls, 2)
}

func TestExecutePartialFailureKeepsSucceededLeg(t *testing.T) {
	processor := &fakeProcessor{
		failFor: map[string]error{"acct_w": processordomain.ErrRequestFailed},
	}
	exec := newTestExecutor(processor)

	plan := domain.Plan{
		Requested: decimal.NewFromInt(10),
		Currency:  "usd",
		Legs: []domain.Leg{
			{Side: earningsdomain.SideCreator, Amount: decimal.NewFromInt(7), AccountID: "acct_c"},
			{Side: earningsdomain.SideWinner, Amount: decimal.NewFromInt(3), AccountID: "acct_w"},
		},
	}

	results := exec.Execute(context.Background(), plan)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	assert.True(t, results[0].Success)
	assert.Equal(t, "po_acct_c", results[0].PayoutID)
	assert.False(t, results[1].Success)
	assert.Equal(t, processordomain.ErrRequestFailed.Error(), results[1].Error)
	// both legs were attempted; the failure did not short-circuit
	assert.Len(t, processor.calls, 2)
}

func TestExecuteFallsBackToEstimatedArrival(t *testing.T) {
	processor := &fakeProcessor{} // zero ArrivalDate from the processor
	exec := newTestExecutor(processor)

	plan := domain.Plan{
		Requested: decimal.NewFromInt(10),
		Currency:  "usd",
		Legs: []domain.Leg{
			{Side: earningsdomain.SideCreator, Amount: decimal.NewFromInt(10), AccountID: "acct_c"},
		},
	}

	results := exec.Execute(context.Background(), plan)
	assert.Equal(t, time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC), results[0].ArrivalAt)
}

func TestExecuteConvertsAmountsPerLeg(t *testing.T) {
	processor := &fakeProcessor{}
	exec := newTestExecutor(processor)

	plan := domain.Plan{
		Requested: decimal.RequireFromString("10.01"),
		Currency:  "usd",
		Legs: []domain.Leg{
			{Side: earningsdomain.SideCreator, Amount: decimal.RequireFromString("5.99"), AccountID: "acct_c"},
			{Side: earningsdomain.SideWinner, Amount: decimal.RequireFromString("4.02"), AccountID: "acct_w"},
		},
	}

	exec.Execute(context.Background(), plan)

	got := map[string]int64{}
	for _, call := range processor.calls {
		got[call.accountID] = call.amount
	}
	assert.Equal(t, int64(599), got["acct_c"])
	assert.Equal(t, int64(402), got["acct_w"])
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"10", 1000},
		{"10.01", 1001},
		{"0.005", 1}, // ties round away from zero
		{"10.005", 1001},
		{"10.004", 1000},
	}
	for _, tc := range cases {
		got := MinorUnits(decimal.RequireFromString(tc.in))
		if got != tc.want {
			t.Errorf("MinorUnits(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
