package reconcile

import (
	"testing"
	"time"

	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMergeInternalRecordBeatsIntent(t *testing.T) {
	now := time.Now().UTC()
	in := Inputs{
		Internal: []domain.PaymentRecord{{
			IntentID:    "pi_1",
			AmountCents: 2500,
			Currency:    "usd",
			Status:      domain.PaymentStatusCompleted,
			BuyerID:     "buyer_internal",
			CreatedAt:   now,
		}},
		Intents: []processordomain.PaymentIntent{{
			ID:             "pi_1",
			Amount:         2500,
			AmountReceived: 2500,
			Currency:       "usd",
			Status:         processordomain.StatusSucceeded,
			CustomerID:     "cus_processor",
			Created:        now,
		}},
	}

	out := Merge(domain.SideCreator, in)

	assert.Len(t, out.Transactions, 1)
	assert.Equal(t, "pi_1", out.Transactions[0].ID)
	// the internal store's fields survive, not the processor's
	assert.Equal(t, "buyer_internal", out.Transactions[0].PayerRef)
	assert.Empty(t, out.SyncGaps)
}

func TestMergeChargeLinkedToIntentIsSkipped(t *testing.T) {
	now := time.Now().UTC()
	in := Inputs{
		Intents: []processordomain.PaymentIntent{{
			ID:             "pi_1",
			AmountReceived: 2500,
			Currency:       "usd",
			Status:         processordomain.StatusSucceeded,
			LatestChargeID: "ch_1",
			Created:        now,
		}},
		Charges: []processordomain.Charge{{
			ID:              "ch_1",
			Amount:          2500,
			Currency:        "usd",
			Status:          processordomain.StatusSucceeded,
			Paid:            true,
			PaymentIntentID: "pi_1",
			Created:         now,
		}},
	}

	out := Merge(domain.SideCreator, in)

	assert.Len(t, out.Transactions, 1)
	assert.Equal(t, "pi_1", out.Transactions[0].ID)
	assert.Empty(t, out.SyncGaps)
}

func TestMergeUnlinkedChargeKeptAsSyncGap(t *testing.T) {
	// A charge and an intent describe the same $25 payment within the same
	// second but carry unrelated identifiers and no linking field. Neither
	// is dropped: visibility over silent loss.
	now := time.Now().UTC()
	in := Inputs{
		Intents: []processordomain.PaymentIntent{{
			ID:             "pi_1",
			AmountReceived: 2500,
			Currency:       "usd",
			Status:         processordomain.StatusSucceeded,
			Created:        now,
		}},
		Charges: []processordomain.Charge{{
			ID:       "ch_orphan",
			Amount:   2500,
			Currency: "usd",
			Status:   processordomain.StatusSucceeded,
			Paid:     true,
			Created:  now,
		}},
	}

	out := Merge(domain.SideCreator, in)

	assert.Len(t, out.Transactions, 2)
	assert.Len(t, out.SyncGaps, 1)
	assert.Equal(t, "ch_orphan", out.SyncGaps[0].ChargeID)
}

func TestMergeIdempotent(t *testing.T) {
	now := time.Now().UTC()
	in := Inputs{
		Internal: []domain.PaymentRecord{
			{IntentID: "pi_1", AmountCents: 1000, Currency: "usd", Status: domain.PaymentStatusCompleted, CreatedAt: now},
			{IntentID: "pi_2", AmountCents: 2000, Currency: "usd", Status: domain.PaymentStatusPending, CreatedAt: now.Add(-time.Hour)},
		},
		Intents: []processordomain.PaymentIntent{
			{ID: "pi_2", AmountReceived: 2000, Currency: "usd", Status: processordomain.StatusSucceeded, Created: now.Add(-time.Hour)},
			{ID: "pi_3", AmountReceived: 3000, Currency: "usd", Status: processordomain.StatusSucceeded, Created: now.Add(-2 * time.Hour)},
		},
		Charges: []processordomain.Charge{
			{ID: "ch_3", PaymentIntentID: "pi_3", Amount: 3000, Currency: "usd", Status: processordomain.StatusSucceeded, Paid: true, Created: now.Add(-2 * time.Hour)},
		},
	}

	first := Merge(domain.SideCreator, in)
	second := Merge(domain.SideCreator, in)

	assert.Equal(t, first, second)
	assert.Len(t, first.Transactions, 3)

	total := decimal.Zero
	for _, tx := range first.Transactions {
		total = total.Add(tx.Amount)
	}
	assert.True(t, total.Equal(decimal.New(6000, -2)), "got %s", total)
}

func TestMergeSkipsUnsettledProcessorRecords(t *testing.T) {
	now := time.Now().UTC()
	in := Inputs{
		Intents: []processordomain.PaymentIntent{
			{ID: "pi_open", Amount: 1000, Currency: "usd", Status: "requires_payment_method", Created: now},
		},
		Charges: []processordomain.Charge{
			{ID: "ch_unpaid", Amount: 1000, Currency: "usd", Status: "pending", Paid: false, Created: now},
		},
	}

	out := Merge(domain.SideCreator, in)
	assert.Empty(t, out.Transactions)
	assert.Empty(t, out.SyncGaps)
}

func TestMergeOrdersNewestFirst(t *testing.T) {
	now := time.Now().UTC()
	in := Inputs{
		Internal: []domain.PaymentRecord{
			{IntentID: "pi_old", AmountCents: 100, Currency: "usd", Status: domain.PaymentStatusCompleted, CreatedAt: now.Add(-2 * time.Hour)},
		},
		Intents: []processordomain.PaymentIntent{
			{ID: "pi_new", AmountReceived: 200, Currency: "usd", Status: processordomain.StatusSucceeded, Created: now},
		},
	}

	out := Merge(domain.SideCreator, in)

	assert.Len(t, out.Transactions, 2)
	assert.Equal(t, "pi_new", out.Transactions[0].ID)
	assert.Equal(t, "pi_old", out.Transactions[1].ID)
}

func TestTotalsTransfersAndBalanceAreAdditive(t *testing.T) {
	balance := processordomain.Balance{
		Available: []processordomain.BalanceAmount{{Amount: 700, Currency: "usd"}},
		Pending:   []processordomain.BalanceAmount{{Amount: 300, Currency: "usd"}},
	}
	transfers := []processordomain.Transfer{
		{ID: "tr_1", Amount: 5000, Currency: "usd"},
		{ID: "tr_2", Amount: 1000, Currency: "usd", Reversed: true},
		{ID: "tr_eur", Amount: 9999, Currency: "eur"},
	}
	payouts := []processordomain.Payout{
		{ID: "po_1", Amount: 4000, Currency: "usd", Status: processordomain.PayoutStatusPaid},
		{ID: "po_2", Amount: 1000, Currency: "usd", Status: processordomain.PayoutStatusPending},
	}

	totals := Totals("usd", balance, transfers, payouts)

	assert.True(t, totals.Available.Equal(decimal.New(700, -2)))
	assert.True(t, totals.Pending.Equal(decimal.New(300, -2)))
	// transfers already paid out plus funds still sitting on the balance
	assert.True(t, totals.TotalEarned.Equal(decimal.New(5700, -2)), "got %s", totals.TotalEarned)
	assert.True(t, totals.PaidOut.Equal(decimal.New(4000, -2)))
}
