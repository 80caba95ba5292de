// Package reconcile merges payment evidence from the internal store and the
// processor's payment-intent and charge histories into one deduplicated
// transaction list. The internal store is the most trusted source; processor
// records only fill gaps the store missed.
package reconcile

import (
	"sort"
	"strings"

	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"github.com/shopspring/decimal"
)

// Inputs carries the three evidence sources, in descending trust order.
type Inputs struct {
	Internal []domain.PaymentRecord
	Intents  []processordomain.PaymentIntent
	Charges  []processordomain.Charge
}

// SyncGap is a processor-side event with no corresponding internal record,
// surfaced for investigation rather than silently merged or dropped.
type SyncGap struct {
	ChargeID string
	IntentID string
	Amount   decimal.Decimal
}

// Outcome is the merged, newest-first transaction list plus the sync gaps
// found along the way.
type Outcome struct {
	Transactions []domain.Transaction
	SyncGaps     []SyncGap
}

// Merge deduplicates the inputs by identifier. For a given identifier at
// most one transaction survives: internal records beat payment intents,
// which beat charges. A charge linked to an already-merged intent through
// the processor-assigned payment_intent field is the same event and is
// skipped; a charge with no such link is kept as its own event, favoring
// over-counting visibility over silent loss.
func Merge(side domain.Side, in Inputs) Outcome {
	claimed := make(map[string]struct{})
	claim := func(id string) {
		if id = strings.TrimSpace(id); id != "" {
			claimed[id] = struct{}{}
		}
	}
	isClaimed := func(id string) bool {
		_, ok := claimed[strings.TrimSpace(id)]
		return ok
	}

	var out Outcome

	for _, record := range in.Internal {
		if strings.TrimSpace(record.IntentID) == "" {
			continue
		}
		if isClaimed(record.IntentID) {
			continue
		}
		claim(record.IntentID)
		out.Transactions = append(out.Transactions, domain.Transaction{
			ID:        record.IntentID,
			Amount:    domain.FromCents(record.AmountCents),
			Currency:  record.Currency,
			Status:    paymentStatus(record.Status),
			Side:      side,
			PayerRef:  record.BuyerID,
			CreatedAt: record.CreatedAt.UTC(),
		})
	}

	for _, intent := range in.Intents {
		if intent.Status != processordomain.StatusSucceeded {
			continue
		}
		if isClaimed(intent.ID) {
			continue
		}
		claim(intent.ID)
		// The intent's latest charge describes the same payment; claiming it
		// keeps the charge walk below from double-counting the event.
		claim(intent.LatestChargeID)

		amount := intent.AmountReceived
		if amount <= 0 {
			amount = intent.Amount
		}
		out.Transactions = append(out.Transactions, domain.Transaction{
			ID:        intent.ID,
			Amount:    domain.FromCents(amount),
			Currency:  intent.Currency,
			Status:    domain.TransactionCompleted,
			Side:      side,
			PayerRef:  intent.CustomerID,
			CreatedAt: intent.Created.UTC(),
		})
	}

	for _, charge := range in.Charges {
		if !charge.Paid || charge.Status != processordomain.StatusSucceeded {
			continue
		}
		if isClaimed(charge.ID) {
			continue
		}
		if charge.PaymentIntentID != "" && isClaimed(charge.PaymentIntentID) {
			continue
		}
		claim(charge.ID)

		out.Transactions = append(out.Transactions, domain.Transaction{
			ID:        charge.ID,
			Amount:    domain.FromCents(charge.Amount),
			Currency:  charge.Currency,
			Status:    domain.TransactionCompleted,
			Side:      side,
			PayerRef:  charge.CustomerID,
			CreatedAt: charge.Created.UTC(),
		})
		out.SyncGaps = append(out.SyncGaps, SyncGap{
			ChargeID: charge.ID,
			IntentID: charge.PaymentIntentID,
			Amount:   domain.FromCents(charge.Amount),
		})
	}

	sort.SliceStable(out.Transactions, func(i, j int) bool {
		return out.Transactions[i].CreatedAt.After(out.Transactions[j].CreatedAt)
	})
	return out
}

// Totals computes creator-side aggregates. Total earned is the sum of
// completed inbound transfers plus the current available balance: the
// balance holds funds not yet transferred out, so the two are additive,
// not overlapping.
type TotalsResult struct {
	TotalEarned decimal.Decimal
	Available   decimal.Decimal
	Pending     decimal.Decimal
	PaidOut     decimal.Decimal
}

func Totals(
	currency string,
	balance processordomain.Balance,
	transfers []processordomain.Transfer,
	payouts []processordomain.Payout,
) TotalsResult {
	available := domain.FromCents(balance.AvailableFor(currency))
	pending := domain.FromCents(balance.PendingFor(currency))

	transferred := decimal.Zero
	for _, transfer := range transfers {
		if transfer.Reversed || transfer.Currency != currency {
			continue
		}
		transferred = transferred.Add(domain.FromCents(transfer.Amount))
	}

	paidOut := decimal.Zero
	for _, payout := range payouts {
		if payout.Currency != currency {
			continue
		}
		if payout.Status == processordomain.PayoutStatusPaid {
			paidOut = paidOut.Add(domain.FromCents(payout.Amount))
		}
	}

	return TotalsResult{
		TotalEarned: transferred.Add(available),
		Available:   available,
		Pending:     pending,
		PaidOut:     paidOut,
	}
}

func paymentStatus(status string) domain.TransactionStatus {
	switch status {
	case domain.PaymentStatusCompleted, "succeeded", "paid":
		return domain.TransactionCompleted
	case domain.PaymentStatusFailed:
		return domain.TransactionFailed
	default:
		return domain.TransactionPending
	}
}
