package domain

import "time"

// Amounts on the processor wire are integer minor units (cents).

type BalanceAmount struct {
	Amount   int64
	Currency string
}

// Balance is the live state of one external account's funds.
type Balance struct {
	Available []BalanceAmount
	Pending   []BalanceAmount
}

// AvailableFor returns the available amount for a currency, zero when absent.
func (b Balance) AvailableFor(currency string) int64 {
	for _, a := range b.Available {
		if a.Currency == currency {
			return a.Amount
		}
	}
	return 0
}

// PendingFor returns the pending amount for a currency, zero when absent.
func (b Balance) PendingFor(currency string) int64 {
	for _, p := range b.Pending {
		if p.Currency == currency {
			return p.Amount
		}
	}
	return 0
}

// Payout is one disbursement out of an external account.
type Payout struct {
	ID          string
	Amount      int64
	Currency    string
	Status      string
	ArrivalDate time.Time
	Created     time.Time
}

const (
	PayoutStatusPaid      = "paid"
	PayoutStatusPending   = "pending"
	PayoutStatusInTransit = "in_transit"
	PayoutStatusFailed    = "failed"
)

// Transfer is a platform-to-account funds movement.
type Transfer struct {
	ID          string
	Amount      int64
	Currency    string
	Destination string
	Reversed    bool
	Created     time.Time
}

// Charge is a captured customer payment observed on the platform.
type Charge struct {
	ID              string
	Amount          int64
	Currency        string
	Status          string
	Paid            bool
	PaymentIntentID string
	Destination     string
	CustomerID      string
	Description     string
	Created         time.Time
}

// PaymentIntent is the processor's payment-intent record.
type PaymentIntent struct {
	ID             string
	Amount         int64
	AmountReceived int64
	Currency       string
	Status         string
	LatestChargeID string
	CustomerID     string
	Created        time.Time
}

const StatusSucceeded = "succeeded"
