package domain

import (
	"time"

	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Leg is one transfer targeting a single external account within a larger
// split payout.
type Leg struct {
	Side      earningsdomain.Side `json:"side"`
	Amount    decimal.Decimal     `json:"amount"`
	AccountID string              `json:"account_id"`
}

// Plan is the split decision for one withdrawal. Terminal once constructed:
// a plan is never mutated, only executed. The legs always sum to the
// requested amount exactly.
type Plan struct {
	Requested decimal.Decimal `json:"requested"`
	Currency  string          `json:"currency"`
	Legs      []Leg           `json:"legs"`
}

// LegResult is the outcome of one executed leg. A failed leg never erases a
// succeeded one; the result list, not a single boolean, is the source of
// truth for what actually moved.
type LegResult struct {
	Side      earningsdomain.Side `json:"side"`
	Amount    decimal.Decimal     `json:"amount"`
	AccountID string              `json:"account_id"`
	Success   bool                `json:"success"`
	PayoutID  string              `json:"payout_id,omitempty"`
	Error     string              `json:"error,omitempty"`
	ArrivalAt time.Time           `json:"arrival_at,omitempty"`
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
)

// Record is the durable log of a plan plus its execution outcome. Created
// once, never mutated; losing it is an acceptable degraded state, losing
// the money is not.
type Record struct {
	ID             string         `json:"id" gorm:"primaryKey;type:text"`
	UserID         string         `json:"user_id" gorm:"type:text;not null;index"`
	RequestedCents int64          `json:"requested_cents" gorm:"not null"`
	Currency       string         `json:"currency" gorm:"type:text;not null"`
	Status         Status         `json:"status" gorm:"type:text;not null"`
	Legs           datatypes.JSON `json:"legs" gorm:"type:jsonb;not null"`
	CreatedAt      time.Time      `json:"created_at" gorm:"not null"`
}

func (Record) TableName() string { return "payout_records" }

// Receipt is the response to a withdrawal request: the plan summary and the
// per-leg outcome, returned even on partial failure. EstimatedArrival is nil
// when no leg succeeded.
type Receipt struct {
	RecordID         string          `json:"record_id"`
	Requested        decimal.Decimal `json:"requested"`
	Currency         string          `json:"currency"`
	Status           Status          `json:"status"`
	Legs             []LegResult     `json:"legs"`
	EstimatedArrival *time.Time      `json:"estimated_arrival,omitempty"`
}
