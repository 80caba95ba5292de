// Package planner decides how a withdrawal is split across a user's payout
// accounts. The rule order prefers fewer legs: less partial-failure surface.
package planner

import (
	earningsdomain "github.com/pulsefit/pulsefit/internal/earnings/domain"
	"github.com/pulsefit/pulsefit/internal/payout/domain"
	"github.com/shopspring/decimal"
)

// Balances is the planner's view of both sides at planning time. A side
// with an empty account id is absent.
type Balances struct {
	CreatorAccountID string
	CreatorAvailable decimal.Decimal
	WinnerAccountID  string
	WinnerAvailable  decimal.Decimal
}

// Plan picks the first matching rule:
//  1. creator alone covers the amount — single creator leg
//  2. winner alone covers it — single winner leg
//  3. both together cover it — two legs, larger balance drawn first
//     (creator wins ties, the platform's primary-account convention);
//     a side contributing zero is omitted, never a zero-amount leg
//  4. otherwise InsufficientBalanceError with both balances
//
// The planner checks sufficiency only; the platform minimum is enforced by
// the caller before planning.
func Plan(requested decimal.Decimal, currency string, balances Balances) (domain.Plan, error) {
	plan := domain.Plan{Requested: requested, Currency: currency}

	creatorPresent := balances.CreatorAccountID != ""
	winnerPresent := balances.WinnerAccountID != ""

	if creatorPresent && balances.CreatorAvailable.GreaterThanOrEqual(requested) {
		plan.Legs = []domain.Leg{creatorLeg(requested, balances)}
		return plan, nil
	}
	if winnerPresent && balances.WinnerAvailable.GreaterThanOrEqual(requested) {
		plan.Legs = []domain.Leg{winnerLeg(requested, balances)}
		return plan, nil
	}

	combined := balances.CreatorAvailable.Add(balances.WinnerAvailable)
	if creatorPresent && winnerPresent && combined.GreaterThanOrEqual(requested) {
		if balances.CreatorAvailable.GreaterThanOrEqual(balances.WinnerAvailable) {
			plan.Legs = splitLegs(requested, balances.CreatorAvailable,
				creatorLeg, winnerLeg, balances)
		} else {
			plan.Legs = splitLegs(requested, balances.WinnerAvailable,
				winnerLeg, creatorLeg, balances)
		}
		return plan, nil
	}

	return domain.Plan{}, &domain.InsufficientBalanceError{
		Requested:        requested,
		CreatorAvailable: balances.CreatorAvailable,
		WinnerAvailable:  balances.WinnerAvailable,
	}
}

type legBuilder func(amount decimal.Decimal, balances Balances) domain.Leg

// splitLegs draws the first side up to its available amount, then the
// remainder from the other side. Legs sum to the requested amount exactly;
// a zero remainder drops the second leg.
func splitLegs(requested, firstAvailable decimal.Decimal, first, second legBuilder, balances Balances) []domain.Leg {
	firstAmount := decimal.Min(requested, firstAvailable)
	remainder := requested.Sub(firstAmount)

	legs := make([]domain.Leg, 0, 2)
	if firstAmount.IsPositive() {
		legs = append(legs, first(firstAmount, balances))
	}
	if remainder.IsPositive() {
		legs = append(legs, second(remainder, balances))
	}
	return legs
}

func creatorLeg(amount decimal.Decimal, balances Balances) domain.Leg {
	return domain.Leg{
		Side:      earningsdomain.SideCreator,
		Amount:    amount,
		AccountID: balances.CreatorAccountID,
	}
}

func winnerLeg(amount decimal.Decimal, balances Balances) domain.Leg {
	return domain.Leg{
		Side:      earningsdomain.SideWinner,
		Amount:    amount,
		AccountID: balances.WinnerAccountID,
	}
}
