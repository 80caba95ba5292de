package service

import (
	"context"

	"github.com/pulsefit/pulsefit/internal/earnings/domain"
	processordomain "github.com/pulsefit/pulsefit/internal/processor/domain"
	"go.uber.org/zap"
)

// Evidence source names, reported on the snapshot when a fetch degrades.
const (
	sourceBalance        = "processor_balance"
	sourceIntents        = "processor_intents"
	sourceCharges        = "processor_charges"
	sourceTransfers      = "processor_transfers"
	sourcePayouts        = "processor_payouts"
	sourcePaymentRecords = "payment_records"
	sourcePrizeRecords   = "prize_records"
)

// Every fetcher degrades to a safe empty result on failure; reconciliation
// proceeds with whatever evidence survived. The second return value is the
// ok/degraded discriminant.

func (s *Service) fetchBalance(ctx context.Context, accountID string) (processordomain.Balance, bool) {
	balance, err := s.processor.GetBalance(ctx, accountID)
	if err != nil {
		s.degrade(sourceBalance, err)
		return processordomain.Balance{}, false
	}
	return balance, true
}

func (s *Service) fetchIntents(ctx context.Context, accountID string) ([]processordomain.PaymentIntent, bool) {
	intents, err := s.processor.ListPaymentIntents(ctx, accountID, s.historyLimit)
	if err != nil {
		s.degrade(sourceIntents, err)
		return nil, false
	}
	return intents, true
}

func (s *Service) fetchCharges(ctx context.Context) ([]processordomain.Charge, bool) {
	charges, err := s.processor.ListCharges(ctx, s.historyLimit)
	if err != nil {
		s.degrade(sourceCharges, err)
		return nil, false
	}
	return charges, true
}

func (s *Service) fetchTransfers(ctx context.Context, accountID string) ([]processordomain.Transfer, bool) {
	transfers, err := s.processor.ListTransfers(ctx, accountID, s.historyLimit)
	if err != nil {
		s.degrade(sourceTransfers, err)
		return nil, false
	}
	return transfers, true
}

func (s *Service) fetchPayouts(ctx context.Context, accountID string) ([]processordomain.Payout, bool) {
	payouts, err := s.processor.ListPayouts(ctx, accountID, s.historyLimit)
	if err != nil {
		s.degrade(sourcePayouts, err)
		return nil, false
	}
	return payouts, true
}

func (s *Service) fetchPaymentRecords(ctx context.Context, userID string) ([]domain.PaymentRecord, bool) {
	records, err := s.repo.ListPaymentRecords(ctx, s.db, userID, s.historyLimit)
	if err != nil {
		s.degrade(sourcePaymentRecords, err)
		return nil, false
	}
	return records, true
}

func (s *Service) fetchPrizeRecords(ctx context.Context, userID string) ([]domain.PrizeRecord, bool) {
	records, err := s.repo.ListPrizeRecords(ctx, s.db, userID)
	if err != nil {
		s.degrade(sourcePrizeRecords, err)
		return nil, false
	}
	return records, true
}

func (s *Service) degrade(source string, err error) {
	s.log.Warn("evidence source degraded", zap.String("source", source), zap.Error(err))
	s.metrics.RecordDegradedSource(source)
}
