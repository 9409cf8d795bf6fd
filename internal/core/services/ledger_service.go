package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

// LedgerService handles CRUD for the monetary collections (expenses,
// income, net-worth snapshots). Aggregation lives in MetricsService.
type LedgerService struct {
	ledger domain.MonetaryRecordRepository
}

func NewLedgerService(ledger domain.MonetaryRecordRepository) *LedgerService {
	return &LedgerService{
		ledger: ledger,
	}
}

type CreateRecordInput struct {
	UserID      string
	Kind        domain.RecordKind
	Date        domain.Day
	Amount      decimal.Decimal
	Category    string
	Description string
}

type UpdateRecordInput struct {
	ID          string
	UserID      string
	Date        domain.Day
	Amount      decimal.Decimal
	Category    string
	Description string
	Version     int
}

func (s *LedgerService) Create(ctx context.Context, input CreateRecordInput) (*domain.MonetaryRecord, error) {
	record, err := domain.NewMonetaryRecord(input.UserID, input.Kind, input.Date, input.Amount, input.Category, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// List returns the user's records of one kind, or every kind when kind is
// empty.
func (s *LedgerService) List(ctx context.Context, userID string, kind domain.RecordKind) ([]*domain.MonetaryRecord, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidKind, kind)
	}
	return s.ledger.ListByUserID(ctx, userID, kind)
}

func (s *LedgerService) Update(ctx context.Context, input UpdateRecordInput) (*domain.MonetaryRecord, error) {
	record, err := s.ledger.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if record.UserID != input.UserID {
		return nil, domain.ErrRecordNotFound
	}

	if input.Version > 0 && record.Version != input.Version {
		return nil, domain.ErrRecordConflict
	}

	if err := record.Update(input.Date, input.Amount, input.Category, input.Description); err != nil {
		return nil, err
	}

	if err := s.ledger.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *LedgerService) Delete(ctx context.Context, id string, userID string) error {
	record, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if record.UserID != userID {
		return domain.ErrRecordNotFound
	}

	return s.ledger.Delete(ctx, id, userID)
}
