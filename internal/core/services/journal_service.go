package services

import (
	"context"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

// JournalService handles the daily record CRUD that rides alongside the
// habit flags: mood and free-text content.
type JournalService struct {
	records domain.DailyRecordRepository
}

func NewJournalService(records domain.DailyRecordRepository) *JournalService {
	return &JournalService{
		records: records,
	}
}

type CreateEntryInput struct {
	UserID  string
	Date    domain.Day
	Mood    string
	Content string
}

type UpdateEntryInput struct {
	ID      string
	UserID  string
	Mood    string
	Content string
	Version int
}

func (s *JournalService) Create(ctx context.Context, input CreateEntryInput) (*domain.DailyRecord, error) {
	record, err := domain.NewDailyRecord(input.UserID, input.Date)
	if err != nil {
		return nil, err
	}

	if err := record.SetJournal(input.Mood, input.Content); err != nil {
		return nil, err
	}

	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *JournalService) GetByDate(ctx context.Context, userID string, date domain.Day) (*domain.DailyRecord, error) {
	return s.records.GetByDate(ctx, userID, date)
}

// ListRange returns the user's records within [from, to], both inclusive.
func (s *JournalService) ListRange(ctx context.Context, userID string, from, to domain.Day) ([]*domain.DailyRecord, error) {
	return s.records.ListByDateRange(ctx, userID, from, to)
}

func (s *JournalService) Update(ctx context.Context, input UpdateEntryInput) (*domain.DailyRecord, error) {
	record, err := s.records.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if record.UserID != input.UserID {
		return nil, domain.ErrRecordNotFound
	}

	if input.Version > 0 && record.Version != input.Version {
		return nil, domain.ErrRecordConflict
	}

	if err := record.SetJournal(input.Mood, input.Content); err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

func (s *JournalService) Delete(ctx context.Context, id string, userID string) error {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if record.UserID != userID {
		return domain.ErrRecordNotFound
	}

	return s.records.Delete(ctx, id, userID)
}
