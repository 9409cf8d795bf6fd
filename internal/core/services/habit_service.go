package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

// HabitService exposes the streak engine over the daily record store:
// derived streak state on reads, a single toggle mutation on writes.
type HabitService struct {
	records domain.DailyRecordRepository
}

func NewHabitService(records domain.DailyRecordRepository) *HabitService {
	return &HabitService{
		records: records,
	}
}

// ComputeStreaks derives completion and streak state for every tracked
// habit from the raw daily log. Pure function of its inputs: streaks are
// never stored, so there is nothing to invalidate when the log changes.
//
// Per habit: completion reflects the reference date only. When completed
// there, the streak walks backward one calendar day at a time and stops at
// the first missing record or explicit non-completion. The walk is
// unbounded, so cost is proportional to the streak length.
func ComputeStreaks(records []*domain.DailyRecord, referenceDate domain.Day) map[domain.HabitID]domain.HabitStreakResult {
	byDate := make(map[string]*domain.DailyRecord, len(records))
	for _, r := range records {
		if r == nil || r.Date.IsZero() {
			continue
		}
		key := r.Date.String()
		if _, dup := byDate[key]; !dup {
			byDate[key] = r
		}
	}

	results := make(map[domain.HabitID]domain.HabitStreakResult, len(domain.AllHabits))

	for _, habit := range domain.AllHabits {
		res := domain.HabitStreakResult{}

		if byDate[referenceDate.String()].HabitCompleted(habit) {
			res.Completed = true
			res.Streak = 1

			day := referenceDate.AddDays(-1)
			for byDate[day.String()].HabitCompleted(habit) {
				res.Streak++
				day = day.AddDays(-1)
			}
		}

		if last, ok := lastCompletedBefore(records, habit, referenceDate); ok {
			res.LastCompletedDate = &last
		}

		results[habit] = res
	}

	return results
}

// lastCompletedBefore finds the most recent day at or before the reference
// date on which the habit was completed.
func lastCompletedBefore(records []*domain.DailyRecord, habit domain.HabitID, referenceDate domain.Day) (domain.Day, bool) {
	var best domain.Day
	found := false

	for _, r := range records {
		if r == nil || r.Date.IsZero() || r.Date.After(referenceDate) {
			continue
		}
		if !r.HabitCompleted(habit) {
			continue
		}
		if !found || r.Date.After(best) {
			best = r.Date
			found = true
		}
	}

	return best, found
}

// Streaks loads the user's full daily log and recomputes streak state for
// the given reference date. A zero reference date means today.
func (s *HabitService) Streaks(ctx context.Context, userID string, referenceDate domain.Day) (map[domain.HabitID]domain.HabitStreakResult, error) {
	if referenceDate.IsZero() {
		referenceDate = domain.Today()
	}

	records, err := s.records.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return ComputeStreaks(records, referenceDate), nil
}

// Toggle flips a habit's completion flag for a date through a single
// read-modify-write. When no record exists for the date yet, a minimal one
// is created with only the toggled habit completed, so a toggle on an
// untracked day always lands on "done".
func (s *HabitService) Toggle(ctx context.Context, userID string, habit domain.HabitID, date domain.Day) (*domain.DailyRecord, error) {
	if !habit.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownHabit, habit)
	}
	if date.IsZero() {
		return nil, domain.ErrRecordInvalidDate
	}

	record, err := s.records.GetByDate(ctx, userID, date)
	if err != nil {
		if !errors.Is(err, domain.ErrRecordNotFound) {
			return nil, err
		}

		record, err = domain.NewDailyRecord(userID, date)
		if err != nil {
			return nil, err
		}
		if _, err := record.ToggleHabit(habit); err != nil {
			return nil, err
		}

		if err := s.records.Create(ctx, record); err != nil {
			return nil, err
		}
		return record, nil
	}

	if _, err := record.ToggleHabit(habit); err != nil {
		return nil, err
	}

	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}
