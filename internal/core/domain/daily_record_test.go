package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

func TestNewDailyRecord(t *testing.T) {
	t.Run("Success: Fresh record has every habit incomplete", func(t *testing.T) {
		record, err := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))

		require.NoError(t, err)
		assert.NotEmpty(t, record.ID)
		assert.Equal(t, 1, record.Version)
		assert.Len(t, record.HabitState, len(domain.AllHabits))
		for _, h := range domain.AllHabits {
			assert.False(t, record.HabitCompleted(h), "habit %s", h)
		}
	})

	t.Run("Fail: Missing user id", func(t *testing.T) {
		_, err := domain.NewDailyRecord("  ", domain.MustParseDay("2024-01-01"))
		assert.ErrorIs(t, err, domain.ErrRecordInvalidUserID)
	})

	t.Run("Fail: Zero date", func(t *testing.T) {
		_, err := domain.NewDailyRecord("user-1", domain.Day{})
		assert.ErrorIs(t, err, domain.ErrRecordInvalidDate)
	})
}

func TestToggleHabit(t *testing.T) {
	t.Run("Toggle flips the flag each time", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))

		done, err := record.ToggleHabit(domain.HabitHangboard)
		require.NoError(t, err)
		assert.True(t, done)
		assert.True(t, record.HabitCompleted(domain.HabitHangboard))

		done, err = record.ToggleHabit(domain.HabitHangboard)
		require.NoError(t, err)
		assert.False(t, done)
		assert.False(t, record.HabitCompleted(domain.HabitHangboard))
	})

	t.Run("Toggle on a nil state lands on completed", func(t *testing.T) {
		record := &domain.DailyRecord{ID: "r1", UserID: "user-1", Date: domain.MustParseDay("2024-01-01")}

		done, err := record.ToggleHabit(domain.HabitColdShower)

		require.NoError(t, err)
		assert.True(t, done)
	})

	t.Run("Toggling one habit leaves the others alone", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))

		_, err := record.ToggleHabit(domain.HabitTechUsage)
		require.NoError(t, err)

		assert.True(t, record.HabitCompleted(domain.HabitTechUsage))
		assert.False(t, record.HabitCompleted(domain.HabitHangboard))
		assert.False(t, record.HabitCompleted(domain.HabitColdShower))
		assert.False(t, record.HabitCompleted(domain.HabitPornFree))
	})

	t.Run("Fail: Unknown habit id", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))

		_, err := record.ToggleHabit("meditation")

		assert.ErrorIs(t, err, domain.ErrUnknownHabit)
	})
}

func TestHabitCompleted_NilSafety(t *testing.T) {
	var record *domain.DailyRecord
	assert.False(t, record.HabitCompleted(domain.HabitHangboard))

	record = &domain.DailyRecord{}
	assert.False(t, record.HabitCompleted(domain.HabitHangboard))
}

func TestSetJournal(t *testing.T) {
	t.Run("Success: Valid mood and content", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))

		err := record.SetJournal(domain.MoodGood, "solid climbing session")

		require.NoError(t, err)
		assert.Equal(t, domain.MoodGood, record.Mood)
		assert.Equal(t, "solid climbing session", record.Content)
	})

	t.Run("Success: Empty mood is allowed", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))
		assert.NoError(t, record.SetJournal("", "no mood today"))
	})

	t.Run("Fail: Unknown mood", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))
		assert.ErrorIs(t, record.SetJournal("ecstatic", ""), domain.ErrInvalidMood)
	})

	t.Run("Fail: Content over the cap", func(t *testing.T) {
		record, _ := domain.NewDailyRecord("user-1", domain.MustParseDay("2024-01-01"))
		err := record.SetJournal(domain.MoodNeutral, strings.Repeat("a", domain.MaxContentLen+1))
		assert.ErrorIs(t, err, domain.ErrContentTooLong)
	})
}

func TestHabitStateScan(t *testing.T) {
	t.Run("Round-trips through JSONB bytes", func(t *testing.T) {
		original := domain.NewHabitState()
		original[domain.HabitHangboard] = domain.HabitCheck{Completed: true}

		v, err := original.Value()
		require.NoError(t, err)

		var scanned domain.HabitState
		require.NoError(t, scanned.Scan(v))

		assert.True(t, scanned[domain.HabitHangboard].Completed)
		assert.False(t, scanned[domain.HabitColdShower].Completed)
	})

	t.Run("NULL scans to empty state", func(t *testing.T) {
		var s domain.HabitState
		require.NoError(t, s.Scan(nil))
		assert.Empty(t, s)
	})
}
