package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrRecordInvalidUserID = errors.New("invalid user id")
	ErrRecordInvalidDate   = errors.New("record date is required")
	ErrUnknownHabit        = errors.New("unknown habit")
	ErrInvalidMood         = errors.New("invalid mood")
	ErrContentTooLong      = errors.New("journal content is too long (max 10000 chars)")
)

// HabitID identifies one of the tracked daily habits. The set is fixed:
// habits are part of the product, not user-defined.
type HabitID string

const (
	HabitHangboard  HabitID = "hangboard"
	HabitColdShower HabitID = "coldShower"
	HabitTechUsage  HabitID = "techUsage"
	HabitPornFree   HabitID = "pornFree"
)

// AllHabits lists every tracked habit. Streak results always cover the
// whole set, history or not.
var AllHabits = []HabitID{HabitHangboard, HabitColdShower, HabitTechUsage, HabitPornFree}

func (h HabitID) Valid() bool {
	switch h {
	case HabitHangboard, HabitColdShower, HabitTechUsage, HabitPornFree:
		return true
	}
	return false
}

type HabitCheck struct {
	Completed bool `json:"completed"`
}

// HabitState maps habit ids to their per-day completion flags. Stored as a
// single JSONB column.
type HabitState map[HabitID]HabitCheck

// NewHabitState returns a state with every tracked habit incomplete.
func NewHabitState() HabitState {
	state := make(HabitState, len(AllHabits))
	for _, h := range AllHabits {
		state[h] = HabitCheck{}
	}
	return state
}

func (s HabitState) Value() (driver.Value, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(s)
}

func (s *HabitState) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*s = HabitState{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into HabitState", src)
	}
	if len(data) == 0 {
		*s = HabitState{}
		return nil
	}
	return json.Unmarshal(data, s)
}

const (
	MoodAmazing  = "amazing"
	MoodGood     = "good"
	MoodNeutral  = "neutral"
	MoodBad      = "bad"
	MoodTerrible = "terrible"

	MaxContentLen = 10000
)

// DailyRecord is one calendar day's tracked state: habit completion flags
// plus the journal fields (mood, free text) that ride along with them.
// There is at most one record per user per date.
type DailyRecord struct {
	ID     string `json:"id" db:"id"`
	UserID string `json:"user_id" db:"user_id"`

	Date       Day        `json:"date" db:"record_date"`
	HabitState HabitState `json:"habit_state" db:"habit_state"`
	Mood       string     `json:"mood,omitempty" db:"mood"`
	Content    string     `json:"content,omitempty" db:"content"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewDailyRecord creates a record for the given day with every habit
// incomplete and no journal content.
func NewDailyRecord(userID string, date Day) (*DailyRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrRecordInvalidUserID
	}
	if date.IsZero() {
		return nil, ErrRecordInvalidDate
	}

	now := time.Now().UTC()

	return &DailyRecord{
		ID:         uuid.NewString(),
		UserID:     userID,
		Date:       date,
		HabitState: NewHabitState(),
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// HabitCompleted reports whether the habit is marked done on this record.
// Missing nested entries count as not completed.
func (r *DailyRecord) HabitCompleted(h HabitID) bool {
	if r == nil || r.HabitState == nil {
		return false
	}
	return r.HabitState[h].Completed
}

// ToggleHabit flips the habit's completion flag in place, creating the
// nested entry first when absent. Missing entry plus toggle therefore
// lands on completed. Returns the new state of the flag.
func (r *DailyRecord) ToggleHabit(h HabitID) (bool, error) {
	if !h.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownHabit, h)
	}

	if r.HabitState == nil {
		r.HabitState = HabitState{}
	}

	check := r.HabitState[h]
	check.Completed = !check.Completed
	r.HabitState[h] = check
	r.UpdatedAt = time.Now().UTC()

	return check.Completed, nil
}

// SetJournal updates the journal fields after validating them.
func (r *DailyRecord) SetJournal(mood, content string) error {
	mood = strings.TrimSpace(mood)
	if err := validateMood(mood); err != nil {
		return err
	}
	if len(content) > MaxContentLen {
		return ErrContentTooLong
	}

	r.Mood = mood
	r.Content = content
	r.UpdatedAt = time.Now().UTC()
	return nil
}

func validateMood(mood string) error {
	switch mood {
	case "", MoodAmazing, MoodGood, MoodNeutral, MoodBad, MoodTerrible:
		return nil
	}
	return fmt.Errorf("%w: %q", ErrInvalidMood, mood)
}

// HabitStreakResult is the derived per-habit state for a reference date.
// Never stored: recomputed from the raw log on every read.
type HabitStreakResult struct {
	Completed         bool `json:"completed"`
	Streak            int  `json:"streak"`
	LastCompletedDate *Day `json:"last_completed_date,omitempty"`
}
