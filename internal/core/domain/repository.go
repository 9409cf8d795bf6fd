package domain

import (
	"context"
	"errors"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrRecordConflict = errors.New("record version conflict")
	ErrDuplicateDate  = errors.New("a record already exists for this date")
)

// DailyRecordRepository owns the per-day journal/habit collection. The
// streak engine only ever reads through it and writes whole records back.
type DailyRecordRepository interface {
	// Create persists a new daily record. Fails with ErrDuplicateDate when
	// the user already has a record for that calendar day.
	Create(ctx context.Context, record *DailyRecord) error

	// Update rewrites an existing record. Implementations must check the
	// version to prevent lost updates.
	Update(ctx context.Context, record *DailyRecord) error

	// Delete removes a record, verifying ownership.
	Delete(ctx context.Context, id string, userID string) error

	// GetByID retrieves a single record by its identifier.
	GetByID(ctx context.Context, id string) (*DailyRecord, error)

	// GetByDate retrieves the user's record for an exact calendar day.
	GetByDate(ctx context.Context, userID string, date Day) (*DailyRecord, error)

	// ListByUserID retrieves the user's full daily log, unordered.
	ListByUserID(ctx context.Context, userID string) ([]*DailyRecord, error)

	// ListByDateRange retrieves the user's records within [from, to],
	// boundary-inclusive, ordered by date ascending.
	ListByDateRange(ctx context.Context, userID string, from, to Day) ([]*DailyRecord, error)
}

// MonetaryRecordRepository owns the dated transaction collections.
type MonetaryRecordRepository interface {
	Create(ctx context.Context, record *MonetaryRecord) error

	Update(ctx context.Context, record *MonetaryRecord) error

	Delete(ctx context.Context, id string, userID string) error

	GetByID(ctx context.Context, id string) (*MonetaryRecord, error)

	// ListByUserID retrieves the user's records of one kind, or all kinds
	// when kind is empty, ordered by date ascending.
	ListByUserID(ctx context.Context, userID string, kind RecordKind) ([]*MonetaryRecord, error)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error

	GetByID(ctx context.Context, id string) (*User, error)

	GetByEmail(ctx context.Context, email string) (*User, error)
}
