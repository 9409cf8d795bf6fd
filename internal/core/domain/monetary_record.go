package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidKind        = errors.New("invalid record kind (must be expense, income, or networth)")
	ErrDescriptionTooLong = errors.New("description is too long (max 500 chars)")
	ErrCategoryTooLong    = errors.New("category is too long (max 100 chars)")
)

// RecordKind separates the three monetary collections that share one
// schema: outflows, inflows and net-worth snapshots.
type RecordKind string

const (
	KindExpense  RecordKind = "expense"
	KindIncome   RecordKind = "income"
	KindNetWorth RecordKind = "networth"

	// DefaultCategory is assigned when the caller leaves category blank.
	DefaultCategory = "uncategorized"

	MaxDescriptionLen = 500
	MaxCategoryLen    = 100
)

func (k RecordKind) Valid() bool {
	switch k {
	case KindExpense, KindIncome, KindNetWorth:
		return true
	}
	return false
}

// MonetaryRecord is one dated transaction or snapshot. The aggregation
// engine only ever reads these; mutation happens through the ledger CRUD.
type MonetaryRecord struct {
	ID     string     `json:"id" db:"id"`
	UserID string     `json:"user_id" db:"user_id"`
	Kind   RecordKind `json:"kind" db:"kind"`

	Date        Day             `json:"date" db:"record_date"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Category    string          `json:"category" db:"category"`
	Description string          `json:"description" db:"description"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewMonetaryRecord(userID string, kind RecordKind, date Day, amount decimal.Decimal, category, description string) (*MonetaryRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrRecordInvalidUserID
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if date.IsZero() {
		return nil, ErrRecordInvalidDate
	}

	category, description, err := normalizeLedgerFields(category, description)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	return &MonetaryRecord{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        kind,
		Date:        date,
		Amount:      amount,
		Category:    category,
		Description: description,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Update rewrites the mutable fields, keeping kind and ownership fixed.
func (m *MonetaryRecord) Update(date Day, amount decimal.Decimal, category, description string) error {
	if date.IsZero() {
		return ErrRecordInvalidDate
	}

	category, description, err := normalizeLedgerFields(category, description)
	if err != nil {
		return err
	}

	m.Date = date
	m.Amount = amount
	m.Category = category
	m.Description = description
	m.UpdatedAt = time.Now().UTC()
	return nil
}

func normalizeLedgerFields(category, description string) (string, string, error) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = DefaultCategory
	}
	if len(category) > MaxCategoryLen {
		return "", "", ErrCategoryTooLong
	}

	description = strings.TrimSpace(description)
	if len(description) > MaxDescriptionLen {
		return "", "", ErrDescriptionTooLong
	}

	return category, description, nil
}
