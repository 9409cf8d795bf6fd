package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

type PostgresMonetaryRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresMonetaryRecordRepository(db *sqlx.DB) *PostgresMonetaryRecordRepository {
	return &PostgresMonetaryRecordRepository{db: db}
}

func (r *PostgresMonetaryRecordRepository) Create(ctx context.Context, record *domain.MonetaryRecord) error {
	query := `
		INSERT INTO monetary_records (
			id, user_id, kind, record_date, amount, category, description,
			version, created_at, updated_at
		) VALUES (
			:id, :user_id, :kind, :record_date, :amount, :category, :description,
			:version, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		if pgErrCode(err) == pgForeignKeyViolation {
			return fmt.Errorf("referenced user does not exist: %w", err)
		}
		return fmt.Errorf("insert monetary record failed: %w", err)
	}
	return nil
}

func (r *PostgresMonetaryRecordRepository) Update(ctx context.Context, record *domain.MonetaryRecord) error {
	record.Version++

	query := `
		UPDATE monetary_records
		SET record_date = :record_date,
		    amount = :amount,
		    category = :category,
		    description = :description,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update monetary record failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		exists, _ := r.exists(ctx, record.ID)
		if !exists {
			return domain.ErrRecordNotFound
		}
		return domain.ErrRecordConflict
	}

	return nil
}

func (r *PostgresMonetaryRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM monetary_records WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete monetary record failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}

func (r *PostgresMonetaryRecordRepository) GetByID(ctx context.Context, id string) (*domain.MonetaryRecord, error) {
	var record domain.MonetaryRecord
	query := `SELECT * FROM monetary_records WHERE id = $1`

	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresMonetaryRecordRepository) ListByUserID(ctx context.Context, userID string, kind domain.RecordKind) ([]*domain.MonetaryRecord, error) {
	records := []*domain.MonetaryRecord{}

	if kind == "" {
		query := `
			SELECT * FROM monetary_records
			WHERE user_id = $1
			ORDER BY record_date ASC`
		if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
			return nil, err
		}
		return records, nil
	}

	query := `
		SELECT * FROM monetary_records
		WHERE user_id = $1 AND kind = $2
		ORDER BY record_date ASC`
	if err := r.db.SelectContext(ctx, &records, query, userID, kind); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresMonetaryRecordRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM monetary_records WHERE id = $1", id)
	return count > 0, err
}
