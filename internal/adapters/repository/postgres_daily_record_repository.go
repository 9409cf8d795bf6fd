package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PostgresDailyRecordRepository struct {
	db *sqlx.DB
}

func NewPostgresDailyRecordRepository(db *sqlx.DB) *PostgresDailyRecordRepository {
	return &PostgresDailyRecordRepository{db: db}
}

func (r *PostgresDailyRecordRepository) Create(ctx context.Context, record *domain.DailyRecord) error {
	query := `
		INSERT INTO daily_records (
			id, user_id, record_date, habit_state, mood, content,
			version, created_at, updated_at
		) VALUES (
			:id, :user_id, :record_date, :habit_state, :mood, :content,
			:version, :created_at, :updated_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		switch pgErrCode(err) {
		case pgUniqueViolation:
			return domain.ErrDuplicateDate
		case pgForeignKeyViolation:
			return fmt.Errorf("referenced user does not exist: %w", err)
		}
		return fmt.Errorf("insert daily record failed: %w", err)
	}
	return nil
}

func (r *PostgresDailyRecordRepository) Update(ctx context.Context, record *domain.DailyRecord) error {
	record.Version++

	query := `
		UPDATE daily_records
		SET habit_state = :habit_state,
		    mood = :mood,
		    content = :content,
		    version = :version,
		    updated_at = :updated_at
		WHERE id = :id
		  AND version = :version - 1`

	result, err := r.db.NamedExecContext(ctx, query, record)
	if err != nil {
		return fmt.Errorf("update daily record failed: %w", err)
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

func (r *PostgresDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	query := `DELETE FROM daily_records WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("delete daily record failed: %w", err)
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

func (r *PostgresDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	var record domain.DailyRecord
	query := `SELECT * FROM daily_records WHERE id = $1`

	err := r.db.GetContext(ctx, &record, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresDailyRecordRepository) GetByDate(ctx context.Context, userID string, date domain.Day) (*domain.DailyRecord, error) {
	var record domain.DailyRecord
	query := `SELECT * FROM daily_records WHERE user_id = $1 AND record_date = $2`

	err := r.db.GetContext(ctx, &record, query, userID, date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *PostgresDailyRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.DailyRecord, error) {
	records := []*domain.DailyRecord{}

	query := `
		SELECT * FROM daily_records
		WHERE user_id = $1
		ORDER BY record_date ASC`

	err := r.db.SelectContext(ctx, &records, query, userID)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to domain.Day) ([]*domain.DailyRecord, error) {
	records := []*domain.DailyRecord{}

	query := `
		SELECT * FROM daily_records
		WHERE user_id = $1
		  AND record_date >= $2
		  AND record_date <= $3
		ORDER BY record_date ASC`

	err := r.db.SelectContext(ctx, &records, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *PostgresDailyRecordRepository) exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, "SELECT count(*) FROM daily_records WHERE id = $1", id)
	return count > 0, err
}
