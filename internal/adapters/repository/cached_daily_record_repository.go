package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dylandaniels6/dillysdally/internal/core/domain"
)

var _ domain.DailyRecordRepository = (*CachedDailyRecordRepository)(nil)

// CachedDailyRecordRepository is a read-through cache over the full daily
// log. The streak engine reloads the whole collection on every read, so
// that one query is the hot path worth caching. Any write invalidates the
// user's entry; Redis failures degrade to pass-through.
type CachedDailyRecordRepository struct {
	next  domain.DailyRecordRepository
	cache *redis.Client
}

func NewCachedDailyRecordRepository(next domain.DailyRecordRepository, cache *redis.Client) *CachedDailyRecordRepository {
	return &CachedDailyRecordRepository{
		next:  next,
		cache: cache,
	}
}

func (r *CachedDailyRecordRepository) cacheKey(userID string) string {
	return fmt.Sprintf("daily_records:%s", userID)
}

func (r *CachedDailyRecordRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Del(ctx, r.cacheKey(userID)).Err(); err != nil {
		log.Printf("[CACHE] Failed to invalidate for user %s: %v", userID, err)
	}
}

func (r *CachedDailyRecordRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.DailyRecord, error) {
	key := r.cacheKey(userID)

	val, err := r.cache.Get(ctx, key).Result()
	if err == nil {
		var records []*domain.DailyRecord
		if err := json.Unmarshal([]byte(val), &records); err == nil {
			return records, nil
		}

		log.Printf("[CACHE] Corrupted data for user %s, cleaning up key", userID)
		r.cache.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("[CACHE] Redis read error: %v", err)
	}

	records, err := r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(records); err == nil {
		if setErr := r.cache.Set(ctx, key, data, 30*time.Minute).Err(); setErr != nil {
			log.Printf("[CACHE] Redis set error: %v", setErr)
		}
	}

	return records, nil
}

func (r *CachedDailyRecordRepository) GetByID(ctx context.Context, id string) (*domain.DailyRecord, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedDailyRecordRepository) GetByDate(ctx context.Context, userID string, date domain.Day) (*domain.DailyRecord, error) {
	return r.next.GetByDate(ctx, userID, date)
}

func (r *CachedDailyRecordRepository) ListByDateRange(ctx context.Context, userID string, from, to domain.Day) ([]*domain.DailyRecord, error) {
	return r.next.ListByDateRange(ctx, userID, from, to)
}

func (r *CachedDailyRecordRepository) Create(ctx context.Context, record *domain.DailyRecord) error {
	if err := r.next.Create(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.UserID)
	return nil
}

func (r *CachedDailyRecordRepository) Update(ctx context.Context, record *domain.DailyRecord) error {
	if err := r.next.Update(ctx, record); err != nil {
		return err
	}
	r.invalidate(ctx, record.UserID)
	return nil
}

func (r *CachedDailyRecordRepository) Delete(ctx context.Context, id string, userID string) error {
	if err := r.next.Delete(ctx, id, userID); err != nil {
		return err
	}
	r.invalidate(ctx, userID)
	return nil
}
