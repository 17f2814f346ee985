package waitlist

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/luminfeed/waitlist-service/internal/models"
	"gorm.io/gorm"
)

//go:generate mockgen -source=fallback.go -destination=mock_fallback_test.go -package=waitlist

const (
	FallbackKindRedis    = "redis"
	FallbackKindDatabase = "database"
	FallbackKindNone     = "none"
)

// FallbackStore keeps an append-only copy of accepted submissions for manual recovery.
// Nothing on the submission path reads it back.
type FallbackStore interface {
	Kind() string
	Append(ctx context.Context, record models.WaitlistBackup) error
}

// FallbackLister reads the list back for recovery tooling.
type FallbackLister interface {
	List(ctx context.Context) ([]models.WaitlistBackup, error)
}

// RedisFallbackStore pushes JSON records onto a Redis list.
type RedisFallbackStore struct {
	client *redis.Client
	key    string
}

func NewRedisFallbackStore(client *redis.Client, key string) *RedisFallbackStore {
	return &RedisFallbackStore{client: client, key: key}
}

func (s *RedisFallbackStore) Kind() string {
	return FallbackKindRedis
}

func (s *RedisFallbackStore) Append(ctx context.Context, record models.WaitlistBackup) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode fallback record: %w", err)
	}

	if err := s.client.RPush(ctx, s.key, payload).Err(); err != nil {
		return fmt.Errorf("append to %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisFallbackStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// List returns every record in insertion order. Used by recovery tooling only.
func (s *RedisFallbackStore) List(ctx context.Context) ([]models.WaitlistBackup, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}

	records := make([]models.WaitlistBackup, 0, len(raw))
	for _, item := range raw {
		var record models.WaitlistBackup
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("decode fallback record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}

// DatabaseFallbackStore writes records into the waitlist_backups table.
type DatabaseFallbackStore struct {
	db  *gorm.DB
	key string
}

func NewDatabaseFallbackStore(db *gorm.DB, key string) *DatabaseFallbackStore {
	return &DatabaseFallbackStore{db: db, key: key}
}

func (s *DatabaseFallbackStore) Kind() string {
	return FallbackKindDatabase
}

func (s *DatabaseFallbackStore) Append(ctx context.Context, record models.WaitlistBackup) error {
	record.ID = 0
	record.ListKey = s.key

	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("append to %s: %w", s.key, err)
	}
	return nil
}

func (s *DatabaseFallbackStore) List(ctx context.Context) ([]models.WaitlistBackup, error) {
	var records []models.WaitlistBackup

	err := s.db.WithContext(ctx).
		Where("list_key = ?", s.key).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	return records, nil
}

func (s *DatabaseFallbackStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

type nopFallbackStore struct{}

func (nopFallbackStore) Kind() string {
	return FallbackKindNone
}

func (nopFallbackStore) Append(context.Context, models.WaitlistBackup) error {
	return nil
}
