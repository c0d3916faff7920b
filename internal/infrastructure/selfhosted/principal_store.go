package selfhosted

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var errEmailTaken = errors.New("email already registered")

type principalRow struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Email        string `gorm:"type:varchar(255);not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Disabled     bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (principalRow) TableName() string {
	return "principals"
}

type principalStore interface {
	Create(ctx context.Context, row *principalRow) error
	FindByEmail(ctx context.Context, email string) (*principalRow, error)
	FindByID(ctx context.Context, id string) (*principalRow, error)
}

type gormPrincipalStore struct {
	db *gorm.DB
}

func (s *gormPrincipalStore) Create(ctx context.Context, row *principalRow) error {
	err := s.db.WithContext(ctx).Create(row).Error
	if isDuplicateKeyError(err, "email") {
		return errEmailTaken
	}
	return err
}

func (s *gormPrincipalStore) FindByEmail(ctx context.Context, email string) (*principalRow, error) {
	return s.first(s.db.WithContext(ctx).Where("lower(email) = lower(?)", email))
}

func (s *gormPrincipalStore) FindByID(ctx context.Context, id string) (*principalRow, error) {
	return s.first(s.db.WithContext(ctx).Where("id = ?", id))
}

func (s *gormPrincipalStore) first(query *gorm.DB) (*principalRow, error) {
	var row principalRow
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// isDuplicateKeyError checks for a PostgreSQL unique_violation (23505) on a
// constraint whose name contains constraintName
func isDuplicateKeyError(err error, constraintName string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" &&
			strings.Contains(strings.ToLower(pgErr.ConstraintName), strings.ToLower(constraintName))
	}
	return false
}

// tokenWhitelist tracks which issued session tokens are still honoured
type tokenWhitelist interface {
	Allow(ctx context.Context, uid, tokenID string, ttl time.Duration) error
	Allowed(ctx context.Context, uid, tokenID string) (bool, error)
	Revoke(ctx context.Context, uid, tokenID string) error
}

type redisWhitelist struct {
	client *redis.Client
}

func accessKey(uid, tokenID string) string {
	return fmt.Sprintf("access_token:%s:%s", uid, tokenID)
}

func (w *redisWhitelist) Allow(ctx context.Context, uid, tokenID string, ttl time.Duration) error {
	return w.client.Set(ctx, accessKey(uid, tokenID), "valid", ttl).Err()
}

func (w *redisWhitelist) Allowed(ctx context.Context, uid, tokenID string) (bool, error) {
	n, err := w.client.Exists(ctx, accessKey(uid, tokenID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (w *redisWhitelist) Revoke(ctx context.Context, uid, tokenID string) error {
	return w.client.Del(ctx, accessKey(uid, tokenID)).Err()
}
