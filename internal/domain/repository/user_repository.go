package repository

import (
	"context"
	"errors"

	"docapp/internal/domain/entity"
)

// ErrInvalidDocument is returned when a stored document exists but cannot be
// turned into its entity (wrong field types, unknown role).
var ErrInvalidDocument = errors.New("invalid document")

// UserRepository reads and writes users/<uid> profile documents.
// FindByUID returns nil, nil when no document exists.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByUID(ctx context.Context, uid string) (*entity.User, error)
}
