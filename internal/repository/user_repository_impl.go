package repository

import (
	"context"
	"fmt"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"
	domainRepo "docapp/internal/domain/repository"
)

type userRepository struct {
	store backend.DocumentStore
}

func NewUserRepository(store backend.DocumentStore) domainRepo.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.store.Set(ctx, backend.CollectionUsers, user.UID, backend.Fields{
		"uid":       user.UID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"username":  user.Username,
		"role":      string(user.Role),
	})
}

func (r *userRepository) FindByUID(ctx context.Context, uid string) (*entity.User, error) {
	fields, err := r.store.Get(ctx, backend.CollectionUsers, uid)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	var user entity.User
	if err := decodeDocument(fields, &user); err != nil {
		return nil, err
	}
	if !user.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domainRepo.ErrInvalidDocument, user.Role)
	}
	user.UID = uid
	return &user, nil
}
