package repository

import (
	"context"

	"docapp/internal/domain/entity"
)

// DoctorProfileRepository reads and writes doctors/<uid> documents.
// FindByUID returns nil, nil when no document exists.
type DoctorProfileRepository interface {
	FindByUID(ctx context.Context, uid string) (*entity.DoctorProfile, error)
	Upsert(ctx context.Context, profile *entity.DoctorProfile) error
}
