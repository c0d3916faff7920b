package repository

import (
	"context"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"
	domainRepo "docapp/internal/domain/repository"
)

type doctorProfileRepository struct {
	store backend.DocumentStore
}

func NewDoctorProfileRepository(store backend.DocumentStore) domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{store: store}
}

func (r *doctorProfileRepository) FindByUID(ctx context.Context, uid string) (*entity.DoctorProfile, error) {
	fields, err := r.store.Get(ctx, backend.CollectionDoctors, uid)
	if err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, nil
	}

	var profile entity.DoctorProfile
	if err := decodeDocument(fields, &profile); err != nil {
		return nil, err
	}
	profile.UID = uid
	return &profile, nil
}

// Upsert replaces the whole document. UpdatedAt is always set by the store.
func (r *doctorProfileRepository) Upsert(ctx context.Context, profile *entity.DoctorProfile) error {
	return r.store.Set(ctx, backend.CollectionDoctors, profile.UID, backend.Fields{
		"speciality":      profile.Speciality,
		"bio":             profile.Bio,
		"experienceYears": profile.ExperienceYears,
		"updatedAt":       backend.ServerTimestamp,
	})
}
