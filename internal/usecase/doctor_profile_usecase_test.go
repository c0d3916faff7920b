package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"docapp/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoctorProfile_LoadMissingReturnsDefaults(t *testing.T) {
	uc := NewDoctorProfileUsecase(testLogger(), &mockDoctorProfileRepo{})

	profile, err := uc.Load(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "d1", profile.UID)
	assert.Equal(t, "", profile.Speciality)
	assert.Equal(t, "", profile.Bio)
	assert.Equal(t, 0, profile.ExperienceYears)
	assert.True(t, profile.IsEmpty())
}

func TestDoctorProfile_LoadExisting(t *testing.T) {
	stored := &entity.DoctorProfile{UID: "d1", Speciality: "Cardiologue", ExperienceYears: 12, UpdatedAt: time.Now()}
	uc := NewDoctorProfileUsecase(testLogger(), &mockDoctorProfileRepo{
		profiles: map[string]*entity.DoctorProfile{"d1": stored},
	})

	profile, err := uc.Load(context.Background(), "d1")

	require.NoError(t, err)
	assert.Equal(t, "Cardiologue", profile.Speciality)
	assert.Equal(t, 12, profile.ExperienceYears)
}

func TestDoctorProfile_LoadReadFailure(t *testing.T) {
	uc := NewDoctorProfileUsecase(testLogger(), &mockDoctorProfileRepo{findErr: errors.New("unavailable")})

	_, err := uc.Load(context.Background(), "d1")

	assert.Error(t, err)
}

func TestDoctorProfile_Save(t *testing.T) {
	repo := &mockDoctorProfileRepo{}
	uc := NewDoctorProfileUsecase(testLogger(), repo)

	err := uc.Save(context.Background(), "d1", "Dermatologue", "Bonjour", 5)

	require.NoError(t, err)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "d1", repo.upserts[0].UID)
	assert.Equal(t, "Dermatologue", repo.upserts[0].Speciality)
	assert.Equal(t, 5, repo.upserts[0].ExperienceYears)
}

func TestDoctorProfile_SaveValidation(t *testing.T) {
	repo := &mockDoctorProfileRepo{}
	uc := NewDoctorProfileUsecase(testLogger(), repo)

	assert.ErrorIs(t, uc.Save(context.Background(), "d1", "", "", -1), ErrInvalidExperienceYears)
	assert.ErrorIs(t, uc.Save(context.Background(), "", "", "", 1), ErrMissingUID)
	assert.Empty(t, repo.upserts)
}

func TestDoctorProfile_SavePropagatesWriteError(t *testing.T) {
	repo := &mockDoctorProfileRepo{upsertFn: func(ctx context.Context, p *entity.DoctorProfile) error {
		return errors.New("permission denied")
	}}
	uc := NewDoctorProfileUsecase(testLogger(), repo)

	assert.Error(t, uc.Save(context.Background(), "d1", "x", "y", 1))
}
