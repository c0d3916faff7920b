package usecase

import (
	"context"
	"errors"

	"docapp/internal/domain/entity"
	"docapp/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidExperienceYears = errors.New("experience years must not be negative")
	ErrMissingUID             = errors.New("uid is required")
)

// DoctorProfileUsecase loads and saves the doctor-only profile fields
type DoctorProfileUsecase interface {
	Load(ctx context.Context, uid string) (*entity.DoctorProfile, error)
	Save(ctx context.Context, uid, speciality, bio string, experienceYears int) error
}

type doctorProfileUsecase struct {
	log               *logrus.Logger
	doctorProfileRepo repository.DoctorProfileRepository
}

func NewDoctorProfileUsecase(
	log *logrus.Logger,
	doctorProfileRepo repository.DoctorProfileRepository,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		log:               log,
		doctorProfileRepo: doctorProfileRepo,
	}
}

// Load returns the stored profile, or empty defaults when the doctor has
// not saved one yet.
func (u *doctorProfileUsecase) Load(ctx context.Context, uid string) (*entity.DoctorProfile, error) {
	if uid == "" {
		return nil, ErrMissingUID
	}

	profile, err := u.doctorProfileRepo.FindByUID(ctx, uid)
	if err != nil {
		u.log.Warnf("Failed to load doctor profile %s: %+v", uid, err)
		return nil, err
	}
	if profile == nil {
		return &entity.DoctorProfile{UID: uid}, nil
	}
	return profile, nil
}

// Save replaces the whole profile document. There is no concurrency check;
// the last save wins.
func (u *doctorProfileUsecase) Save(ctx context.Context, uid, speciality, bio string, experienceYears int) error {
	if uid == "" {
		return ErrMissingUID
	}
	if experienceYears < 0 {
		return ErrInvalidExperienceYears
	}

	profile := &entity.DoctorProfile{
		UID:             uid,
		Speciality:      speciality,
		Bio:             bio,
		ExperienceYears: experienceYears,
	}
	if err := u.doctorProfileRepo.Upsert(ctx, profile); err != nil {
		u.log.Warnf("Failed to save doctor profile %s: %+v", uid, err)
		return err
	}

	u.log.Infof("Doctor profile saved: %s", uid)
	return nil
}
