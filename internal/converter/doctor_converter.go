package converter

import (
	"docapp/internal/delivery/dto"
	"docapp/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to its DTO.
// A never-saved profile has no updatedAt.
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.DoctorProfileResponse{
		UID:             profile.UID,
		Speciality:      profile.Speciality,
		Bio:             profile.Bio,
		ExperienceYears: profile.ExperienceYears,
	}
	if !profile.UpdatedAt.IsZero() {
		updatedAt := profile.UpdatedAt
		response.UpdatedAt = &updatedAt
	}
	return response
}
