package dto

import "time"

type DoctorProfileRequest struct {
	Speciality      string `json:"speciality" validate:"max=120"`
	Bio             string `json:"bio" validate:"max=2000"`
	ExperienceYears int    `json:"experienceYears" validate:"gte=0,lte=80"`
}

type DoctorProfileResponse struct {
	UID             string     `json:"uid"`
	Speciality      string     `json:"speciality"`
	Bio             string     `json:"bio"`
	ExperienceYears int        `json:"experienceYears"`
	UpdatedAt       *time.Time `json:"updatedAt,omitempty"`
}
