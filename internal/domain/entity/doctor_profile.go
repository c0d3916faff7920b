package entity

import "time"

// DoctorProfile holds the doctor-only fields stored in doctors/<uid>.
// A new doctor has no document yet; the zero value stands in for it.
type DoctorProfile struct {
	UID             string    `mapstructure:"-" json:"uid"`
	Speciality      string    `mapstructure:"speciality" json:"speciality"`
	Bio             string    `mapstructure:"bio" json:"bio"`
	ExperienceYears int       `mapstructure:"experienceYears" json:"experienceYears"`
	UpdatedAt       time.Time `mapstructure:"updatedAt" json:"updatedAt"`
}

// IsEmpty reports whether the doctor has never filled in the profile
func (p *DoctorProfile) IsEmpty() bool {
	return p.Speciality == "" && p.Bio == "" && p.ExperienceYears == 0 && p.UpdatedAt.IsZero()
}
