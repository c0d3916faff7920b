package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=patient medecin"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(signupInput{Email: "nope", Password: "123", Role: "admin"})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "Adresse email invalide.", errs["email"])
	assert.Equal(t, "Au moins 6 caractères.", errs["password"])
	assert.Contains(t, errs["role"], "patient medecin")
	assert.True(t, HasTag(err, "min"))
	assert.False(t, HasTag(err, "required"))
}

func TestValidate_Valid(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(signupInput{Email: "jane@example.com", Password: "secret", Role: "medecin"}))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("jane@example.com"))
	assert.False(t, IsEmail("jane"))
	assert.False(t, IsEmail(""))
}

func TestSummary_MissingFieldWins(t *testing.T) {
	v := NewValidator()

	err := v.Validate(signupInput{Password: "123", Role: "patient"})
	require.Error(t, err)
	assert.Equal(t, "Tous les champs sont obligatoires.", Summary(err))

	err = v.Validate(signupInput{Email: "nope", Password: "secret", Role: "patient"})
	require.Error(t, err)
	assert.Equal(t, "Adresse email invalide.", Summary(err))

	type profileInput struct {
		ExperienceYears int `json:"experienceYears" validate:"gte=0,lte=80"`
	}
	err = v.Validate(profileInput{ExperienceYears: 120})
	require.Error(t, err)
	assert.Equal(t, "Certaines valeurs sont hors limites.", Summary(err))
}
