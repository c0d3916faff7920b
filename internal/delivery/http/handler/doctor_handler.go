package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"docapp/internal/converter"
	"docapp/internal/delivery/dto"
	"docapp/internal/delivery/http/middleware"
	"docapp/internal/usecase"
	"docapp/pkg/response"
	"docapp/pkg/validator"
)

type DoctorHandler struct {
	doctorProfileUsecase usecase.DoctorProfileUsecase
	validator            *validator.CustomValidator
}

func NewDoctorHandler(doctorProfileUsecase usecase.DoctorProfileUsecase, validator *validator.CustomValidator) *DoctorHandler {
	return &DoctorHandler{
		doctorProfileUsecase: doctorProfileUsecase,
		validator:            validator,
	}
}

// GetProfile returns the signed-in doctor's profile, empty when never saved
func (h *DoctorHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	profile, err := h.doctorProfileUsecase.Load(r.Context(), user.UID)
	if err != nil {
		response.InternalServerError(w, "Impossible de charger les données.")
		return
	}

	response.Success(w, http.StatusOK, "", converter.DoctorProfileToResponse(profile))
}

// UpdateProfile replaces the signed-in doctor's profile and returns it as
// stored
func (h *DoctorHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.DoctorProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Requête invalide.", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, validator.Summary(err), h.validator.FormatValidationErrors(err))
		return
	}

	err := h.doctorProfileUsecase.Save(r.Context(), user.UID, req.Speciality, req.Bio, req.ExperienceYears)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidExperienceYears) {
			response.Error(w, http.StatusBadRequest, "Années d'expérience invalides.", nil)
			return
		}
		response.InternalServerError(w, "Impossible d'enregistrer les données.")
		return
	}

	profile, err := h.doctorProfileUsecase.Load(r.Context(), user.UID)
	if err != nil {
		response.InternalServerError(w, "Impossible de charger les données.")
		return
	}

	response.Success(w, http.StatusOK, "Votre profil médecin a été mis à jour !", converter.DoctorProfileToResponse(profile))
}
