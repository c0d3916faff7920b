package handler

import (
	"encoding/json"
	"net/http"

	"docapp/internal/converter"
	"docapp/internal/delivery/dto"
	"docapp/internal/domain/entity"
	"docapp/internal/usecase"
	"docapp/pkg/response"
	"docapp/pkg/validator"
)

type AuthHandler struct {
	sessionUsecase usecase.SessionUsecase
	validator      *validator.CustomValidator
}

func NewAuthHandler(sessionUsecase usecase.SessionUsecase, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		sessionUsecase: sessionUsecase,
		validator:      validator,
	}
}

// GetSession returns the current session state, including while it is
// still loading
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "", converter.SessionToResponse(h.sessionUsecase.State()))
}

// Login hands the credentials to the auth provider. The session switches to
// the new identity once the provider's auth-state event is resolved; poll
// GET /session to observe it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Requête invalide.", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, validator.Summary(err), h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.sessionUsecase.Login(r.Context(), req.Email, req.Password); err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Connexion réussie.", nil)
}

// Signup creates the account and its profile. The new identity is the
// session identity when this returns.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Requête invalide.", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		message := validator.Summary(err)
		if !validator.HasTag(err, "required") && validator.HasTag(err, "min") {
			message = "Le mot de passe doit contenir au moins 6 caractères."
		}
		response.ValidationError(w, message, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.sessionUsecase.Signup(
		r.Context(),
		converter.SignupRequestToProfile(&req),
		req.Email,
		req.Password,
		entity.Role(req.Role),
	)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Compte créé !", converter.UserToResponse(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionUsecase.Logout(r.Context()); err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Déconnexion réussie.", nil)
}
