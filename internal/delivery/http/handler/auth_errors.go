package handler

import (
	"errors"
	"net/http"

	"docapp/internal/domain/backend"
	"docapp/internal/usecase"
	"docapp/pkg/response"
)

type authErrorReply struct {
	status  int
	message string
}

var authErrorReplies = map[backend.AuthErrorCode]authErrorReply{
	backend.CodeEmailAlreadyInUse: {http.StatusConflict, "Cet email est déjà utilisé."},
	backend.CodeWeakPassword:      {http.StatusBadRequest, "Mot de passe trop faible (6+ caractères)."},
	backend.CodeInvalidEmail:      {http.StatusBadRequest, "Adresse email invalide."},
	backend.CodeInvalidCredential: {http.StatusUnauthorized, "Email ou mot de passe incorrect."},
	backend.CodeWrongPassword:     {http.StatusUnauthorized, "Email ou mot de passe incorrect."},
	backend.CodeUserNotFound:      {http.StatusUnauthorized, "Email ou mot de passe incorrect."},
	backend.CodeUserDisabled:      {http.StatusForbidden, "Ce compte a été désactivé."},
	backend.CodeTooManyRequests:   {http.StatusTooManyRequests, "Trop de tentatives. Réessayez plus tard."},
	backend.CodeNetworkFailed:     {http.StatusServiceUnavailable, "Connexion au serveur impossible."},
}

// writeAuthError maps a session operation failure to a status and the
// message shown to the user. The provider's code travels in meta.code.
func writeAuthError(w http.ResponseWriter, err error) {
	if errors.Is(err, usecase.ErrInvalidRole) {
		response.Error(w, http.StatusBadRequest, "Rôle invalide.", nil)
		return
	}

	code, ok := backend.AuthErrorCodeOf(err)
	if !ok {
		response.InternalServerError(w, "")
		return
	}
	reply, known := authErrorReplies[code]
	if !known {
		reply = authErrorReply{http.StatusInternalServerError, "Erreur inconnue."}
	}
	response.ErrorWithCode(w, reply.status, reply.message, string(code))
}
