package response

import (
	"encoding/json"
	"net/http"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Code string `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func SuccessWithMeta(w http.ResponseWriter, statusCode int, message string, data interface{}, meta *Meta) {
	JSON(w, statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
}

func Error(w http.ResponseWriter, statusCode int, message string, err interface{}) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Error:   err,
	})
}

// ValidationError reports invalid input with one summary message and the
// per-field errors
func ValidationError(w http.ResponseWriter, message string, errors interface{}) {
	if message == "" {
		message = "Données invalides."
	}
	JSON(w, http.StatusBadRequest, Response{
		Success: false,
		Message: message,
		Error:   errors,
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Non autorisé."
	}
	Error(w, http.StatusUnauthorized, message, nil)
}

func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Ressource introuvable."
	}
	Error(w, http.StatusNotFound, message, nil)
}

func InternalServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Erreur inconnue."
	}
	Error(w, http.StatusInternalServerError, message, nil)
}

func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Accès refusé."
	}
	Error(w, http.StatusForbidden, message, nil)
}

// ErrorWithCode reports a failure along with a stable machine-readable code
func ErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	JSON(w, statusCode, Response{
		Success: false,
		Message: message,
		Meta:    &Meta{Code: code},
	})
}

func ServiceUnavailable(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Service indisponible."
	}
	Error(w, http.StatusServiceUnavailable, message, nil)
}
