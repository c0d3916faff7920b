package handler

import (
	"net/http"

	"docapp/internal/converter"
	"docapp/internal/delivery/http/middleware"
	"docapp/internal/usecase"
	"docapp/pkg/response"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase) *AppointmentHandler {
	return &AppointmentHandler{appointmentUsecase: appointmentUsecase}
}

// GetAppointments lists the signed-in user's appointments, oldest date
// first. A failed read is still a 200: the list is empty and status is
// "failed".
func (h *AppointmentHandler) GetAppointments(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	list := h.appointmentUsecase.FetchAppointments(r.Context(), user)

	message := ""
	if list.Failed() {
		message = "Impossible de charger les rendez-vous."
	}
	response.Success(w, http.StatusOK, message, converter.AppointmentListToResponse(list))
}
