package converter

import (
	"docapp/internal/delivery/dto"
	"docapp/internal/domain/entity"
)

func AppointmentToResponse(a *entity.Appointment) dto.AppointmentResponse {
	return dto.AppointmentResponse{
		ID:          a.ID,
		DoctorID:    a.DoctorID,
		PatientID:   a.PatientID,
		DoctorName:  a.DoctorName,
		PatientName: a.PatientName,
		Speciality:  a.Speciality,
		Date:        a.Date,
		Time:        a.Time,
		Status:      string(a.Status),
	}
}

func AppointmentListToResponse(list *entity.AppointmentList) *dto.AppointmentListResponse {
	response := &dto.AppointmentListResponse{
		Appointments: make([]dto.AppointmentResponse, 0, len(list.Appointments)),
		Status:       string(list.Status),
	}
	for i := range list.Appointments {
		response.Appointments = append(response.Appointments, AppointmentToResponse(&list.Appointments[i]))
	}
	return response
}
