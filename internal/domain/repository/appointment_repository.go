package repository

import (
	"context"

	"docapp/internal/domain/entity"
)

// AppointmentRepository runs one-shot scoped reads of the appointments collection
type AppointmentRepository interface {
	FindByPatientID(ctx context.Context, patientID string) ([]entity.Appointment, error)
	FindByDoctorID(ctx context.Context, doctorID string) ([]entity.Appointment, error)
}
