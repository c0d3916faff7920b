package repository

import (
	"context"

	"docapp/internal/domain/backend"
	"docapp/internal/domain/entity"
	domainRepo "docapp/internal/domain/repository"

	"github.com/sirupsen/logrus"
)

type appointmentRepository struct {
	store backend.DocumentStore
	log   *logrus.Logger
}

func NewAppointmentRepository(store backend.DocumentStore, log *logrus.Logger) domainRepo.AppointmentRepository {
	return &appointmentRepository{store: store, log: log}
}

func (r *appointmentRepository) FindByPatientID(ctx context.Context, patientID string) ([]entity.Appointment, error) {
	return r.findBy(ctx, "patientId", patientID)
}

func (r *appointmentRepository) FindByDoctorID(ctx context.Context, doctorID string) ([]entity.Appointment, error) {
	return r.findBy(ctx, "doctorId", doctorID)
}

// findBy returns every decodable appointment whose field equals id.
// Records that do not decode are logged and left out.
func (r *appointmentRepository) findBy(ctx context.Context, field, id string) ([]entity.Appointment, error) {
	docs, err := r.store.Query(ctx, backend.CollectionAppointments, field, id)
	if err != nil {
		return nil, err
	}

	appointments := make([]entity.Appointment, 0, len(docs))
	for _, doc := range docs {
		var appointment entity.Appointment
		if err := decodeDocument(doc.Fields, &appointment); err != nil {
			r.log.Warnf("Skipping appointment %s: %+v", doc.ID, err)
			continue
		}
		appointment.ID = doc.ID
		appointments = append(appointments, appointment)
	}
	return appointments, nil
}
