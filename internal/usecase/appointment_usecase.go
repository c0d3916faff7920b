package usecase

import (
	"context"
	"errors"
	"sort"
	"time"

	"docapp/internal/domain/entity"
	"docapp/internal/domain/repository"
	"docapp/internal/metrics"

	"github.com/sirupsen/logrus"
)

var ErrNoIdentity = errors.New("no signed-in identity")

// Calendar date layouts accepted on appointment documents, most common first
var appointmentDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"02/01/2006", // day first, as French users write dates
}

type AppointmentUsecase interface {
	FetchAppointments(ctx context.Context, identity *entity.User) *entity.AppointmentList
}

type appointmentUsecase struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	metrics         metrics.Recorder
}

func NewAppointmentUsecase(
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	recorder metrics.Recorder,
) AppointmentUsecase {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &appointmentUsecase{
		log:             log,
		appointmentRepo: appointmentRepo,
		metrics:         recorder,
	}
}

// FetchAppointments reads the appointments visible to identity, sorted by
// date. A failed read yields an empty list with Status failed; it is never
// returned as an error.
func (u *appointmentUsecase) FetchAppointments(ctx context.Context, identity *entity.User) *entity.AppointmentList {
	if identity == nil {
		u.log.Warn("Appointment fetch requested without a signed-in identity")
		return &entity.AppointmentList{
			Appointments: []entity.Appointment{},
			Status:       entity.FetchStatusSkipped,
			Err:          ErrNoIdentity,
		}
	}

	var (
		appointments []entity.Appointment
		err          error
	)
	if identity.IsDoctor() {
		appointments, err = u.appointmentRepo.FindByDoctorID(ctx, identity.UID)
	} else {
		appointments, err = u.appointmentRepo.FindByPatientID(ctx, identity.UID)
	}
	if err != nil {
		u.log.Errorf("Failed to fetch appointments for uid %s: %+v", identity.UID, err)
		u.metrics.RecordAppointmentFetch(string(identity.Role), string(entity.FetchStatusFailed), 0)
		return &entity.AppointmentList{
			Appointments: []entity.Appointment{},
			Status:       entity.FetchStatusFailed,
			Err:          err,
		}
	}

	scoped := make([]entity.Appointment, 0, len(appointments))
	for _, a := range appointments {
		if inScope(identity, &a) {
			scoped = append(scoped, a)
			continue
		}
		u.log.Warnf("Dropping appointment %s outside the scope of uid %s", a.ID, identity.UID)
	}

	sortAppointments(scoped)

	u.metrics.RecordAppointmentFetch(string(identity.Role), string(entity.FetchStatusOK), len(scoped))
	return &entity.AppointmentList{
		Appointments: scoped,
		Status:       entity.FetchStatusOK,
	}
}

func inScope(identity *entity.User, a *entity.Appointment) bool {
	if identity.IsDoctor() {
		return a.DoctorID == identity.UID
	}
	return a.PatientID == identity.UID
}

// sortAppointments orders by calendar date, then time, then ID.
// Appointments whose date does not parse go last, ordered by the raw string.
func sortAppointments(appointments []entity.Appointment) {
	type keyed struct {
		appointment entity.Appointment
		date        time.Time
		validDate   bool
		clock       string
	}

	items := make([]keyed, len(appointments))
	for i, a := range appointments {
		d, ok := parseAppointmentDate(a.Date)
		items[i] = keyed{appointment: a, date: d, validDate: ok, clock: normalizeClock(a.Time)}
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := &items[i], &items[j]
		switch {
		case a.validDate != b.validDate:
			return a.validDate
		case a.validDate && !a.date.Equal(b.date):
			return a.date.Before(b.date)
		case !a.validDate && a.appointment.Date != b.appointment.Date:
			return a.appointment.Date < b.appointment.Date
		case a.clock != b.clock:
			return a.clock < b.clock
		}
		return a.appointment.ID < b.appointment.ID
	})

	for i := range items {
		appointments[i] = items[i].appointment
	}
}

func parseAppointmentDate(raw string) (time.Time, bool) {
	for _, layout := range appointmentDateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// normalizeClock turns "9:30" into "09:30" so times compare as strings.
// Anything else is returned unchanged.
func normalizeClock(raw string) string {
	for _, layout := range []string{"15:04", "15h04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("15:04")
		}
	}
	return raw
}
