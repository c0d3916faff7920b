package usecase

import (
	"context"
	"errors"
	"testing"

	"docapp/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dates(list *entity.AppointmentList) []string {
	out := make([]string, len(list.Appointments))
	for i, a := range list.Appointments {
		out[i] = a.Date
	}
	return out
}

func ids(list *entity.AppointmentList) []string {
	out := make([]string, len(list.Appointments))
	for i, a := range list.Appointments {
		out[i] = a.ID
	}
	return out
}

func TestFetchAppointments_PatientScope(t *testing.T) {
	var queried string
	repo := &mockAppointmentRepo{
		byPatientFn: func(ctx context.Context, id string) ([]entity.Appointment, error) {
			queried = id
			return []entity.Appointment{
				{ID: "a1", PatientID: "u1", DoctorID: "d1", Date: "2024-11-18"},
				{ID: "a2", PatientID: "someone-else", DoctorID: "d1", Date: "2024-11-01"},
			}, nil
		},
		byDoctorFn: func(ctx context.Context, id string) ([]entity.Appointment, error) {
			t.Fatal("doctor scope must not be used for a patient")
			return nil, nil
		},
	}
	uc := NewAppointmentUsecase(testLogger(), repo, nil)

	list := uc.FetchAppointments(context.Background(), jane)

	assert.Equal(t, "u1", queried)
	assert.Equal(t, entity.FetchStatusOK, list.Status)
	assert.Equal(t, []string{"a1"}, ids(list))
	for _, a := range list.Appointments {
		assert.Equal(t, "u1", a.PatientID)
	}
}

func TestFetchAppointments_DoctorScope(t *testing.T) {
	doctor := &entity.User{UID: "d1", Role: entity.RoleDoctor}
	repo := &mockAppointmentRepo{
		byDoctorFn: func(ctx context.Context, id string) ([]entity.Appointment, error) {
			return []entity.Appointment{
				{ID: "a1", PatientID: "p1", DoctorID: "d1", Date: "2024-11-18"},
				{ID: "a2", PatientID: "p2", DoctorID: "d2", Date: "2024-11-01"},
			}, nil
		},
	}
	uc := NewAppointmentUsecase(testLogger(), repo, nil)

	list := uc.FetchAppointments(context.Background(), doctor)

	require.Len(t, list.Appointments, 1)
	assert.Equal(t, "d1", list.Appointments[0].DoctorID)
}

func TestFetchAppointments_SortsByDate(t *testing.T) {
	repo := &mockAppointmentRepo{
		byPatientFn: func(ctx context.Context, id string) ([]entity.Appointment, error) {
			return []entity.Appointment{
				{ID: "a1", PatientID: "u1", Date: "2024-11-18"},
				{ID: "a2", PatientID: "u1", Date: "2024-11-05"},
			}, nil
		},
	}
	uc := NewAppointmentUsecase(testLogger(), repo, nil)

	list := uc.FetchAppointments(context.Background(), jane)

	assert.Equal(t, []string{"2024-11-05", "2024-11-18"}, dates(list))
}

func TestFetchAppointments_ReadFailureYieldsEmptyFailedList(t *testing.T) {
	readErr := errors.New("unavailable")
	repo := &mockAppointmentRepo{
		byPatientFn: func(ctx context.Context, id string) ([]entity.Appointment, error) {
			return nil, readErr
		},
	}
	uc := NewAppointmentUsecase(testLogger(), repo, nil)

	list := uc.FetchAppointments(context.Background(), jane)

	require.NotNil(t, list.Appointments)
	assert.Empty(t, list.Appointments)
	assert.True(t, list.Failed())
	assert.ErrorIs(t, list.Err, readErr)
}

func TestFetchAppointments_EmptyIsOK(t *testing.T) {
	uc := NewAppointmentUsecase(testLogger(), &mockAppointmentRepo{}, nil)

	list := uc.FetchAppointments(context.Background(), jane)

	assert.Empty(t, list.Appointments)
	assert.Equal(t, entity.FetchStatusOK, list.Status)
	assert.NoError(t, list.Err)
}

func TestFetchAppointments_NoIdentitySkipsRead(t *testing.T) {
	repo := &mockAppointmentRepo{}
	uc := NewAppointmentUsecase(testLogger(), repo, nil)

	list := uc.FetchAppointments(context.Background(), nil)

	assert.Equal(t, entity.FetchStatusSkipped, list.Status)
	assert.ErrorIs(t, list.Err, ErrNoIdentity)
	assert.Equal(t, 0, repo.calls)
}

func TestSortAppointments(t *testing.T) {
	tests := []struct {
		name string
		in   []entity.Appointment
		want []string
	}{
		{
			name: "ties on date broken by time then id",
			in: []entity.Appointment{
				{ID: "c", Date: "2024-11-05", Time: "14:00"},
				{ID: "b", Date: "2024-11-05", Time: "9:30"},
				{ID: "a", Date: "2024-11-05", Time: "14:00"},
			},
			want: []string{"b", "a", "c"},
		},
		{
			name: "unparsable dates go last",
			in: []entity.Appointment{
				{ID: "x", Date: "someday"},
				{ID: "y", Date: "2025-01-01"},
				{ID: "z", Date: ""},
				{ID: "w", Date: "2024-12-31"},
			},
			want: []string{"w", "y", "z", "x"},
		},
		{
			name: "mixed layouts compare by calendar date",
			in: []entity.Appointment{
				{ID: "a", Date: "2024-11-18T08:00:00Z"},
				{ID: "b", Date: "05/11/2024"},
				{ID: "c", Date: "2024-11-10"},
			},
			want: []string{"b", "c", "a"},
		},
		{
			name: "slash dates are day first",
			in: []entity.Appointment{
				{ID: "june", Date: "2024-06-01"},
				{ID: "may", Date: "11/05/2024"},
			},
			want: []string{"may", "june"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sortAppointments(tt.in)
			got := make([]string, len(tt.in))
			for i, a := range tt.in {
				got[i] = a.ID
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "09:30", normalizeClock("9:30"))
	assert.Equal(t, "14:00", normalizeClock("14h00"))
	assert.Equal(t, "morning", normalizeClock("morning"))
}
