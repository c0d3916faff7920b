package entity

// AppointmentStatus is the status stored on an appointment document.
// Values other than the constants below are kept as-is.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment is a read-only appointment record
type Appointment struct {
	ID          string            `mapstructure:"-" json:"id"`
	DoctorID    string            `mapstructure:"doctorId" json:"doctorId"`
	PatientID   string            `mapstructure:"patientId" json:"patientId"`
	DoctorName  string            `mapstructure:"doctorName" json:"doctorName,omitempty"`
	PatientName string            `mapstructure:"patientName" json:"patientName,omitempty"`
	Speciality  string            `mapstructure:"speciality" json:"speciality,omitempty"`
	Date        string            `mapstructure:"date" json:"date"`
	Time        string            `mapstructure:"time" json:"time"`
	Status      AppointmentStatus `mapstructure:"status" json:"status"`
}

// IsPending checks if appointment is in pending status
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsConfirmed checks if appointment is confirmed
func (a *Appointment) IsConfirmed() bool {
	return a.Status == AppointmentStatusConfirmed
}

// IsCancelled checks if appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}

// FetchStatus tells an empty appointment list apart from a failed read
type FetchStatus string

const (
	FetchStatusOK      FetchStatus = "ok"
	FetchStatusFailed  FetchStatus = "failed"
	FetchStatusSkipped FetchStatus = "skipped"
)

// AppointmentList is the result of one appointment fetch.
// Appointments is never nil; on failure it is empty and Err is set.
type AppointmentList struct {
	Appointments []Appointment
	Status       FetchStatus
	Err          error
}

// Failed reports whether the read behind this list failed
func (l *AppointmentList) Failed() bool {
	return l.Status == FetchStatusFailed
}
