package dto

type AppointmentResponse struct {
	ID          string `json:"id"`
	DoctorID    string `json:"doctorId"`
	PatientID   string `json:"patientId"`
	DoctorName  string `json:"doctorName,omitempty"`
	PatientName string `json:"patientName,omitempty"`
	Speciality  string `json:"speciality,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Status      string `json:"status"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	// Status is ok, failed or skipped; failed lists are empty, not missing
	Status string `json:"status"`
}
