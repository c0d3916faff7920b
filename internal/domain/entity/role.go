package entity

// Role is the kind of account a user signed up with.
// It is fixed at signup and never changed by this client.
type Role string

// Role constants, as stored in the users collection
const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "medecin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor:
		return true
	}
	return false
}

// Label returns the display label shown next to the account
func (r Role) Label() string {
	if r == RoleDoctor {
		return "Médecin"
	}
	return "Patient"
}
