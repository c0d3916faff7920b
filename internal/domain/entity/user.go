package entity

// User is the signed-in identity: the backend principal merged with its
// users/<uid> profile document.
type User struct {
	UID       string `mapstructure:"uid" json:"uid"`
	Email     string `mapstructure:"email" json:"email"`
	FirstName string `mapstructure:"firstName" json:"firstName"`
	LastName  string `mapstructure:"lastName" json:"lastName"`
	Username  string `mapstructure:"username" json:"username"`
	Role      Role   `mapstructure:"role" json:"role"`
}

// SignupProfile holds the profile fields entered on the signup form
type SignupProfile struct {
	FirstName string
	LastName  string
	Username  string
}

// IsDoctor checks if the user signed up as a doctor
func (u *User) IsDoctor() bool {
	return u != nil && u.Role == RoleDoctor
}

// IsPatient checks if the user signed up as a patient
func (u *User) IsPatient() bool {
	return u != nil && u.Role == RolePatient
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	if u.FirstName == "" {
		return u.LastName
	}
	return u.FirstName + " " + u.LastName
}

// Clone returns a copy that callers may keep without sharing state
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
