package models

import "time"

// User defines a login account based on the 'users' table. Role is not
// stored here; it is derived from the teacher/student/parent tables.
type User struct {
	ID           int64     `json:"id" db:"id" example:"1"`
	Username     string    `json:"username" db:"username" example:"mgarcia"`
	Email        string    `json:"email" db:"email" example:"mgarcia@school.edu"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"firstName" db:"first_name" example:"Maria"`
	LastName     string    `json:"lastName" db:"last_name" example:"Garcia"`
	IsSuperuser  bool      `json:"isSuperuser" db:"is_superuser"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// FullName returns the display name for the user.
func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
