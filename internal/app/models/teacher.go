package models

import "time"

// Teacher defines a teacher profile based on the 'teachers' table.
type Teacher struct {
	ID              int64      `json:"id" db:"id" example:"1"`
	UserID          int64      `json:"userId" db:"user_id" example:"5"`
	Phone           string     `json:"phone,omitempty" db:"phone"`
	Specialty       string     `json:"specialty,omitempty" db:"specialty" example:"Mathematics"`
	AcademicDegree  string     `json:"academicDegree,omitempty" db:"academic_degree" example:"Licentiate"`
	YearsExperience int        `json:"yearsExperience" db:"years_experience" example:"8"`
	HiredOn         *time.Time `json:"hiredOn,omitempty" db:"hired_on"`

	// Relations (populated when needed)
	User *User `json:"user,omitempty"`
}
