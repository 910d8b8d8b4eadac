package models

import "time"

// Student defines a student profile based on the 'students' table.
// Grade, attendance and participation records are owned by the student
// and cascade-deleted with it; parent links are shared, never cascaded.
type Student struct {
	ID             int64      `json:"id" db:"id" example:"4"`
	UserID         int64      `json:"userId" db:"user_id" example:"9"`
	CourseID       int64      `json:"courseId" db:"course_id" example:"1"`
	BirthDate      *time.Time `json:"birthDate,omitempty" db:"birth_date"`
	Address        string     `json:"address,omitempty" db:"address"`
	EmergencyPhone string     `json:"emergencyPhone,omitempty" db:"emergency_phone"`

	// Relations (populated when needed)
	User      *User   `json:"user,omitempty"`
	Course    *Course `json:"course,omitempty"`
	ParentIDs []int64 `json:"parentIds,omitempty"`
}
