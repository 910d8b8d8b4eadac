package models

// Course defines a course section based on the 'courses' table.
// (name, school) is unique. TutorID is the teacher administratively
// responsible for the section, distinct from subject teachers.
type Course struct {
	ID           int64       `json:"id" db:"id" example:"1"`
	Name         string      `json:"name" db:"name" example:"1st A"`
	Level        CourseLevel `json:"level" db:"level" example:"PRIMARY"`
	Section      string      `json:"section" db:"section" example:"A"`
	AcademicYear int         `json:"academicYear" db:"academic_year" example:"2024"`
	Capacity     int         `json:"capacity" db:"capacity" example:"30"`
	SchoolID     int64       `json:"schoolId" db:"school_id" example:"1"`
	TutorID      *int64      `json:"tutorId,omitempty" db:"tutor_id"`

	// Relations (populated when needed)
	School       *School `json:"school,omitempty"`
	Tutor        *Teacher `json:"tutor,omitempty"`
	StudentCount int      `json:"studentCount,omitempty"`
}
