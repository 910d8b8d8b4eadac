package models

import "time"

// Grade defines a grade record based on the 'grades' table.
// (student, subject, period) is unique: one grade per subject per period.
// Period is an opaque label such as "2024-T1"; ordering between periods
// is plain string comparison.
type Grade struct {
	ID         int64     `json:"id" db:"id" example:"21"`
	StudentID  int64     `json:"studentId" db:"student_id" example:"4"`
	SubjectID  int64     `json:"subjectId" db:"subject_id" example:"3"`
	Period     string    `json:"period" db:"period" example:"2024-T1"`
	Value      float64   `json:"value" db:"value" example:"87.5"`
	Comments   string    `json:"comments,omitempty" db:"comments"`
	RecordedAt time.Time `json:"recordedAt" db:"recorded_at"`

	// Relations (populated when needed)
	StudentName string `json:"studentName,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
}

// Grade value bounds.
const (
	GradeMin = 0.0
	GradeMax = 100.0
)
