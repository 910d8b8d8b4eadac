package models

import "time"

// Participation defines a classroom participation record based on the
// 'participations' table. Value is on a 0..5 scale.
type Participation struct {
	ID        int64             `json:"id" db:"id" example:"54"`
	StudentID int64             `json:"studentId" db:"student_id" example:"4"`
	SubjectID int64             `json:"subjectId" db:"subject_id" example:"3"`
	Date      time.Time         `json:"date" db:"date" example:"2024-11-05T00:00:00Z"`
	Value     float64           `json:"value" db:"value" example:"4.5"`
	Kind      ParticipationKind `json:"kind" db:"kind" example:"oral"`
	Comments  string            `json:"comments,omitempty" db:"comments"`

	// Relations (populated when needed)
	StudentName string `json:"studentName,omitempty"`
	SubjectName string `json:"subjectName,omitempty"`
}

// Participation value bounds.
const (
	ParticipationMin = 0.0
	ParticipationMax = 5.0
)
