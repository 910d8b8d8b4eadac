package models

import "time"

// Attendance defines a daily attendance record based on the 'attendance'
// table. (student, date) is unique: at most one record per student per day.
type Attendance struct {
	ID          int64      `json:"id" db:"id" example:"33"`
	StudentID   int64      `json:"studentId" db:"student_id" example:"4"`
	Date        time.Time  `json:"date" db:"date" example:"2024-11-05T00:00:00Z"`
	Present     bool       `json:"present" db:"present"`
	ViaQR       bool       `json:"viaQr" db:"via_qr"`
	ArrivalTime *time.Time `json:"arrivalTime,omitempty" db:"arrival_time"`
	Comments    string     `json:"comments,omitempty" db:"comments"`

	// Relations (populated when needed)
	StudentName string `json:"studentName,omitempty"`
}

// CheckInOutcome describes what the idempotent check-in upsert did to
// the (student, date) row.
type CheckInOutcome int

const (
	// CheckInInserted means no record existed and a present one was created.
	CheckInInserted CheckInOutcome = iota
	// CheckInFlipped means an absent record existed and was marked present.
	CheckInFlipped
	// CheckInDuplicate means a present record already existed; nothing changed.
	CheckInDuplicate
)
