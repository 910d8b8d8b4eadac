package models

// Subject defines a subject taught within a course, based on the
// 'subjects' table. (name, course) is unique. TeacherID may differ from
// the course tutor; only the tutor may write grades and participations.
type Subject struct {
	ID          int64  `json:"id" db:"id" example:"3"`
	Name        string `json:"name" db:"name" example:"Mathematics"`
	CourseID    int64  `json:"courseId" db:"course_id" example:"1"`
	TeacherID   *int64 `json:"teacherId,omitempty" db:"teacher_id"`
	Description string `json:"description,omitempty" db:"description"`
	WeeklyHours int    `json:"weeklyHours" db:"weekly_hours" example:"4"`
	Code        string `json:"code,omitempty" db:"code" example:"MAT1"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}
