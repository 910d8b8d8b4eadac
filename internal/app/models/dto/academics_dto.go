package dto

// CreateSchoolRequest registers a school with its check-in location.
type CreateSchoolRequest struct {
	Name      string  `json:"name" binding:"required" example:"San Martin School"`
	Address   string  `json:"address" example:"Av. Principal 123"`
	Latitude  float64 `json:"latitude" binding:"required" example:"-12.0464"`
	Longitude float64 `json:"longitude" binding:"required" example:"-77.0428"`
}

// UpdateSchoolRequest changes mutable school fields. Coordinates and the
// check-in token are managed through their own endpoints.
type UpdateSchoolRequest struct {
	Name    *string `json:"name,omitempty" example:"San Martin School"`
	Address *string `json:"address,omitempty" example:"Av. Principal 123"`
}

// RotateTokenResponse returns the freshly issued check-in token.
type RotateTokenResponse struct {
	CheckinToken string `json:"checkinToken" example:"b5c7d9e1f3a5"`
}

// CreateCourseRequest opens a course group in a school.
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required" example:"1st A"`
	Level        string `json:"level" binding:"required" example:"PRIMARY" enums:"INITIAL,PRIMARY,SECONDARY"`
	Section      string `json:"section" example:"A"`
	AcademicYear int    `json:"academicYear" binding:"required" example:"2024"`
	Capacity     int    `json:"capacity" example:"30"`
	SchoolID     int64  `json:"schoolId" binding:"required" example:"1"`
	TutorID      *int64 `json:"tutorId,omitempty" example:"2"`
}

// UpdateCourseRequest changes mutable course fields.
type UpdateCourseRequest struct {
	Name     *string `json:"name,omitempty" example:"1st A"`
	Section  *string `json:"section,omitempty" example:"A"`
	Capacity *int    `json:"capacity,omitempty" example:"30"`
	TutorID  *int64  `json:"tutorId,omitempty" example:"2"`
}

// CreateSubjectRequest adds a subject to a course.
type CreateSubjectRequest struct {
	Name        string `json:"name" binding:"required" example:"Mathematics"`
	CourseID    int64  `json:"courseId" binding:"required" example:"1"`
	TeacherID   *int64 `json:"teacherId,omitempty" example:"3"`
	Description string `json:"description" example:"Arithmetic and geometry"`
	WeeklyHours int    `json:"weeklyHours" example:"5"`
	Code        string `json:"code" example:"MAT1"`
}

// CreateGradeRequest records a grade for a student in a subject period.
type CreateGradeRequest struct {
	StudentID int64   `json:"studentId" binding:"required" example:"4"`
	SubjectID int64   `json:"subjectId" binding:"required" example:"3"`
	Period    string  `json:"period" binding:"required" example:"2024-T1"`
	Value     float64 `json:"value" binding:"required" example:"87.5"`
	Comments  string  `json:"comments" example:"solid exam"`
}

// UpdateGradeRequest changes a grade's value or comments.
type UpdateGradeRequest struct {
	Value    *float64 `json:"value,omitempty" example:"90.0"`
	Comments *string  `json:"comments,omitempty"`
}

// CreateAttendanceRequest records a manual attendance mark.
type CreateAttendanceRequest struct {
	StudentID int64  `json:"studentId" binding:"required" example:"4"`
	Date      string `json:"date" binding:"required" example:"2024-05-20"`
	Present   bool   `json:"present" example:"true"`
	Comments  string `json:"comments" example:"arrived late"`
}

// UpdateAttendanceRequest flips or annotates an attendance mark.
type UpdateAttendanceRequest struct {
	Present  *bool   `json:"present,omitempty" example:"false"`
	Comments *string `json:"comments,omitempty"`
}

// CreateParticipationRequest records a classroom participation score.
type CreateParticipationRequest struct {
	StudentID int64   `json:"studentId" binding:"required" example:"4"`
	SubjectID int64   `json:"subjectId" binding:"required" example:"3"`
	Date      string  `json:"date" binding:"required" example:"2024-05-20"`
	Value     float64 `json:"value" binding:"required" example:"4.5"`
	Kind      string  `json:"kind" binding:"required" example:"oral" enums:"oral,written,group,individual,project"`
	Comments  string  `json:"comments" example:"good argumentation"`
}

// ListFilter carries the optional query filters shared by the record
// listing endpoints. Role scoping is applied before these.
type ListFilter struct {
	StudentID *int64  `form:"studentId" example:"4"`
	SubjectID *int64  `form:"subjectId" example:"3"`
	Period    *string `form:"period" example:"2024-T1"`
	DateFrom  *string `form:"dateFrom" example:"2024-05-01"`
	DateTo    *string `form:"dateTo" example:"2024-05-31"`
	Present   *bool   `form:"present" example:"true"`
}
