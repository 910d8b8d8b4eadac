package dto

import "time"

// Alert is a structured warning raised from a student's recent numbers.
type Alert struct {
	Kind    string `json:"kind" example:"attendance" enums:"attendance,academic,trend"`
	Level   string `json:"level" example:"warning" enums:"warning,danger"`
	Message string `json:"message" example:"low attendance: 72%"`
	Icon    string `json:"icon" example:"calendar-x"`
}

// ChildSummary is one child's card on the parent dashboard.
type ChildSummary struct {
	StudentID  int64  `json:"studentId" example:"4"`
	FullName   string `json:"fullName" example:"Ana Perez"`
	CourseName string `json:"courseName" example:"1st A"`
	Level      string `json:"level" example:"PRIMARY"`

	PeriodAverage   *float64 `json:"periodAverage" example:"81.5"`
	PreviousAverage *float64 `json:"previousAverage" example:"78.0"`
	Trend           string   `json:"trend" example:"stable" enums:"improving,stable,worsening,neutral"`

	AttendancePercent float64 `json:"attendancePercent" example:"93.3"`
	AbsentDays        int     `json:"absentDays" example:"2"`

	ParticipationCount   int      `json:"participationCount" example:"6"`
	ParticipationAverage *float64 `json:"participationAverage" example:"4.1"`

	Alerts         []Alert `json:"alerts"`
	AcademicStatus string  `json:"academicStatus" example:"good" enums:"excellent,good,fair,needs_attention,no_data"`
}

// ParentDashboardResponse aggregates every child of the calling parent.
type ParentDashboardResponse struct {
	Period   string         `json:"period" example:"2024-T2"`
	Children []ChildSummary `json:"children"`
}

// GradeItem is the compact grade form used inside dashboards.
type GradeItem struct {
	ID         int64     `json:"id" example:"21"`
	SubjectID  int64     `json:"subjectId,omitempty" example:"3"`
	Period     string    `json:"period" example:"2024-T1"`
	Value      float64   `json:"value" example:"87.5"`
	Comments   string    `json:"comments,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// ParticipationItem is the compact participation form used inside dashboards.
type ParticipationItem struct {
	ID        int64     `json:"id" example:"54"`
	SubjectID int64     `json:"subjectId,omitempty" example:"3"`
	Date      time.Time `json:"date"`
	Value     float64   `json:"value" example:"4.5"`
	Kind      string    `json:"kind" example:"oral"`
	Comments  string    `json:"comments,omitempty"`
}

// AttendanceItem is the compact attendance form used inside dashboards.
type AttendanceItem struct {
	Date     time.Time `json:"date"`
	Present  bool      `json:"present"`
	ViaQR    bool      `json:"viaQr"`
	Comments string    `json:"comments,omitempty"`
}

// SubjectAverage is a per-subject mean over one period.
type SubjectAverage struct {
	SubjectID   int64   `json:"subjectId" example:"3"`
	SubjectName string  `json:"subjectName" example:"Mathematics"`
	Average     float64 `json:"average" example:"84.3"`
	GradeCount  int     `json:"gradeCount" example:"2"`
}

// PeriodStats summarizes one student's numbers for one period.
type PeriodStats struct {
	OverallAverage     *float64         `json:"overallAverage" example:"81.5"`
	SubjectAverages    []SubjectAverage `json:"subjectAverages"`
	AttendancePercent  float64          `json:"attendancePercent" example:"93.3"`
	PresentDays        int              `json:"presentDays" example:"28"`
	TotalDays          int              `json:"totalDays" example:"30"`
	ParticipationCount int              `json:"participationCount" example:"6"`
}

// SubjectDetail is one subject with the child's records for the period.
type SubjectDetail struct {
	SubjectID      int64               `json:"subjectId" example:"3"`
	Name           string              `json:"name" example:"Mathematics"`
	Grades         []GradeItem         `json:"grades"`
	Participations []ParticipationItem `json:"participations"`
}

// PerformanceAnalysis classifies a child's period numbers.
type PerformanceAnalysis struct {
	AcademicLevel     string           `json:"academicLevel" example:"good" enums:"excellent,good,fair,needs_improvement,no_data"`
	AttendanceLevel   string           `json:"attendanceLevel" example:"excellent" enums:"excellent,good,fair,concerning"`
	TopSubjects       []SubjectAverage `json:"topSubjects"`
	AttentionSubjects []SubjectAverage `json:"attentionSubjects"`
	// PeriodShift compares this period's overall average against the
	// previous one using the looser +-3 cutoff.
	PeriodShift string `json:"periodShift" example:"flat" enums:"up,flat,down,neutral"`
}

// Recommendation is an actionable suggestion derived from the analysis.
type Recommendation struct {
	Kind        string `json:"kind" example:"academic"`
	Priority    string `json:"priority" example:"high" enums:"high,medium,low"`
	Title       string `json:"title" example:"extra study sessions needed"`
	Description string `json:"description"`
	Icon        string `json:"icon" example:"book-open"`
}

// ChildDetailResponse is the full per-child view for a parent.
type ChildDetailResponse struct {
	StudentID        int64               `json:"studentId" example:"4"`
	FullName         string              `json:"fullName" example:"Ana Perez"`
	CourseName       string              `json:"courseName" example:"1st A"`
	Level            string              `json:"level" example:"PRIMARY"`
	Period           string              `json:"period" example:"2024-T2"`
	AvailablePeriods []string            `json:"availablePeriods"`
	Stats            PeriodStats         `json:"stats"`
	Attendance       []AttendanceItem    `json:"attendance"`
	Subjects         []SubjectDetail     `json:"subjects"`
	Analysis         PerformanceAnalysis `json:"analysis"`
	Recommendations  []Recommendation    `json:"recommendations"`
}

// RosterStudent is one student row on the tutor dashboard.
type RosterStudent struct {
	StudentID      int64               `json:"studentId" example:"4"`
	FullName       string              `json:"fullName" example:"Ana Perez"`
	Grades         []GradeItem         `json:"grades"`
	Participations []ParticipationItem `json:"participations"`
}

// CourseInfo is the course header on the tutor dashboard.
type CourseInfo struct {
	ID           int64  `json:"id" example:"1"`
	Name         string `json:"name" example:"1st A"`
	Level        string `json:"level" example:"PRIMARY"`
	AcademicYear int    `json:"academicYear" example:"2024"`
	SchoolName   string `json:"schoolName" example:"San Martin School"`
	StudentCount int    `json:"studentCount" example:"24"`
}

// SubjectInfo is one subject entry on the tutor dashboard.
type SubjectInfo struct {
	ID   int64  `json:"id" example:"3"`
	Name string `json:"name" example:"Mathematics"`
	Code string `json:"code,omitempty" example:"MAT1"`
}

// TeacherDashboardResponse is the tutor's course management view.
type TeacherDashboardResponse struct {
	Course   CourseInfo      `json:"course"`
	Subjects []SubjectInfo   `json:"subjects"`
	Students []RosterStudent `json:"students"`
	Periods  []string        `json:"periods"`
}
