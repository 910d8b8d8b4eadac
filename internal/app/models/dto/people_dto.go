package dto

// CreateUserRequest carries the account fields for profile creation.
type CreateUserRequest struct {
	Username  string `json:"username" binding:"required" example:"jperez"`
	Email     string `json:"email" binding:"required,email" example:"jperez@school.edu"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required" example:"Juan"`
	LastName  string `json:"lastName" binding:"required" example:"Perez"`
}

// CreateTeacherRequest creates a teacher together with its account.
type CreateTeacherRequest struct {
	User            CreateUserRequest `json:"user" binding:"required"`
	Phone           string            `json:"phone"`
	Specialty       string            `json:"specialty"`
	AcademicDegree  string            `json:"academicDegree"`
	YearsExperience int               `json:"yearsExperience"`
}

// CreateStudentRequest creates a student together with its account.
type CreateStudentRequest struct {
	User           CreateUserRequest `json:"user" binding:"required"`
	CourseID       int64             `json:"courseId" binding:"required"`
	ParentIDs      []int64           `json:"parentIds"`
	Address        string            `json:"address"`
	EmergencyPhone string            `json:"emergencyPhone"`
}

// CreateParentRequest creates a parent together with its account.
type CreateParentRequest struct {
	User       CreateUserRequest `json:"user" binding:"required"`
	Phone      string            `json:"phone"`
	Address    string            `json:"address"`
	Occupation string            `json:"occupation"`
}

// PersonListItem is the compact list form used by teacher/student lists.
type PersonListItem struct {
	ID       int64  `json:"id" example:"4"`
	FullName string `json:"fullName" example:"Juan Perez"`
	Username string `json:"username" example:"jperez"`
	// CourseName is only populated for students.
	CourseName string `json:"courseName,omitempty" example:"1st A"`
}
