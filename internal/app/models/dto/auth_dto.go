package dto

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"mgarcia"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest carries a refresh token exchange.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries the issued token pair plus the resolved user.
type TokenResponse struct {
	AccessToken      string    `json:"accessToken"`
	RefreshToken     string    `json:"refreshToken"`
	ExpiresIn        int       `json:"expiresIn" example:"3600"`
	RefreshExpiresIn int       `json:"refreshExpiresIn" example:"2592000"`
	User             *UserInfo `json:"user,omitempty"`
}

// UserInfo mirrors the login payload of the original system: the account
// plus its resolved role descriptor so clients can route immediately.
type UserInfo struct {
	ID        int64  `json:"id" example:"1"`
	Username  string `json:"username" example:"mgarcia"`
	FirstName string `json:"firstName" example:"Maria"`
	LastName  string `json:"lastName" example:"Garcia"`
	Email     string `json:"email" example:"mgarcia@school.edu"`
	Role      string `json:"role" example:"TEACHER"`
	RoleID    int64  `json:"roleId,omitempty" example:"3"`
	// Teacher extras
	IsTutor       bool  `json:"isTutor,omitempty"`
	TutorCourseID int64 `json:"tutorCourseId,omitempty"`
	// Student extras
	CourseID int64 `json:"courseId,omitempty"`
	// Parent extras
	ChildIDs []int64 `json:"childIds,omitempty"`
}
