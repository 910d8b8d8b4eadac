// Package auth implements role resolution and role-based record scoping
package auth

import (
	"context"

	"github.com/ncastell/classtrack/internal/app/models"
)

// Identity is the resolved role profile behind a user account. At most
// one of the profile IDs is set, matching the resolved role.
type Identity struct {
	UserID   int64
	Username string
	Role     models.RoleType

	TeacherID     *int64
	IsTutor       bool
	TutorCourseID *int64

	StudentID *int64
	CourseID  *int64
	SchoolID  *int64

	ParentID *int64
	ChildIDs []int64
}

// ProfileDirectory looks up the role profiles linked to a user account.
// Lookups return nil without error when no profile exists.
type ProfileDirectory interface {
	TeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	TutorCourseID(ctx context.Context, teacherID int64) (*int64, error)
	StudentByUserID(ctx context.Context, userID int64) (*models.Student, error)
	SchoolIDForCourse(ctx context.Context, courseID int64) (int64, error)
	ParentByUserID(ctx context.Context, userID int64) (*models.Parent, error)
}

// Resolve maps a user account to its role profile. Profiles are probed
// in a fixed order and the first match wins: superuser, then teacher,
// then student, then parent. An account with no profile resolves to the
// unknown role, which sees nothing.
func Resolve(ctx context.Context, user *models.User, dir ProfileDirectory) (*Identity, error) {
	ident := &Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     models.RoleUnknown,
	}

	if user.IsSuperuser {
		ident.Role = models.RoleAdmin
		return ident, nil
	}

	teacher, err := dir.TeacherByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if teacher != nil {
		ident.Role = models.RoleTeacher
		ident.TeacherID = &teacher.ID
		courseID, err := dir.TutorCourseID(ctx, teacher.ID)
		if err != nil {
			return nil, err
		}
		if courseID != nil {
			ident.IsTutor = true
			ident.TutorCourseID = courseID
		}
		return ident, nil
	}

	student, err := dir.StudentByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if student != nil {
		ident.Role = models.RoleStudent
		ident.StudentID = &student.ID
		ident.CourseID = &student.CourseID
		schoolID, err := dir.SchoolIDForCourse(ctx, student.CourseID)
		if err != nil {
			return nil, err
		}
		ident.SchoolID = &schoolID
		return ident, nil
	}

	parent, err := dir.ParentByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		ident.Role = models.RoleParent
		ident.ParentID = &parent.ID
		ident.ChildIDs = parent.ChildIDs
		return ident, nil
	}

	return ident, nil
}
