package services

import (
	"context"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
)

// profileDirectory adapts the stores to the lookup interface the role
// resolver needs.
type profileDirectory struct {
	teachers TeacherStore
	students StudentStore
	parents  ParentStore
	courses  CourseStore
}

func (d *profileDirectory) TeacherByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	return d.teachers.GetByUserID(ctx, userID)
}

func (d *profileDirectory) TutorCourseID(ctx context.Context, teacherID int64) (*int64, error) {
	return d.teachers.TutorCourseID(ctx, teacherID)
}

func (d *profileDirectory) StudentByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return d.students.GetByUserID(ctx, userID)
}

func (d *profileDirectory) SchoolIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	return d.courses.SchoolIDForCourse(ctx, courseID)
}

func (d *profileDirectory) ParentByUserID(ctx context.Context, userID int64) (*models.Parent, error) {
	return d.parents.GetByUserID(ctx, userID)
}

// IdentityService resolves user accounts into role identities.
type IdentityService struct {
	users UserStore
	dir   auth.ProfileDirectory
}

// NewIdentityService wires the role resolver over the stores.
func NewIdentityService(users UserStore, teachers TeacherStore, students StudentStore, parents ParentStore, courses CourseStore) *IdentityService {
	return &IdentityService{
		users: users,
		dir: &profileDirectory{
			teachers: teachers,
			students: students,
			parents:  parents,
			courses:  courses,
		},
	}
}

// Resolve loads the user and maps it to its role identity.
func (s *IdentityService) Resolve(ctx context.Context, userID int64) (*auth.Identity, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return auth.Resolve(ctx, user, s.dir)
}
