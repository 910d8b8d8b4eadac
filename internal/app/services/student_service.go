package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	pkgauth "github.com/ncastell/classtrack/internal/pkg/auth"
)

// StudentService manages student profiles.
type StudentService struct {
	students StudentStore
	parents  ParentStore
	users    UserStore
	tx       Transactor
}

func NewStudentService(students StudentStore, parents ParentStore, users UserStore, tx Transactor) *StudentService {
	return &StudentService{students: students, parents: parents, users: users, tx: tx}
}

// Create enrolls a student with its account and optional parent links,
// all atomically. Admin only.
func (s *StudentService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.User.Password)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		CourseID:       req.CourseID,
		Address:        req.Address,
		EmergencyPhone: req.EmergencyPhone,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		user := &models.User{
			Username:     req.User.Username,
			Email:        req.User.Email,
			PasswordHash: hash,
			FirstName:    req.User.FirstName,
			LastName:     req.User.LastName,
		}
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		student.UserID = user.ID
		student.User = user
		return s.students.CreateTx(ctx, tx, student)
	})
	if err != nil {
		return nil, err
	}

	for _, parentID := range req.ParentIDs {
		if err := s.parents.LinkChild(ctx, parentID, student.ID); err != nil {
			return nil, err
		}
	}
	student.ParentIDs = req.ParentIDs

	log.Info().Int64("studentId", student.ID).Int64("courseId", student.CourseID).Msg("Student enrolled")
	return student, nil
}

// Get fetches a student, subject to object-level visibility: the admin,
// the student themself, their course tutor or a linked parent.
func (s *StudentService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Student, error) {
	own, err := s.students.Ownership(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}
	return s.students.GetByID(ctx, id)
}

// List returns the students the caller's role can see, optionally
// narrowed to one course.
func (s *StudentService) List(ctx context.Context, ident *auth.Identity, courseID *int64) ([]*models.Student, error) {
	return s.students.List(ctx, auth.ScopeFor(ident), courseID)
}
