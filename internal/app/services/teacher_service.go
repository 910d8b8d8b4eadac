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

// TeacherService manages teacher profiles.
type TeacherService struct {
	teachers TeacherStore
	users    UserStore
	tx       Transactor
}

func NewTeacherService(teachers TeacherStore, users UserStore, tx Transactor) *TeacherService {
	return &TeacherService{teachers: teachers, users: users, tx: tx}
}

// Create registers a teacher and its user account atomically. Admin only.
func (s *TeacherService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateTeacherRequest) (*models.Teacher, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.User.Password)
	if err != nil {
		return nil, err
	}

	teacher := &models.Teacher{
		Phone:           req.Phone,
		Specialty:       req.Specialty,
		AcademicDegree:  req.AcademicDegree,
		YearsExperience: req.YearsExperience,
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
		teacher.UserID = user.ID
		teacher.User = user
		return s.teachers.CreateTx(ctx, tx, teacher)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("teacherId", teacher.ID).Str("username", req.User.Username).Msg("Teacher created")
	return teacher, nil
}

// Get fetches a teacher. Admins see anyone, a teacher sees themself.
func (s *TeacherService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Teacher, error) {
	if ident.Role != models.RoleAdmin {
		if ident.TeacherID == nil || *ident.TeacherID != id {
			return nil, apperrors.ErrPermissionDenied
		}
	}
	return s.teachers.GetByID(ctx, id)
}

// List returns every teacher. Admin only.
func (s *TeacherService) List(ctx context.Context, ident *auth.Identity) ([]*models.Teacher, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.teachers.List(ctx)
}
