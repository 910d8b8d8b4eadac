package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/validation"
)

// GradeService manages grade records with role-based access.
type GradeService struct {
	grades   GradeStore
	students StudentStore
	subjects SubjectStore
	courses  CourseStore
}

func NewGradeService(grades GradeStore, students StudentStore, subjects SubjectStore, courses CourseStore) *GradeService {
	return &GradeService{grades: grades, students: students, subjects: subjects, courses: courses}
}

// canRecordFor checks the write rule shared by grades and participations:
// only an admin or the tutor of the course the subject belongs to may
// record. Teaching the subject without tutoring its course is not enough.
func canRecordFor(ctx context.Context, ident *auth.Identity, subjects SubjectStore, courses CourseStore, subjectID int64) error {
	if ident.Role == models.RoleAdmin {
		return nil
	}
	if ident.TeacherID == nil {
		return apperrors.ErrModifyForbidden
	}
	courseID, err := subjects.CourseID(ctx, subjectID)
	if err != nil {
		return err
	}
	tutorID, err := courses.TutorID(ctx, courseID)
	if err != nil {
		return err
	}
	if tutorID == nil || *tutorID != *ident.TeacherID {
		return apperrors.New(apperrors.ErrModifyForbidden,
			"only the course tutor may record for this subject")
	}
	return nil
}

// Create records a grade after validating the value and write permission.
func (s *GradeService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateGradeRequest) (*models.Grade, error) {
	if err := validation.GradeValue(req.Value); err != nil {
		return nil, err
	}
	if err := validation.Period(req.Period); err != nil {
		return nil, err
	}
	if err := canRecordFor(ctx, ident, s.subjects, s.courses, req.SubjectID); err != nil {
		return nil, err
	}

	grade := &models.Grade{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Period:    req.Period,
		Value:     req.Value,
		Comments:  req.Comments,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, err
	}
	log.Info().Int64("gradeId", grade.ID).Int64("studentId", grade.StudentID).
		Str("period", grade.Period).Msg("Grade recorded")
	return grade, nil
}

// Get fetches a grade, subject to object-level visibility.
func (s *GradeService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Grade, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	own, err := s.students.Ownership(ctx, grade.StudentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}
	return grade, nil
}

// List returns the grades the caller's role can see, narrowed by the
// optional filters.
func (s *GradeService) List(ctx context.Context, ident *auth.Identity, filter repositories.GradeFilter) ([]*models.Grade, error) {
	if filter.Period != nil {
		if err := validation.Period(*filter.Period); err != nil {
			return nil, err
		}
	}
	return s.grades.List(ctx, auth.ScopeFor(ident), filter)
}

// Update changes a grade's value or comments under the same write rule
// as creation.
func (s *GradeService) Update(ctx context.Context, ident *auth.Identity, id int64, req dto.UpdateGradeRequest) (*models.Grade, error) {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := canRecordFor(ctx, ident, s.subjects, s.courses, grade.SubjectID); err != nil {
		return nil, err
	}
	if req.Value != nil {
		if err := validation.GradeValue(*req.Value); err != nil {
			return nil, err
		}
		grade.Value = *req.Value
	}
	if req.Comments != nil {
		grade.Comments = *req.Comments
	}
	if err := s.grades.Update(ctx, grade); err != nil {
		return nil, err
	}
	return grade, nil
}

// Delete removes a grade under the same write rule as creation.
func (s *GradeService) Delete(ctx context.Context, ident *auth.Identity, id int64) error {
	grade, err := s.grades.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canRecordFor(ctx, ident, s.subjects, s.courses, grade.SubjectID); err != nil {
		return err
	}
	return s.grades.Delete(ctx, id)
}
