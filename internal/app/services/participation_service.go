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

// ParticipationService manages participation records with role-based
// access.
type ParticipationService struct {
	participations ParticipationStore
	students       StudentStore
	subjects       SubjectStore
	courses        CourseStore
}

func NewParticipationService(participations ParticipationStore, students StudentStore, subjects SubjectStore, courses CourseStore) *ParticipationService {
	return &ParticipationService{participations: participations, students: students, subjects: subjects, courses: courses}
}

// Create records a participation score under the shared write rule:
// admin or the tutor of the subject's course.
func (s *ParticipationService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateParticipationRequest) (*models.Participation, error) {
	if err := validation.ParticipationValue(req.Value); err != nil {
		return nil, err
	}
	if err := validation.ParticipationKind(req.Kind); err != nil {
		return nil, err
	}
	date, err := validation.Date(req.Date)
	if err != nil {
		return nil, err
	}
	if err := canRecordFor(ctx, ident, s.subjects, s.courses, req.SubjectID); err != nil {
		return nil, err
	}

	part := &models.Participation{
		StudentID: req.StudentID,
		SubjectID: req.SubjectID,
		Date:      date,
		Value:     req.Value,
		Kind:      models.ParticipationKind(req.Kind),
		Comments:  req.Comments,
	}
	if err := s.participations.Create(ctx, part); err != nil {
		return nil, err
	}
	log.Info().Int64("participationId", part.ID).Int64("studentId", part.StudentID).Msg("Participation recorded")
	return part, nil
}

// Get fetches a participation record, subject to object-level visibility.
func (s *ParticipationService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Participation, error) {
	part, err := s.participations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	own, err := s.students.Ownership(ctx, part.StudentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}
	return part, nil
}

// List returns the records the caller's role can see, narrowed by the
// optional filters.
func (s *ParticipationService) List(ctx context.Context, ident *auth.Identity, filter repositories.ParticipationFilter) ([]*models.Participation, error) {
	return s.participations.List(ctx, auth.ScopeFor(ident), filter)
}

// Delete removes a participation record under the shared write rule.
func (s *ParticipationService) Delete(ctx context.Context, ident *auth.Identity, id int64) error {
	part, err := s.participations.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := canRecordFor(ctx, ident, s.subjects, s.courses, part.SubjectID); err != nil {
		return err
	}
	return s.participations.Delete(ctx, id)
}
