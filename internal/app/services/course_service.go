package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/validation"
)

// CourseService manages courses and their subjects.
type CourseService struct {
	courses  CourseStore
	subjects SubjectStore
}

func NewCourseService(courses CourseStore, subjects SubjectStore) *CourseService {
	return &CourseService{courses: courses, subjects: subjects}
}

// Create opens a course group. Admin only.
func (s *CourseService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateCourseRequest) (*models.Course, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	if err := validation.CourseLevel(req.Level); err != nil {
		return nil, err
	}
	course := &models.Course{
		Name:         req.Name,
		Level:        models.CourseLevel(req.Level),
		Section:      req.Section,
		AcademicYear: req.AcademicYear,
		Capacity:     req.Capacity,
		SchoolID:     req.SchoolID,
		TutorID:      req.TutorID,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, err
	}
	log.Info().Int64("courseId", course.ID).Str("name", course.Name).Msg("Course created")
	return course, nil
}

// Get fetches a course with its school and student count. The course
// must be within the caller's scope: tutors see their own courses,
// students their enrollment, parents their children's courses.
func (s *CourseService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Course, error) {
	return s.courses.GetVisible(ctx, auth.ScopeFor(ident), id)
}

// List returns the courses the caller's role reaches, optionally
// limited to one school.
func (s *CourseService) List(ctx context.Context, ident *auth.Identity, schoolID *int64) ([]*models.Course, error) {
	return s.courses.List(ctx, auth.ScopeFor(ident), schoolID)
}

// Update changes mutable course fields, including the tutor assignment.
// Admin only.
func (s *CourseService) Update(ctx context.Context, ident *auth.Identity, id int64, req dto.UpdateCourseRequest) (*models.Course, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	course, err := s.courses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Section != nil {
		course.Section = *req.Section
	}
	if req.Capacity != nil {
		course.Capacity = *req.Capacity
	}
	if req.TutorID != nil {
		course.TutorID = req.TutorID
	}
	if err := s.courses.Update(ctx, course); err != nil {
		return nil, err
	}
	return course, nil
}

// Subjects returns the subjects taught in a course the caller can see.
func (s *CourseService) Subjects(ctx context.Context, ident *auth.Identity, courseID int64) ([]*models.Subject, error) {
	if _, err := s.courses.GetVisible(ctx, auth.ScopeFor(ident), courseID); err != nil {
		return nil, err
	}
	return s.subjects.ListByCourse(ctx, courseID)
}

// CreateSubject adds a subject to a course. Admin only.
func (s *CourseService) CreateSubject(ctx context.Context, ident *auth.Identity, req dto.CreateSubjectRequest) (*models.Subject, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	subject := &models.Subject{
		Name:        req.Name,
		CourseID:    req.CourseID,
		TeacherID:   req.TeacherID,
		Description: req.Description,
		WeeklyHours: req.WeeklyHours,
		Code:        req.Code,
	}
	if err := s.subjects.Create(ctx, subject); err != nil {
		return nil, err
	}
	log.Info().Int64("subjectId", subject.ID).Int64("courseId", subject.CourseID).Msg("Subject created")
	return subject, nil
}
