package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/dberrors"
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// CourseRepository manages course groups.
type CourseRepository struct {
	db *db.PostgresDB
}

func NewCourseRepository(database *db.PostgresDB) *CourseRepository {
	return &CourseRepository{db: database}
}

const courseSelect = `
	SELECT c.id, c.name, c.level, c.section, c.academic_year, c.capacity,
	       c.school_id, c.tutor_id, s.name,
	       (SELECT COUNT(*) FROM students st WHERE st.course_id = c.id)
	FROM courses c
	JOIN schools s ON s.id = c.school_id`

func scanCourse(row pgx.Row) (*models.Course, error) {
	var c models.Course
	var tutorID sql.NullInt64
	var schoolName string
	err := row.Scan(&c.ID, &c.Name, &c.Level, &c.Section, &c.AcademicYear, &c.Capacity,
		&c.SchoolID, &tutorID, &schoolName, &c.StudentCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan course: %w", err)
	}
	c.TutorID = helpers.Int64PtrOrNil(tutorID)
	c.School = &models.School{ID: c.SchoolID, Name: schoolName}
	return &c, nil
}

// Create inserts a course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO courses (name, level, section, academic_year, capacity, school_id, tutor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		course.Name, course.Level, course.Section, course.AcademicYear,
		course.Capacity, course.SchoolID, helpers.NullInt64Ptr(course.TutorID),
	).Scan(&course.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists,
				"course with this name already exists for the school")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "school or tutor does not exist")
		}
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

// GetByID fetches a course with its school and student count.
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	row := r.db.Pool.QueryRow(ctx, courseSelect+` WHERE c.id = $1`, id)
	return scanCourse(row)
}

// GetVisible fetches a course only when the scope reaches it. Courses
// outside the caller's scope are indistinguishable from missing ones.
func (r *CourseRepository) GetVisible(ctx context.Context, scope auth.Scope, id int64) (*models.Course, error) {
	cs := &conditionSet{}
	cs.add("c.id = %s", id)
	cs.addCourseScope(scope, "c.id", "c.tutor_id")
	row := r.db.Pool.QueryRow(ctx, courseSelect+cs.where(), cs.args...)
	return scanCourse(row)
}

// List returns the courses the scope reaches, optionally limited to one
// school.
func (r *CourseRepository) List(ctx context.Context, scope auth.Scope, schoolID *int64) ([]*models.Course, error) {
	cs := &conditionSet{}
	cs.addCourseScope(scope, "c.id", "c.tutor_id")
	if schoolID != nil {
		cs.add("c.school_id = %s", *schoolID)
	}
	rows, err := r.db.Pool.Query(ctx, courseSelect+cs.where()+` ORDER BY c.academic_year DESC, c.name`, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	defer rows.Close()

	courses := []*models.Course{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// Update changes mutable course fields.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE courses SET name = $1, section = $2, capacity = $3, tutor_id = $4
		WHERE id = $5`,
		course.Name, course.Section, course.Capacity, helpers.NullInt64Ptr(course.TutorID), course.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "tutor does not exist")
		}
		return fmt.Errorf("failed to update course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// SchoolIDForCourse resolves the owning school of a course.
func (r *CourseRepository) SchoolIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	var schoolID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT school_id FROM courses WHERE id = $1`, courseID).Scan(&schoolID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("failed to resolve course school: %w", err)
	}
	return schoolID, nil
}

// TutorID returns the tutor of a course, or nil when unassigned.
func (r *CourseRepository) TutorID(ctx context.Context, courseID int64) (*int64, error) {
	var tutorID sql.NullInt64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT tutor_id FROM courses WHERE id = $1`, courseID).Scan(&tutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to resolve course tutor: %w", err)
	}
	return helpers.Int64PtrOrNil(tutorID), nil
}
