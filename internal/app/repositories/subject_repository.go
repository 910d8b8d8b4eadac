package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/dberrors"
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// SubjectRepository manages the subjects taught in a course.
type SubjectRepository struct {
	db *db.PostgresDB
}

func NewSubjectRepository(database *db.PostgresDB) *SubjectRepository {
	return &SubjectRepository{db: database}
}

const subjectColumns = `id, name, course_id, teacher_id, description, weekly_hours, code`

func scanSubject(row pgx.Row) (*models.Subject, error) {
	var s models.Subject
	var teacherID sql.NullInt64
	var description, code sql.NullString
	err := row.Scan(&s.ID, &s.Name, &s.CourseID, &teacherID, &description, &s.WeeklyHours, &code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan subject: %w", err)
	}
	s.TeacherID = helpers.Int64PtrOrNil(teacherID)
	s.Description = helpers.StringOrEmpty(description)
	s.Code = helpers.StringOrEmpty(code)
	return &s, nil
}

// Create inserts a subject.
func (r *SubjectRepository) Create(ctx context.Context, subject *models.Subject) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO subjects (name, course_id, teacher_id, description, weekly_hours, code)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		subject.Name, subject.CourseID, helpers.NullInt64Ptr(subject.TeacherID),
		helpers.NullString(subject.Description), subject.WeeklyHours, helpers.NullString(subject.Code),
	).Scan(&subject.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists,
				"subject with this name already exists in the course")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "course or teacher does not exist")
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}
	return nil
}

// GetByID fetches a subject by primary key.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE id = $1`, id)
	return scanSubject(row)
}

// ListByCourse returns the subjects of one course ordered by name.
func (r *SubjectRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+subjectColumns+` FROM subjects WHERE course_id = $1 ORDER BY name`, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	subjects := []*models.Subject{}
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// CourseID resolves the course a subject belongs to.
func (r *SubjectRepository) CourseID(ctx context.Context, subjectID int64) (int64, error) {
	var courseID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT course_id FROM subjects WHERE id = $1`, subjectID).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrResourceNotFound
		}
		return 0, fmt.Errorf("failed to resolve subject course: %w", err)
	}
	return courseID, nil
}
