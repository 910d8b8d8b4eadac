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

// GradeFilter narrows a grade listing. All fields are optional.
type GradeFilter struct {
	StudentID *int64
	SubjectID *int64
	Period    *string
}

// GradeRepository manages grade records.
type GradeRepository struct {
	db *db.PostgresDB
}

func NewGradeRepository(database *db.PostgresDB) *GradeRepository {
	return &GradeRepository{db: database}
}

const gradeSelect = `
	SELECT g.id, g.student_id, g.subject_id, g.period, g.value, g.comments, g.recorded_at,
	       u.first_name || ' ' || u.last_name, subj.name
	FROM grades g
	JOIN students st ON st.id = g.student_id
	JOIN users u ON u.id = st.user_id
	JOIN subjects subj ON subj.id = g.subject_id
	JOIN courses c ON c.id = st.course_id`

func scanGrade(row pgx.Row) (*models.Grade, error) {
	var g models.Grade
	var comments sql.NullString
	err := row.Scan(&g.ID, &g.StudentID, &g.SubjectID, &g.Period, &g.Value,
		&comments, &g.RecordedAt, &g.StudentName, &g.SubjectName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan grade: %w", err)
	}
	g.Comments = helpers.StringOrEmpty(comments)
	return &g, nil
}

// Create inserts a grade.
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO grades (student_id, subject_id, period, value, comments)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, recorded_at`,
		grade.StudentID, grade.SubjectID, grade.Period, grade.Value,
		helpers.NullString(grade.Comments),
	).Scan(&grade.ID, &grade.RecordedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists,
				"grade already recorded for this student, subject and period")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "student or subject does not exist")
		}
		return fmt.Errorf("failed to create grade: %w", err)
	}
	return nil
}

// GetByID fetches a grade with its student and subject names.
func (r *GradeRepository) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	row := r.db.Pool.QueryRow(ctx, gradeSelect+` WHERE g.id = $1`, id)
	return scanGrade(row)
}

// List returns the grades visible to the scope after applying the filter.
func (r *GradeRepository) List(ctx context.Context, scope auth.Scope, filter GradeFilter) ([]*models.Grade, error) {
	cs := &conditionSet{}
	cs.addScope(scope, "g.student_id", "c.tutor_id")
	if filter.StudentID != nil {
		cs.add("g.student_id = %s", *filter.StudentID)
	}
	if filter.SubjectID != nil {
		cs.add("g.subject_id = %s", *filter.SubjectID)
	}
	if filter.Period != nil {
		cs.add("g.period = %s", *filter.Period)
	}

	rows, err := r.db.Pool.Query(ctx,
		gradeSelect+cs.where()+` ORDER BY g.period, subj.name, g.recorded_at`, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list grades: %w", err)
	}
	defer rows.Close()

	grades := []*models.Grade{}
	for rows.Next() {
		g, err := scanGrade(rows)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// ListForStudent returns every grade of one student, oldest period first.
func (r *GradeRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	return r.List(ctx, auth.Scope{All: true}, GradeFilter{StudentID: &studentID})
}

// Update changes a grade's value and comments.
func (r *GradeRepository) Update(ctx context.Context, grade *models.Grade) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE grades SET value = $1, comments = $2 WHERE id = $3`,
		grade.Value, helpers.NullString(grade.Comments), grade.ID)
	if err != nil {
		return fmt.Errorf("failed to update grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// Delete removes a grade.
func (r *GradeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete grade: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// DistinctPeriods returns the periods a student has grades in, sorted
// ascending.
func (r *GradeRepository) DistinctPeriods(ctx context.Context, studentID int64) ([]string, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT DISTINCT period FROM grades WHERE student_id = $1 ORDER BY period`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	periods := []string{}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}
