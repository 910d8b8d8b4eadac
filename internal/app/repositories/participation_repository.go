package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/dberrors"
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// ParticipationFilter narrows a participation listing.
type ParticipationFilter struct {
	StudentID *int64
	SubjectID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
}

// ParticipationRepository manages classroom participation records.
type ParticipationRepository struct {
	db *db.PostgresDB
}

func NewParticipationRepository(database *db.PostgresDB) *ParticipationRepository {
	return &ParticipationRepository{db: database}
}

const participationSelect = `
	SELECT p.id, p.student_id, p.subject_id, p.date, p.value, p.kind, p.comments,
	       u.first_name || ' ' || u.last_name, subj.name
	FROM participations p
	JOIN students st ON st.id = p.student_id
	JOIN users u ON u.id = st.user_id
	JOIN subjects subj ON subj.id = p.subject_id
	JOIN courses c ON c.id = st.course_id`

func scanParticipation(row pgx.Row) (*models.Participation, error) {
	var p models.Participation
	var comments sql.NullString
	err := row.Scan(&p.ID, &p.StudentID, &p.SubjectID, &p.Date, &p.Value, &p.Kind,
		&comments, &p.StudentName, &p.SubjectName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan participation: %w", err)
	}
	p.Comments = helpers.StringOrEmpty(comments)
	return &p, nil
}

// Create inserts a participation record.
func (r *ParticipationRepository) Create(ctx context.Context, part *models.Participation) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO participations (student_id, subject_id, date, value, kind, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		part.StudentID, part.SubjectID, part.Date, part.Value, part.Kind,
		helpers.NullString(part.Comments),
	).Scan(&part.ID)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "student or subject does not exist")
		}
		return fmt.Errorf("failed to create participation: %w", err)
	}
	return nil
}

// GetByID fetches a participation record.
func (r *ParticipationRepository) GetByID(ctx context.Context, id int64) (*models.Participation, error) {
	row := r.db.Pool.QueryRow(ctx, participationSelect+` WHERE p.id = $1`, id)
	return scanParticipation(row)
}

// List returns the records visible to the scope after applying the filter.
func (r *ParticipationRepository) List(ctx context.Context, scope auth.Scope, filter ParticipationFilter) ([]*models.Participation, error) {
	cs := &conditionSet{}
	cs.addScope(scope, "p.student_id", "c.tutor_id")
	if filter.StudentID != nil {
		cs.add("p.student_id = %s", *filter.StudentID)
	}
	if filter.SubjectID != nil {
		cs.add("p.subject_id = %s", *filter.SubjectID)
	}
	if filter.DateFrom != nil {
		cs.add("p.date >= %s", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cs.add("p.date <= %s", *filter.DateTo)
	}

	rows, err := r.db.Pool.Query(ctx,
		participationSelect+cs.where()+` ORDER BY p.date DESC`, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list participations: %w", err)
	}
	defer rows.Close()

	parts := []*models.Participation{}
	for rows.Next() {
		p, err := scanParticipation(rows)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

// ListForStudent returns every participation of one student.
func (r *ParticipationRepository) ListForStudent(ctx context.Context, studentID int64) ([]*models.Participation, error) {
	return r.List(ctx, auth.Scope{All: true}, ParticipationFilter{StudentID: &studentID})
}

// Delete removes a participation record.
func (r *ParticipationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM participations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
