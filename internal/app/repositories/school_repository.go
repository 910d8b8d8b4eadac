package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/dberrors"
)

// SchoolRepository manages schools and their check-in tokens.
type SchoolRepository struct {
	db *db.PostgresDB
}

func NewSchoolRepository(database *db.PostgresDB) *SchoolRepository {
	return &SchoolRepository{db: database}
}

const schoolColumns = `id, name, address, latitude, longitude, checkin_token`

func scanSchool(row pgx.Row) (*models.School, error) {
	var s models.School
	err := row.Scan(&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude, &s.CheckinToken)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan school: %w", err)
	}
	return &s, nil
}

// Create inserts a school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO schools (name, address, latitude, longitude, checkin_token)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		school.Name, school.Address, school.Latitude, school.Longitude, school.CheckinToken,
	).Scan(&school.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists, "school name already in use")
		}
		return fmt.Errorf("failed to create school: %w", err)
	}
	return nil
}

// GetByID fetches a school by primary key.
func (r *SchoolRepository) GetByID(ctx context.Context, id int64) (*models.School, error) {
	row := r.db.Pool.QueryRow(ctx,
		`SELECT `+schoolColumns+` FROM schools WHERE id = $1`, id)
	return scanSchool(row)
}

// List returns every school ordered by name.
func (r *SchoolRepository) List(ctx context.Context) ([]*models.School, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+schoolColumns+` FROM schools ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list schools: %w", err)
	}
	defer rows.Close()

	schools := []*models.School{}
	for rows.Next() {
		s, err := scanSchool(rows)
		if err != nil {
			return nil, err
		}
		schools = append(schools, s)
	}
	return schools, rows.Err()
}

// Update changes a school's name and address.
func (r *SchoolRepository) Update(ctx context.Context, id int64, name, address string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE schools SET name = $1, address = $2 WHERE id = $3`, name, address, id)
	if err != nil {
		return fmt.Errorf("failed to update school: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// SetCheckinToken replaces a school's check-in token.
func (r *SchoolRepository) SetCheckinToken(ctx context.Context, id int64, token string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE schools SET checkin_token = $1 WHERE id = $2`, token, id)
	if err != nil {
		return fmt.Errorf("failed to set check-in token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetForStudent resolves the school a student belongs to through their
// course.
func (r *SchoolRepository) GetForStudent(ctx context.Context, studentID int64) (*models.School, error) {
	row := r.db.Pool.QueryRow(ctx, `
		SELECT s.id, s.name, s.address, s.latitude, s.longitude, s.checkin_token
		FROM schools s
		JOIN courses c ON c.school_id = s.id
		JOIN students st ON st.course_id = c.id
		WHERE st.id = $1`, studentID)
	return scanSchool(row)
}
