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
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// TeacherRepository manages teacher profiles.
type TeacherRepository struct {
	db *db.PostgresDB
}

func NewTeacherRepository(database *db.PostgresDB) *TeacherRepository {
	return &TeacherRepository{db: database}
}

const teacherSelect = `
	SELECT t.id, t.user_id, t.phone, t.specialty, t.academic_degree,
	       t.years_experience, t.hired_on,
	       u.id, u.username, u.email, u.first_name, u.last_name, u.is_superuser, u.created_at
	FROM teachers t
	JOIN users u ON u.id = t.user_id`

func scanTeacher(row pgx.Row) (*models.Teacher, error) {
	var t models.Teacher
	var u models.User
	var phone, specialty, degree sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &phone, &specialty, &degree,
		&t.YearsExperience, &t.HiredOn,
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan teacher: %w", err)
	}
	t.Phone = helpers.StringOrEmpty(phone)
	t.Specialty = helpers.StringOrEmpty(specialty)
	t.AcademicDegree = helpers.StringOrEmpty(degree)
	t.User = &u
	return &t, nil
}

// CreateTx inserts a teacher profile inside an existing transaction.
func (r *TeacherRepository) CreateTx(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO teachers (user_id, phone, specialty, academic_degree, years_experience, hired_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		teacher.UserID, helpers.NullString(teacher.Phone), helpers.NullString(teacher.Specialty),
		helpers.NullString(teacher.AcademicDegree), teacher.YearsExperience, teacher.HiredOn,
	).Scan(&teacher.ID)
	if err != nil {
		return fmt.Errorf("failed to create teacher: %w", err)
	}
	return nil
}

// GetByID fetches a teacher with its user account.
func (r *TeacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	row := r.db.Pool.QueryRow(ctx, teacherSelect+` WHERE t.id = $1`, id)
	return scanTeacher(row)
}

// GetByUserID fetches the teacher profile linked to a user account.
// Returns nil without error when the user has none.
func (r *TeacherRepository) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	row := r.db.Pool.QueryRow(ctx, teacherSelect+` WHERE t.user_id = $1`, userID)
	t, err := scanTeacher(row)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, nil
	}
	return t, err
}

// List returns every teacher ordered by last name.
func (r *TeacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	rows, err := r.db.Pool.Query(ctx, teacherSelect+` ORDER BY u.last_name, u.first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teachers: %w", err)
	}
	defer rows.Close()

	teachers := []*models.Teacher{}
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

// TutorCourseID returns the ID of the course the teacher tutors, or nil
// when the teacher tutors none.
func (r *TeacherRepository) TutorCourseID(ctx context.Context, teacherID int64) (*int64, error) {
	var courseID int64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id FROM courses WHERE tutor_id = $1 LIMIT 1`, teacherID).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to resolve tutor course: %w", err)
	}
	return &courseID, nil
}
