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
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// StudentRepository manages student profiles.
type StudentRepository struct {
	db *db.PostgresDB
}

func NewStudentRepository(database *db.PostgresDB) *StudentRepository {
	return &StudentRepository{db: database}
}

const studentSelect = `
	SELECT st.id, st.user_id, st.course_id, st.birth_date, st.address, st.emergency_phone,
	       u.id, u.username, u.email, u.first_name, u.last_name, u.is_superuser, u.created_at,
	       c.name, c.level
	FROM students st
	JOIN users u ON u.id = st.user_id
	JOIN courses c ON c.id = st.course_id`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var u models.User
	var address, emergencyPhone sql.NullString
	var courseName string
	var courseLevel models.CourseLevel
	err := row.Scan(&s.ID, &s.UserID, &s.CourseID, &s.BirthDate, &address, &emergencyPhone,
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsSuperuser, &u.CreatedAt,
		&courseName, &courseLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	s.Address = helpers.StringOrEmpty(address)
	s.EmergencyPhone = helpers.StringOrEmpty(emergencyPhone)
	s.User = &u
	s.Course = &models.Course{ID: s.CourseID, Name: courseName, Level: courseLevel}
	return &s, nil
}

// CreateTx inserts a student profile inside an existing transaction.
func (r *StudentRepository) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO students (user_id, course_id, birth_date, address, emergency_phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		student.UserID, student.CourseID, student.BirthDate,
		helpers.NullString(student.Address), helpers.NullString(student.EmergencyPhone),
	).Scan(&student.ID)
	if err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetByID fetches a student with its user account and course.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	row := r.db.Pool.QueryRow(ctx, studentSelect+` WHERE st.id = $1`, id)
	return scanStudent(row)
}

// GetByUserID fetches the student profile linked to a user account.
// Returns nil without error when the user has none.
func (r *StudentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	row := r.db.Pool.QueryRow(ctx, studentSelect+` WHERE st.user_id = $1`, userID)
	s, err := scanStudent(row)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, nil
	}
	return s, err
}

// List returns the students visible to the given scope, optionally
// limited to one course.
func (r *StudentRepository) List(ctx context.Context, scope auth.Scope, courseID *int64) ([]*models.Student, error) {
	cs := &conditionSet{}
	cs.addScope(scope, "st.id", "c.tutor_id")
	if courseID != nil {
		cs.add("st.course_id = %s", *courseID)
	}

	rows, err := r.db.Pool.Query(ctx,
		studentSelect+cs.where()+` ORDER BY u.last_name, u.first_name`, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// ListByCourse returns every student enrolled in a course.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return r.List(ctx, auth.Scope{All: true}, &courseID)
}

// Ownership loads the permission-relevant relations of a student: the
// tutor of their course and their linked parents.
func (r *StudentRepository) Ownership(ctx context.Context, studentID int64) (*auth.Ownership, error) {
	var tutorID sql.NullInt64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT c.tutor_id
		FROM students st
		JOIN courses c ON c.id = st.course_id
		WHERE st.id = $1`, studentID).Scan(&tutorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to load student ownership: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx,
		`SELECT parent_id FROM parent_students WHERE student_id = $1`, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student parents: %w", err)
	}
	defer rows.Close()

	own := &auth.Ownership{
		StudentID:     studentID,
		CourseTutorID: helpers.Int64PtrOrNil(tutorID),
	}
	for rows.Next() {
		var pid int64
		if err := rows.Scan(&pid); err != nil {
			return nil, fmt.Errorf("failed to scan parent id: %w", err)
		}
		own.ParentIDs = append(own.ParentIDs, pid)
	}
	return own, rows.Err()
}
