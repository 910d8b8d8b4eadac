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

// AttendanceFilter narrows an attendance listing. All fields are optional.
type AttendanceFilter struct {
	StudentID *int64
	DateFrom  *time.Time
	DateTo    *time.Time
	Present   *bool
}

// AttendanceRepository manages daily attendance marks.
type AttendanceRepository struct {
	db *db.PostgresDB
}

func NewAttendanceRepository(database *db.PostgresDB) *AttendanceRepository {
	return &AttendanceRepository{db: database}
}

const attendanceSelect = `
	SELECT a.id, a.student_id, a.date, a.present, a.via_qr, a.arrival_time, a.comments,
	       u.first_name || ' ' || u.last_name
	FROM attendances a
	JOIN students st ON st.id = a.student_id
	JOIN users u ON u.id = st.user_id
	JOIN courses c ON c.id = st.course_id`

func scanAttendance(row pgx.Row) (*models.Attendance, error) {
	var a models.Attendance
	var comments sql.NullString
	err := row.Scan(&a.ID, &a.StudentID, &a.Date, &a.Present, &a.ViaQR,
		&a.ArrivalTime, &comments, &a.StudentName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan attendance: %w", err)
	}
	a.Comments = helpers.StringOrEmpty(comments)
	return &a, nil
}

// Create inserts a manual attendance mark. One mark per student and day.
func (r *AttendanceRepository) Create(ctx context.Context, att *models.Attendance) error {
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO attendances (student_id, date, present, via_qr, arrival_time, comments)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		att.StudentID, att.Date, att.Present, att.ViaQR, att.ArrivalTime,
		helpers.NullString(att.Comments),
	).Scan(&att.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists,
				"attendance already recorded for this student and date")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "student does not exist")
		}
		return fmt.Errorf("failed to create attendance: %w", err)
	}
	return nil
}

// GetByID fetches an attendance mark.
func (r *AttendanceRepository) GetByID(ctx context.Context, id int64) (*models.Attendance, error) {
	row := r.db.Pool.QueryRow(ctx, attendanceSelect+` WHERE a.id = $1`, id)
	return scanAttendance(row)
}

// List returns the marks visible to the scope after applying the filter.
func (r *AttendanceRepository) List(ctx context.Context, scope auth.Scope, filter AttendanceFilter) ([]*models.Attendance, error) {
	cs := &conditionSet{}
	cs.addScope(scope, "a.student_id", "c.tutor_id")
	if filter.StudentID != nil {
		cs.add("a.student_id = %s", *filter.StudentID)
	}
	if filter.DateFrom != nil {
		cs.add("a.date >= %s", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		cs.add("a.date <= %s", *filter.DateTo)
	}
	if filter.Present != nil {
		cs.add("a.present = %s", *filter.Present)
	}

	rows, err := r.db.Pool.Query(ctx,
		attendanceSelect+cs.where()+` ORDER BY a.date DESC`, cs.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	marks := []*models.Attendance{}
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		marks = append(marks, a)
	}
	return marks, rows.Err()
}

// ListForStudentRange returns one student's marks inside a date range.
func (r *AttendanceRepository) ListForStudentRange(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	return r.List(ctx, auth.Scope{All: true}, AttendanceFilter{
		StudentID: &studentID,
		DateFrom:  &from,
		DateTo:    &to,
	})
}

// Update changes an attendance mark's presence flag and comments.
func (r *AttendanceRepository) Update(ctx context.Context, att *models.Attendance) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE attendances SET present = $1, comments = $2 WHERE id = $3`,
		att.Present, helpers.NullString(att.Comments), att.ID)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// MarkPresentByQR records a QR check-in for the student on the given
// date. The operation is idempotent per student and day: with no
// existing mark a present row is inserted, an existing absent mark is
// flipped to present, and an existing present mark is left untouched.
func (r *AttendanceRepository) MarkPresentByQR(ctx context.Context, studentID int64, date time.Time, arrival time.Time) (models.CheckInOutcome, error) {
	var id int64
	err := r.db.Pool.QueryRow(ctx, `
		INSERT INTO attendances (student_id, date, present, via_qr, arrival_time)
		VALUES ($1, $2, TRUE, TRUE, $3)
		ON CONFLICT (student_id, date) DO NOTHING
		RETURNING id`,
		studentID, date, arrival).Scan(&id)
	if err == nil {
		return models.CheckInInserted, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("failed to insert check-in: %w", err)
	}

	// A mark already exists for the day. Flip it only if still absent.
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE attendances
		SET present = TRUE, via_qr = TRUE, arrival_time = $1
		WHERE student_id = $2 AND date = $3 AND NOT present`,
		arrival, studentID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to flip check-in: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return models.CheckInFlipped, nil
	}
	return models.CheckInDuplicate, nil
}
