package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/db"
)

// The services depend on narrow store interfaces rather than the
// concrete repositories so the business rules can be tested against
// in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

type RefreshTokenStore interface {
	Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Consume(ctx context.Context, token string) (int64, error)
	DeleteForUser(ctx context.Context, userID int64) error
}

type SchoolStore interface {
	Create(ctx context.Context, school *models.School) error
	GetByID(ctx context.Context, id int64) (*models.School, error)
	List(ctx context.Context) ([]*models.School, error)
	Update(ctx context.Context, id int64, name, address string) error
	SetCheckinToken(ctx context.Context, id int64, token string) error
	GetForStudent(ctx context.Context, studentID int64) (*models.School, error)
}

type TeacherStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) error
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error)
	List(ctx context.Context) ([]*models.Teacher, error)
	TutorCourseID(ctx context.Context, teacherID int64) (*int64, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	GetVisible(ctx context.Context, scope auth.Scope, id int64) (*models.Course, error)
	List(ctx context.Context, scope auth.Scope, schoolID *int64) ([]*models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	SchoolIDForCourse(ctx context.Context, courseID int64) (int64, error)
	TutorID(ctx context.Context, courseID int64) (*int64, error)
}

type SubjectStore interface {
	Create(ctx context.Context, subject *models.Subject) error
	GetByID(ctx context.Context, id int64) (*models.Subject, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error)
	CourseID(ctx context.Context, subjectID int64) (int64, error)
}

type ParentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, parent *models.Parent) error
	GetByID(ctx context.Context, id int64) (*models.Parent, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Parent, error)
	List(ctx context.Context) ([]*models.Parent, error)
	LinkChild(ctx context.Context, parentID, studentID int64) error
	UnlinkChild(ctx context.Context, parentID, studentID int64) error
}

type StudentStore interface {
	CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	GetByUserID(ctx context.Context, userID int64) (*models.Student, error)
	List(ctx context.Context, scope auth.Scope, courseID *int64) ([]*models.Student, error)
	ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error)
	Ownership(ctx context.Context, studentID int64) (*auth.Ownership, error)
}

type GradeStore interface {
	Create(ctx context.Context, grade *models.Grade) error
	GetByID(ctx context.Context, id int64) (*models.Grade, error)
	List(ctx context.Context, scope auth.Scope, filter repositories.GradeFilter) ([]*models.Grade, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error)
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id int64) error
	DistinctPeriods(ctx context.Context, studentID int64) ([]string, error)
}

type AttendanceStore interface {
	Create(ctx context.Context, att *models.Attendance) error
	GetByID(ctx context.Context, id int64) (*models.Attendance, error)
	List(ctx context.Context, scope auth.Scope, filter repositories.AttendanceFilter) ([]*models.Attendance, error)
	ListForStudentRange(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error)
	Update(ctx context.Context, att *models.Attendance) error
	MarkPresentByQR(ctx context.Context, studentID int64, date, arrival time.Time) (models.CheckInOutcome, error)
}

type ParticipationStore interface {
	Create(ctx context.Context, part *models.Participation) error
	GetByID(ctx context.Context, id int64) (*models.Participation, error)
	List(ctx context.Context, scope auth.Scope, filter repositories.ParticipationFilter) ([]*models.Participation, error)
	ListForStudent(ctx context.Context, studentID int64) ([]*models.Participation, error)
	Delete(ctx context.Context, id int64) error
}

// Transactor runs a function inside a database transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}
