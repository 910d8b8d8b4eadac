package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// In-memory fakes backing the service tests. They implement only the
// behavior the tests exercise; unused methods return zero values.

func ptrInt64(v int64) *int64       { return &v }
func ptrFloat64(v float64) *float64 { return &v }

type fakeUserStore struct {
	users map[int64]*models.User
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error { return nil }
func (f *fakeUserStore) CreateTx(ctx context.Context, tx pgx.Tx, user *models.User) error {
	return nil
}
func (f *fakeUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return u, nil
}
func (f *fakeUserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}

type fakeRefreshTokenStore struct {
	tokens map[string]int64
}

func (f *fakeRefreshTokenStore) Store(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	if f.tokens == nil {
		f.tokens = map[string]int64{}
	}
	f.tokens[token] = userID
	return nil
}
func (f *fakeRefreshTokenStore) Consume(ctx context.Context, token string) (int64, error) {
	userID, ok := f.tokens[token]
	if !ok {
		return 0, apperrors.ErrRefreshTokenNotFound
	}
	delete(f.tokens, token)
	return userID, nil
}
func (f *fakeRefreshTokenStore) DeleteForUser(ctx context.Context, userID int64) error {
	for token, id := range f.tokens {
		if id == userID {
			delete(f.tokens, token)
		}
	}
	return nil
}

type fakeTeacherStore struct {
	byUserID    map[int64]*models.Teacher
	tutorCourse map[int64]*int64
}

func (f *fakeTeacherStore) CreateTx(ctx context.Context, tx pgx.Tx, teacher *models.Teacher) error {
	return nil
}
func (f *fakeTeacherStore) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	return nil, apperrors.ErrResourceNotFound
}
func (f *fakeTeacherStore) GetByUserID(ctx context.Context, userID int64) (*models.Teacher, error) {
	return f.byUserID[userID], nil
}
func (f *fakeTeacherStore) List(ctx context.Context) ([]*models.Teacher, error) { return nil, nil }
func (f *fakeTeacherStore) TutorCourseID(ctx context.Context, teacherID int64) (*int64, error) {
	return f.tutorCourse[teacherID], nil
}

type fakeParentStore struct {
	byUserID map[int64]*models.Parent
}

func (f *fakeParentStore) CreateTx(ctx context.Context, tx pgx.Tx, parent *models.Parent) error {
	return nil
}
func (f *fakeParentStore) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	return nil, apperrors.ErrResourceNotFound
}
func (f *fakeParentStore) GetByUserID(ctx context.Context, userID int64) (*models.Parent, error) {
	return f.byUserID[userID], nil
}
func (f *fakeParentStore) List(ctx context.Context) ([]*models.Parent, error) { return nil, nil }
func (f *fakeParentStore) LinkChild(ctx context.Context, parentID, studentID int64) error {
	return nil
}
func (f *fakeParentStore) UnlinkChild(ctx context.Context, parentID, studentID int64) error {
	return nil
}

type fakeSchoolStore struct {
	school *models.School
	err    error
}

func (f *fakeSchoolStore) Create(ctx context.Context, school *models.School) error { return nil }
func (f *fakeSchoolStore) GetByID(ctx context.Context, id int64) (*models.School, error) {
	return f.school, f.err
}
func (f *fakeSchoolStore) List(ctx context.Context) ([]*models.School, error) { return nil, nil }
func (f *fakeSchoolStore) Update(ctx context.Context, id int64, name, address string) error {
	return nil
}
func (f *fakeSchoolStore) SetCheckinToken(ctx context.Context, id int64, token string) error {
	return nil
}
func (f *fakeSchoolStore) GetForStudent(ctx context.Context, studentID int64) (*models.School, error) {
	if f.school == nil && f.err == nil {
		return nil, apperrors.ErrResourceNotFound
	}
	return f.school, f.err
}

type fakeStudentStore struct {
	students  map[int64]*models.Student
	byUserID  map[int64]*models.Student
	ownership map[int64]*auth.Ownership
}

func (f *fakeStudentStore) CreateTx(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	return nil
}
func (f *fakeStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return s, nil
}
func (f *fakeStudentStore) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return f.byUserID[userID], nil
}
func (f *fakeStudentStore) List(ctx context.Context, scope auth.Scope, courseID *int64) ([]*models.Student, error) {
	return nil, nil
}
func (f *fakeStudentStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	result := []*models.Student{}
	for _, s := range f.students {
		if s.CourseID == courseID {
			result = append(result, s)
		}
	}
	return result, nil
}
func (f *fakeStudentStore) Ownership(ctx context.Context, studentID int64) (*auth.Ownership, error) {
	own, ok := f.ownership[studentID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return own, nil
}

type fakeAttendanceStore struct {
	marks  []*models.Attendance
	nextID int64
}

func dateKey(studentID int64, date time.Time) string {
	return fmt.Sprintf("%d|%s", studentID, date.Format("2006-01-02"))
}

func (f *fakeAttendanceStore) find(studentID int64, date time.Time) *models.Attendance {
	for _, m := range f.marks {
		if dateKey(m.StudentID, m.Date) == dateKey(studentID, date) {
			return m
		}
	}
	return nil
}

func (f *fakeAttendanceStore) Create(ctx context.Context, att *models.Attendance) error {
	f.nextID++
	att.ID = f.nextID
	f.marks = append(f.marks, att)
	return nil
}
func (f *fakeAttendanceStore) GetByID(ctx context.Context, id int64) (*models.Attendance, error) {
	for _, m := range f.marks {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}
func (f *fakeAttendanceStore) List(ctx context.Context, scope auth.Scope, filter repositories.AttendanceFilter) ([]*models.Attendance, error) {
	return f.marks, nil
}
func (f *fakeAttendanceStore) ListForStudentRange(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	result := []*models.Attendance{}
	for _, m := range f.marks {
		if m.StudentID == studentID && !m.Date.Before(from) && !m.Date.After(to) {
			result = append(result, m)
		}
	}
	return result, nil
}
func (f *fakeAttendanceStore) Update(ctx context.Context, att *models.Attendance) error { return nil }
func (f *fakeAttendanceStore) MarkPresentByQR(ctx context.Context, studentID int64, date, arrival time.Time) (models.CheckInOutcome, error) {
	if existing := f.find(studentID, date); existing != nil {
		if existing.Present {
			return models.CheckInDuplicate, nil
		}
		existing.Present = true
		existing.ViaQR = true
		existing.ArrivalTime = &arrival
		return models.CheckInFlipped, nil
	}
	f.nextID++
	f.marks = append(f.marks, &models.Attendance{
		ID:          f.nextID,
		StudentID:   studentID,
		Date:        date,
		Present:     true,
		ViaQR:       true,
		ArrivalTime: &arrival,
	})
	return models.CheckInInserted, nil
}

type fakeGradeStore struct {
	grades []*models.Grade
	nextID int64
}

func (f *fakeGradeStore) Create(ctx context.Context, grade *models.Grade) error {
	// Mirrors the schema's UNIQUE (student_id, subject_id, period).
	for _, g := range f.grades {
		if g.StudentID == grade.StudentID && g.SubjectID == grade.SubjectID && g.Period == grade.Period {
			return apperrors.New(apperrors.ErrResourceAlreadyExists,
				"grade already recorded for this student, subject and period")
		}
	}
	f.nextID++
	grade.ID = f.nextID
	grade.RecordedAt = time.Now()
	f.grades = append(f.grades, grade)
	return nil
}
func (f *fakeGradeStore) GetByID(ctx context.Context, id int64) (*models.Grade, error) {
	for _, g := range f.grades {
		if g.ID == id {
			return g, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}
func (f *fakeGradeStore) List(ctx context.Context, scope auth.Scope, filter repositories.GradeFilter) ([]*models.Grade, error) {
	return f.grades, nil
}
func (f *fakeGradeStore) ListForStudent(ctx context.Context, studentID int64) ([]*models.Grade, error) {
	result := []*models.Grade{}
	for _, g := range f.grades {
		if g.StudentID == studentID {
			result = append(result, g)
		}
	}
	return result, nil
}
func (f *fakeGradeStore) Update(ctx context.Context, grade *models.Grade) error { return nil }
func (f *fakeGradeStore) Delete(ctx context.Context, id int64) error {
	for i, g := range f.grades {
		if g.ID == id {
			f.grades = append(f.grades[:i], f.grades[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrResourceNotFound
}
func (f *fakeGradeStore) DistinctPeriods(ctx context.Context, studentID int64) ([]string, error) {
	seen := map[string]bool{}
	periods := []string{}
	for _, g := range f.grades {
		if g.StudentID == studentID && !seen[g.Period] {
			seen[g.Period] = true
			periods = append(periods, g.Period)
		}
	}
	return periods, nil
}

type fakeParticipationStore struct {
	parts  []*models.Participation
	nextID int64
}

func (f *fakeParticipationStore) Create(ctx context.Context, part *models.Participation) error {
	f.nextID++
	part.ID = f.nextID
	f.parts = append(f.parts, part)
	return nil
}
func (f *fakeParticipationStore) GetByID(ctx context.Context, id int64) (*models.Participation, error) {
	for _, p := range f.parts {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperrors.ErrResourceNotFound
}
func (f *fakeParticipationStore) List(ctx context.Context, scope auth.Scope, filter repositories.ParticipationFilter) ([]*models.Participation, error) {
	return f.parts, nil
}
func (f *fakeParticipationStore) ListForStudent(ctx context.Context, studentID int64) ([]*models.Participation, error) {
	result := []*models.Participation{}
	for _, p := range f.parts {
		if p.StudentID == studentID {
			result = append(result, p)
		}
	}
	return result, nil
}
func (f *fakeParticipationStore) Delete(ctx context.Context, id int64) error { return nil }

type fakeSubjectStore struct {
	subjects map[int64]*models.Subject
	courseOf map[int64]int64
}

func (f *fakeSubjectStore) Create(ctx context.Context, subject *models.Subject) error { return nil }
func (f *fakeSubjectStore) GetByID(ctx context.Context, id int64) (*models.Subject, error) {
	s, ok := f.subjects[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return s, nil
}
func (f *fakeSubjectStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Subject, error) {
	result := []*models.Subject{}
	for _, s := range f.subjects {
		if s.CourseID == courseID {
			result = append(result, s)
		}
	}
	return result, nil
}
func (f *fakeSubjectStore) CourseID(ctx context.Context, subjectID int64) (int64, error) {
	id, ok := f.courseOf[subjectID]
	if !ok {
		return 0, apperrors.ErrResourceNotFound
	}
	return id, nil
}

type fakeCourseStore struct {
	courses map[int64]*models.Course
	tutorOf map[int64]*int64
	// courseOfStudent backs the enrollment subqueries of the scope.
	courseOfStudent map[int64]int64
}

func (f *fakeCourseStore) Create(ctx context.Context, course *models.Course) error { return nil }
func (f *fakeCourseStore) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) inScope(scope auth.Scope, courseID int64) bool {
	switch {
	case scope.All:
		return true
	case scope.StudentID != nil:
		return f.courseOfStudent[*scope.StudentID] == courseID
	case scope.TutorTeacherID != nil:
		tutor := f.tutorOf[courseID]
		return tutor != nil && *tutor == *scope.TutorTeacherID
	case scope.ParentChildIDs != nil:
		for _, child := range scope.ParentChildIDs {
			if f.courseOfStudent[child] == courseID {
				return true
			}
		}
		return false
	}
	return false
}

func (f *fakeCourseStore) GetVisible(ctx context.Context, scope auth.Scope, id int64) (*models.Course, error) {
	c, ok := f.courses[id]
	if !ok || !f.inScope(scope, id) {
		return nil, apperrors.ErrResourceNotFound
	}
	return c, nil
}

func (f *fakeCourseStore) List(ctx context.Context, scope auth.Scope, schoolID *int64) ([]*models.Course, error) {
	visible := []*models.Course{}
	for id, c := range f.courses {
		if !f.inScope(scope, id) {
			continue
		}
		if schoolID != nil && c.SchoolID != *schoolID {
			continue
		}
		visible = append(visible, c)
	}
	sort.Slice(visible, func(i, j int) bool { return visible[i].ID < visible[j].ID })
	return visible, nil
}
func (f *fakeCourseStore) Update(ctx context.Context, course *models.Course) error { return nil }
func (f *fakeCourseStore) SchoolIDForCourse(ctx context.Context, courseID int64) (int64, error) {
	return 0, nil
}
func (f *fakeCourseStore) TutorID(ctx context.Context, courseID int64) (*int64, error) {
	return f.tutorOf[courseID], nil
}
