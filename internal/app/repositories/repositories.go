// Package repositories implements PostgreSQL persistence with pgx
package repositories

import (
	"github.com/ncastell/classtrack/internal/db"
)

// Repositories bundles every repository for dependency wiring.
type Repositories struct {
	User          *UserRepository
	Token         *TokenRepository
	School        *SchoolRepository
	Teacher       *TeacherRepository
	Course        *CourseRepository
	Subject       *SubjectRepository
	Parent        *ParentRepository
	Student       *StudentRepository
	Grade         *GradeRepository
	Attendance    *AttendanceRepository
	Participation *ParticipationRepository
}

// NewRepositories creates all repositories over one database handle.
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(database),
		Token:         NewTokenRepository(database),
		School:        NewSchoolRepository(database),
		Teacher:       NewTeacherRepository(database),
		Course:        NewCourseRepository(database),
		Subject:       NewSubjectRepository(database),
		Parent:        NewParentRepository(database),
		Student:       NewStudentRepository(database),
		Grade:         NewGradeRepository(database),
		Attendance:    NewAttendanceRepository(database),
		Participation: NewParticipationRepository(database),
	}
}
