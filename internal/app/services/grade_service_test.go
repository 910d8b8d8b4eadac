package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// Fixture: subject 3 belongs to course 1, tutored by teacher 7.
// Teacher 8 teaches subject 3 but does not tutor course 1.
func gradeFixtures() (*fakeStudentStore, *fakeSubjectStore, *fakeCourseStore) {
	students := &fakeStudentStore{
		ownership: map[int64]*auth.Ownership{
			4: {StudentID: 4, CourseTutorID: ptrInt64(7), ParentIDs: []int64{3}},
		},
	}
	subjects := &fakeSubjectStore{
		subjects: map[int64]*models.Subject{
			3: {ID: 3, Name: "Mathematics", CourseID: 1, TeacherID: ptrInt64(8)},
		},
		courseOf: map[int64]int64{3: 1},
	}
	courses := &fakeCourseStore{
		tutorOf: map[int64]*int64{1: ptrInt64(7)},
	}
	return students, subjects, courses
}

func TestGradeCreateWriteRule(t *testing.T) {
	tests := []struct {
		name    string
		ident   *auth.Identity
		wantErr error
	}{
		{"admin may record", &auth.Identity{UserID: 1, Role: models.RoleAdmin}, nil},
		{"course tutor may record", &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(7), IsTutor: true, TutorCourseID: ptrInt64(1)}, nil},
		{"subject teacher without tutorship may not", &auth.Identity{UserID: 3, Role: models.RoleTeacher, TeacherID: ptrInt64(8)}, apperrors.ErrModifyForbidden},
		{"student may not", &auth.Identity{UserID: 4, Role: models.RoleStudent, StudentID: ptrInt64(4)}, apperrors.ErrModifyForbidden},
		{"parent may not", &auth.Identity{UserID: 5, Role: models.RoleParent, ParentID: ptrInt64(3), ChildIDs: []int64{4}}, apperrors.ErrModifyForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students, subjects, courses := gradeFixtures()
			svc := NewGradeService(&fakeGradeStore{}, students, subjects, courses)

			_, err := svc.Create(context.Background(), tt.ident, dto.CreateGradeRequest{
				StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 85,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGradeCreateIsUniquePerPeriod(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	svc := NewGradeService(&fakeGradeStore{}, students, subjects, courses)
	admin := &auth.Identity{UserID: 1, Role: models.RoleAdmin}
	req := dto.CreateGradeRequest{StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 85}

	_, err := svc.Create(context.Background(), admin, req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), admin, req)
	assert.ErrorIs(t, err, apperrors.ErrResourceAlreadyExists)

	// A different period for the same student and subject is fine.
	req.Period = "2024-T2"
	_, err = svc.Create(context.Background(), admin, req)
	assert.NoError(t, err)
}

func TestGradeCreateValidation(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	svc := NewGradeService(&fakeGradeStore{}, students, subjects, courses)
	admin := &auth.Identity{UserID: 1, Role: models.RoleAdmin}

	tests := []struct {
		name string
		req  dto.CreateGradeRequest
	}{
		{"value above scale", dto.CreateGradeRequest{StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 100.5}},
		{"value below scale", dto.CreateGradeRequest{StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: -1}},
		{"malformed period", dto.CreateGradeRequest{StudentID: 4, SubjectID: 3, Period: "T1-2024", Value: 80}},
		{"period term out of range", dto.CreateGradeRequest{StudentID: 4, SubjectID: 3, Period: "2024-T5", Value: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), admin, tt.req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestGradeGetVisibility(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 85},
	}}
	svc := NewGradeService(grades, students, subjects, courses)

	tests := []struct {
		name    string
		ident   *auth.Identity
		canRead bool
	}{
		{"admin", &auth.Identity{UserID: 1, Role: models.RoleAdmin}, true},
		{"the student", &auth.Identity{UserID: 4, Role: models.RoleStudent, StudentID: ptrInt64(4)}, true},
		{"another student", &auth.Identity{UserID: 9, Role: models.RoleStudent, StudentID: ptrInt64(5)}, false},
		{"course tutor", &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(7)}, true},
		{"unrelated teacher", &auth.Identity{UserID: 3, Role: models.RoleTeacher, TeacherID: ptrInt64(8)}, false},
		{"linked parent", &auth.Identity{UserID: 5, Role: models.RoleParent, ParentID: ptrInt64(3)}, true},
		{"unrelated parent", &auth.Identity{UserID: 6, Role: models.RoleParent, ParentID: ptrInt64(99)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade, err := svc.Get(context.Background(), tt.ident, 1)
			if tt.canRead {
				require.NoError(t, err)
				assert.Equal(t, int64(1), grade.ID)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			}
		})
	}
}

func TestGradeListValidatesPeriodFilter(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	svc := NewGradeService(&fakeGradeStore{}, students, subjects, courses)

	bad := "first-term"
	_, err := svc.List(context.Background(), &auth.Identity{Role: models.RoleAdmin},
		repositories.GradeFilter{Period: &bad})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGradeUpdateAndDeleteFollowWriteRule(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 85},
	}, nextID: 1}
	svc := NewGradeService(grades, students, subjects, courses)

	subjectTeacher := &auth.Identity{UserID: 3, Role: models.RoleTeacher, TeacherID: ptrInt64(8)}
	tutor := &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(7), IsTutor: true}

	newValue := 92.0
	_, err := svc.Update(context.Background(), subjectTeacher, 1, dto.UpdateGradeRequest{Value: &newValue})
	assert.ErrorIs(t, err, apperrors.ErrModifyForbidden)

	updated, err := svc.Update(context.Background(), tutor, 1, dto.UpdateGradeRequest{Value: &newValue})
	require.NoError(t, err)
	assert.Equal(t, 92.0, updated.Value)

	assert.ErrorIs(t, svc.Delete(context.Background(), subjectTeacher, 1), apperrors.ErrModifyForbidden)
	assert.NoError(t, svc.Delete(context.Background(), tutor, 1))
	assert.Empty(t, grades.grades)
}
