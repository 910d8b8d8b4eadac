package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

func statsNow() time.Time {
	return time.Date(2024, 11, 5, 12, 0, 0, 0, time.UTC)
}

func newStatsService(grades *fakeGradeStore, att *fakeAttendanceStore, parts *fakeParticipationStore,
	students *fakeStudentStore, courses *fakeCourseStore, subjects *fakeSubjectStore) *StatsService {

	if students == nil {
		students = &fakeStudentStore{}
	}
	if courses == nil {
		courses = &fakeCourseStore{}
	}
	if subjects == nil {
		subjects = &fakeSubjectStore{}
	}
	cfg := config.DashboardConfig{AttendanceWindowDays: 30, PredictionWindowDays: 365}
	return NewStatsService(grades, att, parts, students, courses, subjects, cfg, statsNow)
}

func TestAverage(t *testing.T) {
	assert.Nil(t, average(nil))
	assert.Nil(t, average([]float64{}))

	avg := average([]float64{70, 80, 90})
	require.NotNil(t, avg)
	assert.InDelta(t, 80.0, *avg, 0.0001)

	zero := average([]float64{0})
	require.NotNil(t, zero)
	assert.Equal(t, 0.0, *zero)
}

func TestAttendancePercent(t *testing.T) {
	percent, present, total := attendancePercent(nil)
	assert.Equal(t, 100.0, percent)
	assert.Zero(t, present)
	assert.Zero(t, total)

	marks := []*models.Attendance{
		{Present: true}, {Present: true}, {Present: true}, {Present: false},
	}
	percent, present, total = attendancePercent(marks)
	assert.InDelta(t, 75.0, percent, 0.0001)
	assert.Equal(t, 3, present)
	assert.Equal(t, 4, total)
}

func TestTrendAndShiftLabels(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name      string
		current   *float64
		previous  *float64
		wantTrend string
		wantShift string
	}{
		{"missing current", nil, f(80), "neutral", "neutral"},
		{"missing previous", f(80), nil, "neutral", "neutral"},
		{"big rise", f(90), f(80), "improving", "up"},
		{"big drop", f(70), f(80), "worsening", "down"},
		{"small rise splits the cutoffs", f(84), f(80), "stable", "up"},
		{"small drop splits the cutoffs", f(76), f(80), "stable", "down"},
		{"tiny move", f(82), f(80), "stable", "flat"},
		{"exactly the strict cutoff", f(85), f(80), "improving", "up"},
		{"exactly the strict cutoff down", f(75), f(80), "worsening", "down"},
		{"exactly the loose cutoff", f(83), f(80), "stable", "up"},
		{"exactly the loose cutoff down", f(77), f(80), "stable", "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantTrend, trendLabel(tt.current, tt.previous))
			assert.Equal(t, tt.wantShift, periodShiftLabel(tt.current, tt.previous))
		})
	}
}

func TestAcademicStatus(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.Equal(t, "no_data", academicStatus(nil))
	assert.Equal(t, "excellent", academicStatus(f(90)))
	assert.Equal(t, "good", academicStatus(f(80)))
	assert.Equal(t, "fair", academicStatus(f(70)))
	assert.Equal(t, "needs_attention", academicStatus(f(69.9)))
}

func TestAttendanceLevel(t *testing.T) {
	assert.Equal(t, "excellent", attendanceLevel(95))
	assert.Equal(t, "good", attendanceLevel(85))
	assert.Equal(t, "fair", attendanceLevel(75))
	assert.Equal(t, "concerning", attendanceLevel(74.9))
}

func TestBuildAlerts(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name          string
		avg           *float64
		attendancePct float64
		trend         string
		wantKinds     []string
		wantLevels    []string
	}{
		{"all clear", f(85), 95, "stable", []string{}, []string{}},
		{"attendance warning", f(85), 79.9, "stable", []string{"attendance"}, []string{"warning"}},
		{"attendance danger", f(85), 69.9, "stable", []string{"attendance"}, []string{"danger"}},
		{"academic warning", f(69.9), 95, "stable", []string{"academic"}, []string{"warning"}},
		{"academic danger", f(59.9), 95, "stable", []string{"academic"}, []string{"danger"}},
		{"worsening trend", f(85), 95, "worsening", []string{"trend"}, []string{"warning"}},
		{"no grades raises nothing academic", nil, 95, "neutral", []string{}, []string{}},
		{"everything at once", f(55), 65, "worsening",
			[]string{"attendance", "academic", "trend"}, []string{"danger", "danger", "warning"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alerts := buildAlerts(tt.avg, tt.attendancePct, tt.trend)
			require.Len(t, alerts, len(tt.wantKinds))
			for i, alert := range alerts {
				assert.Equal(t, tt.wantKinds[i], alert.Kind)
				assert.Equal(t, tt.wantLevels[i], alert.Level)
			}
		})
	}
}

func TestPeriodHelpers(t *testing.T) {
	grades := []*models.Grade{
		{Period: "2024-T1", Value: 70},
		{Period: "2024-T2", Value: 80},
		{Period: "2024-T3", Value: 90},
	}

	assert.Equal(t, "2024-T3", latestPeriod(grades))
	assert.Equal(t, "2024-T2", previousPeriod(grades, "2024-T3"))
	assert.Equal(t, "", previousPeriod(grades, "2024-T1"))
	assert.Equal(t, "", latestPeriod(nil))
	assert.Equal(t, []float64{80}, periodValues(grades, "2024-T2"))
}

func TestParentDashboardRequiresParent(t *testing.T) {
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, nil, nil, nil)

	ident := &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(7)}
	_, err := svc.ParentDashboard(context.Background(), ident, "")

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestParentDashboardSummarizesChildren(t *testing.T) {
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, SubjectName: "Mathematics", Period: "2024-T1", Value: 80},
		{ID: 2, StudentID: 4, SubjectID: 3, SubjectName: "Mathematics", Period: "2024-T2", Value: 90},
	}}
	att := &fakeAttendanceStore{marks: []*models.Attendance{
		{ID: 1, StudentID: 4, Date: statsNow().AddDate(0, 0, -1), Present: true},
		{ID: 2, StudentID: 4, Date: statsNow().AddDate(0, 0, -2), Present: false},
	}}
	parts := &fakeParticipationStore{parts: []*models.Participation{
		{ID: 1, StudentID: 4, SubjectID: 3, Value: 4, Kind: models.ParticipationOral},
	}}
	students := &fakeStudentStore{
		students: map[int64]*models.Student{
			4: {ID: 4, CourseID: 1, User: &models.User{FirstName: "Ana", LastName: "Diaz"},
				Course: &models.Course{ID: 1, Name: "1st A", Level: models.LevelPrimary}},
		},
	}
	svc := newStatsService(grades, att, parts, students, nil, nil)

	ident := &auth.Identity{UserID: 5, Role: models.RoleParent, ParentID: ptrInt64(3), ChildIDs: []int64{4}}
	resp, err := svc.ParentDashboard(context.Background(), ident, "")

	require.NoError(t, err)
	require.Len(t, resp.Children, 1)
	child := resp.Children[0]
	assert.Equal(t, int64(4), child.StudentID)
	assert.Equal(t, "Ana Diaz", child.FullName)
	assert.Equal(t, "1st A", child.CourseName)
	require.NotNil(t, child.PeriodAverage)
	assert.InDelta(t, 90.0, *child.PeriodAverage, 0.0001)
	require.NotNil(t, child.PreviousAverage)
	assert.InDelta(t, 80.0, *child.PreviousAverage, 0.0001)
	assert.Equal(t, "improving", child.Trend)
	assert.InDelta(t, 50.0, child.AttendancePercent, 0.0001)
	assert.Equal(t, 1, child.AbsentDays)
	assert.Equal(t, 1, child.ParticipationCount)
	assert.Equal(t, "excellent", child.AcademicStatus)
}

func TestParentDashboardWithNoChildren(t *testing.T) {
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, nil, nil, nil)

	ident := &auth.Identity{UserID: 5, Role: models.RoleParent, ParentID: ptrInt64(3)}
	resp, err := svc.ParentDashboard(context.Background(), ident, "")

	require.NoError(t, err)
	assert.Empty(t, resp.Children)
}

func TestChildDetailDeniesUnrelatedCaller(t *testing.T) {
	students := &fakeStudentStore{
		ownership: map[int64]*auth.Ownership{
			4: {StudentID: 4, CourseTutorID: ptrInt64(7), ParentIDs: []int64{3}},
		},
	}
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, students, nil, nil)

	ident := &auth.Identity{UserID: 6, Role: models.RoleParent, ParentID: ptrInt64(99), ChildIDs: []int64{8}}
	_, err := svc.ChildDetail(context.Background(), ident, 4, "")

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestChildDetailGroupsBySubject(t *testing.T) {
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, SubjectName: "Mathematics", Period: "2024-T2", Value: 95},
		{ID: 2, StudentID: 4, SubjectID: 5, SubjectName: "History", Period: "2024-T2", Value: 60},
		{ID: 3, StudentID: 4, SubjectID: 3, SubjectName: "Mathematics", Period: "2024-T1", Value: 88},
	}}
	parts := &fakeParticipationStore{parts: []*models.Participation{
		{ID: 1, StudentID: 4, SubjectID: 3, SubjectName: "Mathematics", Value: 5, Kind: models.ParticipationOral},
	}}
	students := &fakeStudentStore{
		students: map[int64]*models.Student{
			4: {ID: 4, CourseID: 1, User: &models.User{FirstName: "Ana", LastName: "Diaz"}},
		},
		ownership: map[int64]*auth.Ownership{
			4: {StudentID: 4, CourseTutorID: ptrInt64(7), ParentIDs: []int64{3}},
		},
	}
	svc := newStatsService(grades, &fakeAttendanceStore{}, parts, students, nil, nil)

	ident := &auth.Identity{UserID: 1, Role: models.RoleAdmin}
	detail, err := svc.ChildDetail(context.Background(), ident, 4, "")

	require.NoError(t, err)
	assert.Equal(t, "2024-T2", detail.Period)
	require.NotNil(t, detail.Stats.OverallAverage)
	assert.InDelta(t, 77.5, *detail.Stats.OverallAverage, 0.0001)

	// Subjects sort by name; History before Mathematics.
	require.Len(t, detail.Subjects, 2)
	assert.Equal(t, "History", detail.Subjects[0].Name)
	assert.Len(t, detail.Subjects[0].Grades, 1)
	assert.Equal(t, "Mathematics", detail.Subjects[1].Name)
	assert.Len(t, detail.Subjects[1].Grades, 1)
	assert.Len(t, detail.Subjects[1].Participations, 1)

	require.Len(t, detail.Analysis.TopSubjects, 1)
	assert.Equal(t, "Mathematics", detail.Analysis.TopSubjects[0].SubjectName)
	require.Len(t, detail.Analysis.AttentionSubjects, 1)
	assert.Equal(t, "History", detail.Analysis.AttentionSubjects[0].SubjectName)

	// 100% attendance with no marks in the window.
	assert.InDelta(t, 100.0, detail.Stats.AttendancePercent, 0.0001)
	assert.Equal(t, "excellent", detail.Analysis.AttendanceLevel)
}

func TestTeacherDashboard(t *testing.T) {
	tutorID := int64(7)
	courses := &fakeCourseStore{courses: map[int64]*models.Course{
		1: {ID: 1, Name: "1st A", Level: models.LevelPrimary, AcademicYear: 2024, TutorID: &tutorID,
			School: &models.School{ID: 1, Name: "San Martin School"}},
	}}
	subjects := &fakeSubjectStore{subjects: map[int64]*models.Subject{
		3: {ID: 3, Name: "Mathematics", Code: "MAT1", CourseID: 1},
	}}
	students := &fakeStudentStore{students: map[int64]*models.Student{
		4: {ID: 4, CourseID: 1, User: &models.User{FirstName: "Ana", LastName: "Diaz"}},
	}}
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 80},
		{ID: 2, StudentID: 4, SubjectID: 3, Period: "2024-T2", Value: 85},
	}}
	svc := newStatsService(grades, &fakeAttendanceStore{}, &fakeParticipationStore{}, students, courses, subjects)

	ident := &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: &tutorID,
		IsTutor: true, TutorCourseID: ptrInt64(1)}
	resp, err := svc.TeacherDashboard(context.Background(), ident)

	require.NoError(t, err)
	assert.Equal(t, "1st A", resp.Course.Name)
	assert.Equal(t, "San Martin School", resp.Course.SchoolName)
	require.Len(t, resp.Subjects, 1)
	assert.Equal(t, "Mathematics", resp.Subjects[0].Name)
	require.Len(t, resp.Students, 1)
	assert.Len(t, resp.Students[0].Grades, 2)
	assert.Equal(t, []string{"2024-T1", "2024-T2"}, resp.Periods)
}

func TestTeacherDashboardRequiresTutor(t *testing.T) {
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, nil, nil, nil)

	t.Run("non teacher", func(t *testing.T) {
		_, err := svc.TeacherDashboard(context.Background(), &auth.Identity{UserID: 1, Role: models.RoleAdmin})
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})

	t.Run("teacher without a course", func(t *testing.T) {
		ident := &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(8)}
		_, err := svc.TeacherDashboard(context.Background(), ident)
		assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	})
}

func TestPredictBlendsComponents(t *testing.T) {
	grades := &fakeGradeStore{grades: []*models.Grade{
		{ID: 1, StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: 80},
		{ID: 2, StudentID: 4, SubjectID: 5, Period: "2024-T1", Value: 90},
		// Target-period grades must not count as priors.
		{ID: 3, StudentID: 4, SubjectID: 3, Period: "2024-T2", Value: 10},
	}}
	att := &fakeAttendanceStore{marks: []*models.Attendance{
		{ID: 1, StudentID: 4, Date: statsNow().AddDate(0, 0, -1), Present: true},
		{ID: 2, StudentID: 4, Date: statsNow().AddDate(0, 0, -2), Present: true},
		{ID: 3, StudentID: 4, Date: statsNow().AddDate(0, 0, -3), Present: true},
		{ID: 4, StudentID: 4, Date: statsNow().AddDate(0, 0, -4), Present: true},
		{ID: 5, StudentID: 4, Date: statsNow().AddDate(0, 0, -5), Present: false},
	}}
	parts := &fakeParticipationStore{parts: []*models.Participation{
		{ID: 1, StudentID: 4, SubjectID: 3, Value: 4, Kind: models.ParticipationOral},
		{ID: 2, StudentID: 4, SubjectID: 3, Value: 4, Kind: models.ParticipationWritten},
	}}
	students := &fakeStudentStore{ownership: map[int64]*auth.Ownership{
		4: {StudentID: 4, CourseTutorID: ptrInt64(7), ParentIDs: []int64{3}},
	}}
	svc := newStatsService(grades, att, parts, students, nil, nil)

	ident := &auth.Identity{UserID: 1, Role: models.RoleAdmin}
	pred, err := svc.Predict(context.Background(), ident, 4, "2024-T2")

	require.NoError(t, err)
	assert.InDelta(t, 85.0, pred.PriorAverage, 0.0001)
	assert.InDelta(t, 80.0, pred.AttendancePercent, 0.0001)
	assert.InDelta(t, 4.0, pred.ParticipationAverage, 0.0001)
	// 0.5*85 + 0.3*80 + 0.2*(4/5*100)
	assert.InDelta(t, 82.5, pred.Score, 0.0001)
	assert.Equal(t, "medium", pred.Classification)
}

func TestPredictWithNoHistory(t *testing.T) {
	students := &fakeStudentStore{ownership: map[int64]*auth.Ownership{
		4: {StudentID: 4},
	}}
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, students, nil, nil)

	ident := &auth.Identity{UserID: 1, Role: models.RoleAdmin}
	pred, err := svc.Predict(context.Background(), ident, 4, "2024-T1")

	require.NoError(t, err)
	// Only the attendance component survives: an empty window counts as
	// perfect attendance.
	assert.InDelta(t, 30.0, pred.Score, 0.0001)
	assert.Equal(t, "low", pred.Classification)
	assert.Zero(t, pred.PriorAverage)
	assert.Zero(t, pred.ParticipationAverage)
}

func TestPredictClassification(t *testing.T) {
	// With no attendance marks the window counts as 100%, so the score is
	// 0.5*prior + 30 + 0.2*(participation/5*100).
	tests := []struct {
		name          string
		priorValue    float64
		participation *float64
		wantScore     float64
		wantClass     string
	}{
		{"strong priors and participation", 90, ptrFloat64(5), 95, "high"},
		{"medium boundary", 80, nil, 70, "medium"},
		{"weak priors", 50, nil, 55, "low"},
		{"failing priors", 0, nil, 30, "low"},
	}

	students := &fakeStudentStore{ownership: map[int64]*auth.Ownership{4: {StudentID: 4}}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grades := &fakeGradeStore{grades: []*models.Grade{
				{ID: 1, StudentID: 4, SubjectID: 3, Period: "2024-T1", Value: tt.priorValue},
			}}
			parts := &fakeParticipationStore{}
			if tt.participation != nil {
				parts.parts = []*models.Participation{
					{ID: 1, StudentID: 4, SubjectID: 3, Value: *tt.participation, Kind: models.ParticipationOral},
				}
			}
			svc := newStatsService(grades, &fakeAttendanceStore{}, parts, students, nil, nil)

			pred, err := svc.Predict(context.Background(), &auth.Identity{Role: models.RoleAdmin}, 4, "2024-T2")

			require.NoError(t, err)
			assert.InDelta(t, tt.wantScore, pred.Score, 0.0001)
			assert.Equal(t, tt.wantClass, pred.Classification)
		})
	}
}

func TestPredictDeniesUnrelatedCaller(t *testing.T) {
	students := &fakeStudentStore{ownership: map[int64]*auth.Ownership{
		4: {StudentID: 4, CourseTutorID: ptrInt64(7), ParentIDs: []int64{3}},
	}}
	svc := newStatsService(&fakeGradeStore{}, &fakeAttendanceStore{}, &fakeParticipationStore{}, students, nil, nil)

	ident := &auth.Identity{UserID: 8, Role: models.RoleStudent, StudentID: ptrInt64(9)}
	_, err := svc.Predict(context.Background(), ident, 4, "2024-T1")

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
