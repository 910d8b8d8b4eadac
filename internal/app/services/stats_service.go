package services

import (
	"context"
	"sort"
	"time"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// Prediction weights. The forecast blends past grades, attendance and
// participation on a 0-100 scale.
const (
	predictionGradeWeight         = 0.5
	predictionAttendanceWeight    = 0.3
	predictionParticipationWeight = 0.2
)

// Trend cutoffs: the strict one drives the per-child trend label, the
// looser one drives the period-over-period shift. They are deliberately
// different signals.
const (
	trendCutoff       = 5.0
	periodShiftCutoff = 3.0
)

// StatsService computes dashboards, alerts and the performance forecast.
type StatsService struct {
	grades         GradeStore
	attendance     AttendanceStore
	participations ParticipationStore
	students       StudentStore
	courses        CourseStore
	subjects       SubjectStore

	attendanceWindow time.Duration
	predictionWindow time.Duration

	now func() time.Time
}

func NewStatsService(grades GradeStore, attendance AttendanceStore, participations ParticipationStore,
	students StudentStore, courses CourseStore, subjects SubjectStore,
	cfg config.DashboardConfig, now func() time.Time) *StatsService {

	if now == nil {
		now = time.Now
	}
	return &StatsService{
		grades:           grades,
		attendance:       attendance,
		participations:   participations,
		students:         students,
		courses:          courses,
		subjects:         subjects,
		attendanceWindow: time.Duration(cfg.AttendanceWindowDays) * 24 * time.Hour,
		predictionWindow: time.Duration(cfg.PredictionWindowDays) * 24 * time.Hour,
		now:              now,
	}
}

// average returns nil for an empty slice, never zero: no data and a zero
// score must stay distinguishable.
func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// attendancePercent treats an empty window as perfect attendance: with
// no days marked there is nothing to hold against the student.
func attendancePercent(marks []*models.Attendance) (percent float64, present, total int) {
	total = len(marks)
	if total == 0 {
		return 100, 0, 0
	}
	for _, m := range marks {
		if m.Present {
			present++
		}
	}
	return float64(present) / float64(total) * 100, present, total
}

// trendLabel compares two period averages with the strict cutoff. A
// difference of exactly the cutoff already counts as a trend.
func trendLabel(current, previous *float64) string {
	if current == nil || previous == nil {
		return "neutral"
	}
	switch diff := *current - *previous; {
	case diff >= trendCutoff:
		return "improving"
	case diff <= -trendCutoff:
		return "worsening"
	default:
		return "stable"
	}
}

// periodShiftLabel compares two period averages with the loose cutoff,
// inclusive at the bound like trendLabel.
func periodShiftLabel(current, previous *float64) string {
	if current == nil || previous == nil {
		return "neutral"
	}
	switch diff := *current - *previous; {
	case diff >= periodShiftCutoff:
		return "up"
	case diff <= -periodShiftCutoff:
		return "down"
	default:
		return "flat"
	}
}

func academicStatus(avg *float64) string {
	if avg == nil {
		return "no_data"
	}
	switch {
	case *avg >= 90:
		return "excellent"
	case *avg >= 80:
		return "good"
	case *avg >= 70:
		return "fair"
	default:
		return "needs_attention"
	}
}

func attendanceLevel(percent float64) string {
	switch {
	case percent >= 95:
		return "excellent"
	case percent >= 85:
		return "good"
	case percent >= 75:
		return "fair"
	default:
		return "concerning"
	}
}

// buildAlerts raises the warning set shown on the parent dashboard.
func buildAlerts(avg *float64, attendancePct float64, trend string) []dto.Alert {
	alerts := []dto.Alert{}

	switch {
	case attendancePct < 70:
		alerts = append(alerts, dto.Alert{
			Kind: "attendance", Level: "danger",
			Message: "critically low attendance", Icon: "calendar-x",
		})
	case attendancePct < 80:
		alerts = append(alerts, dto.Alert{
			Kind: "attendance", Level: "warning",
			Message: "attendance below expected", Icon: "calendar-minus",
		})
	}

	if avg != nil {
		switch {
		case *avg < 60:
			alerts = append(alerts, dto.Alert{
				Kind: "academic", Level: "danger",
				Message: "average well below passing", Icon: "trending-down",
			})
		case *avg < 70:
			alerts = append(alerts, dto.Alert{
				Kind: "academic", Level: "warning",
				Message: "average below passing", Icon: "alert-triangle",
			})
		}
	}

	if trend == "worsening" {
		alerts = append(alerts, dto.Alert{
			Kind: "trend", Level: "warning",
			Message: "performance is declining", Icon: "arrow-down-right",
		})
	}
	return alerts
}

// periodValues extracts the grade values of one period.
func periodValues(grades []*models.Grade, period string) []float64 {
	values := []float64{}
	for _, g := range grades {
		if g.Period == period {
			values = append(values, g.Value)
		}
	}
	return values
}

// previousPeriod finds the lexically greatest period strictly before the
// given one among the student's grades.
func previousPeriod(grades []*models.Grade, period string) string {
	prev := ""
	for _, g := range grades {
		if g.Period < period && g.Period > prev {
			prev = g.Period
		}
	}
	return prev
}

// latestPeriod finds the lexically greatest period among the grades.
func latestPeriod(grades []*models.Grade) string {
	latest := ""
	for _, g := range grades {
		if g.Period > latest {
			latest = g.Period
		}
	}
	return latest
}

func subjectAverages(grades []*models.Grade, period string) []dto.SubjectAverage {
	type acc struct {
		name  string
		sum   float64
		count int
	}
	byID := map[int64]*acc{}
	order := []int64{}
	for _, g := range grades {
		if g.Period != period {
			continue
		}
		a, ok := byID[g.SubjectID]
		if !ok {
			a = &acc{name: g.SubjectName}
			byID[g.SubjectID] = a
			order = append(order, g.SubjectID)
		}
		a.sum += g.Value
		a.count++
	}
	sort.Slice(order, func(i, j int) bool { return byID[order[i]].name < byID[order[j]].name })

	result := []dto.SubjectAverage{}
	for _, id := range order {
		a := byID[id]
		result = append(result, dto.SubjectAverage{
			SubjectID:   id,
			SubjectName: a.name,
			Average:     a.sum / float64(a.count),
			GradeCount:  a.count,
		})
	}
	return result
}

// childSummary builds one card of the parent dashboard.
func (s *StatsService) childSummary(ctx context.Context, student *models.Student, period string) (*dto.ChildSummary, error) {
	grades, err := s.grades.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = latestPeriod(grades)
	}

	currentAvg := average(periodValues(grades, period))
	var previousAvg *float64
	if prev := previousPeriod(grades, period); prev != "" {
		previousAvg = average(periodValues(grades, prev))
	}
	trend := trendLabel(currentAvg, previousAvg)

	to := s.now()
	from := to.Add(-s.attendanceWindow)
	marks, err := s.attendance.ListForStudentRange(ctx, student.ID, from, to)
	if err != nil {
		return nil, err
	}
	attendancePct, present, total := attendancePercent(marks)

	parts, err := s.participations.ListForStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	partValues := make([]float64, 0, len(parts))
	for _, p := range parts {
		partValues = append(partValues, p.Value)
	}

	summary := &dto.ChildSummary{
		StudentID:            student.ID,
		FullName:             student.User.FullName(),
		PeriodAverage:        currentAvg,
		PreviousAverage:      previousAvg,
		Trend:                trend,
		AttendancePercent:    attendancePct,
		AbsentDays:           total - present,
		ParticipationCount:   len(parts),
		ParticipationAverage: average(partValues),
		Alerts:               buildAlerts(currentAvg, attendancePct, trend),
		AcademicStatus:       academicStatus(currentAvg),
	}
	if student.Course != nil {
		summary.CourseName = student.Course.Name
		summary.Level = string(student.Course.Level)
	}
	return summary, nil
}

// ParentDashboard aggregates every child of the calling parent. Period
// defaults per child to their latest graded period when empty.
func (s *StatsService) ParentDashboard(ctx context.Context, ident *auth.Identity, period string) (*dto.ParentDashboardResponse, error) {
	if ident.ParentID == nil {
		return nil, apperrors.New(apperrors.ErrPermissionDenied, "parent role required")
	}

	children := []dto.ChildSummary{}
	for _, childID := range ident.ChildIDs {
		student, err := s.students.GetByID(ctx, childID)
		if err != nil {
			return nil, err
		}
		summary, err := s.childSummary(ctx, student, period)
		if err != nil {
			return nil, err
		}
		children = append(children, *summary)
	}
	return &dto.ParentDashboardResponse{Period: period, Children: children}, nil
}

// ChildDetail builds the full per-child view: period stats, raw records
// grouped by subject, classification and recommendations. Visible to the
// admin, the child's tutor, the child themself or a linked parent.
func (s *StatsService) ChildDetail(ctx context.Context, ident *auth.Identity, studentID int64, period string) (*dto.ChildDetailResponse, error) {
	own, err := s.students.Ownership(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}

	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	grades, err := s.grades.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	availablePeriods, err := s.grades.DistinctPeriods(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if period == "" {
		period = latestPeriod(grades)
	}

	overallAvg := average(periodValues(grades, period))
	perSubject := subjectAverages(grades, period)

	to := s.now()
	from := to.Add(-s.attendanceWindow)
	marks, err := s.attendance.ListForStudentRange(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	attendancePct, present, total := attendancePercent(marks)

	parts, err := s.participations.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	var previousAvg *float64
	if prev := previousPeriod(grades, period); prev != "" {
		previousAvg = average(periodValues(grades, prev))
	}

	detail := &dto.ChildDetailResponse{
		StudentID:        student.ID,
		FullName:         student.User.FullName(),
		Period:           period,
		AvailablePeriods: availablePeriods,
		Stats: dto.PeriodStats{
			OverallAverage:     overallAvg,
			SubjectAverages:    perSubject,
			AttendancePercent:  attendancePct,
			PresentDays:        present,
			TotalDays:          total,
			ParticipationCount: len(parts),
		},
		Attendance: attendanceItems(marks),
		Subjects:   subjectDetails(grades, parts, period),
		Analysis:   buildAnalysis(overallAvg, previousAvg, attendancePct, perSubject),
	}
	if student.Course != nil {
		detail.CourseName = student.Course.Name
		detail.Level = string(student.Course.Level)
	}
	detail.Recommendations = buildRecommendations(detail.Analysis, attendancePct)
	return detail, nil
}

func attendanceItems(marks []*models.Attendance) []dto.AttendanceItem {
	items := make([]dto.AttendanceItem, 0, len(marks))
	for _, m := range marks {
		items = append(items, dto.AttendanceItem{
			Date:     m.Date,
			Present:  m.Present,
			ViaQR:    m.ViaQR,
			Comments: m.Comments,
		})
	}
	return items
}

// subjectDetails groups one period's grades and participations by
// subject.
func subjectDetails(grades []*models.Grade, parts []*models.Participation, period string) []dto.SubjectDetail {
	byID := map[int64]*dto.SubjectDetail{}
	order := []int64{}

	get := func(id int64, name string) *dto.SubjectDetail {
		d, ok := byID[id]
		if !ok {
			d = &dto.SubjectDetail{SubjectID: id, Name: name, Grades: []dto.GradeItem{}, Participations: []dto.ParticipationItem{}}
			byID[id] = d
			order = append(order, id)
		}
		return d
	}

	for _, g := range grades {
		if g.Period != period {
			continue
		}
		d := get(g.SubjectID, g.SubjectName)
		d.Grades = append(d.Grades, dto.GradeItem{
			ID:         g.ID,
			Period:     g.Period,
			Value:      g.Value,
			Comments:   g.Comments,
			RecordedAt: g.RecordedAt,
		})
	}
	for _, p := range parts {
		d := get(p.SubjectID, p.SubjectName)
		d.Participations = append(d.Participations, dto.ParticipationItem{
			ID:       p.ID,
			Date:     p.Date,
			Value:    p.Value,
			Kind:     string(p.Kind),
			Comments: p.Comments,
		})
	}

	sort.Slice(order, func(i, j int) bool { return byID[order[i]].Name < byID[order[j]].Name })
	result := make([]dto.SubjectDetail, 0, len(order))
	for _, id := range order {
		result = append(result, *byID[id])
	}
	return result
}

func buildAnalysis(overallAvg, previousAvg *float64, attendancePct float64, perSubject []dto.SubjectAverage) dto.PerformanceAnalysis {
	analysis := dto.PerformanceAnalysis{
		AttendanceLevel:   attendanceLevel(attendancePct),
		TopSubjects:       []dto.SubjectAverage{},
		AttentionSubjects: []dto.SubjectAverage{},
		PeriodShift:       periodShiftLabel(overallAvg, previousAvg),
	}

	if overallAvg == nil {
		analysis.AcademicLevel = "no_data"
	} else {
		switch {
		case *overallAvg >= 90:
			analysis.AcademicLevel = "excellent"
		case *overallAvg >= 80:
			analysis.AcademicLevel = "good"
		case *overallAvg >= 70:
			analysis.AcademicLevel = "fair"
		default:
			analysis.AcademicLevel = "needs_improvement"
		}
	}

	for _, sa := range perSubject {
		switch {
		case sa.Average >= 85:
			analysis.TopSubjects = append(analysis.TopSubjects, sa)
		case sa.Average < 70:
			analysis.AttentionSubjects = append(analysis.AttentionSubjects, sa)
		}
	}
	return analysis
}

func buildRecommendations(analysis dto.PerformanceAnalysis, attendancePct float64) []dto.Recommendation {
	recs := []dto.Recommendation{}

	if analysis.AcademicLevel == "needs_improvement" {
		recs = append(recs, dto.Recommendation{
			Kind: "academic", Priority: "high",
			Title:       "reinforce core subjects",
			Description: "schedule extra study time for the subjects below passing",
			Icon:        "book-open",
		})
	}
	for _, sa := range analysis.AttentionSubjects {
		recs = append(recs, dto.Recommendation{
			Kind: "subject", Priority: "medium",
			Title:       "support needed in " + sa.SubjectName,
			Description: "recent results in this subject are below passing",
			Icon:        "help-circle",
		})
	}
	if attendancePct < 80 {
		recs = append(recs, dto.Recommendation{
			Kind: "attendance", Priority: "high",
			Title:       "improve daily attendance",
			Description: "missed days weigh directly on the performance forecast",
			Icon:        "calendar-check",
		})
	}
	if analysis.PeriodShift == "down" {
		recs = append(recs, dto.Recommendation{
			Kind: "trend", Priority: "medium",
			Title:       "review recent drop",
			Description: "the average fell versus the previous period",
			Icon:        "trending-down",
		})
	}
	return recs
}

// TeacherDashboard builds the course management view for a tutor. Admins
// are not course-bound, so the caller must tutor a course.
func (s *StatsService) TeacherDashboard(ctx context.Context, ident *auth.Identity) (*dto.TeacherDashboardResponse, error) {
	if ident.TeacherID == nil {
		return nil, apperrors.New(apperrors.ErrPermissionDenied, "teacher role required")
	}
	if ident.TutorCourseID == nil {
		return nil, apperrors.New(apperrors.ErrResourceNotFound, "no course assigned to this tutor")
	}

	course, err := s.courses.GetByID(ctx, *ident.TutorCourseID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.subjects.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	students, err := s.students.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, err
	}

	resp := &dto.TeacherDashboardResponse{
		Course: dto.CourseInfo{
			ID:           course.ID,
			Name:         course.Name,
			Level:        string(course.Level),
			AcademicYear: course.AcademicYear,
			StudentCount: course.StudentCount,
		},
		Subjects: []dto.SubjectInfo{},
		Students: []dto.RosterStudent{},
		Periods:  []string{},
	}
	if course.School != nil {
		resp.Course.SchoolName = course.School.Name
	}
	for _, subj := range subjects {
		resp.Subjects = append(resp.Subjects, dto.SubjectInfo{ID: subj.ID, Name: subj.Name, Code: subj.Code})
	}

	periodSet := map[string]bool{}
	for _, student := range students {
		grades, err := s.grades.ListForStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}
		parts, err := s.participations.ListForStudent(ctx, student.ID)
		if err != nil {
			return nil, err
		}

		roster := dto.RosterStudent{
			StudentID:      student.ID,
			FullName:       student.User.FullName(),
			Grades:         []dto.GradeItem{},
			Participations: []dto.ParticipationItem{},
		}
		for _, g := range grades {
			periodSet[g.Period] = true
			roster.Grades = append(roster.Grades, dto.GradeItem{
				ID:         g.ID,
				SubjectID:  g.SubjectID,
				Period:     g.Period,
				Value:      g.Value,
				Comments:   g.Comments,
				RecordedAt: g.RecordedAt,
			})
		}
		for _, p := range parts {
			roster.Participations = append(roster.Participations, dto.ParticipationItem{
				ID:        p.ID,
				SubjectID: p.SubjectID,
				Date:      p.Date,
				Value:     p.Value,
				Kind:      string(p.Kind),
				Comments:  p.Comments,
			})
		}
		resp.Students = append(resp.Students, roster)
	}

	for period := range periodSet {
		resp.Periods = append(resp.Periods, period)
	}
	sort.Strings(resp.Periods)
	return resp, nil
}

// Predict forecasts a student's performance for a period by blending
// their prior-period grade average, recent attendance and participation.
// Each component is scaled to 0-100 before weighting; a missing
// component contributes zero rather than being skipped.
func (s *StatsService) Predict(ctx context.Context, ident *auth.Identity, studentID int64, period string) (*dto.PredictionResponse, error) {
	own, err := s.students.Ownership(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}

	grades, err := s.grades.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	// Priors are grades from periods strictly before the target.
	priorValues := []float64{}
	for _, g := range grades {
		if g.Period < period {
			priorValues = append(priorValues, g.Value)
		}
	}
	priorAvg := 0.0
	if avg := average(priorValues); avg != nil {
		priorAvg = *avg
	}

	to := s.now()
	from := to.Add(-s.predictionWindow)
	marks, err := s.attendance.ListForStudentRange(ctx, studentID, from, to)
	if err != nil {
		return nil, err
	}
	attendancePct, _, _ := attendancePercent(marks)

	parts, err := s.participations.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	partAvg := 0.0
	if len(parts) > 0 {
		var sum float64
		for _, p := range parts {
			sum += p.Value
		}
		partAvg = sum / float64(len(parts))
	}

	score := predictionGradeWeight*priorAvg +
		predictionAttendanceWeight*attendancePct +
		predictionParticipationWeight*(partAvg/models.ParticipationMax*100)

	classification := "low"
	switch {
	case score >= 85:
		classification = "high"
	case score >= 70:
		classification = "medium"
	}

	return &dto.PredictionResponse{
		StudentID:            studentID,
		Period:               period,
		Score:                score,
		Classification:       classification,
		PriorAverage:         priorAvg,
		AttendancePercent:    attendancePct,
		ParticipationAverage: partAvg,
	}, nil
}
