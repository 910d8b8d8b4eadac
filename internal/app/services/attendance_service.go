package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/cache"
	"github.com/ncastell/classtrack/internal/pkg/helpers"
	"github.com/ncastell/classtrack/internal/pkg/metrics"
	"github.com/ncastell/classtrack/internal/pkg/validation"
)

// geoSlack absorbs float64 representation error at the geofence edge,
// so a position at exactly the tolerance distance is accepted.
const geoSlack = 1e-9

// AttendanceService manages attendance marks and the QR check-in flow.
type AttendanceService struct {
	attendance AttendanceStore
	students   StudentStore
	schools    SchoolStore
	tokens     *cache.TokenCache

	latTolerance float64
	lngTolerance float64
	windowStart  int
	windowEnd    int

	now func() time.Time
}

// NewAttendanceService wires the attendance flows. The check-in window
// strings must parse as HH:MM.
func NewAttendanceService(attendance AttendanceStore, students StudentStore, schools SchoolStore,
	tokens *cache.TokenCache, cfg config.CheckInConfig, now func() time.Time) (*AttendanceService, error) {

	start, err := helpers.ParseClock(cfg.WindowStart)
	if err != nil {
		return nil, err
	}
	end, err := helpers.ParseClock(cfg.WindowEnd)
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &AttendanceService{
		attendance:   attendance,
		students:     students,
		schools:      schools,
		tokens:       tokens,
		latTolerance: cfg.LatitudeTolerance,
		lngTolerance: cfg.LongitudeTolerance,
		windowStart:  start,
		windowEnd:    end,
		now:          now,
	}, nil
}

// CheckIn runs the QR attendance pipeline: the caller must be a student,
// the scanned token must match their school's current one, the reported
// position must fall inside the school's coordinate box and the scan
// must arrive inside the allowed morning window. Passing all gates marks
// the student present for today; a repeated scan on the same day is
// answered idempotently.
func (s *AttendanceService) CheckIn(ctx context.Context, ident *auth.Identity, req dto.CheckInRequest) (*dto.CheckInResponse, error) {
	if ident.StudentID == nil {
		metrics.CheckinAttempts.WithLabelValues("not-student").Inc()
		return nil, apperrors.ErrCheckinNotStudent
	}
	studentID := *ident.StudentID

	// Cached token mismatches are rejected before touching Postgres.
	if ident.SchoolID != nil {
		if cached, ok := s.tokens.GetToken(ctx, *ident.SchoolID); ok && req.Token != cached {
			metrics.CheckinAttempts.WithLabelValues("bad-token").Inc()
			return nil, apperrors.ErrCheckinBadToken
		}
	}

	school, err := s.schools.GetForStudent(ctx, studentID)
	if err != nil {
		metrics.CheckinAttempts.WithLabelValues("error").Inc()
		return nil, err
	}
	s.tokens.SetToken(ctx, school.ID, school.CheckinToken)

	if req.Token != school.CheckinToken {
		metrics.CheckinAttempts.WithLabelValues("bad-token").Inc()
		return nil, apperrors.ErrCheckinBadToken
	}

	// The zone is an axis-aligned box around the school, bounds inclusive.
	// Coordinate subtraction is not exact in float64, so the bound
	// carries a slack far below any real tolerance.
	if math.Abs(req.Latitude-school.Latitude) > s.latTolerance+geoSlack ||
		math.Abs(req.Longitude-school.Longitude) > s.lngTolerance+geoSlack {
		metrics.CheckinAttempts.WithLabelValues("out-of-range").Inc()
		return nil, apperrors.ErrCheckinOutOfRange
	}

	now := s.now()
	second := helpers.SecondsOfDay(now)
	if second < s.windowStart || second > s.windowEnd {
		metrics.CheckinAttempts.WithLabelValues("outside-window").Inc()
		return nil, apperrors.ErrCheckinOutsideWindow
	}

	outcome, err := s.attendance.MarkPresentByQR(ctx, studentID, helpers.DateOnly(now), now)
	if err != nil {
		metrics.CheckinAttempts.WithLabelValues("error").Inc()
		return nil, err
	}

	if outcome == models.CheckInDuplicate {
		metrics.CheckinAttempts.WithLabelValues("already-registered").Inc()
		return &dto.CheckInResponse{
			Status:  "already-registered",
			Message: "attendance already registered for today",
		}, nil
	}

	metrics.CheckinAttempts.WithLabelValues("created").Inc()
	log.Info().Int64("studentId", studentID).Int64("schoolId", school.ID).
		Bool("flipped", outcome == models.CheckInFlipped).Msg("QR check-in registered")
	return &dto.CheckInResponse{
		Status:  "created",
		Message: "attendance registered",
	}, nil
}

// Create records a manual attendance mark. Only the admin or the
// student's course tutor may write.
func (s *AttendanceService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateAttendanceRequest) (*models.Attendance, error) {
	date, err := validation.Date(req.Date)
	if err != nil {
		return nil, err
	}
	own, err := s.students.Ownership(ctx, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(ident, *own) {
		return nil, apperrors.ErrModifyForbidden
	}

	att := &models.Attendance{
		StudentID: req.StudentID,
		Date:      date,
		Present:   req.Present,
		Comments:  req.Comments,
	}
	if err := s.attendance.Create(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}

// Get fetches an attendance mark, subject to object-level visibility.
func (s *AttendanceService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Attendance, error) {
	att, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	own, err := s.students.Ownership(ctx, att.StudentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanRead(ident, *own) {
		return nil, apperrors.ErrPermissionDenied
	}
	return att, nil
}

// List returns the marks the caller's role can see, narrowed by the
// optional filters.
func (s *AttendanceService) List(ctx context.Context, ident *auth.Identity, filter repositories.AttendanceFilter) ([]*models.Attendance, error) {
	return s.attendance.List(ctx, auth.ScopeFor(ident), filter)
}

// Update flips or annotates a mark under the same write rule as manual
// creation.
func (s *AttendanceService) Update(ctx context.Context, ident *auth.Identity, id int64, req dto.UpdateAttendanceRequest) (*models.Attendance, error) {
	att, err := s.attendance.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	own, err := s.students.Ownership(ctx, att.StudentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(ident, *own) {
		return nil, apperrors.ErrModifyForbidden
	}
	if req.Present != nil {
		att.Present = *req.Present
	}
	if req.Comments != nil {
		att.Comments = *req.Comments
	}
	if err := s.attendance.Update(ctx, att); err != nil {
		return nil, err
	}
	return att, nil
}
