package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appauth "github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/config"
	"github.com/ncastell/classtrack/internal/middleware"
)

// Minimal in-memory stores for driving the check-in endpoint through a
// real router. Only the methods the pipeline touches do anything.

type stubSchoolStore struct {
	school *models.School
}

func (s *stubSchoolStore) Create(ctx context.Context, school *models.School) error { return nil }
func (s *stubSchoolStore) GetByID(ctx context.Context, id int64) (*models.School, error) {
	return s.school, nil
}
func (s *stubSchoolStore) List(ctx context.Context) ([]*models.School, error)             { return nil, nil }
func (s *stubSchoolStore) Update(ctx context.Context, id int64, name, address string) error { return nil }
func (s *stubSchoolStore) SetCheckinToken(ctx context.Context, id int64, token string) error {
	return nil
}
func (s *stubSchoolStore) GetForStudent(ctx context.Context, studentID int64) (*models.School, error) {
	return s.school, nil
}

type stubStudentStore struct{}

func (s *stubStudentStore) CreateTx(ctx context.Context, tx pgx.Tx, st *models.Student) error {
	return nil
}
func (s *stubStudentStore) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	return nil, nil
}
func (s *stubStudentStore) GetByUserID(ctx context.Context, userID int64) (*models.Student, error) {
	return nil, nil
}
func (s *stubStudentStore) List(ctx context.Context, scope appauth.Scope, courseID *int64) ([]*models.Student, error) {
	return nil, nil
}
func (s *stubStudentStore) ListByCourse(ctx context.Context, courseID int64) ([]*models.Student, error) {
	return nil, nil
}
func (s *stubStudentStore) Ownership(ctx context.Context, studentID int64) (*appauth.Ownership, error) {
	return &appauth.Ownership{StudentID: studentID}, nil
}

type stubAttendanceStore struct {
	marked map[int64]bool
}

func (s *stubAttendanceStore) Create(ctx context.Context, att *models.Attendance) error { return nil }
func (s *stubAttendanceStore) GetByID(ctx context.Context, id int64) (*models.Attendance, error) {
	return nil, nil
}
func (s *stubAttendanceStore) List(ctx context.Context, scope appauth.Scope, filter repositories.AttendanceFilter) ([]*models.Attendance, error) {
	return nil, nil
}
func (s *stubAttendanceStore) ListForStudentRange(ctx context.Context, studentID int64, from, to time.Time) ([]*models.Attendance, error) {
	return nil, nil
}
func (s *stubAttendanceStore) Update(ctx context.Context, att *models.Attendance) error { return nil }
func (s *stubAttendanceStore) MarkPresentByQR(ctx context.Context, studentID int64, date, arrival time.Time) (models.CheckInOutcome, error) {
	if s.marked[studentID] {
		return models.CheckInDuplicate, nil
	}
	s.marked[studentID] = true
	return models.CheckInInserted, nil
}

func checkinRouter(t *testing.T, limit gin.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.CheckInConfig{
		LatitudeTolerance:  0.001,
		LongitudeTolerance: 0.001,
		WindowStart:        "07:00",
		WindowEnd:          "08:30",
	}
	clock := func() time.Time {
		return time.Date(2024, 11, 5, 8, 0, 0, 0, time.UTC)
	}
	svc, err := services.NewAttendanceService(
		&stubAttendanceStore{marked: map[int64]bool{}},
		&stubStudentStore{},
		&stubSchoolStore{school: &models.School{ID: 1, Latitude: 10, Longitude: 20, CheckinToken: "TOKEN-1"}},
		nil, cfg, clock)
	require.NoError(t, err)

	studentID := int64(4)
	schoolID := int64(1)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("identity", &appauth.Identity{
			UserID:    9,
			Role:      models.RoleStudent,
			StudentID: &studentID,
			SchoolID:  &schoolID,
		})
		c.Next()
	})
	if limit != nil {
		router.POST("/attendance/qr", limit, NewAttendanceController(svc).CheckIn)
	} else {
		router.POST("/attendance/qr", NewAttendanceController(svc).CheckIn)
	}
	return router
}

func postCheckin(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/attendance/qr", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCheckInEndpointStatusCodes(t *testing.T) {
	router := checkinRouter(t, nil)
	valid := `{"token":"TOKEN-1","latitude":10.0005,"longitude":20.0005}`

	rec := postCheckin(router, valid)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"created"`)

	rec = postCheckin(router, valid)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"already-registered"`)
}

func TestCheckInEndpointRejectionsAreBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrong token", `{"token":"WRONG","latitude":10.0005,"longitude":20.0005}`},
		{"outside the zone", `{"token":"TOKEN-1","latitude":11.0,"longitude":20.0005}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postCheckin(checkinRouter(t, nil), tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "CHK_001")
		})
	}
}

func TestCheckInRouteIsRateLimited(t *testing.T) {
	router := checkinRouter(t, middleware.RateLimit(2))
	valid := `{"token":"TOKEN-1","latitude":10.0005,"longitude":20.0005}`

	assert.Equal(t, http.StatusCreated, postCheckin(router, valid).Code)
	assert.Equal(t, http.StatusOK, postCheckin(router, valid).Code)

	rec := postCheckin(router, valid)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "RATE_001")
}
