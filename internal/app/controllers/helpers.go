// Package controllers exposes the HTTP handlers
package controllers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/repositories"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/validation"
)

// respond wraps data in the standard response envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, dto.APIResponse{Data: data, Timestamp: time.Now()})
}

// idParam parses a positive integer path parameter.
func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Newf(apperrors.ErrValidation, "invalid %s parameter", name)
	}
	return id, nil
}

// queryInt64 parses an optional integer query parameter.
func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrValidation, "invalid %s parameter", name)
	}
	return &v, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrValidation, "invalid %s parameter", name)
	}
	return &v, nil
}

// queryDate parses an optional YYYY-MM-DD query parameter.
func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := validation.Date(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryPeriod parses an optional period query parameter.
func queryPeriod(c *gin.Context) (*string, error) {
	raw := c.Query("period")
	if raw == "" {
		return nil, nil
	}
	if err := validation.Period(raw); err != nil {
		return nil, err
	}
	return &raw, nil
}

func gradeFilterFromQuery(c *gin.Context) (repositories.GradeFilter, error) {
	var filter repositories.GradeFilter
	var err error
	if filter.StudentID, err = queryInt64(c, "studentId"); err != nil {
		return filter, err
	}
	if filter.SubjectID, err = queryInt64(c, "subjectId"); err != nil {
		return filter, err
	}
	if filter.Period, err = queryPeriod(c); err != nil {
		return filter, err
	}
	return filter, nil
}

func attendanceFilterFromQuery(c *gin.Context) (repositories.AttendanceFilter, error) {
	var filter repositories.AttendanceFilter
	var err error
	if filter.StudentID, err = queryInt64(c, "studentId"); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = queryDate(c, "dateFrom"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryDate(c, "dateTo"); err != nil {
		return filter, err
	}
	if filter.Present, err = queryBool(c, "present"); err != nil {
		return filter, err
	}
	return filter, nil
}

func participationFilterFromQuery(c *gin.Context) (repositories.ParticipationFilter, error) {
	var filter repositories.ParticipationFilter
	var err error
	if filter.StudentID, err = queryInt64(c, "studentId"); err != nil {
		return filter, err
	}
	if filter.SubjectID, err = queryInt64(c, "subjectId"); err != nil {
		return filter, err
	}
	if filter.DateFrom, err = queryDate(c, "dateFrom"); err != nil {
		return filter, err
	}
	if filter.DateTo, err = queryDate(c, "dateTo"); err != nil {
		return filter, err
	}
	return filter, nil
}
