package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// AttendanceController handles attendance endpoints, including the QR
// check-in.
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// CheckIn godoc
// @Summary QR attendance check-in
// @Description Marks the calling student present for today after token, location and time-window checks
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckInRequest true "Scanned token and position"
// @Success 201 {object} dto.APIResponse{data=dto.CheckInResponse}
// @Success 200 {object} dto.APIResponse{data=dto.CheckInResponse} "already registered today"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Router /attendance/qr [post]
func (ctrl *AttendanceController) CheckIn(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	result, err := ctrl.attendanceService.CheckIn(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	status := http.StatusOK
	if result.Status == "created" {
		status = http.StatusCreated
	}
	respond(c, status, result)
}

// Create godoc
// @Summary Record a manual attendance mark
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAttendanceRequest true "Mark"
// @Success 201 {object} dto.APIResponse{data=models.Attendance}
// @Failure 403 {object} dto.ErrorResponse
// @Router /attendance [post]
func (ctrl *AttendanceController) Create(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	att, err := ctrl.attendanceService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, att)
}

// Get godoc
// @Summary Get an attendance mark
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Success 200 {object} dto.APIResponse{data=models.Attendance}
// @Failure 403 {object} dto.ErrorResponse
// @Router /attendance/{id} [get]
func (ctrl *AttendanceController) Get(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	att, err := ctrl.attendanceService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, att)
}

// List godoc
// @Summary List the attendance marks the caller's role can see
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param dateFrom query string false "From date (YYYY-MM-DD)"
// @Param dateTo query string false "To date (YYYY-MM-DD)"
// @Param present query bool false "Filter by presence"
// @Success 200 {object} dto.APIResponse{data=[]models.Attendance}
// @Router /attendance [get]
func (ctrl *AttendanceController) List(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter, err := attendanceFilterFromQuery(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	marks, err := ctrl.attendanceService.List(c.Request.Context(), ident, filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, marks)
}

// Update godoc
// @Summary Update an attendance mark
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Attendance ID"
// @Param request body dto.UpdateAttendanceRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Attendance}
// @Failure 403 {object} dto.ErrorResponse
// @Router /attendance/{id} [put]
func (ctrl *AttendanceController) Update(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	att, err := ctrl.attendanceService.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, att)
}
