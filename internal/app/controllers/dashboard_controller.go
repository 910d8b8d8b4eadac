package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
	"github.com/ncastell/classtrack/internal/pkg/validation"
)

// DashboardController handles the aggregated views and the performance
// forecast.
type DashboardController struct {
	statsService *services.StatsService
}

func NewDashboardController(statsService *services.StatsService) *DashboardController {
	return &DashboardController{statsService: statsService}
}

// ParentDashboard godoc
// @Summary Parent dashboard
// @Description One card per child with averages, attendance, trend and alerts
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Param period query string false "Period (YYYY-Tn), defaults to each child's latest"
// @Success 200 {object} dto.APIResponse{data=dto.ParentDashboardResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /dashboards/parent [get]
func (ctrl *DashboardController) ParentDashboard(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	period, err := queryPeriod(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	requested := ""
	if period != nil {
		requested = *period
	}
	dashboard, err := ctrl.statsService.ParentDashboard(c.Request.Context(), ident, requested)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dashboard)
}

// ChildDetail godoc
// @Summary Full per-child view
// @Description Period stats, records by subject, analysis and recommendations
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param period query string false "Period (YYYY-Tn), defaults to the latest"
// @Success 200 {object} dto.APIResponse{data=dto.ChildDetailResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /dashboards/children/{id} [get]
func (ctrl *DashboardController) ChildDetail(c *gin.Context) {
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
	period, err := queryPeriod(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	requested := ""
	if period != nil {
		requested = *period
	}
	detail, err := ctrl.statsService.ChildDetail(c.Request.Context(), ident, id, requested)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, detail)
}

// TeacherDashboard godoc
// @Summary Tutor course dashboard
// @Description The tutored course with its subjects and student roster
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.TeacherDashboardResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /dashboards/teacher [get]
func (ctrl *DashboardController) TeacherDashboard(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	dashboard, err := ctrl.statsService.TeacherDashboard(c.Request.Context(), ident)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dashboard)
}

// Predict godoc
// @Summary Heuristic performance forecast
// @Description Blends prior grades, attendance and participation into a 0-100 score
// @Tags dashboards
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param period path string true "Target period (YYYY-Tn)"
// @Success 200 {object} dto.APIResponse{data=dto.PredictionResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /predictions/{studentId}/{period} [get]
func (ctrl *DashboardController) Predict(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	studentID, err := idParam(c, "studentId")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	period := c.Param("period")
	if err := validation.Period(period); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	prediction, err := ctrl.statsService.Predict(c.Request.Context(), ident, studentID, period)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, prediction)
}
