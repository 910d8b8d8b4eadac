package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// GradeController handles grade record endpoints.
type GradeController struct {
	gradeService *services.GradeService
}

func NewGradeController(gradeService *services.GradeService) *GradeController {
	return &GradeController{gradeService: gradeService}
}

// Create godoc
// @Summary Record a grade
// @Description Only the admin or the tutor of the subject's course may record
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateGradeRequest true "Grade"
// @Success 201 {object} dto.APIResponse{data=models.Grade}
// @Failure 403 {object} dto.ErrorResponse
// @Router /grades [post]
func (ctrl *GradeController) Create(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	grade, err := ctrl.gradeService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, grade)
}

// Get godoc
// @Summary Get a grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Failure 403 {object} dto.ErrorResponse
// @Router /grades/{id} [get]
func (ctrl *GradeController) Get(c *gin.Context) {
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
	grade, err := ctrl.gradeService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, grade)
}

// List godoc
// @Summary List the grades the caller's role can see
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param subjectId query int false "Filter by subject"
// @Param period query string false "Filter by period (YYYY-Tn)"
// @Success 200 {object} dto.APIResponse{data=[]models.Grade}
// @Router /grades [get]
func (ctrl *GradeController) List(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter, err := gradeFilterFromQuery(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	grades, err := ctrl.gradeService.List(c.Request.Context(), ident, filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, grades)
}

// Update godoc
// @Summary Update a grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Param request body dto.UpdateGradeRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Grade}
// @Failure 403 {object} dto.ErrorResponse
// @Router /grades/{id} [put]
func (ctrl *GradeController) Update(c *gin.Context) {
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
	var req dto.UpdateGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	grade, err := ctrl.gradeService.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, grade)
}

// Delete godoc
// @Summary Delete a grade
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param id path int true "Grade ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /grades/{id} [delete]
func (ctrl *GradeController) Delete(c *gin.Context) {
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
	if err := ctrl.gradeService.Delete(c.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.SuccessResponse{Message: "grade deleted"})
}
