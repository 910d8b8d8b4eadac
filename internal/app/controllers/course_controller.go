package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// CourseController handles course and subject endpoints.
type CourseController struct {
	courseService *services.CourseService
}

func NewCourseController(courseService *services.CourseService) *CourseController {
	return &CourseController{courseService: courseService}
}

// Create godoc
// @Summary Open a course group
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateCourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse
// @Router /courses [post]
func (ctrl *CourseController) Create(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	course, err := ctrl.courseService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, course)
}

// Get godoc
// @Summary Get a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id} [get]
func (ctrl *CourseController) Get(c *gin.Context) {
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
	course, err := ctrl.courseService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

// List godoc
// @Summary List courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param schoolId query int false "Limit to one school"
// @Success 200 {object} dto.APIResponse{data=[]models.Course}
// @Router /courses [get]
func (ctrl *CourseController) List(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	schoolID, err := queryInt64(c, "schoolId")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	courses, err := ctrl.courseService.List(c.Request.Context(), ident, schoolID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, courses)
}

// Update godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.ErrorResponse
// @Router /courses/{id} [put]
func (ctrl *CourseController) Update(c *gin.Context) {
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
	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	course, err := ctrl.courseService.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, course)
}

// Subjects godoc
// @Summary List the subjects of a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Subject}
// @Failure 404 {object} dto.ErrorResponse
// @Router /courses/{id}/subjects [get]
func (ctrl *CourseController) Subjects(c *gin.Context) {
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
	subjects, err := ctrl.courseService.Subjects(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, subjects)
}

// CreateSubject godoc
// @Summary Add a subject to a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSubjectRequest true "Subject"
// @Success 201 {object} dto.APIResponse{data=models.Subject}
// @Failure 403 {object} dto.ErrorResponse
// @Router /subjects [post]
func (ctrl *CourseController) CreateSubject(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	subject, err := ctrl.courseService.CreateSubject(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, subject)
}
