package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// PeopleController handles teacher, student and parent profile endpoints.
type PeopleController struct {
	teacherService *services.TeacherService
	studentService *services.StudentService
	parentService  *services.ParentService
}

func NewPeopleController(teacherService *services.TeacherService, studentService *services.StudentService, parentService *services.ParentService) *PeopleController {
	return &PeopleController{
		teacherService: teacherService,
		studentService: studentService,
		parentService:  parentService,
	}
}

// CreateTeacher godoc
// @Summary Register a teacher with its account
// @Tags people
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTeacherRequest true "Teacher"
// @Success 201 {object} dto.APIResponse{data=models.Teacher}
// @Failure 403 {object} dto.ErrorResponse
// @Router /teachers [post]
func (ctrl *PeopleController) CreateTeacher(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	teacher, err := ctrl.teacherService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, teacher)
}

// GetTeacher godoc
// @Summary Get a teacher
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path int true "Teacher ID"
// @Success 200 {object} dto.APIResponse{data=models.Teacher}
// @Failure 404 {object} dto.ErrorResponse
// @Router /teachers/{id} [get]
func (ctrl *PeopleController) GetTeacher(c *gin.Context) {
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
	teacher, err := ctrl.teacherService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, teacher)
}

// ListTeachers godoc
// @Summary List teachers
// @Tags people
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Teacher}
// @Failure 403 {object} dto.ErrorResponse
// @Router /teachers [get]
func (ctrl *PeopleController) ListTeachers(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	teachers, err := ctrl.teacherService.List(c.Request.Context(), ident)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, teachers)
}

// CreateStudent godoc
// @Summary Enroll a student with its account and parent links
// @Tags people
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 403 {object} dto.ErrorResponse
// @Router /students [post]
func (ctrl *PeopleController) CreateStudent(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	student, err := ctrl.studentService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, student)
}

// GetStudent godoc
// @Summary Get a student
// @Description Visible to the admin, the student, their course tutor and linked parents
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 403 {object} dto.ErrorResponse
// @Router /students/{id} [get]
func (ctrl *PeopleController) GetStudent(c *gin.Context) {
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
	student, err := ctrl.studentService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, student)
}

// ListStudents godoc
// @Summary List the students the caller's role can see
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param courseId query int false "Limit to one course"
// @Success 200 {object} dto.APIResponse{data=[]models.Student}
// @Router /students [get]
func (ctrl *PeopleController) ListStudents(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	courseID, err := queryInt64(c, "courseId")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	students, err := ctrl.studentService.List(c.Request.Context(), ident, courseID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, students)
}

// CreateParent godoc
// @Summary Register a parent with its account
// @Tags people
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateParentRequest true "Parent"
// @Success 201 {object} dto.APIResponse{data=models.Parent}
// @Failure 403 {object} dto.ErrorResponse
// @Router /parents [post]
func (ctrl *PeopleController) CreateParent(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateParentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	parent, err := ctrl.parentService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, parent)
}

// GetParent godoc
// @Summary Get a parent
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parent ID"
// @Success 200 {object} dto.APIResponse{data=models.Parent}
// @Failure 403 {object} dto.ErrorResponse
// @Router /parents/{id} [get]
func (ctrl *PeopleController) GetParent(c *gin.Context) {
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
	parent, err := ctrl.parentService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, parent)
}

// ListParents godoc
// @Summary List parents
// @Tags people
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Parent}
// @Failure 403 {object} dto.ErrorResponse
// @Router /parents [get]
func (ctrl *PeopleController) ListParents(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	parents, err := ctrl.parentService.List(c.Request.Context(), ident)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, parents)
}

// LinkChild godoc
// @Summary Link a student to a parent
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parent ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /parents/{id}/children/{studentId} [post]
func (ctrl *PeopleController) LinkChild(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	parentID, err := idParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	studentID, err := idParam(c, "studentId")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if err := ctrl.parentService.LinkChild(c.Request.Context(), ident, parentID, studentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.SuccessResponse{Message: "child linked"})
}

// UnlinkChild godoc
// @Summary Unlink a student from a parent
// @Tags people
// @Produce json
// @Security BearerAuth
// @Param id path int true "Parent ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /parents/{id}/children/{studentId} [delete]
func (ctrl *PeopleController) UnlinkChild(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	parentID, err := idParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	studentID, err := idParam(c, "studentId")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	if err := ctrl.parentService.UnlinkChild(c.Request.Context(), ident, parentID, studentID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.SuccessResponse{Message: "child unlinked"})
}
