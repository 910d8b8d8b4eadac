package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// SchoolController handles school management endpoints.
type SchoolController struct {
	schoolService *services.SchoolService
}

func NewSchoolController(schoolService *services.SchoolService) *SchoolController {
	return &SchoolController{schoolService: schoolService}
}

// Create godoc
// @Summary Register a school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSchoolRequest true "School"
// @Success 201 {object} dto.APIResponse{data=models.School}
// @Failure 403 {object} dto.ErrorResponse
// @Router /schools [post]
func (ctrl *SchoolController) Create(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	school, err := ctrl.schoolService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, school)
}

// Get godoc
// @Summary Get a school
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=models.School}
// @Failure 404 {object} dto.ErrorResponse
// @Router /schools/{id} [get]
func (ctrl *SchoolController) Get(c *gin.Context) {
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
	school, err := ctrl.schoolService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, school)
}

// List godoc
// @Summary List schools
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.School}
// @Router /schools [get]
func (ctrl *SchoolController) List(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	schools, err := ctrl.schoolService.List(c.Request.Context(), ident)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, schools)
}

// Update godoc
// @Summary Update a school
// @Tags schools
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Param request body dto.UpdateSchoolRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.School}
// @Failure 403 {object} dto.ErrorResponse
// @Router /schools/{id} [put]
func (ctrl *SchoolController) Update(c *gin.Context) {
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
	var req dto.UpdateSchoolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	school, err := ctrl.schoolService.Update(c.Request.Context(), ident, id, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, school)
}

// RotateToken godoc
// @Summary Rotate a school's check-in token
// @Description Issues a new QR token, invalidating previously printed codes
// @Tags schools
// @Produce json
// @Security BearerAuth
// @Param id path int true "School ID"
// @Success 200 {object} dto.APIResponse{data=dto.RotateTokenResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /schools/{id}/rotate-token [post]
func (ctrl *SchoolController) RotateToken(c *gin.Context) {
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
	token, err := ctrl.schoolService.RotateToken(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.RotateTokenResponse{CheckinToken: token})
}
