package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/app/services"
	"github.com/ncastell/classtrack/internal/middleware"
)

// ParticipationController handles participation record endpoints.
type ParticipationController struct {
	participationService *services.ParticipationService
}

func NewParticipationController(participationService *services.ParticipationService) *ParticipationController {
	return &ParticipationController{participationService: participationService}
}

// Create godoc
// @Summary Record a participation score
// @Tags participations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateParticipationRequest true "Participation"
// @Success 201 {object} dto.APIResponse{data=models.Participation}
// @Failure 403 {object} dto.ErrorResponse
// @Router /participations [post]
func (ctrl *ParticipationController) Create(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	var req dto.CreateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	part, err := ctrl.participationService.Create(c.Request.Context(), ident, req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusCreated, part)
}

// Get godoc
// @Summary Get a participation record
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Participation ID"
// @Success 200 {object} dto.APIResponse{data=models.Participation}
// @Failure 403 {object} dto.ErrorResponse
// @Router /participations/{id} [get]
func (ctrl *ParticipationController) Get(c *gin.Context) {
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
	part, err := ctrl.participationService.Get(c.Request.Context(), ident, id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, part)
}

// List godoc
// @Summary List the participations the caller's role can see
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param studentId query int false "Filter by student"
// @Param subjectId query int false "Filter by subject"
// @Param dateFrom query string false "From date (YYYY-MM-DD)"
// @Param dateTo query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.APIResponse{data=[]models.Participation}
// @Router /participations [get]
func (ctrl *ParticipationController) List(c *gin.Context) {
	ident, err := middleware.IdentityFrom(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	filter, err := participationFilterFromQuery(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	parts, err := ctrl.participationService.List(c.Request.Context(), ident, filter)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, parts)
}

// Delete godoc
// @Summary Delete a participation record
// @Tags participations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Participation ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 403 {object} dto.ErrorResponse
// @Router /participations/{id} [delete]
func (ctrl *ParticipationController) Delete(c *gin.Context) {
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
	if err := ctrl.participationService.Delete(c.Request.Context(), ident, id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	respond(c, http.StatusOK, dto.SuccessResponse{Message: "participation deleted"})
}
