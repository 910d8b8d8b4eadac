// Package middleware holds the Gin middleware and the central error mapper
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

// HandleAPIError maps application errors to HTTP responses with coded
// error bodies. Unrecognized errors become a 500 and are logged with the
// request path; their detail never leaks to the client.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := classifyError(err)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func classifyError(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	message := err.Error()
	if errors.As(err, &custom) {
		message = custom.Error()
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "invalid username or password")
	case errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrRefreshTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, message)
	case errors.Is(err, apperrors.ErrExpiredToken):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, message)
	case errors.Is(err, apperrors.ErrUnauthenticated):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, message)

	case errors.Is(err, apperrors.ErrModifyForbidden):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeModifyForbidden, message)
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message)

	// Pipeline rejections are request problems, not authorization ones.
	case errors.Is(err, apperrors.ErrCheckinBadToken),
		errors.Is(err, apperrors.ErrCheckinOutOfRange),
		errors.Is(err, apperrors.ErrCheckinOutsideWindow):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeCheckInRejected, message)
	case errors.Is(err, apperrors.ErrCheckinNotStudent):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeCheckInRejected, message)

	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message)
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message)

	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	}

	return http.StatusInternalServerError,
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "an unexpected error occurred")
}

// HandleValidationError answers a request whose body or parameters did
// not bind.
func HandleValidationError(c *gin.Context, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
