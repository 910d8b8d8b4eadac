package middleware

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"invalid credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"invalid token", apperrors.ErrInvalidToken, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"expired token", apperrors.ErrExpiredToken, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"modify forbidden", apperrors.ErrModifyForbidden, http.StatusForbidden, dto.ErrorCodeModifyForbidden},
		{"permission denied", apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"check-in bad token", apperrors.ErrCheckinBadToken, http.StatusBadRequest, dto.ErrorCodeCheckInRejected},
		{"check-in out of range", apperrors.ErrCheckinOutOfRange, http.StatusBadRequest, dto.ErrorCodeCheckInRejected},
		{"check-in outside window", apperrors.ErrCheckinOutsideWindow, http.StatusBadRequest, dto.ErrorCodeCheckInRejected},
		{"check-in by non-student", apperrors.ErrCheckinNotStudent, http.StatusForbidden, dto.ErrorCodeCheckInRejected},
		{"not found", apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"already exists", apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"validation", apperrors.ErrValidation, http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"anything else", errors.New("pgx: broken pipe"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := classifyError(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, detail.Code)
		})
	}
}

func TestClassifyWrappedError(t *testing.T) {
	wrapped := apperrors.New(apperrors.ErrValidation, "grade value 120.00 must be between 0 and 100")

	status, detail := classifyError(wrapped)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, dto.ErrorCodeValidationFailed, detail.Code)
	assert.Contains(t, detail.Message, "grade value")
}

func TestClassifyErrorHidesInternalDetail(t *testing.T) {
	_, detail := classifyError(errors.New("dial tcp 10.0.0.5:5432: connect: connection refused"))

	assert.NotContains(t, detail.Message, "5432")
}
