package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	appauth "github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/auth"
)

const identityKey = "identity"

// IdentityResolver resolves a user ID into its role identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID int64) (*appauth.Identity, error)
}

// Authentication validates the bearer token and attaches the caller's
// resolved role identity to the request context.
func Authentication(jwtService *auth.JWTService, identities IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			HandleAPIError(c, apperrors.New(apperrors.ErrUnauthenticated, "missing Authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			HandleAPIError(c, apperrors.New(apperrors.ErrInvalidToken, "malformed Authorization header"))
			return
		}

		claims, err := jwtService.ValidateToken(parts[1])
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		ident, err := identities.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			HandleAPIError(c, err)
			return
		}

		c.Set(identityKey, ident)
		c.Next()
	}
}

// IdentityFrom extracts the resolved identity set by Authentication.
func IdentityFrom(c *gin.Context) (*appauth.Identity, error) {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	ident, ok := value.(*appauth.Identity)
	if !ok {
		return nil, apperrors.ErrUnauthenticated
	}
	return ident, nil
}
