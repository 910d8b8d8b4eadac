package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	appauth "github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/auth"
)

// AuthService handles login, token refresh and logout.
type AuthService struct {
	users      UserStore
	tokens     RefreshTokenStore
	jwt        *auth.JWTService
	identities *IdentityService
}

func NewAuthService(users UserStore, tokens RefreshTokenStore, jwt *auth.JWTService, identities *IdentityService) *AuthService {
	return &AuthService{users: users, tokens: tokens, jwt: jwt, identities: identities}
}

// Login verifies credentials and issues a token pair with the caller's
// resolved role profile.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	ident, err := s.identities.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, ident, user)
}

// Refresh exchanges a refresh token for a new token pair. The presented
// token is consumed whether or not the exchange succeeds.
func (s *AuthService) Refresh(ctx context.Context, req dto.RefreshRequest) (*dto.TokenResponse, error) {
	userID, err := s.tokens.Consume(ctx, req.RefreshToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ident, err := s.identities.Resolve(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, ident, user)
}

// Logout revokes every refresh token the user holds.
func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	return s.tokens.DeleteForUser(ctx, userID)
}

func (s *AuthService) issueTokens(ctx context.Context, ident *appauth.Identity, user *models.User) (*dto.TokenResponse, error) {
	access, expiresAt, err := s.jwt.GenerateAccessToken(ident.UserID, ident.Username, ident.Role)
	if err != nil {
		return nil, err
	}
	refresh, refreshExpiry := s.jwt.GenerateRefreshToken()
	if err := s.tokens.Store(ctx, ident.UserID, refresh, refreshExpiry); err != nil {
		return nil, err
	}

	log.Info().Int64("userId", ident.UserID).Str("role", string(ident.Role)).Msg("User authenticated")

	now := time.Now()
	return &dto.TokenResponse{
		AccessToken:      access,
		RefreshToken:     refresh,
		ExpiresIn:        int(expiresAt.Sub(now).Seconds()),
		RefreshExpiresIn: int(refreshExpiry.Sub(now).Seconds()),
		User:             userInfoFor(ident, user),
	}, nil
}

func userInfoFor(ident *appauth.Identity, user *models.User) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      string(ident.Role),
	}
	switch {
	case ident.TeacherID != nil:
		info.RoleID = *ident.TeacherID
		info.IsTutor = ident.IsTutor
		if ident.TutorCourseID != nil {
			info.TutorCourseID = *ident.TutorCourseID
		}
	case ident.StudentID != nil:
		info.RoleID = *ident.StudentID
		if ident.CourseID != nil {
			info.CourseID = *ident.CourseID
		}
	case ident.ParentID != nil:
		info.RoleID = *ident.ParentID
		info.ChildIDs = ident.ChildIDs
	}
	return info
}
