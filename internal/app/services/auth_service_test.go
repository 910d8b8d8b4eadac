package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeRefreshTokenStore) {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse")
	require.NoError(t, err)

	users := &fakeUserStore{users: map[int64]*models.User{
		2: {ID: 2, Username: "mgarcia", Email: "mgarcia@school.edu",
			FirstName: "Maria", LastName: "Garcia", PasswordHash: hash},
		9: {ID: 9, Username: "adiaz", PasswordHash: hash},
	}}
	teachers := &fakeTeacherStore{
		byUserID:    map[int64]*models.Teacher{2: {ID: 7, UserID: 2}},
		tutorCourse: map[int64]*int64{7: ptrInt64(1)},
	}
	students := &fakeStudentStore{
		byUserID: map[int64]*models.Student{9: {ID: 4, UserID: 9, CourseID: 1}},
	}
	parents := &fakeParentStore{}
	courses := &fakeCourseStore{}

	identities := NewIdentityService(users, teachers, students, parents, courses)
	tokens := &fakeRefreshTokenStore{}
	jwtService := auth.NewJWTService("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, tokens, jwtService, identities), tokens
}

func TestLoginIssuesTokensWithRoleProfile(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "mgarcia", Password: "correct-horse"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Greater(t, resp.ExpiresIn, 0)
	require.NotNil(t, resp.User)
	assert.Equal(t, "TEACHER", resp.User.Role)
	assert.Equal(t, int64(7), resp.User.RoleID)
	assert.True(t, resp.User.IsTutor)
	assert.Equal(t, int64(1), resp.User.TutorCourseID)

	// The refresh token is stored for later exchange.
	assert.Equal(t, int64(2), tokens.tokens[resp.RefreshToken])
}

func TestLoginResolvesStudentProfile(t *testing.T) {
	svc, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "adiaz", Password: "correct-horse"})

	require.NoError(t, err)
	assert.Equal(t, "STUDENT", resp.User.Role)
	assert.Equal(t, int64(4), resp.User.RoleID)
	assert.Equal(t, int64(1), resp.User.CourseID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newAuthFixture(t)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "mgarcia", Password: "wrong"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "nobody", Password: "correct-horse"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "mgarcia", Password: "correct-horse"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// The consumed token is gone; replaying it fails.
	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)

	assert.Contains(t, tokens.tokens, refreshed.RefreshToken)
}

func TestLogoutRevokesTokens(t *testing.T) {
	svc, tokens := newAuthFixture(t)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "mgarcia", Password: "correct-horse"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), 2))

	_, err = svc.Refresh(context.Background(), dto.RefreshRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrRefreshTokenNotFound)
	assert.Empty(t, tokens.tokens)
}
