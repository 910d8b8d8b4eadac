package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
)

func TestParticipationCreateValidation(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	svc := NewParticipationService(&fakeParticipationStore{}, students, subjects, courses)
	admin := &auth.Identity{UserID: 1, Role: models.RoleAdmin}

	base := dto.CreateParticipationRequest{
		StudentID: 4, SubjectID: 3, Date: "2024-11-05", Value: 4, Kind: "oral",
	}

	tests := []struct {
		name   string
		mutate func(r *dto.CreateParticipationRequest)
	}{
		{"value above scale", func(r *dto.CreateParticipationRequest) { r.Value = 5.5 }},
		{"value below scale", func(r *dto.CreateParticipationRequest) { r.Value = -0.5 }},
		{"unknown kind", func(r *dto.CreateParticipationRequest) { r.Kind = "interpretive-dance" }},
		{"bad date", func(r *dto.CreateParticipationRequest) { r.Date = "November 5th" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := svc.Create(context.Background(), admin, req)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestParticipationCreateWriteRule(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	store := &fakeParticipationStore{}
	svc := NewParticipationService(store, students, subjects, courses)

	req := dto.CreateParticipationRequest{
		StudentID: 4, SubjectID: 3, Date: "2024-11-05", Value: 4.5, Kind: "group",
	}

	subjectTeacher := &auth.Identity{UserID: 3, Role: models.RoleTeacher, TeacherID: ptrInt64(8)}
	_, err := svc.Create(context.Background(), subjectTeacher, req)
	assert.ErrorIs(t, err, apperrors.ErrModifyForbidden)

	tutor := &auth.Identity{UserID: 2, Role: models.RoleTeacher, TeacherID: ptrInt64(7), IsTutor: true}
	part, err := svc.Create(context.Background(), tutor, req)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipationGroup, part.Kind)
	assert.Len(t, store.parts, 1)
}

func TestParticipationGetVisibility(t *testing.T) {
	students, subjects, courses := gradeFixtures()
	store := &fakeParticipationStore{parts: []*models.Participation{
		{ID: 1, StudentID: 4, SubjectID: 3, Value: 4, Kind: models.ParticipationOral},
	}}
	svc := NewParticipationService(store, students, subjects, courses)

	parent := &auth.Identity{UserID: 5, Role: models.RoleParent, ParentID: ptrInt64(3), ChildIDs: []int64{4}}
	part, err := svc.Get(context.Background(), parent, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), part.ID)

	stranger := &auth.Identity{UserID: 9, Role: models.RoleStudent, StudentID: ptrInt64(5)}
	_, err = svc.Get(context.Background(), stranger, 1)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}
