package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/cache"
)

// SchoolService manages schools and their check-in tokens.
type SchoolService struct {
	schools SchoolStore
	tokens  *cache.TokenCache
}

func NewSchoolService(schools SchoolStore, tokens *cache.TokenCache) *SchoolService {
	return &SchoolService{schools: schools, tokens: tokens}
}

func requireAdmin(ident *auth.Identity) error {
	if ident.Role != models.RoleAdmin {
		return apperrors.New(apperrors.ErrPermissionDenied, "administrator role required")
	}
	return nil
}

// Create registers a school with a fresh check-in token. Admin only.
func (s *SchoolService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateSchoolRequest) (*models.School, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	school := &models.School{
		Name:         req.Name,
		Address:      req.Address,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CheckinToken: uuid.NewString(),
	}
	if err := s.schools.Create(ctx, school); err != nil {
		return nil, err
	}
	log.Info().Int64("schoolId", school.ID).Str("name", school.Name).Msg("School created")
	return school, nil
}

// Get fetches a school. The check-in token is only exposed to admins.
func (s *SchoolService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.School, error) {
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ident.Role != models.RoleAdmin {
		school.CheckinToken = ""
	}
	return school, nil
}

// List returns every school, tokens stripped for non-admins.
func (s *SchoolService) List(ctx context.Context, ident *auth.Identity) ([]*models.School, error) {
	schools, err := s.schools.List(ctx)
	if err != nil {
		return nil, err
	}
	if ident.Role != models.RoleAdmin {
		for _, school := range schools {
			school.CheckinToken = ""
		}
	}
	return schools, nil
}

// Update changes a school's name and address. Admin only.
func (s *SchoolService) Update(ctx context.Context, ident *auth.Identity, id int64, req dto.UpdateSchoolRequest) (*models.School, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	school, err := s.schools.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Address != nil {
		school.Address = *req.Address
	}
	if err := s.schools.Update(ctx, id, school.Name, school.Address); err != nil {
		return nil, err
	}
	return school, nil
}

// RotateToken issues a new check-in token for the school, invalidating
// printed QR codes and the cached copy. Admin only.
func (s *SchoolService) RotateToken(ctx context.Context, ident *auth.Identity, id int64) (string, error) {
	if err := requireAdmin(ident); err != nil {
		return "", err
	}
	token := uuid.NewString()
	if err := s.schools.SetCheckinToken(ctx, id, token); err != nil {
		return "", err
	}
	s.tokens.InvalidateToken(ctx, id)
	log.Info().Int64("schoolId", id).Msg("Check-in token rotated")
	return token, nil
}
