package services

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/ncastell/classtrack/internal/app/auth"
	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/app/models/dto"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	pkgauth "github.com/ncastell/classtrack/internal/pkg/auth"
)

// ParentService manages parent profiles and child links.
type ParentService struct {
	parents ParentStore
	users   UserStore
	tx      Transactor
}

func NewParentService(parents ParentStore, users UserStore, tx Transactor) *ParentService {
	return &ParentService{parents: parents, users: users, tx: tx}
}

// Create registers a parent and its user account atomically. Admin only.
func (s *ParentService) Create(ctx context.Context, ident *auth.Identity, req dto.CreateParentRequest) (*models.Parent, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}

	hash, err := pkgauth.HashPassword(req.User.Password)
	if err != nil {
		return nil, err
	}

	parent := &models.Parent{
		Phone:      req.Phone,
		Address:    req.Address,
		Occupation: req.Occupation,
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		user := &models.User{
			Username:     req.User.Username,
			Email:        req.User.Email,
			PasswordHash: hash,
			FirstName:    req.User.FirstName,
			LastName:     req.User.LastName,
		}
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		parent.UserID = user.ID
		parent.User = user
		return s.parents.CreateTx(ctx, tx, parent)
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("parentId", parent.ID).Str("username", req.User.Username).Msg("Parent created")
	return parent, nil
}

// Get fetches a parent. Admins see anyone, a parent sees themself.
func (s *ParentService) Get(ctx context.Context, ident *auth.Identity, id int64) (*models.Parent, error) {
	if ident.Role != models.RoleAdmin {
		if ident.ParentID == nil || *ident.ParentID != id {
			return nil, apperrors.ErrPermissionDenied
		}
	}
	return s.parents.GetByID(ctx, id)
}

// List returns every parent. Admin only.
func (s *ParentService) List(ctx context.Context, ident *auth.Identity) ([]*models.Parent, error) {
	if err := requireAdmin(ident); err != nil {
		return nil, err
	}
	return s.parents.List(ctx)
}

// LinkChild attaches a student to a parent. Admin only.
func (s *ParentService) LinkChild(ctx context.Context, ident *auth.Identity, parentID, studentID int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.parents.LinkChild(ctx, parentID, studentID)
}

// UnlinkChild detaches a student from a parent. Admin only.
func (s *ParentService) UnlinkChild(ctx context.Context, ident *auth.Identity, parentID, studentID int64) error {
	if err := requireAdmin(ident); err != nil {
		return err
	}
	return s.parents.UnlinkChild(ctx, parentID, studentID)
}
