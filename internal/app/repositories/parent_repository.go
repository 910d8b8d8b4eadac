package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/ncastell/classtrack/internal/app/models"
	"github.com/ncastell/classtrack/internal/db"
	"github.com/ncastell/classtrack/internal/pkg/apperrors"
	"github.com/ncastell/classtrack/internal/pkg/dberrors"
	"github.com/ncastell/classtrack/internal/pkg/helpers"
)

// ParentRepository manages parent profiles and their child links.
type ParentRepository struct {
	db *db.PostgresDB
}

func NewParentRepository(database *db.PostgresDB) *ParentRepository {
	return &ParentRepository{db: database}
}

const parentSelect = `
	SELECT p.id, p.user_id, p.phone, p.address, p.occupation,
	       u.id, u.username, u.email, u.first_name, u.last_name, u.is_superuser, u.created_at
	FROM parents p
	JOIN users u ON u.id = p.user_id`

func scanParent(row pgx.Row) (*models.Parent, error) {
	var p models.Parent
	var u models.User
	var phone, address, occupation sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &phone, &address, &occupation,
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.IsSuperuser, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("failed to scan parent: %w", err)
	}
	p.Phone = helpers.StringOrEmpty(phone)
	p.Address = helpers.StringOrEmpty(address)
	p.Occupation = helpers.StringOrEmpty(occupation)
	p.User = &u
	return &p, nil
}

// CreateTx inserts a parent profile inside an existing transaction.
func (r *ParentRepository) CreateTx(ctx context.Context, tx pgx.Tx, parent *models.Parent) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO parents (user_id, phone, address, occupation)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		parent.UserID, helpers.NullString(parent.Phone),
		helpers.NullString(parent.Address), helpers.NullString(parent.Occupation),
	).Scan(&parent.ID)
	if err != nil {
		return fmt.Errorf("failed to create parent: %w", err)
	}
	return nil
}

// GetByID fetches a parent with its user account and child links.
func (r *ParentRepository) GetByID(ctx context.Context, id int64) (*models.Parent, error) {
	p, err := scanParent(r.db.Pool.QueryRow(ctx, parentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		return nil, err
	}
	p.ChildIDs, err = r.ChildIDs(ctx, p.ID)
	return p, err
}

// GetByUserID fetches the parent profile linked to a user account.
// Returns nil without error when the user has none.
func (r *ParentRepository) GetByUserID(ctx context.Context, userID int64) (*models.Parent, error) {
	p, err := scanParent(r.db.Pool.QueryRow(ctx, parentSelect+` WHERE p.user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, err
	}
	p.ChildIDs, err = r.ChildIDs(ctx, p.ID)
	return p, err
}

// List returns every parent ordered by last name.
func (r *ParentRepository) List(ctx context.Context) ([]*models.Parent, error) {
	rows, err := r.db.Pool.Query(ctx, parentSelect+` ORDER BY u.last_name, u.first_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}
	defer rows.Close()

	parents := []*models.Parent{}
	for rows.Next() {
		p, err := scanParent(rows)
		if err != nil {
			return nil, err
		}
		parents = append(parents, p)
	}
	return parents, rows.Err()
}

// ChildIDs returns the students linked to a parent.
func (r *ParentRepository) ChildIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT student_id FROM parent_students WHERE parent_id = $1 ORDER BY student_id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// LinkChild attaches a student to a parent. Linking twice is a conflict.
func (r *ParentRepository) LinkChild(ctx context.Context, parentID, studentID int64) error {
	_, err := r.db.Pool.Exec(ctx,
		`INSERT INTO parent_students (parent_id, student_id) VALUES ($1, $2)`, parentID, studentID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.New(apperrors.ErrResourceAlreadyExists, "student already linked to parent")
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.New(apperrors.ErrResourceNotFound, "parent or student does not exist")
		}
		return fmt.Errorf("failed to link child: %w", err)
	}
	return nil
}

// UnlinkChild detaches a student from a parent.
func (r *ParentRepository) UnlinkChild(ctx context.Context, parentID, studentID int64) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM parent_students WHERE parent_id = $1 AND student_id = $2`, parentID, studentID)
	if err != nil {
		return fmt.Errorf("failed to unlink child: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}
