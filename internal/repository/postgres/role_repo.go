package postgres

import (
	"context"
	"database/sql"
	"errors"

	"churchevents/internal/domain"

	"github.com/lib/pq"
)

type roleRepository struct {
	DB *sql.DB
}

func NewRoleRepository(db *sql.DB) domain.RoleRepository {
	return &roleRepository{DB: db}
}

// GetByCode resolves one of the seeded roles (admin, staff, attendee).
func (r *roleRepository) GetByCode(ctx context.Context, code string) (*domain.Role, error) {
	role := &domain.Role{}
	err := r.DB.QueryRowContext(ctx, `SELECT id, code FROM roles WHERE code = $1`, code).Scan(&role.ID, &role.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return role, nil
}

// CodesByUserID returns the sorted role codes granted to a user. A user without roles yields an empty slice.
func (r *roleRepository) CodesByUserID(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT COALESCE(array_agg(ro.code ORDER BY ro.code), '{}')
		FROM user_roles ur
		INNER JOIN roles ro ON ro.id = ur.role_id
		WHERE ur.user_id = $1
	`
	var codes pq.StringArray
	if err := r.DB.QueryRowContext(ctx, query, userID).Scan(&codes); err != nil {
		return nil, err
	}
	return []string(codes), nil
}
