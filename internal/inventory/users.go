package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/matthieukhl/stockpilot/internal/models"
)

// primaryAdminID is the first seeded administrator, protected from deletion
// and demotion so the system always keeps one admin.
const primaryAdminID = 1

// ListUsers returns all users with their role names
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.email, u.full_name, u.role_id, r.role_name, u.is_active, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.role_id
		ORDER BY u.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		var fullName sql.NullString
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &fullName,
			&u.RoleID, &u.RoleName, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.FullName = fullName.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetUserByUsername fetches one user plus their password hash for login
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, string, error) {
	var u models.User
	var fullName sql.NullString
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.username, u.email, u.hashed_password, u.full_name,
		       u.role_id, r.role_name, u.is_active, u.created_at
		FROM users u
		JOIN roles r ON u.role_id = r.role_id
		WHERE u.username = ?`,
		username,
	).Scan(&u.ID, &u.Username, &u.Email, &hash, &fullName,
		&u.RoleID, &u.RoleName, &u.IsActive, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to get user: %w", err)
	}
	u.FullName = fullName.String
	return &u, hash, nil
}

// CreateUser inserts a new user with an already-hashed password. A zero role
// defaults to the read-only role.
func (s *Store) CreateUser(ctx context.Context, req models.UserCreate, hashedPassword string) (*models.User, error) {
	roleID := req.RoleID
	if roleID == 0 {
		roleID = models.RoleUser
	}
	if !models.ValidRoleID(roleID) {
		return nil, fmt.Errorf("invalid role id: %d", roleID)
	}

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`,
		req.Username, req.Email,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("failed to check user uniqueness: %w", err)
	}
	if count > 0 {
		return nil, ErrConflict
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, hashed_password, full_name, role_id)
		VALUES (?, ?, ?, ?, ?)`,
		req.Username, req.Email, hashedPassword, req.FullName, roleID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read insert id: %w", err)
	}

	return &models.User{
		ID:       id,
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		RoleID:   roleID,
		RoleName: models.RoleName(roleID),
		IsActive: true,
	}, nil
}

// UpdateUserRole changes a user's role. The primary admin cannot be demoted.
func (s *Store) UpdateUserRole(ctx context.Context, userID int64, roleID int) error {
	if !models.ValidRoleID(roleID) {
		return fmt.Errorf("invalid role id: %d", roleID)
	}
	if userID == primaryAdminID && roleID != models.RoleAdmin {
		return ErrProtected
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET role_id = ? WHERE id = ?`, roleID, userID)
	if err != nil {
		return fmt.Errorf("failed to update user role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteUser removes a user. The primary admin cannot be deleted.
func (s *Store) DeleteUser(ctx context.Context, userID int64) error {
	if userID == primaryAdminID {
		return ErrProtected
	}

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
