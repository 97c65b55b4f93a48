package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO users (id, email, name, created_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.db.ExecContext(ctx, query, user.ID, user.Email, user.Name,
		user.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *userRepository) Ensure(ctx context.Context, id string) error {
	query := `
		INSERT INTO users (id, email, name, created_at)
		VALUES (?, ?, '', ?)
		ON CONFLICT(id) DO NOTHING
	`
	// The email column is unique, so the placeholder derives from the id
	_, err := r.db.db.ExecContext(ctx, query, id, id+"@placeholder.invalid",
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("ensure user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = ?`

	var user models.User
	var createdAt string
	err := r.db.db.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	return &user, nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list user ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}
