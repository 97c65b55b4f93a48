package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

type insightRepository struct {
	db *DB
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *DB) InsightRepository {
	return &insightRepository{db: db}
}

// ReplaceForUser deletes the user's prior insight set and inserts the new
// one inside a single transaction. A failure at any step rolls the whole
// replacement back, so readers see either the old set or the new set,
// never a hybrid.
func (r *insightRepository) ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error {
	tx, err := r.db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insight replacement: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM insights WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete prior insights: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO insights (id, user_id, description, correlation_score, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare insight insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range insights {
		ins := &insights[i]
		if ins.ID == "" {
			ins.ID = uuid.NewString()
		}
		if ins.CreatedAt.IsZero() {
			ins.CreatedAt = now
		}
		ins.UserID = userID

		if _, err := stmt.ExecContext(ctx, ins.ID, ins.UserID, ins.Description,
			ins.CorrelationScore, ins.CreatedAt.Format(time.RFC3339)); err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insight replacement: %w", err)
	}

	return nil
}

func (r *insightRepository) GetByUserID(ctx context.Context, userID string) ([]models.Insight, error) {
	query := `
		SELECT id, user_id, description, correlation_score, created_at
		FROM insights
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
	`
	rows, err := r.db.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get insights: %w", err)
	}
	defer rows.Close()

	var insights []models.Insight
	for rows.Next() {
		var ins models.Insight
		var createdAt string
		if err := rows.Scan(&ins.ID, &ins.UserID, &ins.Description, &ins.CorrelationScore, &createdAt); err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		ins.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		insights = append(insights, ins)
	}

	return insights, rows.Err()
}
