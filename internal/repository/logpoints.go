package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

type logPointRepository struct {
	db *DB
}

// NewLogPointRepository creates a new log point repository
func NewLogPointRepository(db *DB) LogPointRepository {
	return &logPointRepository{db: db}
}

func (r *logPointRepository) Create(ctx context.Context, point *models.LogPoint) (*models.LogPoint, error) {
	if point.ID == "" {
		point.ID = uuid.NewString()
	}
	if point.CreatedAt.IsZero() {
		point.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO log_points (id, user_id, date, domain, metric, value, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.db.ExecContext(ctx, query,
		point.ID,
		point.UserID,
		point.Date.Format(models.DateFormat),
		string(point.Domain),
		point.Metric,
		point.Value,
		point.Note,
		point.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("create log point: %w", err)
	}

	return point, nil
}

func (r *logPointRepository) GetByUserID(ctx context.Context, userID string) ([]models.LogPoint, error) {
	query := `
		SELECT id, user_id, date, domain, metric, value, note, created_at
		FROM log_points
		WHERE user_id = ?
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("get log points: %w", err)
	}
	defer rows.Close()

	return scanLogPoints(rows)
}

func (r *logPointRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.LogPoint, error) {
	query := `
		SELECT id, user_id, date, domain, metric, value, note, created_at
		FROM log_points
		WHERE user_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.db.QueryContext(ctx, query, userID,
		start.Format(models.DateFormat), end.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("get log points in range: %w", err)
	}
	defer rows.Close()

	return scanLogPoints(rows)
}

func (r *logPointRepository) GetNotesByUserIDAndDateRange(ctx context.Context, userID string, domain models.Domain, start, end time.Time) ([]models.LogPoint, error) {
	query := `
		SELECT id, user_id, date, domain, metric, value, note, created_at
		FROM log_points
		WHERE user_id = ? AND domain = ? AND note IS NOT NULL AND note != ''
		  AND date >= ? AND date <= ?
		ORDER BY date ASC, id ASC
	`
	rows, err := r.db.db.QueryContext(ctx, query, userID, string(domain),
		start.Format(models.DateFormat), end.Format(models.DateFormat))
	if err != nil {
		return nil, fmt.Errorf("get notes in range: %w", err)
	}
	defer rows.Close()

	return scanLogPoints(rows)
}

// scanLogPoints scans query rows into log points
func scanLogPoints(rows *sql.Rows) ([]models.LogPoint, error) {
	var points []models.LogPoint

	for rows.Next() {
		var p models.LogPoint
		var dateStr, domain, createdAt string
		var value sql.NullFloat64
		var note sql.NullString

		if err := rows.Scan(&p.ID, &p.UserID, &dateStr, &domain, &p.Metric, &value, &note, &createdAt); err != nil {
			return nil, fmt.Errorf("scan log point: %w", err)
		}

		p.Date, _ = time.Parse(models.DateFormat, dateStr)
		p.Domain = models.Domain(domain)
		p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if value.Valid {
			p.Value = &value.Float64
		}
		if note.Valid {
			p.Note = &note.String
		}

		points = append(points, p)
	}

	return points, rows.Err()
}
