package repository

import (
	"context"
	"errors"
	"time"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// ErrNotFound indicates the requested row does not exist
var ErrNotFound = errors.New("not found")

// LogPointRepository defines the interface for log point data access
type LogPointRepository interface {
	Create(ctx context.Context, point *models.LogPoint) (*models.LogPoint, error)
	// GetByUserID returns every log point for a user, ordered by date ascending
	GetByUserID(ctx context.Context, userID string) ([]models.LogPoint, error)
	// GetByUserIDAndDateRange returns log points within [start, end],
	// ordered by date ascending
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.LogPoint, error)
	// GetNotesByUserIDAndDateRange returns points carrying a non-empty note
	// in the given domain, for the summarization collaborator
	GetNotesByUserIDAndDateRange(ctx context.Context, userID string, domain models.Domain, start, end time.Time) ([]models.LogPoint, error)
}

// InsightRepository defines the interface for insight persistence
type InsightRepository interface {
	// ReplaceForUser atomically swaps a user's entire insight set: the prior
	// set is deleted and the new one inserted within a single transaction,
	// so a reader never observes a partial mix of old and new insights.
	ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error
	// GetByUserID returns a user's stored insights, newest first
	GetByUserID(ctx context.Context, userID string) ([]models.Insight, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Ensure inserts a bare user row for an externally-assigned ID if one
	// does not exist yet. Log ingestion calls this so first-time users
	// never trip the foreign key.
	Ensure(ctx context.Context, id string) error
	// ListIDs enumerates every known user id, in a stable order
	ListIDs(ctx context.Context) ([]string, error)
}
