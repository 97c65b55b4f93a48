package service

import (
	"context"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
)

// LogService defines the interface for log entry business logic
type LogService interface {
	CreateLogPoint(ctx context.Context, userID string, req *models.CreateLogPointRequest) (*models.LogPoint, error)
	CreateJournalEntry(ctx context.Context, userID string, req *models.CreateJournalEntryRequest) (*models.LogPoint, error)
	GetUserLogPoints(ctx context.Context, userID string) ([]models.LogPoint, error)
}

// AnalysisService defines the interface for the correlation engine
type AnalysisService interface {
	// RunForUser executes the full pipeline for one user and atomically
	// replaces their stored insight set. Returns ErrNoData when the user
	// has no log points in range.
	RunForUser(ctx context.Context, userID string, opts AnalysisOptions) (*models.AnalysisReport, error)
	// RunForAllUsers runs the pipeline for every known user with a
	// per-user failure boundary; one user's bad data never aborts the rest.
	RunForAllUsers(ctx context.Context, opts AnalysisOptions) error
	// GetInsights returns the stored insight set for a user
	GetInsights(ctx context.Context, userID string) ([]models.Insight, error)
}

// SummaryService defines the interface for the journal summarization
// collaborator. It is invoked outside the correlation pipeline and its
// failures never propagate into it.
type SummaryService interface {
	WeeklyJournalSummary(ctx context.Context, userID string) (*JournalSummary, error)
}
