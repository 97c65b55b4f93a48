package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
)

// ErrInvalidInput indicates a request failed domain validation
var ErrInvalidInput = errors.New("invalid input")

type logService struct {
	logRepo  repository.LogPointRepository
	userRepo repository.UserRepository
}

// NewLogService creates a new log service
func NewLogService(logRepo repository.LogPointRepository, userRepo repository.UserRepository) LogService {
	return &logService{logRepo: logRepo, userRepo: userRepo}
}

func (s *logService) CreateLogPoint(ctx context.Context, userID string, req *models.CreateLogPointRequest) (*models.LogPoint, error) {
	date, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidInput, models.DateFormat)
	}
	if !req.Domain.IsValid() {
		return nil, fmt.Errorf("%w: unknown domain %q", ErrInvalidInput, req.Domain)
	}
	if req.Value == nil && (req.Note == nil || *req.Note == "") {
		return nil, fmt.Errorf("%w: a log point needs a value or a note", ErrInvalidInput)
	}

	if err := s.userRepo.Ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	point := &models.LogPoint{
		UserID: userID,
		Date:   date,
		Domain: req.Domain,
		Metric: req.Metric,
		Value:  req.Value,
		Note:   req.Note,
	}

	created, err := s.logRepo.Create(ctx, point)
	if err != nil {
		return nil, fmt.Errorf("failed to create log point: %w", err)
	}

	return created, nil
}

// CreateJournalEntry stores a journal entry as a reflection-domain log
// point: the note carries the free text and the value is the optional
// mood score. Entries without a mood score stay notes-only and never
// enter the numeric series.
func (s *logService) CreateJournalEntry(ctx context.Context, userID string, req *models.CreateJournalEntryRequest) (*models.LogPoint, error) {
	date, err := time.Parse(models.DateFormat, req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as %s", ErrInvalidInput, models.DateFormat)
	}

	if err := s.userRepo.Ensure(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to ensure user: %w", err)
	}

	content := req.Content
	point := &models.LogPoint{
		UserID: userID,
		Date:   date,
		Domain: models.DomainReflection,
		Metric: "journal_entry",
		Value:  req.MoodScore,
		Note:   &content,
	}

	created, err := s.logRepo.Create(ctx, point)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	return created, nil
}

func (s *logService) GetUserLogPoints(ctx context.Context, userID string) ([]models.LogPoint, error) {
	points, err := s.logRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get log points: %w", err)
	}
	return points, nil
}
