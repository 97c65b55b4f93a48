package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katherineChen0/crosscoach/backend/internal/config"
	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
)

// AnalysisOptions holds the recognized engine options for one run. The
// significance and strength cutoffs are independently tuned constants,
// never derived from each other.
type AnalysisOptions struct {
	// LookbackDays limits the window to the trailing N days; 0 means all history
	LookbackDays int
	// MinOverlap is the minimum overlapping dates required per pair
	MinOverlap int
	// SignificanceP is the p-value gate (strict less-than)
	SignificanceP float64
	// MinAbsR is the coefficient magnitude gate (strict greater-than)
	MinAbsR float64
	// TopN caps insights kept per polarity
	TopN int
	// LowerIsBetter marks metric keys where higher values are worse
	LowerIsBetter map[string]bool
}

// OptionsFromConfig builds run options from application configuration
func OptionsFromConfig(cfg config.AnalysisConfig) AnalysisOptions {
	lower := make(map[string]bool, len(cfg.LowerIsBetter))
	for _, key := range cfg.LowerIsBetter {
		lower[key] = true
	}
	return AnalysisOptions{
		LookbackDays:  cfg.LookbackDays,
		MinOverlap:    cfg.MinOverlap,
		SignificanceP: cfg.SignificanceP,
		MinAbsR:       cfg.MinAbsR,
		TopN:          cfg.TopN,
		LowerIsBetter: lower,
	}
}

// Weekly returns a copy tuned for the short trailing-window weekly batch:
// a 7-day window with the relaxed 3-date overlap minimum.
func (o AnalysisOptions) Weekly() AnalysisOptions {
	o.LookbackDays = 7
	o.MinOverlap = 3
	return o
}

// normalized fills unset fields with the engine defaults. An unset
// overlap gets the bulk default of 5; an explicit value below the
// 3-date floor is raised to the floor, not the default.
func (o AnalysisOptions) normalized() AnalysisOptions {
	if o.MinOverlap <= 0 {
		o.MinOverlap = 5
	} else if o.MinOverlap < 3 {
		o.MinOverlap = 3
	}
	if o.SignificanceP <= 0 {
		o.SignificanceP = 0.05
	}
	if o.MinAbsR <= 0 {
		o.MinAbsR = 0.3
	}
	if o.TopN <= 0 {
		o.TopN = 3
	}
	if o.LookbackDays < 0 {
		o.LookbackDays = 0
	}
	return o
}

type analysisService struct {
	logRepo     repository.LogPointRepository
	insightRepo repository.InsightRepository
	userRepo    repository.UserRepository
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	logRepo repository.LogPointRepository,
	insightRepo repository.InsightRepository,
	userRepo repository.UserRepository,
) AnalysisService {
	return &analysisService{
		logRepo:     logRepo,
		insightRepo: insightRepo,
		userRepo:    userRepo,
	}
}

// RunForUser drives the full pipeline for one user: extract series,
// correlate pairs, select the top relationships per polarity, render
// descriptions, and atomically replace the stored insight set. Every
// stage is a pure transform of the prior stage's output, so re-running
// on unchanged data reproduces the same insight set.
func (s *analysisService) RunForUser(ctx context.Context, userID string, opts AnalysisOptions) (*models.AnalysisReport, error) {
	opts = opts.normalized()
	log := logger.Ctx(ctx).With(logger.String("user_id", userID))

	points, err := s.fetchPoints(ctx, userID, opts.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch log points: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNoData
	}

	series := BuildMetricSeries(points)
	records, diag := PairwiseCorrelations(series, opts.MinOverlap)
	positive, negative := SelectTopCorrelations(records, opts.SignificanceP, opts.MinAbsR, opts.TopN)

	insights := make([]models.Insight, 0, len(positive)+len(negative))
	for _, rec := range positive {
		insights = append(insights, models.Insight{
			UserID:           userID,
			Description:      DescribeCorrelation(rec, opts.LowerIsBetter),
			CorrelationScore: rec.Coefficient,
		})
	}
	for _, rec := range negative {
		insights = append(insights, models.Insight{
			UserID:           userID,
			Description:      DescribeCorrelation(rec, opts.LowerIsBetter),
			CorrelationScore: rec.Coefficient,
		})
	}

	if err := s.insightRepo.ReplaceForUser(ctx, userID, insights); err != nil {
		return nil, fmt.Errorf("failed to replace insights: %w", err)
	}

	report := &models.AnalysisReport{
		UserID:           userID,
		TotalPoints:      len(points),
		TotalMetrics:     len(series),
		PairsTested:      diag.PairsConsidered,
		SignificantCount: len(positive) + len(negative),
		PositiveCount:    len(positive),
		NegativeCount:    len(negative),
		Insights:         insights,
	}

	log.Info("analysis complete",
		logger.Int("total_points", report.TotalPoints),
		logger.Int("total_metrics", report.TotalMetrics),
		logger.Int("pairs_tested", report.PairsTested),
		logger.Int("skipped_overlap", diag.SkippedOverlap),
		logger.Int("skipped_degenerate", diag.SkippedDegenerate),
		logger.Int("positive_insights", report.PositiveCount),
		logger.Int("negative_insights", report.NegativeCount),
	)

	return report, nil
}

// RunForAllUsers enumerates every known user and runs the pipeline for
// each inside a per-user failure boundary. Cancellation is honored
// between users; a user's insight replacement either commits in full or
// not at all.
func (s *analysisService) RunForAllUsers(ctx context.Context, opts AnalysisOptions) error {
	log := logger.Ctx(ctx)

	userIDs, err := s.userRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	log.Info("starting batch analysis", logger.Int("users", len(userIDs)))

	var analyzed, skipped, failed int
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			log.Warn("batch analysis aborted",
				logger.Int("analyzed", analyzed),
				logger.Int("remaining", len(userIDs)-analyzed-skipped-failed),
			)
			return err
		}

		_, err := s.RunForUser(ctx, userID, opts)
		if errors.Is(err, ErrNoData) {
			skipped++
			log.Info("no log points, skipping user", logger.String("user_id", userID))
			continue
		}
		if err != nil {
			failed++
			log.Error("user analysis failed", logger.String("user_id", userID), logger.Err(err))
			continue
		}
		analyzed++
	}

	log.Info("batch analysis complete",
		logger.Int("analyzed", analyzed),
		logger.Int("skipped", skipped),
		logger.Int("failed", failed),
	)

	return nil
}

func (s *analysisService) GetInsights(ctx context.Context, userID string) ([]models.Insight, error) {
	insights, err := s.insightRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get insights: %w", err)
	}
	return insights, nil
}

// fetchPoints loads the user's log points for the lookback window,
// sorted by date. lookbackDays of zero means all history. The range is
// inclusive of both ends, so a 7-day lookback covers today and the six
// days before it.
func (s *analysisService) fetchPoints(ctx context.Context, userID string, lookbackDays int) ([]models.LogPoint, error) {
	if lookbackDays <= 0 {
		return s.logRepo.GetByUserID(ctx, userID)
	}
	end := time.Now()
	start := end.AddDate(0, 0, -(lookbackDays - 1))
	return s.logRepo.GetByUserIDAndDateRange(ctx, userID, start, end)
}
