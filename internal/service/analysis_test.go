package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
)

// mockLogPointRepository is a mock implementation of LogPointRepository for testing
type mockLogPointRepository struct {
	points    map[string][]models.LogPoint // userID -> points
	fetchErr  error
	lastStart time.Time
	lastEnd   time.Time
}

func newMockLogPointRepository() *mockLogPointRepository {
	return &mockLogPointRepository{points: make(map[string][]models.LogPoint)}
}

func (m *mockLogPointRepository) Create(ctx context.Context, point *models.LogPoint) (*models.LogPoint, error) {
	p := *point
	p.ID = fmt.Sprintf("lp-%d", len(m.points[point.UserID])+1)
	p.CreatedAt = time.Now()
	m.points[point.UserID] = append(m.points[point.UserID], p)
	return &p, nil
}

func (m *mockLogPointRepository) GetByUserID(ctx context.Context, userID string) ([]models.LogPoint, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.points[userID], nil
}

func (m *mockLogPointRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.LogPoint, error) {
	m.lastStart, m.lastEnd = start, end
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	var result []models.LogPoint
	for _, p := range m.points[userID] {
		if !p.Date.Before(start) && !p.Date.After(end) {
			result = append(result, p)
		}
	}
	return result, nil
}

func (m *mockLogPointRepository) GetNotesByUserIDAndDateRange(ctx context.Context, userID string, domain models.Domain, start, end time.Time) ([]models.LogPoint, error) {
	var result []models.LogPoint
	for _, p := range m.points[userID] {
		if p.Domain != domain || p.Note == nil || *p.Note == "" {
			continue
		}
		if !p.Date.Before(start) && !p.Date.After(end) {
			result = append(result, p)
		}
	}
	return result, nil
}

// mockInsightRepository is a mock implementation of InsightRepository for testing
type mockInsightRepository struct {
	stored       map[string][]models.Insight // userID -> insights
	replaceCalls int
	replaceErr   error
}

func newMockInsightRepository() *mockInsightRepository {
	return &mockInsightRepository{stored: make(map[string][]models.Insight)}
}

func (m *mockInsightRepository) ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error {
	m.replaceCalls++
	if m.replaceErr != nil {
		return m.replaceErr
	}
	m.stored[userID] = append([]models.Insight(nil), insights...)
	return nil
}

func (m *mockInsightRepository) GetByUserID(ctx context.Context, userID string) ([]models.Insight, error) {
	return m.stored[userID], nil
}

// mockUserRepository is a mock implementation of UserRepository for testing
type mockUserRepository struct {
	ids []string
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.ids = append(m.ids, user.ID)
	return user, nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	for _, known := range m.ids {
		if known == id {
			return &models.User{ID: id}, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) Ensure(ctx context.Context, id string) error {
	for _, known := range m.ids {
		if known == id {
			return nil
		}
	}
	m.ids = append(m.ids, id)
	return nil
}

func (m *mockUserRepository) ListIDs(ctx context.Context) ([]string, error) {
	return m.ids, nil
}

func seedCorrelatedWeek(logRepo *mockLogPointRepository, userID string) {
	sleep := []float64{6.0, 7.5, 8.0, 5.5, 7.0, 8.5, 6.5}
	perf := []float64{5.0, 7.0, 8.0, 4.0, 6.5, 9.0, 5.5}
	for i := range week {
		logRepo.points[userID] = append(logRepo.points[userID],
			point(models.DomainSleep, "hours_slept", week[i], fp(sleep[i]), nil),
			point(models.DomainClimbing, "perf", week[i], fp(perf[i]), nil),
		)
	}
	for i := range logRepo.points[userID] {
		logRepo.points[userID][i].UserID = userID
	}
}

func newTestAnalysisService(logRepo *mockLogPointRepository, insightRepo *mockInsightRepository, userRepo *mockUserRepository) AnalysisService {
	if logRepo == nil {
		logRepo = newMockLogPointRepository()
	}
	if insightRepo == nil {
		insightRepo = newMockInsightRepository()
	}
	if userRepo == nil {
		userRepo = &mockUserRepository{}
	}
	return NewAnalysisService(logRepo, insightRepo, userRepo)
}

func TestRunForUserNoData(t *testing.T) {
	insightRepo := newMockInsightRepository()
	svc := newTestAnalysisService(nil, insightRepo, nil)

	_, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if insightRepo.replaceCalls != 0 {
		t.Error("no-data run must not touch stored insights")
	}
}

func TestRunForUserStoresInsights(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	seedCorrelatedWeek(logRepo, "user-1")
	svc := newTestAnalysisService(logRepo, insightRepo, nil)

	report, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if err != nil {
		t.Fatalf("RunForUser failed: %v", err)
	}

	if report.TotalPoints != 14 || report.TotalMetrics != 2 || report.PairsTested != 1 {
		t.Errorf("unexpected report counts: %+v", report)
	}
	if report.PositiveCount != 1 || report.NegativeCount != 0 {
		t.Errorf("expected one positive insight, got %+v", report)
	}
	if insightRepo.replaceCalls != 1 {
		t.Errorf("expected one replace call, got %d", insightRepo.replaceCalls)
	}
	stored := insightRepo.stored["user-1"]
	if len(stored) != 1 {
		t.Fatalf("expected 1 stored insight, got %d", len(stored))
	}
	if stored[0].CorrelationScore <= 0.9 {
		t.Errorf("expected the signed coefficient as the score, got %g", stored[0].CorrelationScore)
	}
	if stored[0].Description == "" {
		t.Error("expected a rendered description")
	}
}

func TestRunForUserCountsSkippedPairs(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	seedCorrelatedWeek(logRepo, "user-1")
	// A constant metric overlaps everything but has zero variance, so
	// both of its pairs are skipped without producing a record.
	for i := range week {
		p := point(models.DomainFitness, "resting_hr", week[i], fp(60), nil)
		p.UserID = "user-1"
		logRepo.points["user-1"] = append(logRepo.points["user-1"], p)
	}
	svc := newTestAnalysisService(logRepo, insightRepo, nil)

	report, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if err != nil {
		t.Fatalf("RunForUser failed: %v", err)
	}

	if report.TotalMetrics != 3 {
		t.Fatalf("expected 3 metrics, got %d", report.TotalMetrics)
	}
	// All three unordered pairs were examined, even though two of them
	// were dropped for zero variance.
	if report.PairsTested != 3 {
		t.Errorf("expected 3 pairs tested, got %d", report.PairsTested)
	}
	if report.PositiveCount != 1 {
		t.Errorf("expected one positive insight, got %+v", report)
	}
}

func TestRunForUserLookbackWindowInclusive(t *testing.T) {
	logRepo := newMockLogPointRepository()
	svc := newTestAnalysisService(logRepo, nil, nil)

	_, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{LookbackDays: 7})
	if !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData on empty repo, got %v", err)
	}

	// A 7-day lookback spans today plus the six days before it, so the
	// inclusive range covers exactly 7 calendar dates.
	if want := logRepo.lastEnd.AddDate(0, 0, -6); !logRepo.lastStart.Equal(want) {
		t.Errorf("expected range start %v, got %v", want, logRepo.lastStart)
	}
}

func TestRunForUserDeterministic(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	seedCorrelatedWeek(logRepo, "user-1")
	svc := newTestAnalysisService(logRepo, insightRepo, nil)

	first, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if err != nil {
		t.Fatalf("first run failed: %v", err)
	}
	second, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if err != nil {
		t.Fatalf("second run failed: %v", err)
	}

	if len(first.Insights) != len(second.Insights) {
		t.Fatalf("insight counts differ: %d vs %d", len(first.Insights), len(second.Insights))
	}
	for i := range first.Insights {
		if first.Insights[i].Description != second.Insights[i].Description {
			t.Errorf("insight %d differs between identical runs:\n  %q\n  %q",
				i, first.Insights[i].Description, second.Insights[i].Description)
		}
		if first.Insights[i].CorrelationScore != second.Insights[i].CorrelationScore {
			t.Errorf("insight %d score differs between identical runs", i)
		}
	}
}

func TestRunForUserReplacesPriorInsights(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	insightRepo.stored["user-1"] = []models.Insight{
		{ID: "stale-1", UserID: "user-1", Description: "old insight"},
		{ID: "stale-2", UserID: "user-1", Description: "older insight"},
	}
	seedCorrelatedWeek(logRepo, "user-1")
	svc := newTestAnalysisService(logRepo, insightRepo, nil)

	if _, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{}); err != nil {
		t.Fatalf("RunForUser failed: %v", err)
	}

	for _, insight := range insightRepo.stored["user-1"] {
		if insight.Description == "old insight" || insight.Description == "older insight" {
			t.Error("stale insights survived the replacement")
		}
	}
}

func TestRunForUserPersistenceFailure(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	insightRepo.replaceErr = errors.New("disk full")
	seedCorrelatedWeek(logRepo, "user-1")
	svc := newTestAnalysisService(logRepo, insightRepo, nil)

	_, err := svc.RunForUser(context.Background(), "user-1", AnalysisOptions{})
	if err == nil {
		t.Fatal("expected persistence failure to propagate")
	}
}

func TestRunForAllUsersFailureBoundary(t *testing.T) {
	logRepo := newMockLogPointRepository()
	insightRepo := newMockInsightRepository()
	userRepo := &mockUserRepository{ids: []string{"user-a", "user-b", "user-c"}}

	// user-a has analyzable data, user-b has none, user-c has data too
	seedCorrelatedWeek(logRepo, "user-a")
	seedCorrelatedWeek(logRepo, "user-c")

	svc := newTestAnalysisService(logRepo, insightRepo, userRepo)

	if err := svc.RunForAllUsers(context.Background(), AnalysisOptions{}); err != nil {
		t.Fatalf("batch run failed: %v", err)
	}

	if len(insightRepo.stored["user-a"]) == 0 {
		t.Error("expected insights for user-a")
	}
	if len(insightRepo.stored["user-b"]) != 0 {
		t.Error("expected no insights for the user with no data")
	}
	if len(insightRepo.stored["user-c"]) == 0 {
		t.Error("expected insights for user-c despite user-b having nothing")
	}
}

func TestRunForAllUsersHonorsCancellation(t *testing.T) {
	userRepo := &mockUserRepository{ids: []string{"user-a", "user-b"}}
	svc := newTestAnalysisService(nil, nil, userRepo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := svc.RunForAllUsers(ctx, AnalysisOptions{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalysisOptionsWeekly(t *testing.T) {
	opts := AnalysisOptions{LookbackDays: 90, MinOverlap: 5}.Weekly()
	if opts.LookbackDays != 7 {
		t.Errorf("expected 7-day window, got %d", opts.LookbackDays)
	}
	if opts.MinOverlap != 3 {
		t.Errorf("expected relaxed overlap of 3, got %d", opts.MinOverlap)
	}
}

func TestAnalysisOptionsNormalized(t *testing.T) {
	opts := AnalysisOptions{}.normalized()
	if opts.MinOverlap != 5 || opts.SignificanceP != 0.05 || opts.MinAbsR != 0.3 || opts.TopN != 3 {
		t.Errorf("unexpected defaults: %+v", opts)
	}

	// Weekly's relaxed overlap survives normalization
	weekly := AnalysisOptions{MinOverlap: 3}.normalized()
	if weekly.MinOverlap != 3 {
		t.Errorf("expected MinOverlap 3 to survive, got %d", weekly.MinOverlap)
	}

	// Explicit values below the 3-date floor are raised to the floor,
	// not replaced with the bulk default.
	low := AnalysisOptions{MinOverlap: 2}.normalized()
	if low.MinOverlap != 3 {
		t.Errorf("expected MinOverlap 2 to clamp to 3, got %d", low.MinOverlap)
	}
}
