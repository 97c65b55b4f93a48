package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/katherineChen0/crosscoach/backend/internal/logger"
	"github.com/katherineChen0/crosscoach/backend/internal/models"
	"github.com/katherineChen0/crosscoach/backend/internal/repository"
)

// summaryWindowDays is the trailing window of journal entries summarized
const summaryWindowDays = 7

// fallbackMaxChars caps the truncated raw text returned when the
// completion service is unavailable
const fallbackMaxChars = 500

const summarySystemPrompt = "You are an assistant summarizing journal entries into concise weekly insights."

// Completer abstracts the text-completion backend used for journal
// summaries. A nil Completer means summarization is unconfigured and the
// service always falls back to truncated raw text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// JournalSummary is one week's summarized journal text
type JournalSummary struct {
	WeekStart  time.Time `json:"week_start"`
	Summary    string    `json:"summary"`
	EntryCount int       `json:"entry_count"`
	// Fallback is true when the summary is truncated raw text rather
	// than a generated one
	Fallback bool `json:"fallback"`
}

type summaryService struct {
	logRepo   repository.LogPointRepository
	completer Completer
	timeout   time.Duration
}

// NewSummaryService creates the journal summarization collaborator.
// completer may be nil when no API key is configured.
func NewSummaryService(logRepo repository.LogPointRepository, completer Completer, timeout time.Duration) SummaryService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &summaryService{
		logRepo:   logRepo,
		completer: completer,
		timeout:   timeout,
	}
}

// WeeklyJournalSummary summarizes the trailing week of reflection notes.
// Completion failures degrade to truncated raw text; they are never
// surfaced to the caller and never touch the correlation pipeline.
func (s *summaryService) WeeklyJournalSummary(ctx context.Context, userID string) (*JournalSummary, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -(summaryWindowDays - 1))

	notes, err := s.logRepo.GetNotesByUserIDAndDateRange(ctx, userID, models.DomainReflection, start, end)
	if err != nil {
		return nil, err
	}
	if len(notes) == 0 {
		return nil, ErrNoData
	}

	texts := make([]string, 0, len(notes))
	for _, p := range notes {
		texts = append(texts, *p.Note)
	}
	combined := strings.Join(texts, "\n\n")

	result := &JournalSummary{
		WeekStart:  start,
		EntryCount: len(notes),
	}

	if s.completer == nil {
		result.Summary = truncate(combined, fallbackMaxChars)
		result.Fallback = true
		return result, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	summary, err := s.completer.Complete(callCtx, summarySystemPrompt, "Summarize these entries:\n"+combined)
	if err != nil {
		logger.Ctx(ctx).Warn("journal summarization unavailable, using fallback",
			logger.String("user_id", userID), logger.Err(err))
		result.Summary = truncate(combined, fallbackMaxChars)
		result.Fallback = true
		return result, nil
	}

	result.Summary = strings.TrimSpace(summary)
	return result, nil
}

// truncate cuts s to at most max bytes without splitting a rune
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
