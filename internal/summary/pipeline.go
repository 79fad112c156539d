package summary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	SUMMARY_LOCK_KEY = "reviewlens:summary:lock"
	SUCCESS_MESSAGE  = "Summary generated successfully!"
)

var (
	ErrNoReviews         = errors.New("no reviews found in table")
	ErrScan              = errors.New("failed to read reviews")
	ErrInference         = errors.New("summarization failed")
	ErrStore             = errors.New("failed to store summary")
	ErrSummaryInProgress = errors.New("summary generation already in progress")
)

type ReviewStore interface {
	ScanAll(ctx context.Context) ([]models.StoredItem, error)
	PutSummary(ctx context.Context, summary models.SummaryRecord) error
}

type Summarizer interface {
	Summarize(ctx context.Context, text string) (models.SummaryResponse, error)
}

// Locker is a lease shared between concurrent summary runs.
type Locker interface {
	Acquire(ctx context.Context, key, token string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, token string) error
}

type Pipeline struct {
	store      ReviewStore
	summarizer Summarizer
	maxChars   int

	locker  Locker
	lockTTL time.Duration
}

func NewPipeline(store ReviewStore, summarizer Summarizer, maxChars int) *Pipeline {
	return &Pipeline{
		store:      store,
		summarizer: summarizer,
		maxChars:   maxChars,
	}
}

// WithLock makes runs take a lease first; a run that finds the lease held
// returns ErrSummaryInProgress without calling the summarizer.
func (p *Pipeline) WithLock(locker Locker, ttl time.Duration) *Pipeline {
	p.locker = locker
	p.lockTTL = ttl
	return p
}

// Run builds and stores the summary. Failures come back as a result with
// Error set, never as a Go error.
func (p *Pipeline) Run(ctx context.Context) models.SummaryResult {
	summary, err := p.generate(ctx)
	if err != nil {
		slog.Error("[SummaryPipeline] Summary generation failed", slog.String("error", err.Error()))
		return models.SummaryResult{Error: err.Error()}
	}

	return models.SummaryResult{
		Message: SUCCESS_MESSAGE,
		Summary: summary,
	}
}

func (p *Pipeline) generate(ctx context.Context) (string, error) {
	if p.locker != nil {
		release, err := p.acquire(ctx)
		if err != nil {
			return "", err
		}
		defer release()
	}

	items, err := p.store.ScanAll(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrScan, err)
	}

	text, reviews := ConcatReviews(items)
	if reviews == 0 {
		return "", ErrNoReviews
	}

	input := TruncateRunes(text, p.maxChars)
	slog.Info("[SummaryPipeline] Requesting summary",
		slog.Int("reviews", reviews),
		slog.Int("chars", len([]rune(input))),
		slog.Bool("truncated", len(input) < len(text)))

	resp, err := p.summarizer.Summarize(ctx, input)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInference, err)
	}

	summary := models.NO_SUMMARY_TEXT
	if resp.GeneratedText != nil {
		summary = *resp.GeneratedText
	} else {
		slog.Warn("[SummaryPipeline] Response had no generated_text, storing sentinel")
	}

	err = p.store.PutSummary(ctx, models.SummaryRecord{
		ReviewID: models.SUMMARY_RECORD_ID,
		Summary:  summary,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStore, err)
	}

	slog.Info("[SummaryPipeline] Summary generated", slog.Int("summary_chars", len(summary)))
	return summary, nil
}

func (p *Pipeline) acquire(ctx context.Context) (func(), error) {
	token := uuid.NewString()
	ok, err := p.locker.Acquire(ctx, SUMMARY_LOCK_KEY, token, p.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire summary lock: %w", err)
	}
	if !ok {
		return nil, ErrSummaryInProgress
	}

	return func() {
		// the run's ctx may already be done; release on a fresh one
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		defer cancel()
		if err := p.locker.Release(releaseCtx, SUMMARY_LOCK_KEY, token); err != nil {
			slog.Warn("[SummaryPipeline] Failed to release summary lock",
				slog.String("error", err.Error()))
		}
	}, nil
}

// ConcatReviews joins review texts with single spaces, leaving out the
// summary row and rows without text. It returns the text and how many
// reviews went into it.
func ConcatReviews(items []models.StoredItem) (string, int) {
	texts := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsSummary() || item.ReviewText == "" {
			continue
		}
		texts = append(texts, item.ReviewText)
	}
	return strings.Join(texts, " "), len(texts)
}

// TruncateRunes keeps at most limit characters of s without splitting a
// multi-byte character.
func TruncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}
