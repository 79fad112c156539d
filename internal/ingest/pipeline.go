package ingest

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spacesedan/reviewlens/internal/models"
)

var ErrObjectRead = errors.New("failed to read uploaded object")

type ObjectStore interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

type Analyzer interface {
	DetectSentiment(ctx context.Context, text, language string) (models.SentimentAnalysis, error)
	DetectKeyPhrases(ctx context.Context, text, language string) ([]string, error)
}

type ReviewWriter interface {
	PutReview(ctx context.Context, review models.ReviewRecord) error
}

// Pipeline turns one uploaded CSV into annotated review rows. Rows are
// handled one at a time; a failing row never stops the batch.
type Pipeline struct {
	store    ObjectStore
	analyzer Analyzer
	writer   ReviewWriter
	language string
}

func NewPipeline(store ObjectStore, analyzer Analyzer, writer ReviewWriter, language string) *Pipeline {
	return &Pipeline{
		store:    store,
		analyzer: analyzer,
		writer:   writer,
		language: language,
	}
}

// Process reads bucket/key and stores one record per non-blank review. Only a
// failure to open or parse the object is returned as an error.
func (p *Pipeline) Process(ctx context.Context, bucket, key string) (models.BatchReport, error) {
	report := models.BatchReport{Bucket: bucket, Key: key}
	slog.Info("[IngestPipeline] Processing file",
		slog.String("bucket", bucket),
		slog.String("key", key))

	body, err := p.store.GetObject(ctx, bucket, key)
	if err != nil {
		slog.Error("[IngestPipeline] Failed to fetch object",
			slog.String("bucket", bucket),
			slog.String("key", key),
			slog.String("error", err.Error()))
		return report, fmt.Errorf("%w s3://%s/%s: %w", ErrObjectRead, bucket, key, err)
	}
	defer body.Close()

	rows, err := NewRowReader(body)
	if err != nil {
		return report, fmt.Errorf("%w s3://%s/%s: %w", ErrObjectRead, bucket, key, err)
	}
	slog.Info("[IngestPipeline] CSV columns detected", slog.Any("columns", rows.Header()))

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[IngestPipeline] context canceled",
				slog.String("key", key),
				slog.Int("rows_seen", len(report.Rows)))
			return report, ctx.Err()
		default:
		}

		row, err := rows.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			report.Record(p.failRow(row, "", err))
			continue
		}
		if err != nil {
			return report, fmt.Errorf("%w s3://%s/%s: %w", ErrObjectRead, bucket, key, err)
		}

		report.Record(p.processRow(ctx, row))
	}

	slog.Info("[IngestPipeline] File completed",
		slog.String("key", key),
		slog.Int("saved", report.Saved),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (p *Pipeline) processRow(ctx context.Context, row ReviewRow) models.RowOutcome {
	reviewText := strings.TrimSpace(row.ReviewText)
	if reviewText == "" {
		slog.Warn("[IngestPipeline] Skipping empty review row",
			slog.Int("row", row.Number),
			slog.String("rating", row.Rating),
			slog.String("department", row.Department))
		return models.RowOutcome{Row: row.Number, Status: models.RowSkipped, Reason: "blank review text"}
	}

	review, err := p.analyze(ctx, reviewText)
	if err != nil {
		return p.failRow(row, "", err)
	}
	review.Rating = ratingOrDefault(row)
	review.ProductCategory = categoryOrDefault(row)

	if err := p.writer.PutReview(ctx, review); err != nil {
		return p.failRow(row, review.ReviewID, err)
	}

	slog.Info("[IngestPipeline] Saved review",
		slog.Int("row", row.Number),
		slog.String("review_id", review.ReviewID),
		slog.String("sentiment", review.DetectedSentiment))
	return models.RowOutcome{Row: row.Number, ReviewID: review.ReviewID, Status: models.RowSaved}
}

func (p *Pipeline) analyze(ctx context.Context, reviewText string) (models.ReviewRecord, error) {
	sentiment, err := p.analyzer.DetectSentiment(ctx, reviewText, p.language)
	if err != nil {
		return models.ReviewRecord{}, err
	}
	phrases, err := p.analyzer.DetectKeyPhrases(ctx, reviewText, p.language)
	if err != nil {
		return models.ReviewRecord{}, err
	}

	return models.ReviewRecord{
		ReviewID:          models.NewReviewID(reviewText),
		ReviewText:        reviewText,
		DetectedSentiment: sentiment.Label,
		SentimentScore:    toDecimalScores(sentiment.Scores),
		KeyPhrases:        phrases,
	}, nil
}

func (p *Pipeline) failRow(row ReviewRow, reviewID string, err error) models.RowOutcome {
	slog.Error("[IngestPipeline] Error processing review",
		slog.Int("row", row.Number),
		slog.String("review_id", reviewID),
		slog.String("error", err.Error()))
	return models.RowOutcome{Row: row.Number, ReviewID: reviewID, Status: models.RowFailed, Reason: err.Error()}
}

func toDecimalScores(scores map[string]float32) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(scores))
	for label, score := range scores {
		out[label] = models.ScoreToDecimal(score)
	}
	return out
}

func ratingOrDefault(row ReviewRow) string {
	if rating := strings.TrimSpace(row.Rating); rating != "" {
		return rating
	}
	return models.RATING_UNAVAILABLE
}

func categoryOrDefault(row ReviewRow) string {
	if category := strings.TrimSpace(row.Department); category != "" {
		return category
	}
	return models.UNKNOWN_CATEGORY
}
