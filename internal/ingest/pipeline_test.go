package ingest

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/shopspring/decimal"
	"github.com/spacesedan/reviewlens/internal/models"
)

// mockStore implements ObjectStore for testing
type mockStore struct {
	objects map[string]string
	err     error
}

func (m *mockStore) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if m.err != nil {
		return nil, m.err
	}
	body, ok := m.objects[bucket+"/"+key]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return io.NopCloser(strings.NewReader(body)), nil
}

// mockAnalyzer implements Analyzer for testing
type mockAnalyzer struct {
	sentimentFn func(text string) (models.SentimentAnalysis, error)
	phrasesFn   func(text string) ([]string, error)

	calls     []string
	languages []string
}

func (m *mockAnalyzer) DetectSentiment(ctx context.Context, text, language string) (models.SentimentAnalysis, error) {
	m.calls = append(m.calls, text)
	m.languages = append(m.languages, language)
	if m.sentimentFn != nil {
		return m.sentimentFn(text)
	}
	return models.SentimentAnalysis{
		Label: models.SentimentPositive,
		Scores: map[string]float32{
			models.SentimentPositive: 0.9,
			models.SentimentNegative: 0.05,
			models.SentimentNeutral:  0.03,
			models.SentimentMixed:    0.02,
		},
	}, nil
}

func (m *mockAnalyzer) DetectKeyPhrases(ctx context.Context, text, language string) ([]string, error) {
	if m.phrasesFn != nil {
		return m.phrasesFn(text)
	}
	return []string{"phrase of " + text}, nil
}

// mockWriter implements ReviewWriter, keyed like the table
type mockWriter struct {
	rows  map[string]models.ReviewRecord
	puts  int
	putFn func(review models.ReviewRecord) error
}

func (m *mockWriter) PutReview(ctx context.Context, review models.ReviewRecord) error {
	if m.putFn != nil {
		if err := m.putFn(review); err != nil {
			return err
		}
	}
	if m.rows == nil {
		m.rows = make(map[string]models.ReviewRecord)
	}
	m.rows[review.ReviewID] = review
	m.puts++
	return nil
}

const sampleCSV = "Review Text,Rating,Department Name\n" +
	"Fits perfectly,5,Dresses\n" +
	"   ,3,Tops\n" +
	"Too short for me,2,Bottoms\n"

func newTestPipeline(csv string) (*Pipeline, *mockAnalyzer, *mockWriter) {
	store := &mockStore{objects: map[string]string{"uploads/reviews.csv": csv}}
	analyzer := &mockAnalyzer{}
	writer := &mockWriter{}
	return NewPipeline(store, analyzer, writer, "en"), analyzer, writer
}

func TestProcess_SavesNonBlankRows(t *testing.T) {
	p, analyzer, writer := newTestPipeline(sampleCSV)

	report, err := p.Process(context.Background(), "uploads", "reviews.csv")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if report.Saved != 2 || report.Skipped != 1 || report.Failed != 0 {
		t.Errorf("report = saved %d skipped %d failed %d, want 2/1/0", report.Saved, report.Skipped, report.Failed)
	}
	if len(writer.rows) != 2 {
		t.Fatalf("stored %d rows, want 2", len(writer.rows))
	}
	if len(analyzer.calls) != 2 {
		t.Errorf("analyzer called %d times, want 2 (blank rows are not analyzed)", len(analyzer.calls))
	}
	for _, lang := range analyzer.languages {
		if lang != "en" {
			t.Errorf("language hint = %q, want en", lang)
		}
	}

	review := writer.rows[models.NewReviewID("Fits perfectly")]
	if review.ReviewText != "Fits perfectly" || review.Rating != "5" || review.ProductCategory != "Dresses" {
		t.Errorf("review = %+v", review)
	}
	if review.DetectedSentiment != models.SentimentPositive {
		t.Errorf("DetectedSentiment = %q", review.DetectedSentiment)
	}
	if len(review.KeyPhrases) != 1 || review.KeyPhrases[0] != "phrase of Fits perfectly" {
		t.Errorf("KeyPhrases = %v", review.KeyPhrases)
	}

	if report.Rows[1].Status != models.RowSkipped || report.Rows[1].Row != 2 {
		t.Errorf("row 2 outcome = %+v, want skipped", report.Rows[1])
	}
}

func TestProcess_ScoresAreExactDecimals(t *testing.T) {
	p, _, writer := newTestPipeline("Review Text\nSoft and warm\n")

	if _, err := p.Process(context.Background(), "uploads", "reviews.csv"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	review := writer.rows[models.NewReviewID("Soft and warm")]
	if len(review.SentimentScore) != 4 {
		t.Fatalf("len(SentimentScore) = %d, want 4", len(review.SentimentScore))
	}

	want := map[string]string{
		models.SentimentPositive: "0.9",
		models.SentimentNegative: "0.05",
		models.SentimentNeutral:  "0.03",
		models.SentimentMixed:    "0.02",
	}
	sum := decimal.Zero
	for label, score := range review.SentimentScore {
		if score.String() != want[label] {
			t.Errorf("%s = %s, want %s", label, score, want[label])
		}
		sum = sum.Add(score)
	}
	if !sum.Equal(decimal.NewFromInt(1)) {
		t.Errorf("scores sum to %s, want 1", sum)
	}
}

func TestProcess_DefaultsForMissingColumns(t *testing.T) {
	p, _, writer := newTestPipeline("Title,Review Text\nMeh,Runs large\nOk,Nice\n")

	if _, err := p.Process(context.Background(), "uploads", "reviews.csv"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	for _, review := range writer.rows {
		if review.Rating != models.RATING_UNAVAILABLE {
			t.Errorf("Rating = %q, want N/A", review.Rating)
		}
		if review.ProductCategory != models.UNKNOWN_CATEGORY {
			t.Errorf("ProductCategory = %q, want Unknown", review.ProductCategory)
		}
	}
}

func TestProcess_RowFailuresDoNotAbortBatch(t *testing.T) {
	csv := "Review Text\nfirst\nbroken sentiment\nbroken phrases\nbroken write\nlast\n"
	store := &mockStore{objects: map[string]string{"b/k.csv": csv}}
	analyzer := &mockAnalyzer{
		sentimentFn: func(text string) (models.SentimentAnalysis, error) {
			if text == "broken sentiment" {
				return models.SentimentAnalysis{}, errors.New("ThrottlingException")
			}
			return models.SentimentAnalysis{Label: models.SentimentNeutral, Scores: map[string]float32{}}, nil
		},
		phrasesFn: func(text string) ([]string, error) {
			if text == "broken phrases" {
				return nil, errors.New("TextSizeLimitExceededException")
			}
			return nil, nil
		},
	}
	writer := &mockWriter{putFn: func(review models.ReviewRecord) error {
		if review.ReviewText == "broken write" {
			return errors.New("ProvisionedThroughputExceededException")
		}
		return nil
	}}

	report, err := NewPipeline(store, analyzer, writer, "en").Process(context.Background(), "b", "k.csv")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if report.Saved != 2 || report.Failed != 3 {
		t.Errorf("saved %d failed %d, want 2/3", report.Saved, report.Failed)
	}
	if _, ok := writer.rows[models.NewReviewID("last")]; !ok {
		t.Error("row after failures was not saved")
	}
	if report.Rows[1].Reason == "" || !strings.Contains(report.Rows[1].Reason, "Throttling") {
		t.Errorf("failure reason = %q", report.Rows[1].Reason)
	}
	if report.Rows[3].ReviewID == "" {
		t.Error("write failure should carry the review id")
	}
}

func TestProcess_ReingestOverwrites(t *testing.T) {
	p, _, writer := newTestPipeline(sampleCSV)
	ctx := context.Background()

	first, err := p.Process(ctx, "uploads", "reviews.csv")
	if err != nil {
		t.Fatalf("first Process() error = %v", err)
	}
	second, err := p.Process(ctx, "uploads", "reviews.csv")
	if err != nil {
		t.Fatalf("second Process() error = %v", err)
	}

	if len(writer.rows) != 2 {
		t.Errorf("table holds %d rows after re-ingest, want 2", len(writer.rows))
	}
	if writer.puts != 4 {
		t.Errorf("puts = %d, want 4", writer.puts)
	}
	for i := range first.Rows {
		if first.Rows[i].ReviewID != second.Rows[i].ReviewID {
			t.Errorf("row %d id changed: %q vs %q", i+1, first.Rows[i].ReviewID, second.Rows[i].ReviewID)
		}
	}
}

func TestProcess_DuplicateTextCollides(t *testing.T) {
	p, _, writer := newTestPipeline("Review Text,Rating\nSame words,5\nSame words,1\n")

	report, err := p.Process(context.Background(), "uploads", "reviews.csv")
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if report.Saved != 2 {
		t.Errorf("Saved = %d, want 2", report.Saved)
	}
	if len(writer.rows) != 1 {
		t.Fatalf("stored %d rows, want 1", len(writer.rows))
	}
	if got := writer.rows[models.NewReviewID("Same words")].Rating; got != "1" {
		t.Errorf("Rating = %q, want last write (1)", got)
	}
}

func TestProcess_TrimsReviewText(t *testing.T) {
	p, _, writer := newTestPipeline("Review Text\n  padded text \t\n")

	if _, err := p.Process(context.Background(), "uploads", "reviews.csv"); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if _, ok := writer.rows[models.NewReviewID("padded text")]; !ok {
		t.Errorf("trimmed text not used for id, rows = %v", writer.rows)
	}
}

func TestProcess_ObjectReadFailure(t *testing.T) {
	store := &mockStore{err: errors.New("AccessDenied")}
	p := NewPipeline(store, &mockAnalyzer{}, &mockWriter{}, "en")

	_, err := p.Process(context.Background(), "uploads", "reviews.csv")
	if !errors.Is(err, ErrObjectRead) {
		t.Errorf("Process() error = %v, want ErrObjectRead", err)
	}
}

func TestProcess_Canceled(t *testing.T) {
	p, analyzer, _ := newTestPipeline(sampleCSV)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Process(ctx, "uploads", "reviews.csv"); !errors.Is(err, context.Canceled) {
		t.Errorf("Process() error = %v, want context.Canceled", err)
	}
	if len(analyzer.calls) != 0 {
		t.Errorf("analyzer called %d times after cancel", len(analyzer.calls))
	}
}

func s3Event(bucket, key string) events.S3EventRecord {
	return events.S3EventRecord{
		S3: events.S3Entity{
			Bucket: events.S3Bucket{Name: bucket},
			Object: events.S3Object{Key: key},
		},
	}
}

func TestHandleS3Event(t *testing.T) {
	store := &mockStore{objects: map[string]string{
		"uploads/march reviews.csv": sampleCSV,
		"uploads/april.csv":         "Review Text\nGreat\n",
	}}
	p := NewPipeline(store, &mockAnalyzer{}, &mockWriter{}, "en")

	event := events.S3Event{Records: []events.S3EventRecord{
		s3Event("uploads", "march+reviews.csv"),
		s3Event("uploads", "april.csv"),
	}}

	result, err := p.HandleS3Event(context.Background(), event)
	if err != nil {
		t.Fatalf("HandleS3Event() error = %v", err)
	}
	if result.Status != STATUS_PROCESSED {
		t.Errorf("Status = %q", result.Status)
	}
	if result.Count != 3 || result.Skipped != 1 {
		t.Errorf("Count = %d Skipped = %d, want 3/1", result.Count, result.Skipped)
	}
	if len(result.Files) != 2 || result.Files[0].Key != "march reviews.csv" {
		t.Errorf("Files = %+v", result.Files)
	}
	if result.Error != "" {
		t.Errorf("Error = %q, want empty", result.Error)
	}
}

func TestHandleS3Event_FetchFailureIsFatal(t *testing.T) {
	p := NewPipeline(&mockStore{objects: map[string]string{}}, &mockAnalyzer{}, &mockWriter{}, "en")

	result, err := p.HandleS3Event(context.Background(), events.S3Event{Records: []events.S3EventRecord{
		s3Event("uploads", "missing.csv"),
	}})
	if !errors.Is(err, ErrObjectRead) {
		t.Errorf("HandleS3Event() error = %v, want ErrObjectRead", err)
	}
	if result.Error == "" {
		t.Error("result.Error should describe the failure")
	}
}

func TestHandleS3Event_NoRecords(t *testing.T) {
	p, _, _ := newTestPipeline(sampleCSV)
	result, err := p.HandleS3Event(context.Background(), events.S3Event{})
	if err != nil {
		t.Fatalf("HandleS3Event() error = %v", err)
	}
	if result.Error == "" {
		t.Error("expected error result for an empty event")
	}
}

func TestObjectKey(t *testing.T) {
	tests := []struct {
		name    string
		object  events.S3Object
		want    string
		wantErr bool
	}{
		{name: "plain", object: events.S3Object{Key: "reviews.csv"}, want: "reviews.csv"},
		{name: "plus is space", object: events.S3Object{Key: "my+reviews.csv"}, want: "my reviews.csv"},
		{name: "percent", object: events.S3Object{Key: "q1%2Freviews.csv"}, want: "q1/reviews.csv"},
		{name: "pre-decoded", object: events.S3Object{Key: "a+b.csv", URLDecodedKey: "a b.csv"}, want: "a b.csv"},
		{name: "bad escape", object: events.S3Object{Key: "bad%zz.csv"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := objectKey(tt.object)
			if (err != nil) != tt.wantErr {
				t.Fatalf("objectKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("objectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
