package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/reviewlens/internal/models"
)

const STATUS_PROCESSED = "Processed successfully"

// HandleS3Event processes every object named in the notification in order.
// A fetch failure stops the invocation and is returned so the async invoke
// is retried; the result still reports the files finished before it.
func (p *Pipeline) HandleS3Event(ctx context.Context, event events.S3Event) (models.IngestResult, error) {
	slog.Info("[IngestPipeline] Lambda triggered", slog.Int("records", len(event.Records)))

	if len(event.Records) == 0 {
		return models.IngestResult{Error: "event contains no S3 records"}, nil
	}

	var result models.IngestResult
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		key, err := objectKey(record.S3.Object)
		if err != nil {
			result.Error = err.Error()
			return result, err
		}

		report, err := p.Process(ctx, bucket, key)
		if err != nil {
			result.Error = err.Error()
			return result, err
		}

		result.Files = append(result.Files, report)
		result.Count += report.Saved
		result.Skipped += report.Skipped
		result.Failed += report.Failed
	}

	result.Status = STATUS_PROCESSED
	slog.Info("[IngestPipeline] Lambda completed",
		slog.Int("total_saved", result.Count),
		slog.Int("total_skipped", result.Skipped),
		slog.Int("total_failed", result.Failed))
	return result, nil
}

// objectKey returns the decoded key; notification keys arrive form-encoded
// ("my+file.csv" for "my file.csv").
func objectKey(object events.S3Object) (string, error) {
	if object.URLDecodedKey != "" {
		return object.URLDecodedKey, nil
	}
	key, err := url.QueryUnescape(object.Key)
	if err != nil {
		return "", fmt.Errorf("invalid object key %q: %w", object.Key, err)
	}
	return key, nil
}
