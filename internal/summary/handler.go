package summary

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/reviewlens/internal/models"
	"github.com/spacesedan/reviewlens/internal/streams"
)

const (
	EVENT_SOURCE_DYNAMODB = "aws:dynamodb"
	SKIPPED_MESSAGE       = "Only the summary record changed; summary not regenerated"
)

// HandleEvent accepts any trigger payload: a scheduled event, a manual
// invoke, or a stream batch from the review table. Stream batches that only
// contain our own summary write are ignored.
func (p *Pipeline) HandleEvent(ctx context.Context, payload json.RawMessage) (models.SummaryResult, error) {
	if stream, ok := asTableStream(payload); ok {
		slog.Info("[SummaryPipeline] Triggered by table stream", slog.Int("records", len(stream.Records)))
		if streams.OnlySummaryChanged(stream) {
			slog.Info("[SummaryPipeline] Ignoring stream batch of summary writes")
			return models.SummaryResult{Message: SKIPPED_MESSAGE}, nil
		}
	} else {
		slog.Info("[SummaryPipeline] Triggered directly")
	}

	return p.Run(ctx), nil
}

func asTableStream(payload json.RawMessage) (events.DynamoDBEvent, bool) {
	var stream events.DynamoDBEvent
	if len(payload) == 0 || json.Unmarshal(payload, &stream) != nil {
		return stream, false
	}
	if len(stream.Records) == 0 || stream.Records[0].EventSource != EVENT_SOURCE_DYNAMODB {
		return stream, false
	}
	return stream, true
}
