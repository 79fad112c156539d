package streams

import (
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/spacesedan/reviewlens/internal/models"
)

// ReviewKeys returns the ReviewIDs a table stream batch touched. Records whose
// keys cannot be decoded are logged and left out.
func ReviewKeys(event events.DynamoDBEvent) []string {
	ids := make([]string, 0, len(event.Records))
	for _, record := range event.Records {
		var key models.StoredItem
		if err := UnmarshalEventStreamImage(record.Change.Keys, &key); err != nil {
			slog.Warn("[ReviewStream] Failed to decode record keys",
				slog.String("event_id", record.EventID),
				slog.String("error", err.Error()))
			continue
		}
		ids = append(ids, key.ReviewID)
	}
	return ids
}

// OnlySummaryChanged reports whether every record in the batch is the summary
// row itself, i.e. the batch was caused by our own write.
func OnlySummaryChanged(event events.DynamoDBEvent) bool {
	ids := ReviewKeys(event)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if id != models.SUMMARY_RECORD_ID {
			return false
		}
	}
	return true
}
