package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/reviewlens/internal/models"
)

// DynamoDBAPI is the part of *dynamodb.Client the review table uses.
type DynamoDBAPI interface {
	dynamodb.ScanAPIClient
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// ReviewTable is the shared table both functions read and write, keyed by
// ReviewID.
type ReviewTable struct {
	client    DynamoDBAPI
	tableName string
}

func NewReviewTable(client DynamoDBAPI, tableName string) *ReviewTable {
	return &ReviewTable{client: client, tableName: tableName}
}

func (t *ReviewTable) TableName() string {
	return t.tableName
}

// PutReview writes the record unconditionally, replacing any row with the
// same ReviewID.
func (t *ReviewTable) PutReview(ctx context.Context, review models.ReviewRecord) error {
	_, err := t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.tableName),
		Item:      ReviewToDynamoDBItem(review),
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put review %s: %w", review.ReviewID, err)
	}
	return nil
}

// PutSummary replaces the singleton summary row.
func (t *ReviewTable) PutSummary(ctx context.Context, summary models.SummaryRecord) error {
	item, err := attributevalue.MarshalMap(summary)
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to marshal summary: %w", err)
	}

	_, err = t.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(t.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("[DynamoDB] Failed to put summary: %w", err)
	}

	slog.Info("[DynamoDB] Summary stored", slog.String("review_id", summary.ReviewID))
	return nil
}

// ScanAll walks every scan page and returns all rows, summary row included.
func (t *ReviewTable) ScanAll(ctx context.Context) ([]models.StoredItem, error) {
	var items []models.StoredItem
	input := &dynamodb.ScanInput{
		TableName: aws.String(t.tableName),
	}

	paginator := dynamodb.NewScanPaginator(t.client, input)

	pages := 0
	for paginator.HasMorePages() {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("[DynamoDB] Scan for reviews failed: %w", err)
		}
		var page []models.StoredItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			slog.Error("[DynamoDB] Unable to unmarshal current review page", slog.String("error", err.Error()))
			return nil, err
		}
		items = append(items, page...)
		pages++
	}

	slog.Info("[DynamoDB] Successfully scanned reviews",
		slog.Int("count", len(items)),
		slog.Int("pages", pages))
	return items, nil
}

// ReviewToDynamoDBItem builds the item by hand so sentiment scores go out as
// exact N values instead of float64 conversions.
func ReviewToDynamoDBItem(review models.ReviewRecord) map[string]types.AttributeValue {
	item := make(map[string]types.AttributeValue)

	item["ReviewID"] = &types.AttributeValueMemberS{Value: review.ReviewID}
	item["ReviewText"] = &types.AttributeValueMemberS{Value: review.ReviewText}
	item["Rating"] = &types.AttributeValueMemberS{Value: review.Rating}
	item["DetectedSentiment"] = &types.AttributeValueMemberS{Value: review.DetectedSentiment}
	item["ProductCategory"] = &types.AttributeValueMemberS{Value: review.ProductCategory}

	scores := make(map[string]types.AttributeValue, len(review.SentimentScore))
	for label, score := range review.SentimentScore {
		scores[label] = &types.AttributeValueMemberN{Value: score.String()}
	}
	item["SentimentScore"] = &types.AttributeValueMemberM{Value: scores}

	phrases := make([]types.AttributeValue, 0, len(review.KeyPhrases))
	for _, phrase := range review.KeyPhrases {
		phrases = append(phrases, &types.AttributeValueMemberS{Value: phrase})
	}
	item["KeyPhrases"] = &types.AttributeValueMemberL{Value: phrases}

	return item
}
