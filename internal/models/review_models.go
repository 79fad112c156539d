package models

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/shopspring/decimal"
)

const (
	// SUMMARY_RECORD_ID is the reserved key of the singleton summary row. It
	// contains '#', which never appears in a hex ReviewID.
	SUMMARY_RECORD_ID = "SUMMARY#ALL"
	NO_SUMMARY_TEXT   = "NO_SUMMARY_RETURNED"

	RATING_UNAVAILABLE = "N/A"
	UNKNOWN_CATEGORY   = "Unknown"

	REVIEW_ID_LENGTH = 16
	SCORE_PRECISION  = 8
)

// Sentiment labels returned by the text analytics service.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentNeutral  = "NEUTRAL"
	SentimentMixed    = "MIXED"
)

// SentimentLabels lists the score keys in a stable order.
var SentimentLabels = []string{SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed}

type ReviewRecord struct {
	ReviewID          string                     `json:"ReviewID" dynamodbav:"ReviewID"`
	ReviewText        string                     `json:"ReviewText" dynamodbav:"ReviewText"`
	Rating            string                     `json:"Rating" dynamodbav:"Rating"`
	DetectedSentiment string                     `json:"DetectedSentiment" dynamodbav:"DetectedSentiment"`
	SentimentScore    map[string]decimal.Decimal `json:"SentimentScore" dynamodbav:"-"`
	KeyPhrases        []string                   `json:"KeyPhrases" dynamodbav:"KeyPhrases"`
	ProductCategory   string                     `json:"ProductCategory" dynamodbav:"ProductCategory"`
}

type SummaryRecord struct {
	ReviewID string `json:"ReviewID" dynamodbav:"ReviewID"`
	Summary  string `json:"Summary" dynamodbav:"Summary"`
}

// StoredItem is the subset of a table row the summary scan reads. Both
// ReviewRecord and SummaryRecord rows decode into it.
type StoredItem struct {
	ReviewID   string `dynamodbav:"ReviewID"`
	ReviewText string `dynamodbav:"ReviewText"`
	Summary    string `dynamodbav:"Summary"`
}

func (s StoredItem) IsSummary() bool {
	return s.ReviewID == SUMMARY_RECORD_ID
}

// NewReviewID derives the row key from the review text alone, so identical
// texts always map to the same row.
func NewReviewID(reviewText string) string {
	sum := sha256.Sum256([]byte(reviewText))
	return hex.EncodeToString(sum[:])[:REVIEW_ID_LENGTH]
}

// ScoreToDecimal converts a service confidence to an exact decimal using the
// shortest float32 representation, then banker's rounding to SCORE_PRECISION.
func ScoreToDecimal(score float32) decimal.Decimal {
	return decimal.NewFromFloat32(score).RoundBank(SCORE_PRECISION)
}
