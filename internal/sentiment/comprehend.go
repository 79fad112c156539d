package sentiment

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"
	"github.com/spacesedan/reviewlens/internal/models"
)

// ComprehendAPI is the part of *comprehend.Client the analyzer uses.
type ComprehendAPI interface {
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
	DetectKeyPhrases(ctx context.Context, params *comprehend.DetectKeyPhrasesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectKeyPhrasesOutput, error)
}

type ComprehendAnalyzer struct {
	client ComprehendAPI
}

func NewComprehendAnalyzer(client ComprehendAPI) *ComprehendAnalyzer {
	return &ComprehendAnalyzer{client: client}
}

func (c *ComprehendAnalyzer) DetectSentiment(ctx context.Context, text, language string) (models.SentimentAnalysis, error) {
	out, err := c.client.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(language),
	})
	if err != nil {
		return models.SentimentAnalysis{}, fmt.Errorf("comprehend detect sentiment: %w", err)
	}
	if out.SentimentScore == nil {
		return models.SentimentAnalysis{}, fmt.Errorf("comprehend detect sentiment: response has no scores")
	}

	score := out.SentimentScore
	return models.SentimentAnalysis{
		Label: string(out.Sentiment),
		Scores: map[string]float32{
			models.SentimentPositive: aws.ToFloat32(score.Positive),
			models.SentimentNegative: aws.ToFloat32(score.Negative),
			models.SentimentNeutral:  aws.ToFloat32(score.Neutral),
			models.SentimentMixed:    aws.ToFloat32(score.Mixed),
		},
	}, nil
}

func (c *ComprehendAnalyzer) DetectKeyPhrases(ctx context.Context, text, language string) ([]string, error) {
	out, err := c.client.DetectKeyPhrases(ctx, &comprehend.DetectKeyPhrasesInput{
		Text:         aws.String(text),
		LanguageCode: types.LanguageCode(language),
	})
	if err != nil {
		return nil, fmt.Errorf("comprehend detect key phrases: %w", err)
	}

	phrases := make([]string, 0, len(out.KeyPhrases))
	for _, p := range out.KeyPhrases {
		phrases = append(phrases, aws.ToString(p.Text))
	}
	return phrases, nil
}
