package sentiment

import (
	"context"
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/reviewlens/internal/models"
)

const (
	POSITIVE_THRESHOLD = 0.20
	NEGATIVE_THRESHOLD = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // Keep only the text
	return urlPattern.ReplaceAllString(input, "")
}

func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(plain), " ")
}

// VaderAnalyzer scores reviews locally with VADER. It has no key-phrase
// model, so DetectKeyPhrases always returns an empty list.
type VaderAnalyzer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderAnalyzer() *VaderAnalyzer {
	return &VaderAnalyzer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// DetectSentiment ignores language; the VADER lexicon is English only.
func (v *VaderAnalyzer) DetectSentiment(ctx context.Context, text, language string) (models.SentimentAnalysis, error) {
	if err := ctx.Err(); err != nil {
		return models.SentimentAnalysis{}, err
	}

	polarity := v.analyzer.PolarityScores(ConvertMarkdownToText(text))

	var label string
	switch {
	case polarity.Positive > 0 && polarity.Negative > 0 && polarity.Compound > NEGATIVE_THRESHOLD && polarity.Compound < POSITIVE_THRESHOLD:
		label = models.SentimentMixed
	case polarity.Compound >= POSITIVE_THRESHOLD:
		label = models.SentimentPositive
	case polarity.Compound <= NEGATIVE_THRESHOLD:
		label = models.SentimentNegative
	default:
		label = models.SentimentNeutral
	}

	return models.SentimentAnalysis{
		Label: label,
		Scores: map[string]float32{
			models.SentimentPositive: float32(polarity.Positive),
			models.SentimentNegative: float32(polarity.Negative),
			models.SentimentNeutral:  float32(polarity.Neutral),
			models.SentimentMixed:    0,
		},
	}, nil
}

func (v *VaderAnalyzer) DetectKeyPhrases(ctx context.Context, text, language string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []string{}, nil
}
