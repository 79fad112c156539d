package summarizer

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/spacesedan/reviewlens/internal/models"
)

const openAIPrompt = `Summarize the following customer product reviews in one short paragraph.
Mention the most common praise and the most common complaints.
Return plain text only, no Markdown and no preamble.`

// OpenAISummarizer is the chat-completion alternative to the SageMaker
// endpoint. An empty completion is reported as a missing generated_text.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

func NewOpenAISummarizer(client *openai.Client, model string) *OpenAISummarizer {
	return &OpenAISummarizer{client: client, model: model}
}

func (o *OpenAISummarizer) Summarize(ctx context.Context, text string) (models.SummaryResponse, error) {
	slog.Info("[OpenAISummarizer] Requesting summary", slog.String("model", o.model))
	start := time.Now()

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openAIPrompt),
			openai.UserMessage(text),
		}),
		Model:       openai.F(openai.ChatModel(o.model)),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		slog.Error("[OpenAISummarizer] Summary request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.SummaryResponse{}, err
	}

	slog.Info("[OpenAISummarizer] Summary request successful",
		slog.Duration("elapsed", time.Since(start)))
	return completionToResponse(completion), nil
}

func completionToResponse(completion *openai.ChatCompletion) models.SummaryResponse {
	if completion == nil || len(completion.Choices) == 0 {
		return models.SummaryResponse{}
	}
	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return models.SummaryResponse{}
	}
	return models.SummaryResponse{GeneratedText: &content}
}
