package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/spacesedan/reviewlens/internal/models"
)

const CONTENT_TYPE_JSON = "application/json"

// SageMakerAPI is the part of *sagemakerruntime.Client the summarizer uses.
type SageMakerAPI interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerSummarizer calls a deployed summarization endpoint with
// {"text_inputs": ...} and reads generated_text back.
type SageMakerSummarizer struct {
	client       SageMakerAPI
	endpointName string
}

func NewSageMakerSummarizer(client SageMakerAPI, endpointName string) *SageMakerSummarizer {
	return &SageMakerSummarizer{client: client, endpointName: endpointName}
}

func (s *SageMakerSummarizer) Summarize(ctx context.Context, text string) (models.SummaryResponse, error) {
	body, err := json.Marshal(models.SummaryRequest{TextInputs: text})
	if err != nil {
		return models.SummaryResponse{}, fmt.Errorf("failed to marshal input: %w", err)
	}

	slog.Info("[SageMakerSummarizer] Requesting summary",
		slog.String("endpoint", s.endpointName),
		slog.Int("payload_bytes", len(body)))
	start := time.Now()

	out, err := s.client.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(s.endpointName),
		ContentType:  aws.String(CONTENT_TYPE_JSON),
		Accept:       aws.String(CONTENT_TYPE_JSON),
		Body:         body,
	})
	if err != nil {
		slog.Error("[SageMakerSummarizer] Summary request failed",
			slog.Duration("elapsed", time.Since(start)),
			slog.String("error", err.Error()))
		return models.SummaryResponse{}, err
	}

	resp, err := decodeSummaryResponse(out.Body)
	if err != nil {
		slog.Error("[SageMakerSummarizer] Failed to unmarshal response",
			slog.String("error", err.Error()),
			getPreview(out.Body),
			slog.Int("raw_response_length", len(out.Body)))
		return models.SummaryResponse{}, err
	}

	slog.Info("[SageMakerSummarizer] Summary request successful",
		slog.Duration("elapsed", time.Since(start)),
		slog.Bool("has_generated_text", resp.GeneratedText != nil))
	return resp, nil
}

// decodeSummaryResponse accepts either an object or a list of objects, since
// Hugging Face containers return [{"generated_text": ...}] for some tasks.
func decodeSummaryResponse(raw []byte) (models.SummaryResponse, error) {
	var resp models.SummaryResponse

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []models.SummaryResponse
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return resp, fmt.Errorf("failed to unmarshal response: %w", err)
		}
		if len(list) > 0 {
			resp = list[0]
		}
		return resp, nil
	}

	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return resp, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return resp, nil
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
