package clients

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var (
	openAIClientInstance *OpenAIClient
	openAIOnce           sync.Once
)

type OpenAIClient struct {
	Client *openai.Client
}

func GetOpenAIClient(apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		slog.Error("[OpenAIClient] Missing OPENAI_API_KEY in environment variables")
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	openAIOnce.Do(func() {
		httpClient := &http.Client{
			Timeout: OPENAI_REQUEST_TIMEOUT,
		}

		openAIClientInstance = &OpenAIClient{
			Client: openai.NewClient(
				option.WithAPIKey(apiKey),
				option.WithHTTPClient(httpClient),
				option.WithHeader("User-Agent", USER_AGENT),
			),
		}
		slog.Info("[OpenAIClient] OpenAI client initialized with custom HTTP timeout",
			slog.Duration("timeout", OPENAI_REQUEST_TIMEOUT))
	})
	return openAIClientInstance, nil
}
