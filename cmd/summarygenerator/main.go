package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/db"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/summarizer"
	"github.com/spacesedan/reviewlens/internal/summary"
)

var pipeline *summary.Pipeline

// init runs once per Lambda cold start
func init() {
	env := config.AppEnv()
	config.LoadEnv(env)

	settings, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logging.InitLogger(settings.LogLevel)

	if err := clients.InitAWS(context.Background(), settings.Region, settings.AWSEndpoint); err != nil {
		slog.Error("Failed to initialize AWS clients", slog.String("error", err.Error()))
		os.Exit(1)
	}

	model, err := newSummarizer(settings)
	if err != nil {
		slog.Error("Failed to initialize summarizer", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table := db.NewReviewTable(clients.GetDynamoDBClient(), settings.TableName)
	pipeline = summary.NewPipeline(table, model, settings.SummaryMaxChars)

	if settings.Valkey.Enabled() {
		locker, err := clients.InitValkey(settings.Valkey)
		if err != nil {
			// runs still work without the lease, they just may overlap
			slog.Warn("Valkey unavailable, running without summary lock", slog.String("error", err.Error()))
		} else {
			pipeline.WithLock(locker, settings.SummaryLockTTL)
		}
	}

	slog.Info("Initialization complete.",
		slog.String("environment", env),
		slog.String("table", settings.TableName),
		slog.String("summarizer", settings.SummarizerProvider),
		slog.Int("max_chars", settings.SummaryMaxChars))
}

func newSummarizer(settings config.Settings) (summary.Summarizer, error) {
	if settings.SummarizerProvider == config.SummarizerOpenAI {
		client, err := clients.GetOpenAIClient(settings.OpenAIAPIKey)
		if err != nil {
			return nil, err
		}
		return summarizer.NewOpenAISummarizer(client.Client, settings.OpenAIModel), nil
	}
	return summarizer.NewSageMakerSummarizer(clients.GetSageMakerRuntimeClient(), settings.SageMakerEndpointName), nil
}

func main() {
	defer clients.CloseValkey()
	lambda.Start(pipeline.HandleEvent)
}
