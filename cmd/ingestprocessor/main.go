package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spacesedan/reviewlens/config"
	"github.com/spacesedan/reviewlens/internal/clients"
	"github.com/spacesedan/reviewlens/internal/db"
	"github.com/spacesedan/reviewlens/internal/ingest"
	"github.com/spacesedan/reviewlens/internal/logging"
	"github.com/spacesedan/reviewlens/internal/sentiment"
	"github.com/spacesedan/reviewlens/internal/storage"
)

var pipeline *ingest.Pipeline

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

	store, err := newObjectStore(settings)
	if err != nil {
		slog.Error("Failed to initialize object store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	table := db.NewReviewTable(clients.GetDynamoDBClient(), settings.TableName)
	pipeline = ingest.NewPipeline(store, newAnalyzer(settings), table, settings.Language)

	slog.Info("Initialization complete.",
		slog.String("environment", env),
		slog.String("table", settings.TableName),
		slog.String("analyzer", settings.AnalyzerProvider),
		slog.String("object_store", settings.ObjectStoreProvider))
}

func newObjectStore(settings config.Settings) (ingest.ObjectStore, error) {
	if settings.ObjectStoreProvider == config.ObjectStoreMinio {
		client, err := clients.GetMinioClient(settings.Minio)
		if err != nil {
			return nil, err
		}
		return storage.NewMinioStore(client)
	}
	return storage.NewS3Store(clients.GetS3Client()), nil
}

func newAnalyzer(settings config.Settings) ingest.Analyzer {
	if settings.AnalyzerProvider == config.AnalyzerVader {
		return sentiment.NewVaderAnalyzer()
	}
	return sentiment.NewComprehendAnalyzer(clients.GetComprehendClient())
}

func main() {
	lambda.Start(pipeline.HandleS3Event)
}
