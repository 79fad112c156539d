package clients

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
)

var (
	awsCfg     aws.Config
	awsCfgErr  error
	awsOnce    sync.Once
	awsBaseURL string
)

// InitAWS loads the shared SDK configuration once per process. endpoint, when
// set, overrides the service endpoints (DynamoDB local, LocalStack).
func InitAWS(ctx context.Context, region, endpoint string) error {
	awsOnce.Do(func() {
		slog.Info("[AWSClient] Initializing AWS Config...",
			slog.String("region", region),
			slog.String("endpoint", endpoint))

		cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
		if err != nil {
			slog.Error("[AWSClient] Failed to load AWS config",
				slog.String("error", err.Error()))
			awsCfgErr = fmt.Errorf("failed to load aws config: %w", err)
			return
		}

		awsCfg = cfg
		awsBaseURL = endpoint
		slog.Info("[AWSClient] AWS Config Initialized")
	})

	return awsCfgErr
}

func GetAWSConfig() aws.Config {
	return awsCfg
}

func baseEndpoint() *string {
	if awsBaseURL == "" {
		return nil
	}
	return aws.String(awsBaseURL)
}

func GetDynamoDBClient() *dynamodb.Client {
	return dynamodb.NewFromConfig(GetAWSConfig(), func(o *dynamodb.Options) {
		o.BaseEndpoint = baseEndpoint()
	})
}

func GetS3Client() *s3.Client {
	return s3.NewFromConfig(GetAWSConfig(), func(o *s3.Options) {
		o.BaseEndpoint = baseEndpoint()
		// LocalStack serves buckets on the path, not as subdomains
		o.UsePathStyle = awsBaseURL != ""
	})
}

func GetComprehendClient() *comprehend.Client {
	return comprehend.NewFromConfig(GetAWSConfig(), func(o *comprehend.Options) {
		o.BaseEndpoint = baseEndpoint()
	})
}

func GetSageMakerRuntimeClient() *sagemakerruntime.Client {
	return sagemakerruntime.NewFromConfig(GetAWSConfig(), func(o *sagemakerruntime.Options) {
		o.BaseEndpoint = baseEndpoint()
	})
}
