package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DEFAULT_REGION             = "us-east-1"
	DEFAULT_TABLE_NAME         = "ReviewAnalysis"
	DEFAULT_LANGUAGE           = "en"
	DEFAULT_SAGEMAKER_ENDPOINT = "jumpstart-dft-hf-summarization-dist-20251114-140145"
	DEFAULT_OPENAI_MODEL       = "gpt-4o-mini"
	DEFAULT_SUMMARY_MAX_CHARS  = 6000
	DEFAULT_SUMMARY_LOCK_TTL   = 5 * time.Minute
)

const (
	AnalyzerComprehend = "comprehend"
	AnalyzerVader      = "vader"

	ObjectStoreS3    = "s3"
	ObjectStoreMinio = "minio"

	SummarizerSageMaker = "sagemaker"
	SummarizerOpenAI    = "openai"
)

type Settings struct {
	Region      string
	AWSEndpoint string
	TableName   string

	AnalyzerProvider string
	Language         string

	ObjectStoreProvider string
	Minio               MinioSettings

	SummarizerProvider    string
	SageMakerEndpointName string
	OpenAIAPIKey          string
	OpenAIModel           string
	SummaryMaxChars       int

	Valkey         ValkeySettings
	SummaryLockTTL time.Duration

	LogLevel slog.Level
}

type MinioSettings struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
}

type ValkeySettings struct {
	InitAddress string
	Password    string
	UseTLS      bool
}

// Enabled reports whether a Valkey address was configured.
func (v ValkeySettings) Enabled() bool {
	return v.InitAddress != ""
}

// Load reads Settings from the environment and validates them.
func Load() (Settings, error) {
	s := Settings{
		Region:      getEnv("AWS_REGION", DEFAULT_REGION),
		AWSEndpoint: os.Getenv("AWS_ENDPOINT"),
		TableName:   getEnv("REVIEWS_TABLE_NAME", DEFAULT_TABLE_NAME),

		AnalyzerProvider: strings.ToLower(getEnv("ANALYZER_PROVIDER", AnalyzerComprehend)),
		Language:         getEnv("ANALYZER_LANGUAGE", DEFAULT_LANGUAGE),

		ObjectStoreProvider: strings.ToLower(getEnv("OBJECT_STORE_PROVIDER", ObjectStoreS3)),
		Minio: MinioSettings{
			Endpoint:        os.Getenv("MINIO_ENDPOINT"),
			AccessKeyID:     os.Getenv("MINIO_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("MINIO_SECRET_ACCESS_KEY"),
			UseSSL:          os.Getenv("MINIO_USE_SSL") == "true",
		},

		SummarizerProvider:    strings.ToLower(getEnv("SUMMARIZER_PROVIDER", SummarizerSageMaker)),
		SageMakerEndpointName: getEnv("SAGEMAKER_ENDPOINT_NAME", DEFAULT_SAGEMAKER_ENDPOINT),
		OpenAIAPIKey:          os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:           getEnv("OPENAI_MODEL", DEFAULT_OPENAI_MODEL),

		Valkey: ValkeySettings{
			InitAddress: os.Getenv("VALKEY_INIT_ADDRESS"),
			Password:    os.Getenv("VALKEY_PASSWORD"),
			UseTLS:      os.Getenv("VALKEY_TLS") == "true",
		},
	}

	var err error
	if s.SummaryMaxChars, err = getEnvInt("SUMMARY_MAX_CHARS", DEFAULT_SUMMARY_MAX_CHARS); err != nil {
		return s, err
	}
	lockSeconds, err := getEnvInt("SUMMARY_LOCK_TTL_SECONDS", int(DEFAULT_SUMMARY_LOCK_TTL/time.Second))
	if err != nil {
		return s, err
	}
	s.SummaryLockTTL = time.Duration(lockSeconds) * time.Second

	if err := s.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return s, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return s, s.Validate()
}

// Validate checks provider names and numeric bounds.
func (s Settings) Validate() error {
	switch s.AnalyzerProvider {
	case AnalyzerComprehend, AnalyzerVader:
	default:
		return fmt.Errorf("unknown ANALYZER_PROVIDER %q", s.AnalyzerProvider)
	}

	switch s.ObjectStoreProvider {
	case ObjectStoreS3:
	case ObjectStoreMinio:
		if s.Minio.Endpoint == "" {
			return fmt.Errorf("MINIO_ENDPOINT is required when OBJECT_STORE_PROVIDER=minio")
		}
	default:
		return fmt.Errorf("unknown OBJECT_STORE_PROVIDER %q", s.ObjectStoreProvider)
	}

	switch s.SummarizerProvider {
	case SummarizerSageMaker:
		if s.SageMakerEndpointName == "" {
			return fmt.Errorf("SAGEMAKER_ENDPOINT_NAME is required when SUMMARIZER_PROVIDER=sagemaker")
		}
	case SummarizerOpenAI:
		if s.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SUMMARIZER_PROVIDER=openai")
		}
	default:
		return fmt.Errorf("unknown SUMMARIZER_PROVIDER %q", s.SummarizerProvider)
	}

	if s.TableName == "" {
		return fmt.Errorf("REVIEWS_TABLE_NAME must not be empty")
	}
	if s.SummaryMaxChars <= 0 {
		return fmt.Errorf("SUMMARY_MAX_CHARS must be positive, got %d", s.SummaryMaxChars)
	}
	if s.SummaryLockTTL <= 0 {
		return fmt.Errorf("SUMMARY_LOCK_TTL_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
