package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"AWS_REGION", "AWS_ENDPOINT", "REVIEWS_TABLE_NAME", "ANALYZER_PROVIDER", "ANALYZER_LANGUAGE",
		"OBJECT_STORE_PROVIDER", "SUMMARIZER_PROVIDER", "SAGEMAKER_ENDPOINT_NAME", "SUMMARY_MAX_CHARS",
		"SUMMARY_LOCK_TTL_SECONDS", "VALKEY_INIT_ADDRESS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.Region != DEFAULT_REGION {
		t.Errorf("Region = %q, want %q", s.Region, DEFAULT_REGION)
	}
	if s.TableName != "ReviewAnalysis" {
		t.Errorf("TableName = %q, want ReviewAnalysis", s.TableName)
	}
	if s.Language != "en" {
		t.Errorf("Language = %q, want en", s.Language)
	}
	if s.SummaryMaxChars != 6000 {
		t.Errorf("SummaryMaxChars = %d, want 6000", s.SummaryMaxChars)
	}
	if s.SummaryLockTTL != 5*time.Minute {
		t.Errorf("SummaryLockTTL = %v, want 5m", s.SummaryLockTTL)
	}
	if s.SageMakerEndpointName != DEFAULT_SAGEMAKER_ENDPOINT {
		t.Errorf("SageMakerEndpointName = %q", s.SageMakerEndpointName)
	}
	if s.Valkey.Enabled() {
		t.Error("Valkey should be disabled without an address")
	}
	if s.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", s.LogLevel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ANALYZER_PROVIDER", "VADER")
	t.Setenv("OBJECT_STORE_PROVIDER", "minio")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("SUMMARIZER_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("SUMMARY_MAX_CHARS", "120")
	t.Setenv("VALKEY_INIT_ADDRESS", "localhost:6379")
	t.Setenv("LOG_LEVEL", "debug")

	s, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s.AnalyzerProvider != AnalyzerVader {
		t.Errorf("AnalyzerProvider = %q, want vader", s.AnalyzerProvider)
	}
	if s.SummaryMaxChars != 120 {
		t.Errorf("SummaryMaxChars = %d, want 120", s.SummaryMaxChars)
	}
	if !s.Valkey.Enabled() {
		t.Error("Valkey should be enabled")
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", s.LogLevel)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown analyzer", env: map[string]string{"ANALYZER_PROVIDER": "watson"}},
		{name: "unknown store", env: map[string]string{"OBJECT_STORE_PROVIDER": "gcs"}},
		{name: "minio without endpoint", env: map[string]string{"OBJECT_STORE_PROVIDER": "minio", "MINIO_ENDPOINT": ""}},
		{name: "openai without key", env: map[string]string{"SUMMARIZER_PROVIDER": "openai", "OPENAI_API_KEY": ""}},
		{name: "non numeric budget", env: map[string]string{"SUMMARY_MAX_CHARS": "lots"}},
		{name: "zero budget", env: map[string]string{"SUMMARY_MAX_CHARS": "0"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "chatty"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for %v", tt.env)
			}
		})
	}
}
