package clients

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spacesedan/reviewlens/config"
)

var (
	minioInstance *minio.Client
	minioErr      error
	minioOnce     sync.Once
)

// GetMinioClient builds the MinIO client used when the CSV uploads land in a
// local S3-compatible store instead of AWS.
func GetMinioClient(cfg config.MinioSettings) (*minio.Client, error) {
	minioOnce.Do(func() {
		if cfg.Endpoint == "" {
			minioErr = fmt.Errorf("minio endpoint is required")
			return
		}

		client, err := minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			minioErr = fmt.Errorf("failed to create minio client: %w", err)
			return
		}

		slog.Info("[MinioClient] MinIO client initialized",
			slog.String("endpoint", cfg.Endpoint),
			slog.Bool("ssl", cfg.UseSSL))
		minioInstance = client
	})
	return minioInstance, minioErr
}
