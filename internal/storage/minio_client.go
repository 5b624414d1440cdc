package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"microblogSync/internal/config"
	"microblogSync/internal/logger"
)

// Archive keeps copies of remote responses the sync engine could not parse.
type Archive interface {
	SaveResponse(ctx context.Context, account, phase, body string) (string, error)
}

type MinIOClient struct {
	client *minio.Client
	bucket string
}

func NewMinIOClient(ctx context.Context, cfg config.MinIO) (*MinIOClient, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания клиента MinIO: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("ошибка проверки бакета %s: %w", cfg.BucketName, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region})
		if err != nil {
			return nil, fmt.Errorf("ошибка создания бакета %s: %w", cfg.BucketName, err)
		}
	}

	return &MinIOClient{client: client, bucket: cfg.BucketName}, nil
}

// SaveResponse stores body as a JSON object and returns its name.
func (m *MinIOClient) SaveResponse(ctx context.Context, account, phase, body string) (string, error) {
	now := time.Now()
	objectName := ObjectName(phase, now)

	_, err := m.client.PutObject(ctx, m.bucket, objectName, strings.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{
			ContentType: "application/json",
			UserMetadata: map[string]string{
				"account":     logger.MaskAccount(account),
				"phase":       phase,
				"received-at": now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return objectName, nil
}

func ObjectName(phase string, now time.Time) string {
	return fmt.Sprintf("responses/%s/%d/%02d/%s.json",
		phase,
		now.Year(),
		now.Month(),
		uuid.New().String())
}
