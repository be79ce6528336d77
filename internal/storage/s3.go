package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ClinicaVidaNova/clinic-scheduler/internal/config"
)

// Uploader guarda anexos (comprovantes de cancelamento, anexos de
// atendimento, documentos de cliente) em um bucket S3 ou compatível
// (MinIO em desenvolvimento).
type Uploader struct {
	client *s3.Client
	bucket string
	base   string
}

func NewUploader(ctx context.Context, cfg *config.Config) (*Uploader, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	base := cfg.S3Endpoint
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	} else {
		base = strings.TrimRight(base, "/") + "/" + cfg.S3Bucket
	}

	return &Uploader{client: client, bucket: cfg.S3Bucket, base: base}, nil
}

// Upload grava o conteúdo sob uma chave única dentro de prefix e devolve
// (chave, URL pública).
func (u *Uploader) Upload(
	ctx context.Context,
	prefix string,
	fileName string,
	contentType string,
	data []byte,
) (string, string, error) {

	key := fmt.Sprintf("%s/%s-%s", prefix, uuid.NewString(), sanitizeFileName(fileName))

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", "", err
	}

	return key, u.base + "/" + key, nil
}

func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}

func sanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, " ", "_")
	if name == "" {
		name = "arquivo"
	}
	return name
}
