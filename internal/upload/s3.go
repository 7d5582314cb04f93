package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/daylog-app/daylog/internal/config"
	"github.com/daylog-app/daylog/internal/filex"
	"github.com/daylog-app/daylog/internal/netx"
)

// Test seams.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	putPresigned = netx.PutPresigned
)

// S3Uploader uploads attachments through presigned PUT URLs. The returned
// attachment references are the object storage keys.
type S3Uploader struct {
	config *config.Config
}

func NewS3Uploader(cfg *config.Config) *S3Uploader {
	return &S3Uploader{config: cfg}
}

// randomStorageKey spreads objects by date so buckets stay browsable.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (u *S3Uploader) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(u.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			u.config.S3AccessKey,
			u.config.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if u.config.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(u.config.S3Endpoint)
		}
	})

	return newS3PresignClient(client), nil
}

// UploadBatch reads each local file, presigns a PUT for it and uploads the
// bytes. The first failure aborts the batch.
func (u *S3Uploader) UploadBatch(ctx context.Context, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	presignClient, err := u.getPresignClient()
	if err != nil {
		return nil, fmt.Errorf("building presign client: %w", err)
	}

	bucket := u.config.S3Bucket
	keys := make([]string, 0, len(paths))

	for _, path := range paths {
		data, err := filex.ReadAttachment(path)
		if err != nil {
			return nil, err
		}

		key := randomStorageKey()
		req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
			Bucket: &bucket,
			Key:    &key,
		}, s3.WithPresignExpires(15*time.Minute))
		if err != nil {
			return nil, fmt.Errorf("presigning %s: %w", path, err)
		}

		if err := putPresigned(ctx, req.URL, data); err != nil {
			return nil, fmt.Errorf("uploading %s: %w", path, err)
		}

		keys = append(keys, key)
	}

	return keys, nil
}
