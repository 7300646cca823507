package backend

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/marmos91/vfsmount/internal/logger"
)

// DefaultS3Region is used when no region is configured.
const DefaultS3Region = "us-east-1"

// S3Config configures an S3 backend.
type S3Config struct {
	Bucket string
	Region string

	// Endpoint overrides the AWS endpoint (Localstack, MinIO). Setting it
	// switches the client to path-style addressing.
	Endpoint string

	// KeyPrefix is prepended to every object key.
	KeyPrefix string

	// Static credentials. When empty the default AWS credential chain is used.
	AccessKeyID     string
	SecretAccessKey string
}

// S3 is a bucket in an S3-compatible object store.
type S3 struct {
	client *s3.Client
	bucket string
	region string
	prefix string
}

// NewS3 creates an S3 backend and its client. Loading the AWS configuration
// reads environment and shared config files only; no request is sent.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	region := cfg.Region
	if region == "" {
		region = DefaultS3Region
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var client *s3.Client
	if cfg.Endpoint != "" {
		client = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	} else {
		client = s3.NewFromConfig(awsCfg)
	}

	logger.Debug("S3 backend created",
		logger.KeyBucket, cfg.Bucket,
		logger.KeyRegion, region)

	return NewS3WithClient(client, cfg.Bucket, region, cfg.KeyPrefix), nil
}

// NewS3WithClient wraps an existing client.
func NewS3WithClient(client *s3.Client, bucket, region, keyPrefix string) *S3 {
	if keyPrefix != "" && !strings.HasSuffix(keyPrefix, "/") {
		keyPrefix += "/"
	}
	return &S3{
		client: client,
		bucket: bucket,
		region: region,
		prefix: strings.TrimPrefix(keyPrefix, "/"),
	}
}

// Type returns the backend type.
func (s *S3) Type() string {
	return TypeS3
}

// ID returns "amazon::<bucket>".
func (s *S3) ID() string {
	return prefixS3 + s.bucket
}

// Client returns the underlying S3 client.
func (s *S3) Client() *s3.Client {
	return s.client
}

// Bucket returns the bucket name.
func (s *S3) Bucket() string {
	return s.bucket
}

// Region returns the bucket region.
func (s *S3) Region() string {
	return s.region
}

// Key maps a mount-internal path to an object key.
func (s *S3) Key(internalPath string) string {
	return s.prefix + strings.TrimPrefix(internalPath, "/")
}
