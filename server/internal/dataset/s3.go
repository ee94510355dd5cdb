package dataset

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const s3Scheme = "s3://"

// S3Config holds the S3-compatible endpoint settings used for s3:// sources.
type S3Config struct {
	Region          string
	Endpoint        string // optional; set for MinIO or other S3-compatible stores
	PathStyle       bool
	AccessKeyID     string // optional; default credential chain otherwise
	SecretAccessKey string
}

// GetObjectAPI is the slice of *s3.Client that S3Opener needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Opener reads s3://bucket/key sources.
type S3Opener struct {
	Client GetObjectAPI
}

// NewS3Opener builds an S3Opener from cfg using the default AWS config chain.
func NewS3Opener(ctx context.Context, cfg S3Config) (*S3Opener, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &S3Opener{Client: client}, nil
}

// Open fetches the object named by src.
func (o *S3Opener) Open(ctx context.Context, src string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URI(src)
	if err != nil {
		return nil, err
	}
	out, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get %s/%s: %w", bucket, key, err)
	}
	return out.Body, nil
}

// ParseS3URI splits s3://bucket/key into its parts.
func ParseS3URI(src string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(src, s3Scheme)
	if !ok {
		return "", "", fmt.Errorf("not an s3 uri: %q", src)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 uri %q: want s3://bucket/key", src)
	}
	return bucket, key, nil
}
