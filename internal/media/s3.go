package media

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

type objectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads photos from an S3-compatible bucket. References are either
// s3://bucket/key or a bare key in the configured bucket.
type S3Source struct {
	client objectGetter
	bucket string
}

func NewS3Source(ctx context.Context, cfg config.S3Config) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media: s3 bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.AccessKeySecret, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Source(client, cfg.Bucket), nil
}

func newS3Source(client objectGetter, bucket string) *S3Source {
	return &S3Source{client: client, bucket: bucket}
}

// parse splits ref into bucket and key.
func (s *S3Source) parse(ref string) (string, string, error) {
	if !strings.HasPrefix(ref, s3Scheme) {
		key := strings.TrimPrefix(ref, "/")
		if key == "" {
			return "", "", fmt.Errorf("media: empty s3 key")
		}
		return s.bucket, key, nil
	}

	bucket, key, ok := strings.Cut(strings.TrimPrefix(ref, s3Scheme), "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("media: invalid s3 reference %q", ref)
	}
	return bucket, key, nil
}

func (s *S3Source) Open(ctx context.Context, refs []string) ([]content.File, error) {
	files := make([]content.File, 0, len(refs))
	for _, ref := range refs {
		bucket, key, err := s.parse(ref)
		if err != nil {
			return nil, err
		}
		files = append(files, content.File{
			Name: key,
			Open: func(ctx context.Context) (io.ReadCloser, error) {
				out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
					Bucket: aws.String(bucket),
					Key:    aws.String(key),
				})
				if err != nil {
					mediaLogger.Error().Err(err).Str("bucket", bucket).Str("key", key).Msg("Failed to fetch photo")
					return nil, fmt.Errorf("media: get s3://%s/%s: %w", bucket, key, err)
				}
				return out.Body, nil
			},
		})
	}
	return files, nil
}
