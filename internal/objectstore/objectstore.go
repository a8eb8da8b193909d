// Package objectstore hands out presigned upload URLs for user media. Object
// paths returned here are what photo, diary and profile records store.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload is a presigned PUT target.
type Upload struct {
	URL        string    `json:"upload_url"`
	ObjectPath string    `json:"object_path"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Presigner issues upload URLs.
type Presigner interface {
	PresignUpload(ctx context.Context, userID, fileName, contentType string) (*Upload, error)
}

// Options configures an S3-compatible store.
type Options struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Region         string
	Bucket         string
	ForcePathStyle bool
	TTL            time.Duration
}

// S3Store presigns uploads against an S3-compatible endpoint (AWS, MinIO,
// SeaweedFS).
type S3Store struct {
	presign *s3.PresignClient
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

// NewS3Store builds the SDK client from static credentials.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	endpoint := strings.TrimSpace(opts.Endpoint)
	if endpoint == "" {
		return nil, errors.New("S3 endpoint is required")
	}
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, errors.New("S3 access key and secret key are required")
	}
	if opts.Bucket == "" {
		return nil, errors.New("S3 bucket is required")
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	region := opts.Region
	if region == "" {
		region = "us-east-1"
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		awsconfig.WithHTTPClient(&http.Client{Timeout: 30 * time.Second}),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = opts.ForcePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &S3Store{
		presign: s3.NewPresignClient(client),
		bucket:  opts.Bucket,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// PresignUpload returns a URL the client can PUT the file to. The object key
// is generated; only the extension of fileName is kept.
func (s *S3Store) PresignUpload(ctx context.Context, userID, fileName, contentType string) (*Upload, error) {
	key, err := ObjectKey(userID, fileName, s.now())
	if err != nil {
		return nil, err
	}

	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}

	return &Upload{
		URL:        req.URL,
		ObjectPath: key,
		ExpiresAt:  s.now().Add(s.ttl).UTC(),
	}, nil
}

// ObjectKey builds "uploads/<user>/<yyyy>/<mm>/<uuid><ext>".
func ObjectKey(userID, fileName string, now time.Time) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	now = now.UTC()
	return fmt.Sprintf("uploads/%s/%04d/%02d/%s%s", userID, now.Year(), int(now.Month()), id, extension(fileName)), nil
}

// extension returns a lower-cased, alphanumeric file extension of at most
// eight characters, or "".
func extension(fileName string) string {
	ext := strings.ToLower(path.Ext(strings.ReplaceAll(fileName, "\\", "/")))
	if len(ext) < 2 || len(ext) > 9 {
		return ""
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
