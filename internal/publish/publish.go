// Package publish uploads generated files to S3-compatible storage and
// hands back presigned download links.
package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/movielib/internal/netx"
)

var ErrNotConfigured = errors.New("publishing is not configured: set the S3 bucket")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

const defaultPresignTTL = 15 * time.Minute

// Options describe the target bucket. Empty AccessKey falls back to the
// default AWS credential chain; BaseEndpoint points at MinIO and friends.
type Options struct {
	Bucket       string
	Region       string
	BaseEndpoint string
	AccessKey    string
	SecretKey    string
	PresignTTL   time.Duration
}

type Publisher struct {
	opts Options
}

func NewPublisher(opts Options) *Publisher {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = defaultPresignTTL
	}
	return &Publisher{opts: opts}
}

// Enabled reports whether a bucket is configured.
func (p *Publisher) Enabled() bool {
	return p.opts.Bucket != ""
}

// StorageKey builds a unique object key for a file published by owner.
func StorageKey(owner, name string) string {
	if owner == "" {
		owner = "library"
	}
	d := time.Now().UTC()
	return path.Join("galleries", owner, fmt.Sprintf("%d/%02d/%02d", d.Year(), d.Month(), d.Day()), uuid.NewString(), filepath.Base(name))
}

func (p *Publisher) presignClient(ctx context.Context) (*s3.PresignClient, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(p.opts.Region)}
	if p.opts.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(p.opts.AccessKey, p.opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if p.opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(p.opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return newS3PresignClient(client), nil
}

// Upload stores the file at localPath under key and returns a presigned
// GET URL valid for PresignTTL.
func (p *Publisher) Upload(ctx context.Context, key, localPath, contentType string) (string, error) {
	if !p.Enabled() {
		return "", ErrNotConfigured
	}

	body, err := os.ReadFile(localPath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", localPath, err)
	}
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(localPath))
	}

	pc, err := p.presignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 config: %w", err)
	}

	bucket := p.opts.Bucket
	put, err := presignPutObject(pc, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.opts.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := uploadToPresignedURL(ctx, nil, put.URL, body, contentType); err != nil {
		return "", err
	}

	get, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(p.opts.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}

	return get.URL, nil
}
