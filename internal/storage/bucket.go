// Package storage reads resume batches from S3-compatible object stores
// (AWS S3, Cloudflare R2, MinIO).
package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/jonathan/resume-screener/internal/ingestion"
	"github.com/jonathan/resume-screener/internal/types"
)

// MaxObjectBytes caps the size of a downloaded object.
const MaxObjectBytes = 64 << 20

// ObjectAPI is the subset of the S3 client used by Bucket.
type ObjectAPI interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Config locates a bucket. Endpoint is only needed for non-AWS stores.
type Config struct {
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// Bucket reads objects from one bucket.
type Bucket struct {
	api    ObjectAPI
	name   string
	logger *zap.Logger
}

// NewBucket builds an S3 client from cfg. Static credentials are used when
// an access key is configured; otherwise the default AWS chain applies.
func NewBucket(ctx context.Context, cfg Config, logger *zap.Logger) (*Bucket, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewBucketWithAPI(client, cfg.Bucket, logger), nil
}

// NewBucketWithAPI wraps an existing client.
func NewBucketWithAPI(api ObjectAPI, name string, logger *zap.Logger) *Bucket {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bucket{api: api, name: name, logger: logger}
}

// List returns every key under prefix, sorted.
func (b *Bucket) List(ctx context.Context, prefix string) ([]string, error) {
	input := &s3.ListObjectsV2Input{Bucket: aws.String(b.name)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var keys []string
	pages := s3.NewListObjectsV2Paginator(b.api, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects in %s: %w", b.name, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Get downloads one object.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, MaxObjectBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if len(data) > MaxObjectBytes {
		return nil, fmt.Errorf("object %s exceeds %d bytes", key, MaxObjectBytes)
	}
	return data, nil
}

// LoadResumes downloads the resumes stored under prefix. Zip objects are
// expanded in place; objects of other formats are skipped. Documents are
// named by their key relative to the bucket.
func (b *Bucket) LoadResumes(ctx context.Context, prefix string, loader *ingestion.Loader) ([]types.Document, error) {
	keys, err := b.List(ctx, prefix)
	if err != nil {
		return nil, err
	}

	var docs []types.Document
	for _, key := range keys {
		switch {
		case ingestion.IsArchive(key):
			data, err := b.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			expanded, err := loader.ExpandArchive(ctx, data)
			if err != nil {
				return nil, fmt.Errorf("failed to expand %s: %w", key, err)
			}
			for i := range expanded {
				expanded[i].FileName = path.Join(key, expanded[i].FileName)
			}
			docs = append(docs, expanded...)
		case ingestion.IsArchiveResume(key):
			data, err := b.Get(ctx, key)
			if err != nil {
				return nil, err
			}
			docs = append(docs, loader.Document(key, data))
		default:
			b.logger.Debug("skipping object", zap.String("key", key))
		}
	}

	b.logger.Info("loaded resumes from bucket",
		zap.String("bucket", b.name),
		zap.String("prefix", prefix),
		zap.Int("objects", len(keys)),
		zap.Int("resumes", len(docs)))
	return docs, nil
}
