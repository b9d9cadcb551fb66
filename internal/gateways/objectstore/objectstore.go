// Package objectstore keeps stock in an S3-compatible bucket (AWS S3,
// DigitalOcean Spaces, MinIO). Each module is one object,
// <prefix>/<guild id>/<module>.txt, with one item per line.
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/disgoorg/snowflake/v2"

	"github.com/ruthless-bot/ruthless/internal/domain/inventory"
	"github.com/ruthless-bot/ruthless/internal/domain/logger"
)

const ext = ".txt"

// API is the subset of *s3.Client the backend needs.
type API interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Config struct {
	Key      string `toml:"key"`
	Secret   string `toml:"secret"`
	Region   string `toml:"region"`
	Bucket   string `toml:"bucket"`
	Prefix   string `toml:"prefix"`
	Endpoint string `toml:"endpoint"`
}

type Backend struct {
	client API
	bucket string
	prefix string
}

// NewClient builds an S3 client from static credentials. An empty
// Endpoint uses the AWS default for the region.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.Key, cfg.Secret, "")),
		config.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load object store config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func New(client API, bucket, prefix string) *Backend {
	return &Backend{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (b *Backend) scopePrefix(scope snowflake.ID) string {
	return path.Join(b.prefix, scope.String()) + "/"
}

func (b *Backend) key(scope snowflake.ID, module string) (string, error) {
	if module == "" || strings.ContainsAny(module, "/\\") || strings.HasPrefix(module, ".") {
		return "", inventory.ErrInvalidModuleName
	}
	return b.scopePrefix(scope) + module + ext, nil
}

func (b *Backend) List(ctx context.Context, scope snowflake.ID) (names []string, err error) {
	q := logger.NewQueryLogger("s3", "list", scope, "")
	defer func() { q.Log(err, len(names)) }()

	prefix := b.scopePrefix(scope)
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.bucket),
		Prefix: aws.String(prefix),
	})

	names = []string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			if strings.Contains(name, "/") || !strings.HasSuffix(name, ext) {
				continue
			}
			names = append(names, strings.TrimSuffix(name, ext))
		}
	}
	return names, nil
}

func (b *Backend) Read(ctx context.Context, scope snowflake.ID, module string) (items []string, err error) {
	q := logger.NewQueryLogger("s3", "read", scope, module)
	defer func() { q.Log(err, len(items)) }()

	key, err := b.key(scope, module)
	if err != nil {
		return nil, err
	}

	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	raw, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	items = []string{}
	for _, line := range strings.Split(string(raw), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			items = append(items, line)
		}
	}
	return items, nil
}

func (b *Backend) Write(ctx context.Context, scope snowflake.ID, module string, items []string) (err error) {
	q := logger.NewQueryLogger("s3", "write", scope, module)
	defer func() { q.Log(err, len(items)) }()

	key, err := b.key(scope, module)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	for _, item := range items {
		body.WriteString(item)
		body.WriteByte('\n')
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body.Bytes()),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	return err
}

func (b *Backend) Exists(ctx context.Context, scope snowflake.ID, module string) (bool, error) {
	key, err := b.key(scope, module)
	if err != nil {
		return false, err
	}

	_, err = b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return false, nil
	}
	return err == nil, err
}

func (b *Backend) Create(ctx context.Context, scope snowflake.ID, module string) error {
	exists, err := b.Exists(ctx, scope, module)
	if err != nil {
		return err
	}
	if exists {
		return inventory.ErrModuleExists
	}
	return b.Write(ctx, scope, module, nil)
}

func (b *Backend) Delete(ctx context.Context, scope snowflake.ID, module string) error {
	exists, err := b.Exists(ctx, scope, module)
	if err != nil {
		return err
	}
	if !exists {
		return inventory.ErrModuleNotFound
	}

	key, _ := b.key(scope, module)
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	return err
}
