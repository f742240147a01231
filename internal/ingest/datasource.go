// Package ingest resolves a dataset identifier into a byte stream and
// parses it into a Graph. It is the only package that knows about the
// two storage backends a dataset may live in (spec §4.5); neither the
// Graph nor the enumerator care which one served the bytes.
package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/tencentyun/cos-go-sdk-v5"

	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/config"
)

// DataSource opens the raw edge-list bytes behind a key: a filesystem
// path for LocalSource, an object key for COSSource.
type DataSource interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// SourceType selects which DataSource implementation backs a dataset.
type SourceType string

const (
	SourceTypeLocal SourceType = "local"
	SourceTypeCOS   SourceType = "cos"
)

// New constructs the DataSource named by cfg.Type, defaulting to local
// when cfg is nil or cfg.Type is empty.
func New(cfg *config.StorageConfig) (DataSource, error) {
	if cfg == nil {
		return NewLocalSource(""), nil
	}
	switch SourceType(cfg.Type) {
	case SourceTypeCOS:
		return NewCOSSource(cfg)
	case SourceTypeLocal, "":
		return NewLocalSource(cfg.LocalPath), nil
	default:
		return nil, apperrors.New(apperrors.CodeConfigError, fmt.Sprintf("unsupported storage type: %s", cfg.Type))
	}
}

// LocalSource reads a dataset as a file beneath basePath (spec §6's
// "-f <path>" flag).
type LocalSource struct {
	basePath string
}

// NewLocalSource constructs a LocalSource rooted at basePath. An empty
// basePath treats every key as a path relative to the process's
// working directory. The engine passes the "-f" (or "-d") value
// through as the key, so with a non-empty basePath (the config default
// is ./data) that value is resolved beneath basePath.
func NewLocalSource(basePath string) *LocalSource {
	return &LocalSource{basePath: basePath}
}

// Open implements DataSource.
func (s *LocalSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full := s.fullPath(key)
	file, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("dataset not found: %s", full))
		}
		return nil, apperrors.Wrap(apperrors.CodeInputError, fmt.Sprintf("opening %s", full), err)
	}
	return file, nil
}

func (s *LocalSource) fullPath(key string) string {
	if s.basePath == "" {
		return key
	}
	return filepath.Join(s.basePath, key)
}

// COSSource reads a dataset as an object in a Tencent Cloud COS bucket
// (spec §6's "-d <dataset>" flag, resolved via the storage config
// block).
type COSSource struct {
	client *cos.Client
	bucket string
}

// NewCOSSource constructs a COSSource from the storage config block.
func NewCOSSource(cfg *config.StorageConfig) (*COSSource, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "COS bucket and region are required")
	}
	if cfg.SecretID == "" || cfg.SecretKey == "" {
		return nil, apperrors.New(apperrors.CodeConfigError, "COS credentials are required")
	}

	domain := cfg.Domain
	if domain == "" {
		domain = "myqcloud.com"
	}
	scheme := cfg.Scheme
	if scheme == "" {
		scheme = "https"
	}

	bucketURL, err := url.Parse(fmt.Sprintf("%s://%s.cos.%s.%s", scheme, cfg.Bucket, cfg.Region, domain))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "parsing COS bucket URL", err)
	}
	serviceURL, err := url.Parse(fmt.Sprintf("%s://cos.%s.%s", scheme, cfg.Region, domain))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeConfigError, "parsing COS service URL", err)
	}

	client := cos.NewClient(&cos.BaseURL{
		BucketURL:  bucketURL,
		ServiceURL: serviceURL,
	}, &http.Client{
		Transport: &cos.AuthorizationTransport{
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
		},
	})

	return &COSSource{client: client, bucket: cfg.Bucket}, nil
}

// Open implements DataSource.
func (s *COSSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	resp, err := s.client.Object.Get(ctx, key, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeTransportError, fmt.Sprintf("downloading %s from COS bucket %s", key, s.bucket), err)
	}
	return resp.Body, nil
}
