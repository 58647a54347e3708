// Package s3 implements the blob client against Amazon S3 or any
// S3-compatible store (MinIO, Localstack). Object ETags carry the optimistic
// concurrency token; conditional PutObject (If-Match / If-None-Match)
// implements the guarded index writes.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"lexvault/pkg/blob"
)

// Client implements blob.Client on top of an S3 bucket.
type Client struct {
	s3        *awss3.Client
	presigner *awss3.PresignClient
	bucket    string
	keyPrefix string
}

// Config carries the settings needed to build a Client. The bucket must
// already exist.
type Config struct {
	S3     *awss3.Client
	Bucket string

	// KeyPrefix is prepended to every object key, so one bucket can host
	// several containers.
	KeyPrefix string
}

// New verifies bucket access and returns a ready client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.S3 == nil {
		return nil, fmt.Errorf("s3 client is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket name is required")
	}

	_, err := cfg.S3.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &Client{
		s3:        cfg.S3,
		presigner: awss3.NewPresignClient(cfg.S3),
		bucket:    cfg.Bucket,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

func (c *Client) key(path string) string {
	if c.keyPrefix == "" {
		return path
	}
	return strings.TrimSuffix(c.keyPrefix, "/") + "/" + path
}

func (c *Client) unkey(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return strings.TrimPrefix(key, strings.TrimSuffix(c.keyPrefix, "/")+"/")
}

// mapError classifies a provider failure into the blob error taxonomy.
func mapError(op, path string, err error) error {
	var noKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noKey) || errors.As(err, &notFound) {
		return blob.NotFoundError{Path: path}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "404":
			return blob.NotFoundError{Path: path}
		case "PreconditionFailed", "ConditionalRequestConflict":
			return blob.ConflictError{Path: path}
		}
	}
	return blob.UpstreamError{Op: op, Path: path, Err: err}
}

func recordFromHead(path string, out *awss3.HeadObjectOutput) *blob.Record {
	rec := &blob.Record{
		Path:        path,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:    out.Metadata,
	}
	if out.LastModified != nil {
		rec.LastModified = *out.LastModified
	}
	return rec
}

// Get implements blob.Client.
func (c *Client) Get(ctx context.Context, path string) (io.ReadCloser, *blob.Record, error) {
	out, err := c.s3.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(path)),
	})
	if err != nil {
		return nil, nil, mapError("get", path, err)
	}
	rec := &blob.Record{
		Path:        path,
		ContentType: aws.ToString(out.ContentType),
		Size:        aws.ToInt64(out.ContentLength),
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:    out.Metadata,
	}
	if out.LastModified != nil {
		rec.LastModified = *out.LastModified
	}
	return out.Body, rec, nil
}

// Head implements blob.Client.
func (c *Client) Head(ctx context.Context, path string) (*blob.Record, error) {
	out, err := c.s3.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(path)),
	})
	if err != nil {
		return nil, mapError("head", path, err)
	}
	return recordFromHead(path, out), nil
}

// Put implements blob.Client.
func (c *Client) Put(ctx context.Context, path string, body io.Reader, contentType string, metadata map[string]string) (*blob.Record, error) {
	in := &awss3.PutObjectInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(c.key(path)),
		Body:     body,
		Metadata: metadata,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	out, err := c.s3.PutObject(ctx, in)
	if err != nil {
		return nil, mapError("put", path, err)
	}
	return &blob.Record{
		Path:         path,
		ContentType:  contentType,
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:     metadata,
		LastModified: time.Now().UTC(),
	}, nil
}

// PutIf implements blob.Client.
func (c *Client) PutIf(ctx context.Context, path string, body []byte, contentType string, metadata map[string]string, cond blob.WriteCondition) (*blob.Record, error) {
	in := &awss3.PutObjectInput{
		Bucket:   aws.String(c.bucket),
		Key:      aws.String(c.key(path)),
		Body:     bytes.NewReader(body),
		Metadata: metadata,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}
	switch {
	case cond.MustNotExist:
		in.IfNoneMatch = aws.String("*")
	case cond.ETag != "":
		in.IfMatch = aws.String(cond.ETag)
	}
	out, err := c.s3.PutObject(ctx, in)
	if err != nil {
		return nil, mapError("put", path, err)
	}
	return &blob.Record{
		Path:         path,
		ContentType:  contentType,
		Size:         int64(len(body)),
		ETag:         strings.Trim(aws.ToString(out.ETag), `"`),
		Metadata:     metadata,
		LastModified: time.Now().UTC(),
	}, nil
}

// SetMetadata implements blob.Client. S3 objects are immutable, so the
// metadata replacement is a self-copy with MetadataDirective=REPLACE.
func (c *Client) SetMetadata(ctx context.Context, path string, metadata map[string]string, contentType string) error {
	if contentType == "" {
		rec, err := c.Head(ctx, path)
		if err != nil {
			return err
		}
		contentType = rec.ContentType
	}
	_, err := c.s3.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:            aws.String(c.bucket),
		Key:               aws.String(c.key(path)),
		CopySource:        aws.String(c.copySource(path)),
		Metadata:          metadata,
		MetadataDirective: types.MetadataDirectiveReplace,
		ContentType:       aws.String(contentType),
	})
	if err != nil {
		return mapError("set-metadata", path, err)
	}
	return nil
}

// Delete implements blob.Client. S3 DeleteObject is already idempotent, so
// removing an absent blob succeeds.
func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.s3.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(path)),
	})
	if err != nil {
		mapped := mapError("delete", path, err)
		var notFound blob.NotFoundError
		if errors.As(mapped, &notFound) {
			return nil
		}
		return mapped
	}
	return nil
}

// Copy implements blob.Client.
func (c *Client) Copy(ctx context.Context, sourcePath, destPath string) error {
	_, err := c.s3.CopyObject(ctx, &awss3.CopyObjectInput{
		Bucket:     aws.String(c.bucket),
		Key:        aws.String(c.key(destPath)),
		CopySource: aws.String(c.copySource(sourcePath)),
	})
	if err != nil {
		return mapError("copy", sourcePath, err)
	}
	return nil
}

func (c *Client) copySource(path string) string {
	return c.bucket + "/" + url.PathEscape(c.key(path))
}
