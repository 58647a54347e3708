package s3

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignGet implements blob.Client. The returned URL grants read-only
// access until the TTL expires.
func (c *Client) PresignGet(ctx context.Context, path string, ttl time.Duration) (string, error) {
	// Presigning on a missing blob would still yield a URL, so probe first.
	if _, err := c.Head(ctx, path); err != nil {
		return "", err
	}

	req, err := c.presigner.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.key(path)),
	}, awss3.WithPresignExpires(ttl))
	if err != nil {
		return "", mapError("presign", path, err)
	}
	return req.URL, nil
}
