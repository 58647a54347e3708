package s3

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"lexvault/pkg/blob"
)

const defaultPageSize = 1000

// List implements blob.Client. Hierarchical mode uses the "/" delimiter so
// the provider folds sub-directories into common prefixes; flat mode walks
// the whole subtree one page at a time.
func (c *Client) List(ctx context.Context, prefix string, hierarchical bool, token string, maxItems int32) (*blob.Page, error) {
	if maxItems <= 0 {
		maxItems = defaultPageSize
	}

	in := &awss3.ListObjectsV2Input{
		Bucket:  aws.String(c.bucket),
		MaxKeys: aws.Int32(maxItems),
	}
	if p := c.key(prefix); p != "" {
		in.Prefix = aws.String(p)
	}
	if hierarchical {
		in.Delimiter = aws.String("/")
	}
	if token != "" {
		in.ContinuationToken = aws.String(token)
	}

	out, err := c.s3.ListObjectsV2(ctx, in)
	if err != nil {
		return nil, mapError("list", prefix, err)
	}

	page := &blob.Page{}
	for _, obj := range out.Contents {
		path := c.unkey(aws.ToString(obj.Key))
		rec := blob.Record{
			Path: path,
			Size: aws.ToInt64(obj.Size),
			ETag: strings.Trim(aws.ToString(obj.ETag), `"`),
		}
		if obj.LastModified != nil {
			rec.LastModified = *obj.LastModified
		}
		page.Records = append(page.Records, rec)
	}
	for _, cp := range out.CommonPrefixes {
		page.Prefixes = append(page.Prefixes, strings.TrimSuffix(c.unkey(aws.ToString(cp.Prefix)), "/"))
	}
	if aws.ToBool(out.IsTruncated) {
		page.NextToken = aws.ToString(out.NextContinuationToken)
	}
	return page, nil
}
