package blob

import (
	"context"
	"io"
	"time"
)

const (
	// IndexBlobName is the reserved name of the per-directory index document.
	IndexBlobName = "metadata.json"

	// PlaceholderKey is the metadata key marking a zero-byte blob that stands
	// in for an explicitly created empty folder.
	PlaceholderKey = "isdirectoryplaceholder"
)

// Record describes a single blob as reported by the provider.
type Record struct {
	Path         string            `json:"path"`
	ContentType  string            `json:"contentType"`
	Size         int64             `json:"size"`
	LastModified time.Time         `json:"lastModified"`
	ETag         string            `json:"etag"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

// IsDirectoryPlaceholder reports whether the record marks an explicitly
// created empty folder rather than real content.
func (r *Record) IsDirectoryPlaceholder() bool {
	if r.Metadata[PlaceholderKey] == "true" {
		return true
	}
	return len(r.Path) > 0 && r.Path[len(r.Path)-1] == '/'
}

// IsIndexBlob reports whether the record is a directory index document.
func (r *Record) IsIndexBlob() bool {
	return Base(r.Path) == IndexBlobName
}

// Page is one page of a listing. Hierarchical listings populate Prefixes with
// the immediate sub-directories; flat listings leave it empty. NextToken is
// non-empty when more results remain.
type Page struct {
	Records   []Record
	Prefixes  []string
	NextToken string
}

// WriteCondition guards a conditional Put. Exactly one of ETag or
// MustNotExist is set: ETag requires the blob to still carry that tag,
// MustNotExist requires the blob to be absent.
type WriteCondition struct {
	ETag         string
	MustNotExist bool
}

// Client is the adapter over the remote blob store. Implementations must
// return NotFoundError, ConflictError and UpstreamError so callers can
// branch on the failure kind.
type Client interface {
	// List returns one page of blobs under prefix. Hierarchical mode returns
	// only immediate children (records plus one-level sub-prefixes); flat
	// mode recurses and paginates via the opaque continuation token.
	List(ctx context.Context, prefix string, hierarchical bool, token string, maxItems int32) (*Page, error)

	// Get returns the blob content and its record.
	Get(ctx context.Context, path string) (io.ReadCloser, *Record, error)

	// Head returns the blob record without content.
	Head(ctx context.Context, path string) (*Record, error)

	// Put writes a blob unconditionally.
	Put(ctx context.Context, path string, body io.Reader, contentType string, metadata map[string]string) (*Record, error)

	// PutIf writes a blob subject to cond. A failed precondition surfaces as
	// ConflictError.
	PutIf(ctx context.Context, path string, body []byte, contentType string, metadata map[string]string, cond WriteCondition) (*Record, error)

	// SetMetadata replaces the blob's metadata map. An empty contentType
	// preserves the blob's current content type.
	SetMetadata(ctx context.Context, path string, metadata map[string]string, contentType string) error

	// Delete removes a blob. Deleting an absent blob is not an error.
	Delete(ctx context.Context, path string) error

	// Copy performs a server-side copy. Metadata is not guaranteed to carry
	// over; callers re-apply it after the copy.
	Copy(ctx context.Context, sourcePath, destPath string) error

	// PresignGet returns a time-limited read-only URL for the blob.
	PresignGet(ctx context.Context, path string, ttl time.Duration) (string, error)
}
