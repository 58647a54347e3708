// Package index maintains the per-directory metadata documents. Every
// directory holding described entries carries a metadata.json blob mapping
// child names to their structured metadata; this package owns all reads and
// ETag-guarded writes of those documents.
//
// The document is the one shared mutable resource with real contention:
// sibling operations in the same directory converge on it. Writes are
// optimistic, conditioned on the ETag read immediately prior, and conflicts
// are retried a bounded number of times with backoff before surfacing.
package index

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

const (
	contentType = "application/json"

	defaultMaxRetries   = 3
	defaultRetryBackoff = 50 * time.Millisecond
)

// Document is the index for a single directory. A name appears in at most
// one of the two maps.
type Document struct {
	Files   map[string]docmeta.Metadata `json:"files"`
	Folders map[string]docmeta.Metadata `json:"folders"`
}

// NewDocument returns an empty index document.
func NewDocument() *Document {
	return &Document{
		Files:   make(map[string]docmeta.Metadata),
		Folders: make(map[string]docmeta.Metadata),
	}
}

// Empty reports whether the document holds no entries at all.
func (d *Document) Empty() bool {
	return len(d.Files) == 0 && len(d.Folders) == 0
}

// Lookup finds name in either map.
func (d *Document) Lookup(name string) (meta docmeta.Metadata, isFolder, ok bool) {
	if m, found := d.Files[name]; found {
		return m, false, true
	}
	if m, found := d.Folders[name]; found {
		return m, true, true
	}
	return docmeta.Metadata{}, false, false
}

// Index reads and mutates directory index documents through a blob client.
type Index struct {
	blobs      blob.Client
	maxRetries uint64
	backoff    time.Duration
}

// New returns an Index with the default bounded conflict retry policy.
func New(blobs blob.Client) *Index {
	return &Index{
		blobs:      blobs,
		maxRetries: defaultMaxRetries,
		backoff:    defaultRetryBackoff,
	}
}

// Read fetches the document for a directory along with the ETag to condition
// the next write on. A missing document yields an empty document and an
// empty ETag, which conditions the write on "must not already exist".
func (ix *Index) Read(ctx context.Context, dir string) (*Document, string, error) {
	body, rec, err := ix.blobs.Get(ctx, blob.IndexPath(dir))
	if err != nil {
		var notFound blob.NotFoundError
		if errors.As(err, &notFound) {
			return NewDocument(), "", nil
		}
		return nil, "", err
	}
	defer body.Close()

	doc := NewDocument()
	if err := json.NewDecoder(body).Decode(doc); err != nil {
		return nil, "", blob.UpstreamError{Op: "index-decode", Path: blob.IndexPath(dir), Err: err}
	}
	if doc.Files == nil {
		doc.Files = make(map[string]docmeta.Metadata)
	}
	if doc.Folders == nil {
		doc.Folders = make(map[string]docmeta.Metadata)
	}
	return doc, rec.ETag, nil
}

// Entry returns the entry for name in dir, if present.
func (ix *Index) Entry(ctx context.Context, dir, name string) (docmeta.Metadata, bool, error) {
	doc, _, err := ix.Read(ctx, dir)
	if err != nil {
		return docmeta.Metadata{}, false, err
	}
	meta, _, ok := doc.Lookup(name)
	return meta, ok, nil
}

// Upsert inserts or replaces the entry for name in dir. If the name
// currently lives in the other sub-map it is moved in the same write. An
// entry identical to the stored one is a no-op. Conflicts are retried with
// backoff; exhaustion surfaces blob.ConflictError.
func (ix *Index) Upsert(ctx context.Context, dir, name string, meta docmeta.Metadata, isFolder bool) error {
	return ix.withRetry(ctx, dir, func(ctx context.Context) error {
		doc, etag, err := ix.Read(ctx, dir)
		if err != nil {
			return err
		}

		target, other := doc.Files, doc.Folders
		if isFolder {
			target, other = doc.Folders, doc.Files
		}

		if existing, ok := target[name]; ok && existing.Equal(meta) {
			if _, inOther := other[name]; !inOther {
				return nil
			}
		}

		delete(other, name)
		target[name] = meta
		return ix.writeBack(ctx, dir, doc, etag)
	})
}

// Remove deletes the entry for name from dir. Removing an absent name is a
// no-op, not an error.
func (ix *Index) Remove(ctx context.Context, dir, name string) error {
	return ix.withRetry(ctx, dir, func(ctx context.Context) error {
		doc, etag, err := ix.Read(ctx, dir)
		if err != nil {
			return err
		}

		_, inFiles := doc.Files[name]
		_, inFolders := doc.Folders[name]
		if !inFiles && !inFolders {
			return nil
		}
		delete(doc.Files, name)
		delete(doc.Folders, name)

		if etag == "" {
			// Document never existed; nothing to write back.
			return nil
		}
		return ix.writeBack(ctx, dir, doc, etag)
	})
}

// writeBack persists the document conditioned on the ETag captured at read
// time. An empty document is deleted rather than written.
func (ix *Index) writeBack(ctx context.Context, dir string, doc *Document, etag string) error {
	path := blob.IndexPath(dir)

	if doc.Empty() {
		return ix.blobs.Delete(ctx, path)
	}

	payload, err := json.Marshal(doc)
	if err != nil {
		return blob.UpstreamError{Op: "index-encode", Path: path, Err: err}
	}

	cond := blob.WriteCondition{MustNotExist: true}
	if etag != "" {
		cond = blob.WriteCondition{ETag: etag}
	}
	_, err = ix.blobs.PutIf(ctx, path, payload, contentType, nil, cond)
	return err
}

// withRetry re-runs the whole read-modify-write on conflict, a bounded
// number of times.
func (ix *Index) withRetry(ctx context.Context, dir string, attempt func(context.Context) error) error {
	backoff := retry.WithMaxRetries(ix.maxRetries, retry.NewFibonacci(ix.backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := attempt(ctx); err != nil {
			var conflict blob.ConflictError
			if errors.As(err, &conflict) {
				log.Debug().Str("dir", dir).Msg("index write conflict, retrying")
				return retry.RetryableError(err)
			}
			return err
		}
		return nil
	})
	return err
}
