// Package memory implements the blob client on a process-local map. It backs
// the test suites and the "memory" storage mode, and mirrors the provider
// contract exactly: opaque ETags, conditional writes, hierarchical and
// paginated flat listings. Server-side copy deliberately drops metadata so
// callers that forget to re-apply it fail in tests, not in production.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"lexvault/pkg/blob"
)

type object struct {
	data         []byte
	contentType  string
	metadata     map[string]string
	etag         string
	lastModified time.Time
}

// Client is an in-memory blob.Client.
type Client struct {
	mu      sync.Mutex
	objects map[string]*object
	seq     int64

	// Now is the clock used for LastModified stamps. Tests may replace it.
	Now func() time.Time
}

// New returns an empty in-memory client.
func New() *Client {
	return &Client{
		objects: make(map[string]*object),
		Now:     time.Now,
	}
}

func (c *Client) nextETag() string {
	c.seq++
	return fmt.Sprintf("v%d", c.seq)
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (o *object) record(path string) *blob.Record {
	return &blob.Record{
		Path:         path,
		ContentType:  o.contentType,
		Size:         int64(len(o.data)),
		LastModified: o.lastModified,
		ETag:         o.etag,
		Metadata:     copyMap(o.metadata),
	}
}

// List implements blob.Client.
func (c *Client) List(_ context.Context, prefix string, hierarchical bool, token string, maxItems int32) (*blob.Page, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if maxItems <= 0 {
		maxItems = 1000
	}

	paths := make([]string, 0, len(c.objects))
	for p := range c.objects {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)

	page := &blob.Page{}
	if hierarchical {
		seen := make(map[string]bool)
		for _, p := range paths {
			rest := strings.TrimPrefix(p, prefix)
			if i := strings.Index(rest, "/"); i >= 0 && i < len(rest)-1 {
				dir := prefix + rest[:i]
				if !seen[dir] {
					seen[dir] = true
					page.Prefixes = append(page.Prefixes, dir)
				}
				continue
			}
			page.Records = append(page.Records, *c.objects[p].record(p))
		}
		return page, nil
	}

	start := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil {
			return nil, blob.UpstreamError{Op: "list", Path: prefix, Err: fmt.Errorf("bad continuation token %q", token)}
		}
		start = n
	}
	end := start + int(maxItems)
	if end > len(paths) {
		end = len(paths)
	}
	for _, p := range paths[start:end] {
		page.Records = append(page.Records, *c.objects[p].record(p))
	}
	if end < len(paths) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

// Get implements blob.Client.
func (c *Client) Get(_ context.Context, path string) (io.ReadCloser, *blob.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.objects[path]
	if !ok {
		return nil, nil, blob.NotFoundError{Path: path}
	}
	return io.NopCloser(bytes.NewReader(obj.data)), obj.record(path), nil
}

// Head implements blob.Client.
func (c *Client) Head(_ context.Context, path string) (*blob.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.objects[path]
	if !ok {
		return nil, blob.NotFoundError{Path: path}
	}
	return obj.record(path), nil
}

// Put implements blob.Client.
func (c *Client) Put(_ context.Context, path string, body io.Reader, contentType string, metadata map[string]string) (*blob.Record, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, blob.UpstreamError{Op: "put", Path: path, Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	obj := &object{
		data:         data,
		contentType:  contentType,
		metadata:     copyMap(metadata),
		etag:         c.nextETag(),
		lastModified: c.Now().UTC(),
	}
	c.objects[path] = obj
	return obj.record(path), nil
}

// PutIf implements blob.Client.
func (c *Client) PutIf(_ context.Context, path string, body []byte, contentType string, metadata map[string]string, cond blob.WriteCondition) (*blob.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	existing, exists := c.objects[path]
	switch {
	case cond.MustNotExist && exists:
		return nil, blob.ConflictError{Path: path}
	case cond.ETag != "" && (!exists || existing.etag != cond.ETag):
		return nil, blob.ConflictError{Path: path}
	}

	obj := &object{
		data:         append([]byte(nil), body...),
		contentType:  contentType,
		metadata:     copyMap(metadata),
		etag:         c.nextETag(),
		lastModified: c.Now().UTC(),
	}
	c.objects[path] = obj
	return obj.record(path), nil
}

// SetMetadata implements blob.Client.
func (c *Client) SetMetadata(_ context.Context, path string, metadata map[string]string, contentType string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	obj, ok := c.objects[path]
	if !ok {
		return blob.NotFoundError{Path: path}
	}
	obj.metadata = copyMap(metadata)
	if contentType != "" {
		obj.contentType = contentType
	}
	obj.etag = c.nextETag()
	obj.lastModified = c.Now().UTC()
	return nil
}

// Delete implements blob.Client. Absent blobs delete cleanly.
func (c *Client) Delete(_ context.Context, path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.objects, path)
	return nil
}

// Copy implements blob.Client.
func (c *Client) Copy(_ context.Context, sourcePath, destPath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.objects[sourcePath]
	if !ok {
		return blob.NotFoundError{Path: sourcePath}
	}
	c.objects[destPath] = &object{
		data:         append([]byte(nil), src.data...),
		contentType:  src.contentType,
		etag:         c.nextETag(),
		lastModified: c.Now().UTC(),
	}
	return nil
}

// PresignGet implements blob.Client with a synthetic URL.
func (c *Client) PresignGet(_ context.Context, path string, ttl time.Duration) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.objects[path]; !ok {
		return "", blob.NotFoundError{Path: path}
	}
	expires := c.Now().UTC().Add(ttl).Unix()
	return fmt.Sprintf("memory://%s?expires=%d", path, expires), nil
}
