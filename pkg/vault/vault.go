// Package vault implements the file operations of the document store:
// upload, list, delete, rename, move, copy and metadata edits. Every
// operation composes blob-level calls with directory index updates; the
// physical blob operation is authoritative and index maintenance is
// best-effort, so an index conflict degrades to a warning on an otherwise
// successful operation.
package vault

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/index"
	"lexvault/pkg/log"
)

// PathKind classifies what a path refers to.
type PathKind int

const (
	KindNone PathKind = iota
	KindFile
	KindDirectory
)

// ItemError records a per-item failure inside a batch operation.
type ItemError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// Service orchestrates file operations over a blob client and the directory
// index.
type Service struct {
	blobs  blob.Client
	index  *index.Index
	urlTTL time.Duration
}

// New returns a Service issuing presigned URLs with the given TTL.
func New(blobs blob.Client, ix *index.Index, urlTTL time.Duration) *Service {
	return &Service{
		blobs:  blobs,
		index:  ix,
		urlTTL: urlTTL,
	}
}

// Index exposes the directory index for read-only consumers (search, the
// raw metadata endpoint).
func (s *Service) Index() *index.Index {
	return s.index
}

// Classify resolves a path to file, directory or nothing. A directory is a
// placeholder blob or any non-empty prefix.
func (s *Service) Classify(ctx context.Context, path string) (PathKind, error) {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return KindDirectory, nil
	}

	if _, err := s.blobs.Head(ctx, path); err == nil {
		return KindFile, nil
	} else if !isNotFound(err) {
		return KindNone, err
	}

	if _, err := s.blobs.Head(ctx, path+"/"); err == nil {
		return KindDirectory, nil
	} else if !isNotFound(err) {
		return KindNone, err
	}

	page, err := s.blobs.List(ctx, path+"/", true, "", 1)
	if err != nil {
		return KindNone, err
	}
	if len(page.Records) > 0 || len(page.Prefixes) > 0 {
		return KindDirectory, nil
	}
	return KindNone, nil
}

// enumerate walks every blob under prefix, page by page.
func (s *Service) enumerate(ctx context.Context, prefix string) ([]blob.Record, error) {
	var all []blob.Record
	token := ""
	for {
		page, err := s.blobs.List(ctx, prefix, false, token, 0)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.NextToken == "" {
			return all, nil
		}
		token = page.NextToken
	}
}

func isNotFound(err error) bool {
	var notFound blob.NotFoundError
	return errors.As(err, &notFound)
}

func isConflict(err error) bool {
	var conflict blob.ConflictError
	return errors.As(err, &conflict)
}

// ListItem is one entry of a directory listing.
type ListItem struct {
	Name         string            `json:"name"`
	Path         string            `json:"path"`
	IsDirectory  bool              `json:"isDirectory"`
	Size         int64             `json:"size,omitempty"`
	LastModified time.Time         `json:"lastModified,omitzero"`
	ContentType  string            `json:"contentType,omitempty"`
	Metadata     *docmeta.Metadata `json:"metadata,omitempty"`
}

// List returns the immediate children of a directory with their structured
// metadata merged in from the directory index. Two fetches: one hierarchical
// listing plus one index document.
func (s *Service) List(ctx context.Context, dir string) ([]ListItem, error) {
	dir = strings.Trim(dir, "/")

	page, err := s.blobs.List(ctx, blob.DirPrefix(dir), true, "", 0)
	if err != nil {
		return nil, err
	}

	doc, _, err := s.index.Read(ctx, dir)
	if err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("directory index unavailable, listing without structured metadata")
		doc = index.NewDocument()
	}

	var folders, files []ListItem
	seenFolder := make(map[string]bool)

	addFolder := func(name string) {
		if name == "" || seenFolder[name] {
			return
		}
		seenFolder[name] = true
		item := ListItem{
			Name:        name,
			Path:        blob.Join(dir, name),
			IsDirectory: true,
		}
		if meta, ok := doc.Folders[name]; ok {
			m := meta
			item.Metadata = &m
		}
		folders = append(folders, item)
	}

	for _, p := range page.Prefixes {
		addFolder(blob.Base(p))
	}
	for i := range page.Records {
		rec := &page.Records[i]
		name := blob.Base(rec.Path)
		if rec.IsIndexBlob() {
			continue
		}
		if rec.IsDirectoryPlaceholder() {
			if strings.TrimSuffix(rec.Path, "/") == dir {
				continue
			}
			addFolder(name)
			continue
		}
		item := ListItem{
			Name:         name,
			Path:         rec.Path,
			Size:         rec.Size,
			LastModified: rec.LastModified,
			ContentType:  rec.ContentType,
		}
		if meta, ok := doc.Files[name]; ok {
			m := meta
			item.Metadata = &m
		} else if len(rec.Metadata) > 0 {
			m := docmeta.FromFlat(rec.Metadata)
			item.Metadata = &m
		}
		files = append(files, item)
	}

	sort.Slice(folders, func(i, j int) bool { return folders[i].Name < folders[j].Name })
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return append(folders, files...), nil
}
