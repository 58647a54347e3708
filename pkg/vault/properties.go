package vault

import (
	"context"
	"strings"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/index"
	"lexvault/pkg/log"
)

// Properties couples a blob's physical record with the structured metadata
// the directory index holds for it.
type Properties struct {
	Record   *blob.Record      `json:"properties"`
	Metadata *docmeta.Metadata `json:"metadata,omitempty"`
}

// Properties returns the physical blob record plus its index entry.
func (s *Service) Properties(ctx context.Context, path string) (*Properties, error) {
	if err := blob.ValidatePath(path); err != nil {
		return nil, err
	}

	rec, err := s.blobs.Head(ctx, path)
	if err != nil {
		return nil, err
	}

	props := &Properties{Record: rec}
	meta, ok, err := s.index.Entry(ctx, blob.Dir(path), blob.Base(path))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("index read failed for properties")
	} else if ok {
		props.Metadata = &meta
	}
	return props, nil
}

// IndexDocument returns the raw parsed index document for the directory that
// owns the given metadata.json path (or the directory path itself).
func (s *Service) IndexDocument(ctx context.Context, path string) (*index.Document, error) {
	dir := strings.Trim(path, "/")
	dir = strings.TrimSuffix(dir, blob.IndexBlobName)
	dir = strings.Trim(dir, "/")

	doc, etag, err := s.index.Read(ctx, dir)
	if err != nil {
		return nil, err
	}
	if etag == "" && doc.Empty() {
		return nil, blob.NotFoundError{Path: blob.IndexPath(dir)}
	}
	return doc, nil
}

// UpdateMetadata re-applies structured metadata to an existing file,
// preserving its content type and its documentId when the caller omits one.
func (s *Service) UpdateMetadata(ctx context.Context, path string, meta docmeta.Metadata) error {
	if err := blob.ValidatePath(path); err != nil {
		return err
	}

	rec, err := s.blobs.Head(ctx, path)
	if err != nil {
		return err
	}

	if meta.DocumentID == "" {
		if existing := docmeta.FromFlat(rec.Metadata); existing.DocumentID != "" {
			meta.DocumentID = existing.DocumentID
		} else {
			meta.EnsureID()
		}
	}

	if err := s.blobs.SetMetadata(ctx, path, meta.Flatten(), ""); err != nil {
		return err
	}

	dir := blob.Dir(path)
	if err := s.index.Upsert(ctx, dir, blob.Base(path), meta, false); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("index update failed after metadata edit")
	}

	log.Info().Str("path", path).Msg("Metadata updated")
	return nil
}

// DownloadURL issues a time-limited read-only URL for a file.
func (s *Service) DownloadURL(ctx context.Context, path string) (string, error) {
	if err := blob.ValidatePath(path); err != nil {
		return "", err
	}
	return s.blobs.PresignGet(ctx, path, s.urlTTL)
}
