package vault

import (
	"context"
	"strings"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

// CreateFolder materializes an empty folder as a zero-byte placeholder blob
// and records it in the parent directory's index. Creating a folder over an
// existing file or folder is a conflict.
func (s *Service) CreateFolder(ctx context.Context, path string, meta docmeta.Metadata) error {
	if err := blob.ValidatePath(path); err != nil {
		return err
	}
	path = strings.TrimSuffix(path, "/")

	kind, err := s.Classify(ctx, path)
	if err != nil {
		return err
	}
	if kind != KindNone {
		return blob.ConflictError{Path: path}
	}

	flat := meta.Flatten()
	flat[blob.PlaceholderKey] = "true"
	if _, err := s.blobs.Put(ctx, path+"/", strings.NewReader(""), "application/octet-stream", flat); err != nil {
		return err
	}

	parent := blob.Dir(path)
	if err := s.index.Upsert(ctx, parent, blob.Base(path), meta, true); err != nil {
		log.Warn().Err(err).Str("dir", parent).Msg("parent index update failed after folder create")
	}

	log.Info().Str("path", path).Msg("Folder created")
	return nil
}
