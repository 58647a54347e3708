package vault

import (
	"context"
	"strings"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

// Rename gives a file or folder a new name within its directory. Relocation
// across directories is Move, not Rename. The destination must not already
// exist; on collision nothing is touched.
func (s *Service) Rename(ctx context.Context, originalPath, newPath string) error {
	if err := blob.ValidatePath(originalPath); err != nil {
		return err
	}
	if err := blob.ValidatePath(newPath); err != nil {
		return err
	}
	originalPath = strings.TrimSuffix(originalPath, "/")
	newPath = strings.TrimSuffix(newPath, "/")

	dir := blob.Dir(originalPath)
	if blob.Dir(newPath) != dir {
		return blob.InvalidPathError{Path: newPath, Reason: "rename must stay within the same directory"}
	}
	if originalPath == newPath {
		return blob.InvalidPathError{Path: newPath, Reason: "new name equals the current name"}
	}

	kind, err := s.Classify(ctx, originalPath)
	if err != nil {
		return err
	}
	if kind == KindNone {
		return blob.NotFoundError{Path: originalPath}
	}

	destKind, err := s.Classify(ctx, newPath)
	if err != nil {
		return err
	}
	if destKind != KindNone {
		return blob.ConflictError{Path: newPath}
	}

	// Preserve the structured metadata through the rename; a missing index
	// entry degrades to empty metadata rather than failing the rename.
	meta, ok, err := s.index.Entry(ctx, dir, blob.Base(originalPath))
	if err != nil || !ok {
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("index read failed before rename")
		}
		meta = docmeta.Metadata{}
	}

	if kind == KindFile {
		if err := s.relocateBlob(ctx, originalPath, newPath, nil, true); err != nil {
			return err
		}
	} else {
		if err := s.relocateTree(ctx, originalPath, newPath, true); err != nil {
			return err
		}
	}

	if err := s.index.Remove(ctx, dir, blob.Base(originalPath)); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("index entry removal failed after rename")
	}
	if err := s.index.Upsert(ctx, dir, blob.Base(newPath), meta, kind == KindDirectory); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("index entry insert failed after rename")
	}

	log.Info().Str("from", originalPath).Str("to", newPath).Msg("Renamed")
	return nil
}

// relocateBlob copies one blob and re-applies its metadata, since the
// provider's server-side copy does not guarantee metadata carries over.
// overrideMeta, when non-nil, replaces the source metadata on the
// destination. The source is deleted when removeSource is set.
func (s *Service) relocateBlob(ctx context.Context, sourcePath, destPath string, overrideMeta map[string]string, removeSource bool) error {
	src, err := s.blobs.Head(ctx, sourcePath)
	if err != nil {
		return err
	}
	if err := s.blobs.Copy(ctx, sourcePath, destPath); err != nil {
		return err
	}

	applied := src.Metadata
	if overrideMeta != nil {
		applied = overrideMeta
	}
	if err := s.blobs.SetMetadata(ctx, destPath, applied, src.ContentType); err != nil {
		return err
	}

	if removeSource {
		return s.blobs.Delete(ctx, sourcePath)
	}
	return nil
}

// relocateTree moves or copies every blob under sourcePath to the
// equivalent relative position under destPath.
func (s *Service) relocateTree(ctx context.Context, sourcePath, destPath string, removeSource bool) error {
	records, err := s.enumerate(ctx, blob.DirPrefix(sourcePath))
	if err != nil {
		return err
	}

	prefix := blob.DirPrefix(sourcePath)
	for _, rec := range records {
		rel := strings.TrimPrefix(rec.Path, prefix)
		dest := blob.DirPrefix(destPath) + rel
		if err := s.relocateBlob(ctx, rec.Path, dest, nil, removeSource); err != nil {
			return err
		}
	}
	return nil
}
