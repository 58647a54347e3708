package vault

import (
	"context"
	"strings"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

// BatchResult reports a batch move or copy. Every source path is processed
// independently; failures land in Errors without aborting the rest.
type BatchResult struct {
	SuccessCount int         `json:"successCount"`
	Succeeded    []string    `json:"succeeded,omitempty"`
	Errors       []ItemError `json:"errors,omitempty"`
}

// Full reports whether every item succeeded.
func (r *BatchResult) Full() bool {
	return len(r.Errors) == 0
}

// MoveBatch relocates each source path into destDir. Items are processed in
// input order; one item's failure does not block the rest.
func (s *Service) MoveBatch(ctx context.Context, sourcePaths []string, destDir string) *BatchResult {
	return s.transferBatch(ctx, sourcePaths, destDir, true)
}

// CopyBatch duplicates each source path into destDir. Copies become new
// logical documents and receive fresh documentIds.
func (s *Service) CopyBatch(ctx context.Context, sourcePaths []string, destDir string) *BatchResult {
	return s.transferBatch(ctx, sourcePaths, destDir, false)
}

// Move relocates a single path into destDir.
func (s *Service) Move(ctx context.Context, sourcePath, destDir string) error {
	return s.transferOne(ctx, sourcePath, destDir, true)
}

// Copy duplicates a single path into destDir.
func (s *Service) Copy(ctx context.Context, sourcePath, destDir string) error {
	return s.transferOne(ctx, sourcePath, destDir, false)
}

func (s *Service) transferBatch(ctx context.Context, sourcePaths []string, destDir string, move bool) *BatchResult {
	result := &BatchResult{}
	for _, src := range sourcePaths {
		if err := s.transferOne(ctx, src, destDir, move); err != nil {
			result.Errors = append(result.Errors, ItemError{Path: src, Message: err.Error()})
			continue
		}
		result.SuccessCount++
		result.Succeeded = append(result.Succeeded, src)
	}
	return result
}

func (s *Service) transferOne(ctx context.Context, sourcePath, destDir string, move bool) error {
	if err := blob.ValidatePath(sourcePath); err != nil {
		return err
	}
	sourcePath = strings.TrimSuffix(sourcePath, "/")
	destDir = strings.Trim(destDir, "/")
	if destDir != "" {
		if err := blob.ValidatePath(destDir); err != nil {
			return err
		}
	}

	kind, err := s.Classify(ctx, sourcePath)
	if err != nil {
		return err
	}
	if kind == KindNone {
		return blob.NotFoundError{Path: sourcePath}
	}

	srcDir := blob.Dir(sourcePath)
	name := blob.Base(sourcePath)
	sameDir := srcDir == destDir

	// Reject impossible targets before touching any blob.
	if kind == KindDirectory && blob.IsDescendant(sourcePath, destDir) {
		return blob.InvalidPathError{Path: destDir, Reason: "destination is inside the source directory"}
	}
	if move && sameDir {
		return blob.InvalidPathError{Path: sourcePath, Reason: "source already lives in the destination directory"}
	}

	destName := name
	if !move && sameDir {
		destName, err = s.copyName(ctx, destDir, name, kind == KindDirectory)
		if err != nil {
			return err
		}
	}
	destPath := blob.Join(destDir, destName)

	// Structured metadata travels via the source directory's index; a blob
	// without an index entry falls back to its physical metadata.
	meta, ok, err := s.index.Entry(ctx, srcDir, name)
	if err != nil || !ok {
		if err != nil {
			log.Warn().Err(err).Str("dir", srcDir).Msg("index read failed before transfer")
		}
		if rec, headErr := s.blobs.Head(ctx, sourcePath); headErr == nil {
			meta = docmeta.FromFlat(rec.Metadata)
		} else {
			meta = docmeta.Metadata{}
		}
	}
	if !move {
		meta = meta.WithFreshID()
	}

	if kind == KindFile {
		var override map[string]string
		if !move {
			override = meta.Flatten()
		}
		if err := s.relocateBlob(ctx, sourcePath, destPath, override, move); err != nil {
			return err
		}
	} else {
		if err := s.relocateTree(ctx, sourcePath, destPath, move); err != nil {
			return err
		}
	}

	if move {
		if err := s.index.Remove(ctx, srcDir, name); err != nil {
			log.Warn().Err(err).Str("dir", srcDir).Msg("source index update failed after move")
		}
	}
	if err := s.index.Upsert(ctx, destDir, destName, meta, kind == KindDirectory); err != nil {
		log.Warn().Err(err).Str("dir", destDir).Msg("destination index update failed after transfer")
	}

	log.Info().
		Str("from", sourcePath).
		Str("to", destPath).
		Bool("move", move).
		Msg("Transfer complete")
	return nil
}
