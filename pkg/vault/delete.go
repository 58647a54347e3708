package vault

import (
	"context"
	"strings"

	"lexvault/pkg/blob"
	"lexvault/pkg/log"
)

// DeleteResult reports what a delete removed. Errors lists blobs that could
// not be removed while the rest of the directory was.
type DeleteResult struct {
	DeletedCount int         `json:"deletedCount"`
	Errors       []ItemError `json:"errors,omitempty"`
}

// Delete removes a file or a whole directory. Directory deletion is
// best-effort per contained blob: individual failures are collected and the
// remaining blobs are still removed. Deleting an absent path returns
// NotFoundError.
func (s *Service) Delete(ctx context.Context, path string) (*DeleteResult, error) {
	if err := blob.ValidatePath(path); err != nil {
		return nil, err
	}
	path = strings.TrimSuffix(path, "/")

	kind, err := s.Classify(ctx, path)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindFile:
		return s.deleteFile(ctx, path)
	case KindDirectory:
		return s.deleteDirectory(ctx, path)
	default:
		return nil, blob.NotFoundError{Path: path}
	}
}

func (s *Service) deleteFile(ctx context.Context, path string) (*DeleteResult, error) {
	if err := s.blobs.Delete(ctx, path); err != nil {
		return nil, err
	}

	dir := blob.Dir(path)
	if err := s.index.Remove(ctx, dir, blob.Base(path)); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("directory index update failed after delete")
	}

	log.Info().Str("path", path).Msg("File deleted")
	return &DeleteResult{DeletedCount: 1}, nil
}

func (s *Service) deleteDirectory(ctx context.Context, path string) (*DeleteResult, error) {
	records, err := s.enumerate(ctx, blob.DirPrefix(path))
	if err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	for _, rec := range records {
		if err := s.blobs.Delete(ctx, rec.Path); err != nil {
			result.Errors = append(result.Errors, ItemError{Path: rec.Path, Message: err.Error()})
			continue
		}
		result.DeletedCount++
	}

	// The directory's own placeholder and index document, if any are left.
	_ = s.blobs.Delete(ctx, path+"/")
	_ = s.blobs.Delete(ctx, blob.IndexPath(path))

	parent := blob.Dir(path)
	if err := s.index.Remove(ctx, parent, blob.Base(path)); err != nil {
		log.Warn().Err(err).Str("dir", parent).Msg("parent index update failed after directory delete")
	}

	log.Info().
		Str("path", path).
		Int("deleted", result.DeletedCount).
		Int("failed", len(result.Errors)).
		Msg("Directory deleted")
	return result, nil
}
