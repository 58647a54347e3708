package vault

import (
	"context"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
	"lexvault/pkg/log"
)

// UploadResult reports a stored file. Warning is set when the blob was
// written but a follow-up metadata step failed; the blob exists and the
// search index may lag behind.
type UploadResult struct {
	FilePath   string `json:"filePath"`
	DocumentID string `json:"documentId"`
	Warning    string `json:"warning,omitempty"`
}

// Upload stores file content at targetPath with its structured metadata,
// assigning a documentId when the client did not supply one, and records the
// file in its directory's index. The blob write is authoritative: failures
// after it are reported as warnings, never rolled back.
func (s *Service) Upload(ctx context.Context, targetPath string, body io.Reader, contentType string, meta docmeta.Metadata) (*UploadResult, error) {
	if err := blob.ValidatePath(targetPath); err != nil {
		return nil, err
	}
	if strings.HasSuffix(targetPath, "/") {
		return nil, blob.InvalidPathError{Path: targetPath, Reason: "file path must not end in /"}
	}

	meta.EnsureID()
	flat := meta.Flatten()

	rec, err := s.blobs.Put(ctx, targetPath, body, contentType, flat)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{
		FilePath:   targetPath,
		DocumentID: meta.DocumentID,
	}

	// Re-assert metadata in case the provider dropped fields on create.
	if err := s.blobs.SetMetadata(ctx, targetPath, flat, contentType); err != nil {
		log.Warn().Err(err).Str("path", targetPath).Msg("metadata re-assertion failed after upload")
		result.Warning = "file stored, but metadata could not be re-applied"
	}

	dir := blob.Dir(targetPath)
	if err := s.index.Upsert(ctx, dir, blob.Base(targetPath), meta, false); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("directory index update failed after upload")
		result.Warning = "file stored, but the search index update failed"
	}

	log.Info().
		Str("path", targetPath).
		Str("document_id", meta.DocumentID).
		Str("size", humanize.Bytes(uint64(rec.Size))).
		Msg("File uploaded")
	return result, nil
}
