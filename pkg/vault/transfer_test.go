package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"lexvault/pkg/blob"
	"lexvault/pkg/docmeta"
)

func TestMoveFileUpdatesBothIndexes(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService()
	result := mustUpload(t, s, "a/x.txt", docmeta.Metadata{DocumentType: "act", Tags: []string{"labour"}})
	mustUpload(t, s, "b/existing.txt", docmeta.Metadata{})

	require.NoError(t, s.Move(ctx, "a/x.txt", "b"))

	_, err := blobs.Head(ctx, "a/x.txt")
	var notFound blob.NotFoundError
	require.ErrorAs(t, err, &notFound)

	rec, err := blobs.Head(ctx, "b/x.txt")
	require.NoError(t, err)
	require.Equal(t, "act", rec.Metadata["documenttype"])

	_, ok, err := s.index.Entry(ctx, "a", "x.txt")
	require.NoError(t, err)
	require.False(t, ok)

	entry, ok, err := s.index.Entry(ctx, "b", "x.txt")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, result.DocumentID, entry.DocumentID, "move preserves documentId")
}

func TestMoveThereAndBackRestoresIndexes(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	result := mustUpload(t, s, "a/x.txt", docmeta.Metadata{DocumentType: "act"})
	mustUpload(t, s, "a/keep.txt", docmeta.Metadata{DocumentType: "treaty"})
	mustUpload(t, s, "b/other.txt", docmeta.Metadata{})

	docA, _, err := s.index.Read(ctx, "a")
	require.NoError(t, err)
	docB, _, err := s.index.Read(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, s.Move(ctx, "a/x.txt", "b"))
	require.NoError(t, s.Move(ctx, "b/x.txt", "a"))

	afterA, _, err := s.index.Read(ctx, "a")
	require.NoError(t, err)
	afterB, _, err := s.index.Read(ctx, "b")
	require.NoError(t, err)

	require.Equal(t, len(docA.Files), len(afterA.Files))
	require.Equal(t, len(docB.Files), len(afterB.Files))
	require.True(t, docA.Files["x.txt"].Equal(afterA.Files["x.txt"]))
	require.Equal(t, result.DocumentID, afterA.Files["x.txt"].DocumentID)
}

func TestMoveIntoOwnSubtreeRejected(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService()
	mustUpload(t, s, "dir/x.txt", docmeta.Metadata{})
	mustUpload(t, s, "dir/sub/y.txt", docmeta.Metadata{})

	var invalid blob.InvalidPathError
	require.ErrorAs(t, s.Move(ctx, "dir", "dir/sub"), &invalid)
	require.ErrorAs(t, s.Move(ctx, "dir", "dir"), &invalid)

	// Nothing moved.
	_, err := blobs.Head(ctx, "dir/x.txt")
	require.NoError(t, err)
}

func TestMoveToCurrentDirectoryRejected(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	mustUpload(t, s, "a/x.txt", docmeta.Metadata{})

	var invalid blob.InvalidPathError
	require.ErrorAs(t, s.Move(ctx, "a/x.txt", "a"), &invalid)
}

func TestMoveBatchReportsPartialFailure(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	mustUpload(t, s, "a/1.txt", docmeta.Metadata{})

	result := s.MoveBatch(ctx, []string{"a/1.txt", "a/2.txt"}, "b")
	require.Equal(t, 1, result.SuccessCount)
	require.Equal(t, []string{"a/1.txt"}, result.Succeeded)
	require.Len(t, result.Errors, 1)
	require.Equal(t, "a/2.txt", result.Errors[0].Path)
	require.False(t, result.Full())
}

func TestCopySameDirectorySynthesizesName(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService()
	mustUpload(t, s, "a/x.txt", docmeta.Metadata{DocumentType: "act"})

	require.NoError(t, s.Copy(ctx, "a/x.txt", "a"))
	_, err := blobs.Head(ctx, "a/x - Copy.txt")
	require.NoError(t, err)

	require.NoError(t, s.Copy(ctx, "a/x.txt", "a"))
	_, err = blobs.Head(ctx, "a/x - Copy (2).txt")
	require.NoError(t, err)

	// Original untouched.
	_, err = blobs.Head(ctx, "a/x.txt")
	require.NoError(t, err)
}

func TestCopyAssignsFreshDocumentID(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService()
	result := mustUpload(t, s, "a/x.txt", docmeta.Metadata{DocumentType: "act"})

	require.NoError(t, s.Copy(ctx, "a/x.txt", "b"))

	entry, ok, err := s.index.Entry(ctx, "b", "x.txt")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, result.DocumentID, entry.DocumentID, "a copy is a new logical document")
	require.Equal(t, "act", entry.DocumentType)

	// Source keeps its entry and its ID.
	entry, ok, err = s.index.Entry(ctx, "a", "x.txt")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, result.DocumentID, entry.DocumentID)
}

func TestCopyDirectoryRecursively(t *testing.T) {
	ctx := context.Background()
	s, blobs := newTestService()
	mustUpload(t, s, "src/x.txt", docmeta.Metadata{})
	mustUpload(t, s, "src/deep/y.txt", docmeta.Metadata{})

	require.NoError(t, s.Copy(ctx, "src", "dst"))

	for _, p := range []string{"dst/src/x.txt", "dst/src/deep/y.txt", "src/x.txt"} {
		_, err := blobs.Head(ctx, p)
		require.NoError(t, err, p)
	}
}

func TestCopyNameSplitsExtension(t *testing.T) {
	stem, ext := splitExt("report.pdf")
	require.Equal(t, "report", stem)
	require.Equal(t, ".pdf", ext)

	stem, ext = splitExt("no-extension")
	require.Equal(t, "no-extension", stem)
	require.Equal(t, "", ext)

	stem, ext = splitExt(".hidden")
	require.Equal(t, ".hidden", stem)
	require.Equal(t, "", ext)
}
