// Package archive streams a selection of files and directories as a ZIP.
// Entries are written straight through to the output writer one blob at a
// time; neither the archive nor the source blobs are buffered whole in
// memory. A blob that cannot be fetched becomes an embedded error-note entry
// instead of failing the archive.
package archive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"lexvault/pkg/blob"
	"lexvault/pkg/log"
)

// Streamer builds ZIP archives from blob paths.
type Streamer struct {
	blobs blob.Client
}

// New returns a Streamer reading from the given blob client.
func New(blobs blob.Client) *Streamer {
	return &Streamer{blobs: blobs}
}

// Stream writes a ZIP archive of the given paths to w. Directory paths are
// included recursively under their base name. Returns NotFoundError if none
// of the paths exist.
func (st *Streamer) Stream(ctx context.Context, paths []string, w io.Writer) error {
	zw := zip.NewWriter(w)
	found := 0

	for _, path := range paths {
		if err := blob.ValidatePath(path); err != nil {
			st.writeErrorNote(zw, blob.Base(path), err)
			continue
		}
		path = strings.TrimSuffix(path, "/")

		isDir, exists, err := st.classify(ctx, path)
		if err != nil {
			return err
		}
		if !exists {
			st.writeErrorNote(zw, blob.Base(path), blob.NotFoundError{Path: path})
			continue
		}
		found++

		if isDir {
			if err := st.addDirectory(ctx, zw, path); err != nil {
				return err
			}
			continue
		}
		st.addBlob(ctx, zw, path, blob.Base(path))
	}

	if found == 0 {
		zw.Close()
		return blob.NotFoundError{Path: strings.Join(paths, ",")}
	}
	return zw.Close()
}

func (st *Streamer) classify(ctx context.Context, path string) (isDir, exists bool, err error) {
	if _, err := st.blobs.Head(ctx, path); err == nil {
		return false, true, nil
	} else {
		var notFound blob.NotFoundError
		if !errors.As(err, &notFound) {
			return false, false, err
		}
	}
	page, err := st.blobs.List(ctx, path+"/", true, "", 1)
	if err != nil {
		return false, false, err
	}
	if len(page.Records) > 0 || len(page.Prefixes) > 0 {
		return true, true, nil
	}
	return false, false, nil
}

// addDirectory walks every blob under the directory and adds it under
// "<baseName>/<relativePath>". Index documents and folder placeholders stay
// out of the archive.
func (st *Streamer) addDirectory(ctx context.Context, zw *zip.Writer, dirPath string) error {
	base := blob.Base(dirPath)
	prefix := blob.DirPrefix(dirPath)

	token := ""
	for {
		page, err := st.blobs.List(ctx, prefix, false, token, 0)
		if err != nil {
			return err
		}
		for i := range page.Records {
			rec := &page.Records[i]
			if rec.IsIndexBlob() || rec.IsDirectoryPlaceholder() {
				continue
			}
			rel := strings.TrimPrefix(rec.Path, prefix)
			st.addBlob(ctx, zw, rec.Path, base+"/"+rel)
		}
		if page.NextToken == "" {
			return nil
		}
		token = page.NextToken
	}
}

// addBlob streams one blob into the archive. Fetch failures become an
// error-note entry named after the failed item.
func (st *Streamer) addBlob(ctx context.Context, zw *zip.Writer, path, entryName string) {
	body, _, err := st.blobs.Get(ctx, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("blob fetch failed, embedding error note")
		st.writeErrorNote(zw, entryName, err)
		return
	}
	defer body.Close()

	entry, err := zw.Create(entryName)
	if err != nil {
		log.Error().Err(err).Str("entry", entryName).Msg("zip entry create failed")
		return
	}
	if _, err := io.Copy(entry, body); err != nil {
		log.Error().Err(err).Str("entry", entryName).Msg("zip entry write failed")
	}
}

func (st *Streamer) writeErrorNote(zw *zip.Writer, entryName string, cause error) {
	note, err := zw.Create(entryName + ".error.txt")
	if err != nil {
		return
	}
	fmt.Fprintf(note, "could not include %q: %v\n", entryName, cause)
}
