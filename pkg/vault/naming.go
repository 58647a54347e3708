package vault

import (
	"context"
	"fmt"
	"strings"

	"lexvault/pkg/blob"
)

const maxCopyNameProbes = 100

// splitExt splits a leaf name into stem and extension ("x.txt" -> "x",
// ".txt"). Names without a dot, or starting with one, keep an empty
// extension.
func splitExt(name string) (stem, ext string) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return name, ""
	}
	return name[:i], name[i:]
}

// copyName returns the first non-colliding destination name for a
// same-directory copy: "<stem> - Copy<ext>", then "<stem> - Copy (2)<ext>"
// and so on, probing the store until a free name is found.
func (s *Service) copyName(ctx context.Context, dir, name string, isFolder bool) (string, error) {
	stem, ext := splitExt(name)
	if isFolder {
		stem, ext = name, ""
	}

	for i := 1; i <= maxCopyNameProbes; i++ {
		candidate := stem + " - Copy" + ext
		if i > 1 {
			candidate = fmt.Sprintf("%s - Copy (%d)%s", stem, i, ext)
		}
		kind, err := s.Classify(ctx, blob.Join(dir, candidate))
		if err != nil {
			return "", err
		}
		if kind == KindNone {
			return candidate, nil
		}
	}
	return "", blob.ConflictError{Path: blob.Join(dir, name)}
}
