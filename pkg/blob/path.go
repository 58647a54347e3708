package blob

import "strings"

// ValidatePath checks the blob path rules: no leading slash, no empty
// segments, no control characters or backslashes. A single trailing slash is
// allowed (directory placeholder notation).
func ValidatePath(path string) error {
	if path == "" {
		return InvalidPathError{Path: path, Reason: "empty"}
	}
	if strings.HasPrefix(path, "/") {
		return InvalidPathError{Path: path, Reason: "leading slash"}
	}
	trimmed := strings.TrimSuffix(path, "/")
	if trimmed == "" {
		return InvalidPathError{Path: path, Reason: "no segments"}
	}
	for _, seg := range strings.Split(trimmed, "/") {
		if seg == "" {
			return InvalidPathError{Path: path, Reason: "empty segment"}
		}
	}
	for _, r := range path {
		if r < 0x20 || r == 0x7f || r == '\\' {
			return InvalidPathError{Path: path, Reason: "disallowed character"}
		}
	}
	return nil
}

// Dir returns the parent directory of path, or "" for a root-level path.
// A trailing slash is ignored, so Dir("a/b/") is "a".
func Dir(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return ""
	}
	return trimmed[:i]
}

// Base returns the leaf name of path. A trailing slash is ignored, so
// Base("a/b/") is "b".
func Base(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	i := strings.LastIndex(trimmed, "/")
	if i < 0 {
		return trimmed
	}
	return trimmed[i+1:]
}

// Join concatenates path segments, skipping empty ones.
func Join(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// DirPrefix returns the flat-listing prefix for a directory: the path with a
// single trailing slash, or "" for the container root.
func DirPrefix(dir string) string {
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return ""
	}
	return dir + "/"
}

// IndexPath returns the path of the index document for a directory.
func IndexPath(dir string) string {
	return Join(dir, IndexBlobName)
}

// IsDescendant reports whether path sits under ancestor (or equals it).
func IsDescendant(ancestor, path string) bool {
	ancestor = strings.Trim(ancestor, "/")
	path = strings.Trim(path, "/")
	if ancestor == "" {
		return true
	}
	return path == ancestor || strings.HasPrefix(path, ancestor+"/")
}
