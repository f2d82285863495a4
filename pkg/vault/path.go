package vault

import (
	"path"
	"strings"
)

// Normalize converts p into a vault-relative path: forward slashes only,
// no leading or trailing separator, no "." or ".." segments, no empty
// segments. The empty string denotes the vault root.
func Normalize(p string) string {
	p = strings.ReplaceAll(p, `\`, "/")
	p = path.Clean("/" + p)
	return strings.Trim(p, "/")
}

// Split breaks a normalized path into its containing directory and
// basename. The directory is "" when the path sits at the vault root.
func Split(p string) (dir, base string) {
	p = Normalize(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "", p
	}
	return p[:i], p[i+1:]
}

// Join appends name to dir, treating "" as the vault root.
func Join(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

// IsDirEntry reports whether a directory-listing entry names a
// subdirectory. The backend marks directories with a trailing slash.
func IsDirEntry(entry string) bool {
	return strings.HasSuffix(entry, "/")
}

// EntryBase returns the basename of a listing entry. Some listing shapes
// qualify entries with their full vault-relative path, so the last
// segment is taken either way.
func EntryBase(entry string) string {
	return path.Base(strings.TrimSuffix(entry, "/"))
}
