// Package pathurl implements URI<->path conversion at the IDE
// wire-protocol boundary: file:// URIs to local filesystem paths and
// back, including the Windows drive-letter edge cases.
package pathurl

import (
	"net/url"
	"path/filepath"
	"strings"
)

// URIToPath converts a file:// (or bare file:) URI into a local filesystem
// path: strip the scheme, percent-decode, fix Windows paths
// that begin with "/<drive>:", dedupe accidentally doubled drive prefixes
// by keeping the substring starting at the last occurrence of ":\", and
// canonicalize.
func URIToPath(uri string) (string, error) {
	s := uri
	switch {
	case strings.HasPrefix(s, "file://"):
		s = s[len("file://"):]
	case strings.HasPrefix(s, "file:"):
		s = s[len("file:"):]
	}

	decoded, err := url.PathUnescape(s)
	if err != nil {
		return "", err
	}
	s = decoded

	// Windows path that begins with "/<drive>:" (e.g. "/C:/foo").
	if len(s) >= 3 && s[0] == '/' && isDriveLetter(s[1]) && s[2] == ':' {
		s = s[1:]
	}

	// Dedupe an accidentally doubled drive prefix (e.g.
	// "C:\C:\foo") by keeping the substring starting at the last
	// occurrence of ":\".
	if idx := strings.LastIndex(s, ":\\"); idx > 0 {
		driveStart := idx - 1
		if driveStart > 0 && isDriveLetter(s[driveStart]) {
			s = s[driveStart:]
		}
	}

	return filepath.Clean(s), nil
}

// PathToURI is the inverse of URIToPath: convert backslashes to '/',
// prepend a '/' before a drive letter, and prefix "file://".
func PathToURI(path string) string {
	s := filepath.ToSlash(path)
	if len(s) >= 2 && isDriveLetter(s[0]) && s[1] == ':' {
		s = "/" + s
	}
	return "file://" + s
}

func isDriveLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
