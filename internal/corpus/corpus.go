// Package corpus provides sandboxed access to the file-backed policy corpus:
// root containment, brace-aware glob matching, recursive enumeration, text
// reads and line search. All file identifiers are forward-slash paths
// relative to the root.
package corpus

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Corpus is a read-only view over the files under a data root. The root is
// fixed for the lifetime of the Corpus; a reload constructs a new one.
type Corpus struct {
	root string
}

// New resolves root to an absolute path. The directory does not have to
// exist yet; enumeration over a missing root yields no files.
func New(root string) (*Corpus, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("invalid data root %q: %w", root, err)
	}
	return &Corpus{root: filepath.Clean(abs)}, nil
}

func (c *Corpus) Root() string {
	return c.root
}

// Resolve validates userPath against the root. See Resolve.
func (c *Corpus) Resolve(userPath string) (string, error) {
	return Resolve(c.root, userPath)
}

// Files enumerates every regular file under the root, recursively, as
// relative forward-slash paths in directory traversal order.
func (c *Corpus) Files() ([]string, error) {
	if _, err := os.Stat(c.root); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}

	var files []string
	err := filepath.WalkDir(c.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(c.root, path)
		if err != nil {
			return err
		}
		files = append(files, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	return files, nil
}

// List returns the files matching pattern. An empty pattern matches
// everything.
func (c *Corpus) List(pattern string) ([]string, error) {
	files, err := c.Files()
	if err != nil {
		return nil, err
	}
	if pattern == "" {
		return files, nil
	}
	matched := make([]string, 0, len(files))
	for _, f := range files {
		if Matches(f, pattern) {
			matched = append(matched, f)
		}
	}
	return matched, nil
}

// ReadText returns the decoded text content of a file under the root.
// Fails with ErrAccessDenied, ErrNotFound or ErrRead.
func (c *Corpus) ReadText(userPath string) (string, error) {
	abs, err := c.Resolve(userPath)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrNotFound, userPath)
		}
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return string(data), nil
}

// SearchMatch is one matching line from a text search.
type SearchMatch struct {
	Path   string `json:"path"`
	LineNo int    `json:"line_no"`
	Line   string `json:"line"`
}

// Search scans every file matching pathGlob for a case-insensitive substring
// match of query, line by line. Unreadable files are skipped.
func (c *Corpus) Search(query, pathGlob string) ([]SearchMatch, error) {
	files, err := c.Files()
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	results := []SearchMatch{}
	for _, rel := range files {
		if pathGlob != "" && !Matches(rel, pathGlob) {
			continue
		}
		text, err := c.ReadText(rel)
		if err != nil {
			continue
		}
		lines := strings.Split(text, "\n")
		if n := len(lines); n > 0 && lines[n-1] == "" {
			lines = lines[:n-1]
		}
		for i, line := range lines {
			line = strings.TrimSuffix(line, "\r")
			if strings.Contains(strings.ToLower(line), q) {
				results = append(results, SearchMatch{Path: rel, LineNo: i + 1, Line: line})
			}
		}
	}
	return results, nil
}
