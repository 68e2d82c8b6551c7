package corpus

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Resolve joins userPath with root and verifies the result stays under root.
// Returns the absolute path, or ErrAccessDenied when containment fails.
// This check runs before any read.
func Resolve(root, userPath string) (string, error) {
	abs := filepath.Clean(filepath.Join(root, filepath.FromSlash(userPath)))

	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrAccessDenied, userPath)
	}
	return abs, nil
}
