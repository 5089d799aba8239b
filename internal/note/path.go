package note

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// UniquePath returns path when nothing exists there, otherwise the first free
// "base (N).ext" for N = 2, 3, ...
//
// The check and the later write are not atomic. Two processes writing into the
// same directory at once can pick the same name; callers running several
// instances against one vault must serialize them.
func UniquePath(path string) (string, error) {
	free, err := isFree(path)
	if err != nil || free {
		return path, err
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s (%d)%s", base, i, ext)
		free, err := isFree(candidate)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
}

func isFree(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	return false, fmt.Errorf("stat %s: %w", path, err)
}
