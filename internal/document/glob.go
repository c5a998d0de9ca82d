package document

import (
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob resolves doublestar patterns (such as "notes/**/*.md") to a sorted,
// de-duplicated list of files.
func Glob(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	slices.Sort(files)
	return files, nil
}
