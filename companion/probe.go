package companion

import (
	"os"
	"path/filepath"

	"github.com/hbertolt/companion-mcp/classify"
)

// probe lists dir's immediate entries and returns the full path of the first
// entry whose basename and role both match. Listing order is whatever the
// filesystem returns; when several entries qualify, which one wins is
// unspecified. An unreadable or missing directory counts as zero entries,
// never an error.
func probe(dir string, basename string, role classify.FileRole) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if classify.Classify(name) != role {
			continue
		}
		if classify.BasenameOf(name) != basename {
			continue
		}
		return filepath.Join(dir, name)
	}
	return ""
}
