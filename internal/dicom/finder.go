package dicom

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// ListRecords returns the candidate record files in dir, sorted by name so
// repeated runs over the same folder process files in the same order.
// Hidden files (dot-prefixed, e.g. .DS_Store) and subdirectories are
// skipped. The listing is not recursive: DICOM exports from the mobile
// units arrive as flat folders.
func ListRecords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not list input folder: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, entry.Name())
	}

	sort.Strings(files)
	return files, nil
}
