package pipeline

import "os"

// OutputsExist reports whether every path exists as a regular, non-empty
// file. An empty list never counts as done. File contents are not checked.
func OutputsExist(paths []string) bool {
	if len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.Mode().IsRegular() || info.Size() < 1 {
			return false
		}
	}
	return true
}
