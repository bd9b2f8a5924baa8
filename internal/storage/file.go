// filepath: internal/storage/file.go
package storage

import (
	"fmt"
	"io"
	"os"
)

// SaveFile streams data from a reader to path, truncating any existing file.
// It returns the number of bytes written.
func SaveFile(data io.Reader, path string, mode os.FileMode) (int64, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return 0, fmt.Errorf("could not create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, data)
	if err != nil {
		return 0, fmt.Errorf("could not write file: %w", err)
	}
	return size, nil
}
