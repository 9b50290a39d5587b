package warnings

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// maxLineSize bounds a single stored line when reading a record back
const maxLineSize = 1 << 20

// FileStore keeps one append-only text file per key: <dir>/<key>.txt
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir. The directory is created
// lazily on the first append.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the directory holding the record files
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the record file for key
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".txt")
}

// Append writes line plus a newline to the key's file and fsyncs it. On a
// failed write or sync the file is truncated back to its previous size.
func (s *FileStore) Append(_ context.Context, key, line string) (err error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", s.dir, err)
	}

	f, err := os.OpenFile(s.Path(key), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening record: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing record: %w", cerr)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat record: %w", err)
	}
	size := info.Size()

	if _, err := f.WriteString(line + "\n"); err != nil {
		_ = f.Truncate(size)
		return fmt.Errorf("writing record: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Truncate(size)
		return fmt.Errorf("syncing record: %w", err)
	}
	return nil
}

// Lines reads the key's file back line by line
func (s *FileStore) Lines(_ context.Context, key string) ([]string, error) {
	f, err := os.Open(s.Path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening record: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading record: %w", err)
	}
	if len(lines) == 0 {
		return nil, ErrNotFound
	}
	return lines, nil
}

// Keys lists every key that has a record file, sorted by name
func (s *FileStore) Keys() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(matches))
	for _, m := range matches {
		name := filepath.Base(m)
		keys = append(keys, name[:len(name)-len(".txt")])
	}
	return keys, nil
}
