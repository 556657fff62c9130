package source

import (
	"fmt"
	"os"
	"path/filepath"
)

// File reads and writes a text file as a whole.
type File struct {
	path string
}

// NewFile returns a File for path. The path is made absolute so watcher
// events can be matched against it.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute file path.
func (f *File) Path() string {
	return f.path
}

// ReadAllText returns the whole file contents.
func (f *File) ReadAllText() (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// WriteAllText replaces the file contents. The data is written to a temp
// file in the same directory and renamed over the target so readers never
// see a partial write.
func (f *File) WriteAllText(text string) error {
	dir, base := filepath.Split(f.path)

	mode := os.FileMode(0o644)
	if info, err := os.Stat(f.path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		logger.Warn("could not preserve file mode", "path", f.path, "err", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", f.path, err)
	}

	logger.Debug("wrote file", "path", f.path, "bytes", len(text))
	return nil
}
