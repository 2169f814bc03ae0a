package output

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/semschema/hierarchy"
)

// DefaultFile is the name of the model document.
const DefaultFile = "schemaData.json"

// FileSink writes models to Dir/File.
type FileSink struct {
	Dir    string
	File   string
	Pretty bool
}

// Path returns the destination file path.
func (s FileSink) Path() string {
	file := s.File
	if file == "" {
		file = DefaultFile
	}
	return filepath.Join(s.Dir, file)
}

// Write encodes m into the destination, creating Dir when missing. The file
// is replaced atomically so readers never observe a partial document.
func (s FileSink) Write(m *hierarchy.Model) (string, error) {
	data, err := Marshal(m, s.Pretty)
	if err != nil {
		return "", err
	}

	path := s.Path()
	if err := WriteFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFileAtomic writes data to a temp file in path's directory and renames
// it over path.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
