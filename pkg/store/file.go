package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps the document in a single JSON file.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a backend reading and writing path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

// Load reads the whole file.
func (b *FileBackend) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(b.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNoDocument, b.Path)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Save rewrites the file. Data goes to a temp file in the same directory
// which is then renamed over the target, so readers never see a torn write.
func (b *FileBackend) Save(ctx context.Context, data []byte) error {
	dir, base := filepath.Split(b.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), b.Path)
}
