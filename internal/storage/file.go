package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// File keeps the snapshot in <dir>/<key>.json.
type File struct {
	path string
}

// NewFile returns a File store. The directory must exist before Save.
func NewFile(dir, key string) *File {
	return &File{path: filepath.Join(dir, key+".json")}
}

// NewFileAt returns a File store for an exact path. Login uses it for the
// OAuth token.
func NewFileAt(path string) *File {
	return &File{path: path}
}

// Path returns the snapshot file path.
func (f *File) Path() string { return f.path }

// Load implements Store.
func (f *File) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", f.path)
	}
	return data, nil
}

// Save implements Store. The snapshot is written to a temporary file and
// renamed over the old one.
func (f *File) Save(ctx context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "close %s", tmp.Name())
	}
	if err := os.Chmod(tmp.Name(), 0600); err != nil {
		return errors.Wrapf(err, "chmod %s", tmp.Name())
	}
	return errors.Wrapf(os.Rename(tmp.Name(), f.path), "replace %s", f.path)
}

// Close implements Store.
func (f *File) Close() error { return nil }
