// Package storage persists the assignment snapshot as a single blob under
// one key. Drivers: file, bolt, sqlite and memory.
package storage

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"

	"studytrack/internal/config"
)

// ErrNotFound is returned by Load when nothing has been saved under the key.
var ErrNotFound = errors.New("snapshot not found")

// Store loads and saves one serialized snapshot. Save replaces the previous
// blob entirely.
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Close() error
}

// File names used by the on-disk drivers, relative to the config directory.
const (
	BoltFile   = "studytrack.db"
	SQLiteFile = "studytrack.sqlite"
)

// Open returns the Store selected by cfg.
func Open(cfg *config.Config) (Store, error) {
	key := cfg.Key()
	driver := cfg.Driver()

	if driver != "memory" {
		if err := cfg.EnsureDir(); err != nil {
			return nil, errors.Wrap(err, "create config directory")
		}
	}

	switch driver {
	case "file":
		return NewFile(cfg.Dir, key), nil
	case "bolt":
		return OpenBolt(filepath.Join(cfg.Dir, BoltFile), key)
	case "sqlite":
		return OpenSQLite(filepath.Join(cfg.Dir, SQLiteFile), key)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, errors.Errorf("unknown storage driver: %s", driver)
	}
}
