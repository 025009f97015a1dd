package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.etcd.io/bbolt"
)

var snapshotsBucket = []byte("snapshots")

// Bolt keeps the snapshot in a bbolt database.
type Bolt struct {
	db  *bbolt.DB
	key []byte
}

// OpenBolt opens (or creates) the database at path.
func OpenBolt(path, key string) (*Bolt, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bucket")
	}

	return &Bolt{db: db, key: []byte(key)}, nil
}

// Load implements Store.
func (b *Bolt) Load(ctx context.Context) ([]byte, error) {
	var out []byte
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(snapshotsBucket).Get(b.key)
		if v == nil {
			return ErrNotFound
		}
		// v is only valid inside the transaction.
		out = append([]byte(nil), v...)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return out, errors.Wrap(err, "bolt load")
}

// Save implements Store.
func (b *Bolt) Save(ctx context.Context, data []byte) error {
	err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(snapshotsBucket).Put(b.key, data)
	})
	return errors.Wrap(err, "bolt save")
}

// Close implements Store.
func (b *Bolt) Close() error {
	return b.db.Close()
}
