package storage

import (
	"context"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

const bucketWorkspaces = "workspaces"

// BoltStore keeps every workspace in one bucket of a bbolt database.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (creating if needed) the database at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "create database dir")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketWorkspaces))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "initialize workspace bucket")
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Get(_ context.Context, name string) ([]byte, bool, error) {
	if err := checkName(name); err != nil {
		return nil, false, err
	}
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketWorkspaces))
		if v := b.Get([]byte(name)); v != nil {
			// v is only valid inside the transaction.
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, errs.Wrap(errs.ErrCodeStorage, err, "read workspace")
	}
	return data, data != nil, nil
}

func (s *BoltStore) Put(_ context.Context, name string, data []byte) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWorkspaces)).Put([]byte(name), data)
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "write workspace")
	}
	return nil
}

func (s *BoltStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketWorkspaces)).Delete([]byte(name))
	})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete workspace")
	}
	return nil
}

// List returns names in key order, which bbolt keeps sorted.
func (s *BoltStore) List(_ context.Context) ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketWorkspaces)).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list workspaces")
	}
	return names, nil
}

func (s *BoltStore) Close() error { return s.db.Close() }

var _ Store = (*BoltStore)(nil)
