// Package storage persists saved workspace state.
//
// A [Store] maps workspace names to opaque state documents (the JSON
// produced by a serialization registry). Backends:
//   - file: one JSON file per workspace, for the CLI
//   - bolt: a single bbolt database file
//   - redis: Redis keys under a prefix, for shared deployments
//   - mongo: one MongoDB document per workspace
//
// # Usage
//
//	st, err := storage.Open(ctx, storage.Config{Kind: storage.KindBolt, Path: "ws.db"})
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	err = storage.SaveWorkspace(ctx, st, serialization.NewDefaultRegistry(), ws)
//
// All backends are safe for concurrent use.
package storage

import (
	"context"
	"os"
	"path/filepath"

	errs "github.com/matzehuels/blockrender/pkg/errors"
)

// Store persists workspace state documents by name.
type Store interface {
	// Get returns the document stored under name. A missing document is
	// reported by ok == false, not by an error.
	Get(ctx context.Context, name string) (data []byte, ok bool, err error)

	// Put stores data under name, replacing any previous document.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes name. Deleting a missing document is not an error.
	Delete(ctx context.Context, name string) error

	// List returns every stored name, sorted.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend's resources.
	Close() error
}

// Kind selects a storage backend.
type Kind string

// Backend kinds.
const (
	KindFile  Kind = "file"
	KindBolt  Kind = "bolt"
	KindRedis Kind = "redis"
	KindMongo Kind = "mongo"
)

// Kinds lists every backend kind.
func Kinds() []Kind {
	return []Kind{KindFile, KindBolt, KindRedis, KindMongo}
}

// Config selects and configures a backend. Only the fields of the chosen
// kind are read.
type Config struct {
	Kind Kind

	// Dir is the file store's directory. Defaults to DefaultDir().
	Dir string

	// Path is the bbolt database file. Defaults to workspaces.db in
	// DefaultDir()'s parent.
	Path string

	// Redis connection.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Mongo connection.
	MongoURI      string
	MongoDatabase string

	// Prefix namespaces keys (redis) or names the collection (mongo).
	Prefix string
}

// Open connects to the backend described by cfg. An empty kind means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Kind {
	case KindFile, "":
		return NewFileStore(cfg.Dir)
	case KindBolt:
		path := cfg.Path
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(filepath.Dir(dir), "workspaces.db")
		}
		return NewBoltStore(path)
	case KindRedis:
		return NewRedisStore(ctx, RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.Prefix,
		})
	case KindMongo:
		return NewMongoStore(ctx, MongoConfig{
			URI:        cfg.MongoURI,
			Database:   cfg.MongoDatabase,
			Collection: cfg.Prefix,
		})
	}
	return nil, errs.New(errs.ErrCodeConfiguration, "unknown storage kind %q", cfg.Kind)
}

// DefaultDir returns ~/.local/share/blockrender/workspaces, honouring
// XDG_DATA_HOME.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errs.Wrap(errs.ErrCodeStorage, err, "get home dir")
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "blockrender", "workspaces"), nil
}

func checkName(name string) error {
	return errs.ValidateWorkspaceName(name)
}
