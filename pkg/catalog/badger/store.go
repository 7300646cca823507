// Package badger implements catalog.Catalog on an embedded BadgerDB.
//
// Key namespace:
//
//	Data Type          Prefix   Key Format              Value
//	=================================================================
//	Storage by name    "s:"     s:<storageID>           numeric id (uint64 BE)
//	Storage by id      "n:"     n:<numeric id BE>       storageID (bytes)
//	Id allocator       "cfg:"   cfg:next_id             next numeric id (uint64 BE)
//
// Numeric ids are encoded big-endian so a prefix scan over "n:" yields
// entries ordered by id.
package badger

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"

	"github.com/marmos91/vfsmount/internal/logger"
	"github.com/marmos91/vfsmount/pkg/catalog"
	"github.com/marmos91/vfsmount/pkg/storageid"
)

const (
	prefixStorageName = "s:"
	prefixStorageID   = "n:"
	keyNextID         = "cfg:next_id"
)

// Config configures the badger catalog.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string `mapstructure:"path" yaml:"path"`

	// InMemory keeps the catalog in memory only (tests, ephemeral sessions).
	InMemory bool `mapstructure:"in_memory" yaml:"in_memory"`
}

// Store implements catalog.Catalog using BadgerDB.
type Store struct {
	db *badgerdb.DB

	// registerMu serializes id allocation so concurrent registrations of the
	// same storage never race on the allocator key.
	registerMu sync.Mutex
}

var _ catalog.Catalog = (*Store)(nil)

// New opens (or creates) a badger catalog.
func New(cfg Config) (*Store, error) {
	var opts badgerdb.Options
	switch {
	case cfg.InMemory:
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	case cfg.Path != "":
		opts = badgerdb.DefaultOptions(cfg.Path)
	default:
		return nil, fmt.Errorf("badger catalog requires a path or in_memory")
	}
	opts = opts.WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger catalog: %w", err)
	}

	location := cfg.Path
	if cfg.InMemory {
		location = ":memory:"
	}
	logger.Debug("Storage catalog opened", logger.KeyCatalog, "badger", logger.KeyDSN, location)

	return &Store{db: db}, nil
}

func keyStorageName(storageID string) []byte {
	return []byte(prefixStorageName + storageID)
}

func keyStorageID(numericID int64) []byte {
	key := make([]byte, len(prefixStorageID)+8)
	copy(key, prefixStorageID)
	binary.BigEndian.PutUint64(key[len(prefixStorageID):], uint64(numericID))
	return key
}

func encodeID(id int64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(id))
	return buf
}

func decodeID(val []byte) (int64, error) {
	if len(val) != 8 {
		return 0, fmt.Errorf("corrupt numeric id: %d bytes", len(val))
	}
	return int64(binary.BigEndian.Uint64(val)), nil
}

// getID reads the numeric id stored under key inside txn.
func getID(txn *badgerdb.Txn, key []byte) (int64, error) {
	item, err := txn.Get(key)
	if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return decodeID(val)
}

// Register implements catalog.Catalog.
func (s *Store) Register(ctx context.Context, storageID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if storageID == "" {
		return 0, catalog.ErrInvalidStorageID
	}
	storageID = storageid.Shorten(storageID)

	s.registerMu.Lock()
	defer s.registerMu.Unlock()

	var id int64
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		existing, err := getID(txn, keyStorageName(storageID))
		if err == nil {
			id = existing
			return nil
		}
		if !errors.Is(err, badgerdb.ErrKeyNotFound) {
			return err
		}

		next, err := getID(txn, []byte(keyNextID))
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			next = 1
		} else if err != nil {
			return err
		}

		id = next
		if err := txn.Set([]byte(keyNextID), encodeID(next+1)); err != nil {
			return err
		}
		if err := txn.Set(keyStorageName(storageID), encodeID(id)); err != nil {
			return err
		}
		return txn.Set(keyStorageID(id), []byte(storageID))
	})
	if err != nil {
		return 0, fmt.Errorf("failed to register storage %q: %w", storageID, err)
	}
	return id, nil
}

// StorageID implements catalog.Catalog.
func (s *Store) StorageID(ctx context.Context, numericID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var storageID string
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(keyStorageID(numericID))
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		storageID = string(val)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("numeric id %d: %w", numericID, convertNotFoundError(err))
	}
	return storageID, nil
}

// NumericID implements catalog.Catalog.
func (s *Store) NumericID(ctx context.Context, storageID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	storageID = storageid.Shorten(storageID)

	var id int64
	err := s.db.View(func(txn *badgerdb.Txn) error {
		var err error
		id, err = getID(txn, keyStorageName(storageID))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("storage %q: %w", storageID, convertNotFoundError(err))
	}
	return id, nil
}

// Remove implements catalog.Catalog.
func (s *Store) Remove(ctx context.Context, storageID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	storageID = storageid.Shorten(storageID)

	err := s.db.Update(func(txn *badgerdb.Txn) error {
		id, err := getID(txn, keyStorageName(storageID))
		if err != nil {
			return err
		}
		if err := txn.Delete(keyStorageName(storageID)); err != nil {
			return err
		}
		return txn.Delete(keyStorageID(id))
	})
	if err != nil {
		return fmt.Errorf("storage %q: %w", storageID, convertNotFoundError(err))
	}
	return nil
}

// List implements catalog.Catalog.
func (s *Store) List(ctx context.Context) ([]catalog.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []catalog.Entry
	err := s.db.View(func(txn *badgerdb.Txn) error {
		it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(prefixStorageID)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id, err := decodeID(item.Key()[len(prefix):])
			if err != nil {
				return err
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			entries = append(entries, catalog.Entry{NumericID: id, StorageID: string(val)})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog: %w", err)
	}
	return entries, nil
}

// Close implements catalog.Catalog.
func (s *Store) Close() error {
	return s.db.Close()
}

// convertNotFoundError maps badger.ErrKeyNotFound to catalog.ErrStorageNotFound.
func convertNotFoundError(err error) error {
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return catalog.ErrStorageNotFound
	}
	return err
}
