package boltdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dolanbernard/mobilecoin/cbor"
)

const defaultBucket = "default"

type (
	EncodeFn func(v any) ([]byte, error)
	DecodeFn func(data []byte, v any) error

	BoltDB struct {
		db      *bolt.DB
		bucket  []byte
		encoder EncodeFn
		decoder DecodeFn
	}

	Option func(*BoltDB)
)

var (
	ErrInvalidKey = errors.New("invalid key")
	ErrValueIsNil = errors.New("value is nil")
	errNotFound   = errors.New("db entry not found")
)

func WithBucket(name string) Option {
	return func(db *BoltDB) {
		db.bucket = []byte(name)
	}
}

// WithCodec replaces the default CBOR encoding of the values.
func WithCodec(encoder EncodeFn, decoder DecodeFn) Option {
	return func(db *BoltDB) {
		db.encoder = encoder
		db.decoder = decoder
	}
}

// New opens (creating when needed) the Bolt DB file.
func New(dbFile string, opts ...Option) (*BoltDB, error) {
	if err := os.MkdirAll(filepath.Dir(dbFile), 0700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(dbFile, 0600, &bolt.Options{Timeout: 3 * time.Second}) // -rw-------
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt DB %s: %w", dbFile, err)
	}
	s := &BoltDB{
		db:      db,
		bucket:  []byte(defaultBucket),
		encoder: cbor.Marshal,
		decoder: cbor.Unmarshal,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err = s.createBuckets(); err != nil {
		return nil, errors.Join(err, db.Close())
	}
	return s, nil
}

func (db *BoltDB) Path() string {
	return db.db.Path()
}

func (db *BoltDB) createBuckets() error {
	return db.db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(db.bucket)
		return err
	})
}

func (db *BoltDB) Read(key []byte, v any) (bool, error) {
	if err := checkKeyAndValue(key, v); err != nil {
		return false, err
	}
	if err := db.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(db.bucket).Get(key)
		if data == nil {
			return errNotFound
		}
		return db.decoder(data, v)
	}); err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return true, fmt.Errorf("bolt db read failed, %w", err)
	}
	return true, nil
}

func (db *BoltDB) Write(key []byte, v any) error {
	if err := checkKeyAndValue(key, v); err != nil {
		return err
	}
	b, err := db.encoder(v)
	if err != nil {
		return err
	}
	if err = db.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(db.bucket).Put(key, b)
	}); err != nil {
		return fmt.Errorf("bolt db write failed, %w", err)
	}
	return nil
}

/*
Modify decodes the value of key into v, calls fn and writes v back, all in a
single transaction. found tells fn whether the key existed. When fn returns
an error nothing is written.
*/
func (db *BoltDB) Modify(key []byte, v any, fn func(found bool) error) error {
	if err := checkKeyAndValue(key, v); err != nil {
		return err
	}
	if err := db.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(db.bucket)
		data := bucket.Get(key)
		if data != nil {
			if err := db.decoder(data, v); err != nil {
				return err
			}
		}
		if err := fn(data != nil); err != nil {
			return err
		}
		b, err := db.encoder(v)
		if err != nil {
			return err
		}
		return bucket.Put(key, b)
	}); err != nil {
		return fmt.Errorf("bolt db modify failed, %w", err)
	}
	return nil
}

func (db *BoltDB) Delete(key []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := db.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(db.bucket).Delete(key)
	}); err != nil {
		return fmt.Errorf("bolt db delete failed, %w", err)
	}
	return nil
}

// ForEach calls fn for every entry in key order, decode unmarshals the value of the entry.
func (db *BoltDB) ForEach(fn func(key []byte, decode func(v any) error) error) error {
	return db.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(db.bucket).ForEach(func(k, data []byte) error {
			return fn(k, func(v any) error { return db.decoder(data, v) })
		})
	})
}

func (db *BoltDB) Close() error {
	if db.db == nil {
		return nil
	}
	return db.db.Close()
}

func checkKey(key []byte) error {
	if len(key) == 0 {
		return ErrInvalidKey
	}
	return nil
}

func checkKeyAndValue(key []byte, v any) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if v == nil {
		return ErrValueIsNil
	}
	return nil
}
