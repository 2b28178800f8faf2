package txstore

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dolanbernard/mobilecoin/keyvaluedb/boltdb"
	"github.com/dolanbernard/mobilecoin/mint"
)

const (
	DBFileName = "txstore.db"
	txBucket   = "txfiles"
)

var ErrNotFound = errors.New("tx not found")

/*
Store keeps the partially signed mint transactions between signing rounds.
Transactions are keyed by the hash of their prefix, storing another copy of
the same transaction merges the signatures into the stored one.
*/
type Store struct {
	db *boltdb.BoltDB
}

// Entry is a summary of a stored transaction.
type Entry struct {
	PrefixHash []byte
	Kind       string
	Signatures int
}

// New opens the store in the dir, creating the dir when needed.
func New(dir string) (*Store, error) {
	db, err := boltdb.New(filepath.Join(dir, DBFileName), boltdb.WithBucket(txBucket))
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Put stores f merging its signatures into already stored copy of the
// transaction. Returns the prefix hash and the stored, merged, tx file.
func (s *Store) Put(f *mint.TxFile) ([]byte, *mint.TxFile, error) {
	if err := f.IsValid(); err != nil {
		return nil, nil, err
	}
	key, err := f.PrefixHash()
	if err != nil {
		return nil, nil, err
	}
	stored := &mint.TxFile{}
	err = s.db.Modify(key, stored, func(found bool) error {
		files := []*mint.TxFile{f}
		if found {
			files = []*mint.TxFile{stored, f}
		}
		// merging also brings the signatures into canonical form
		merged, err := mint.MergeTxFiles(files...)
		if err != nil {
			return err
		}
		*stored = *merged
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("storing tx %x: %w", key, err)
	}
	return key, stored, nil
}

func (s *Store) Get(prefixHash []byte) (*mint.TxFile, error) {
	f := &mint.TxFile{}
	found, err := s.db.Read(prefixHash, f)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %x", ErrNotFound, prefixHash)
	}
	return f, nil
}

// List returns the stored transactions ordered by prefix hash.
func (s *Store) List() ([]*Entry, error) {
	var res []*Entry
	err := s.db.ForEach(func(key []byte, decode func(v any) error) error {
		f := &mint.TxFile{}
		if err := decode(f); err != nil {
			return fmt.Errorf("decoding tx %x: %w", key, err)
		}
		res = append(res, &Entry{
			PrefixHash: append([]byte(nil), key...),
			Kind:       f.Kind(),
			Signatures: f.Signature().Len(),
		})
		return nil
	})
	return res, err
}

func (s *Store) Delete(prefixHash []byte) error {
	return s.db.Delete(prefixHash)
}

func (s *Store) Close() error {
	return s.db.Close()
}
