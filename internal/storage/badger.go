package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/aleksaelezovic/rdfxml/internal/encoding"
	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// ErrClosed is returned by operations on a closed store
var ErrClosed = errors.New("storage: store is closed")

// Store is a BadgerDB-backed triple store. Every triple is written to the
// spo, pos and osp indexes; hashed terms keep their text in id2str.
type Store struct {
	db     *badger.DB
	enc    *encoding.TermEncoder
	dec    *encoding.TermDecoder
	logger *slog.Logger
}

// Open opens or creates the store at path. An empty path keeps the
// database in memory.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	logger.Debug("store opened", "path", path, "in_memory", path == "")
	return &Store{
		db:     db,
		enc:    encoding.NewTermEncoder(),
		dec:    encoding.NewTermDecoder(nil),
		logger: logger,
	}, nil
}

// Close closes the store
func (s *Store) Close() error {
	if s.db.IsClosed() {
		return ErrClosed
	}
	return s.db.Close()
}

// maxConflictRetries bounds how often a batch is replayed after another
// writer committed an overlapping batch first
const maxConflictRetries = 5

// AddTriples writes a batch of triples in one transaction and returns how
// many of them were not already stored.
func (s *Store) AddTriples(ctx context.Context, triples []*rdf.Triple) (int, error) {
	if s.db.IsClosed() {
		return 0, ErrClosed
	}

	var added int
	var err error
	for attempt := 0; attempt <= maxConflictRetries; attempt++ {
		added, err = s.addBatch(ctx, triples)
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
		s.logger.Debug("batch conflicted, retrying", "attempt", attempt+1, "triples", len(triples))
	}
	if err != nil {
		return 0, err
	}

	s.logger.Debug("batch stored", "triples", len(triples), "added", added)
	return added, nil
}

func (s *Store) addBatch(ctx context.Context, triples []*rdf.Triple) (int, error) {
	added := 0
	err := s.db.Update(func(txn *badger.Txn) error {
		for _, t := range triples {
			if err := ctx.Err(); err != nil {
				return err
			}
			isNew, err := s.insert(txn, t)
			if err != nil {
				return err
			}
			if isNew {
				added++
			}
		}
		return nil
	})
	return added, err
}

func (s *Store) insert(txn *badger.Txn, t *rdf.Triple) (bool, error) {
	terms, err := s.encodeTriple(t)
	if err != nil {
		return false, err
	}

	spo := prefixKey(TableSPO, s.key(TableSPO, terms))
	if _, err := txn.Get(spo); err == nil {
		return false, nil
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return false, err
	}

	for _, term := range []rdf.Term{t.Subject, t.Predicate, t.Object} {
		encoded, str, err := s.enc.EncodeTerm(term)
		if err != nil {
			return false, err
		}
		if str == nil {
			continue
		}
		if err := txn.Set(prefixKey(TableID2Str, encoded[:]), []byte(*str)); err != nil {
			return false, fmt.Errorf("failed to store string: %w", err)
		}
	}

	for table := range rotations {
		if err := txn.Set(prefixKey(table, s.key(table, terms)), nil); err != nil {
			return false, fmt.Errorf("failed to write %s index: %w", table, err)
		}
	}
	return true, nil
}

// Has reports whether the triple is stored
func (s *Store) Has(t *rdf.Triple) (bool, error) {
	if s.db.IsClosed() {
		return false, ErrClosed
	}
	terms, err := s.encodeTriple(t)
	if err != nil {
		return false, err
	}

	found := false
	err = s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(prefixKey(TableSPO, s.key(TableSPO, terms)))
		switch {
		case err == nil:
			found = true
		case errors.Is(err, badger.ErrKeyNotFound):
		default:
			return err
		}
		return nil
	})
	return found, err
}

// Count returns the number of stored triples
func (s *Store) Count() (int64, error) {
	if s.db.IsClosed() {
		return 0, ErrClosed
	}
	var count int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte{byte(TableSPO)}

		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func (s *Store) encodeTriple(t *rdf.Triple) ([3]encoding.EncodedTerm, error) {
	var terms [3]encoding.EncodedTerm
	for i, term := range []rdf.Term{t.Subject, t.Predicate, t.Object} {
		encoded, _, err := s.enc.EncodeTerm(term)
		if err != nil {
			return terms, err
		}
		terms[i] = encoded
	}
	return terms, nil
}

// key lays the subject, predicate and object out in the table's order
func (s *Store) key(table Table, terms [3]encoding.EncodedTerm) []byte {
	rot := rotations[table]
	return s.enc.EncodeKey(terms[rot[0]], terms[rot[1]], terms[rot[2]])
}

func (s *Store) decode(txn *badger.Txn, encoded encoding.EncodedTerm) (rdf.Term, error) {
	item, err := txn.Get(prefixKey(TableID2Str, encoded[:]))
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		return s.dec.DecodeTerm(encoded, nil)
	case err != nil:
		return nil, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	str := string(value)
	return s.dec.DecodeTerm(encoded, &str)
}
