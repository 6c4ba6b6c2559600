package storage

import (
	"context"
	"iter"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/aleksaelezovic/rdfxml/internal/encoding"
	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// Pattern selects triples; a nil position matches any term
type Pattern struct {
	Subject   rdf.Term
	Predicate rdf.Term
	Object    rdf.Term
}

// selectIndex chooses the index whose key starts with the most bound positions
func selectIndex(pattern Pattern) Table {
	sBound := pattern.Subject != nil
	pBound := pattern.Predicate != nil
	oBound := pattern.Object != nil

	switch {
	case sBound && pBound:
		return TableSPO
	case pBound && oBound:
		return TablePOS
	case oBound && sBound:
		return TableOSP
	case sBound:
		return TableSPO
	case pBound:
		return TablePOS
	case oBound:
		return TableOSP
	default:
		return TableSPO
	}
}

// scanPrefix encodes the leading bound positions of the pattern in key order
func (s *Store) scanPrefix(table Table, pattern Pattern) ([]byte, error) {
	bound := [3]rdf.Term{pattern.Subject, pattern.Predicate, pattern.Object}

	var parts []encoding.EncodedTerm
	for _, pos := range rotations[table] {
		if bound[pos] == nil {
			break
		}
		encoded, _, err := s.enc.EncodeTerm(bound[pos])
		if err != nil {
			return nil, err
		}
		parts = append(parts, encoded)
	}
	return prefixKey(table, s.enc.EncodeKey(parts...)), nil
}

// Match yields the stored triples matching pattern. The sequence holds a
// read transaction open until iteration stops.
func (s *Store) Match(ctx context.Context, pattern Pattern) iter.Seq2[*rdf.Triple, error] {
	return func(yield func(*rdf.Triple, error) bool) {
		if s.db.IsClosed() {
			yield(nil, ErrClosed)
			return
		}

		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		// A fully bound pattern is a point lookup
		if pattern.Subject != nil && pattern.Predicate != nil && pattern.Object != nil {
			t := rdf.NewTriple(pattern.Subject, pattern.Predicate, pattern.Object)
			found, err := s.Has(t)
			switch {
			case err != nil:
				yield(nil, err)
			case found:
				yield(t, nil)
			}
			return
		}

		table := selectIndex(pattern)
		prefix, err := s.scanPrefix(table, pattern)
		if err != nil {
			yield(nil, err)
			return
		}

		err = s.db.View(func(txn *badger.Txn) error {
			opts := badger.DefaultIteratorOptions
			opts.PrefetchValues = false
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Rewind(); it.Valid(); it.Next() {
				if err := ctx.Err(); err != nil {
					return err
				}

				t, err := s.triple(txn, table, it.Item().Key())
				if err != nil {
					return err
				}
				if !matches(pattern, t) {
					continue
				}
				if !yield(t, nil) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			yield(nil, err)
		}
	}
}

// triple decodes an index key back into a triple
func (s *Store) triple(txn *badger.Txn, table Table, key []byte) (*rdf.Triple, error) {
	parts, err := encoding.SplitKey(key[1:])
	if err != nil {
		return nil, err
	}

	var terms [3]rdf.Term
	for i, pos := range rotations[table] {
		term, err := s.decode(txn, parts[i])
		if err != nil {
			return nil, err
		}
		terms[pos] = term
	}
	return rdf.NewTriple(terms[0], terms[1], terms[2]), nil
}

// matches filters positions the index prefix could not narrow
func matches(pattern Pattern, t *rdf.Triple) bool {
	if pattern.Subject != nil && !pattern.Subject.Equals(t.Subject) {
		return false
	}
	if pattern.Predicate != nil && !pattern.Predicate.Equals(t.Predicate) {
		return false
	}
	if pattern.Object != nil && !pattern.Object.Equals(t.Object) {
		return false
	}
	return true
}
