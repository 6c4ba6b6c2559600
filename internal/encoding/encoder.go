package encoding

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
	"github.com/zeebo/xxh3"
)

const (
	// Maximum size for inline strings (16 bytes of UTF-8)
	MaxInlineStringSize = 16

	// Encoded term size (type byte + 16 bytes for 128-bit hash or inline data)
	EncodedTermSize = 17

	langSeparator     = "@"
	datatypeSeparator = "^^"
)

// EncodedTerm is a type byte followed by 16 bytes of hash or inline data
type EncodedTerm [EncodedTermSize]byte

// TermEncoder turns RDF terms into fixed-size storage keys
type TermEncoder struct{}

func NewTermEncoder() *TermEncoder {
	return &TermEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *TermEncoder) Hash128(s string) [16]byte {
	hash := xxh3.Hash128([]byte(s))
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeTerm encodes an RDF term into a fixed-size byte array.
// The returned string, when non-nil, must be stored in the id2str table
// so the term can be decoded again.
func (e *TermEncoder) EncodeTerm(term rdf.Term) (EncodedTerm, *string, error) {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return e.hashed(rdf.TermTypeNamedNode, t.IRI)
	case *rdf.BlankNode:
		return e.hashed(rdf.TermTypeBlankNode, t.ID)
	case *rdf.Literal:
		return e.encodeLiteral(t)
	default:
		return EncodedTerm{}, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

func (e *TermEncoder) encodeLiteral(lit *rdf.Literal) (EncodedTerm, *string, error) {
	switch {
	case lit.Language != "":
		return e.hashed(rdf.TermTypeLangStringLiteral, lit.Value+langSeparator+lit.Language)
	case lit.DatatypeIRI() != rdf.XSDString:
		return e.hashed(rdf.TermTypeTypedLiteral, lit.Value+datatypeSeparator+lit.Datatype.IRI)
	}

	// Plain and xsd:string literals are the same term.
	// Inline small strings; NUL would be taken for padding on the way back
	if len(lit.Value) <= MaxInlineStringSize && !strings.ContainsRune(lit.Value, 0) {
		var encoded EncodedTerm
		encoded[0] = byte(rdf.TermTypeStringLiteral)
		copy(encoded[1:], lit.Value)
		return encoded, nil, nil
	}
	return e.hashed(rdf.TermTypeStringLiteral, lit.Value)
}

func (e *TermEncoder) hashed(kind rdf.TermType, s string) (EncodedTerm, *string, error) {
	var encoded EncodedTerm
	encoded[0] = byte(kind)
	hash := e.Hash128(s)
	copy(encoded[1:], hash[:])
	return encoded, &s, nil
}

// EncodeKey concatenates encoded terms into an index key.
// Keys sort lexicographically in the order the terms are given.
func (e *TermEncoder) EncodeKey(terms ...EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}

// SplitKey cuts an index key back into its encoded terms
func SplitKey(key []byte) ([]EncodedTerm, error) {
	if len(key)%EncodedTermSize != 0 {
		return nil, fmt.Errorf("key length %d is not a multiple of %d", len(key), EncodedTermSize)
	}
	terms := make([]EncodedTerm, len(key)/EncodedTermSize)
	for i := range terms {
		copy(terms[i][:], key[i*EncodedTermSize:])
	}
	return terms, nil
}

// GetTermType extracts the type from an encoded term
func GetTermType(encoded EncodedTerm) rdf.TermType {
	return rdf.TermType(encoded[0])
}
