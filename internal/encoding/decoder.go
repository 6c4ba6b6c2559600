package encoding

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// TermDecoder handles decoding of RDF terms
type TermDecoder struct {
	factory rdf.Factory
}

// NewTermDecoder creates a term decoder building terms through factory.
// A nil factory selects rdf.DefaultFactory.
func NewTermDecoder(factory rdf.Factory) *TermDecoder {
	if factory == nil {
		factory = rdf.DefaultFactory
	}
	return &TermDecoder{factory: factory}
}

// DecodeTerm decodes an encoded term back to an rdf.Term.
// stringValue is the id2str entry for hashed terms and nil for inline ones.
func (d *TermDecoder) DecodeTerm(encoded EncodedTerm, stringValue *string) (rdf.Term, error) {
	termType := GetTermType(encoded)

	switch termType {
	case rdf.TermTypeNamedNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for named node")
		}
		return d.factory.NamedNode(*stringValue), nil

	case rdf.TermTypeBlankNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for blank node")
		}
		return d.factory.BlankNode(*stringValue), nil

	case rdf.TermTypeStringLiteral:
		if stringValue != nil {
			return d.factory.Literal(*stringValue, "", ""), nil
		}
		data := encoded[1:]
		if end := bytes.IndexByte(data, 0); end >= 0 {
			data = data[:end]
		}
		return d.factory.Literal(string(data), "", ""), nil

	case rdf.TermTypeLangStringLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for language-tagged literal")
		}
		value, lang, ok := cutLast(*stringValue, langSeparator)
		if !ok {
			return nil, fmt.Errorf("malformed language-tagged literal %q", *stringValue)
		}
		return d.factory.Literal(value, lang, ""), nil

	case rdf.TermTypeTypedLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for typed literal")
		}
		value, datatype, ok := cutLast(*stringValue, datatypeSeparator)
		if !ok {
			return nil, fmt.Errorf("malformed typed literal %q", *stringValue)
		}
		return d.factory.Literal(value, "", datatype), nil

	default:
		return nil, fmt.Errorf("unknown term type: %d", termType)
	}
}

// cutLast splits around the last sep. Language tags and IRIs never
// contain the separators, literal values may.
func cutLast(s, sep string) (before, after string, found bool) {
	i := strings.LastIndex(s, sep)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(sep):], true
}
