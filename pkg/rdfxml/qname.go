package rdfxml

import (
	"fmt"
	"unicode"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// QName is a qualified XML name split into prefix and local part.
type QName struct {
	Prefix string
	Local  string
}

func (q QName) String() string {
	if q.Prefix == "" {
		return q.Local
	}
	return q.Prefix + ":" + q.Local
}

// Namespaces maps in-scope prefixes to namespace IRIs.
// The empty prefix holds the default namespace.
type Namespaces map[string]string

// ExpandQName expands an element name against the bindings in scope.
// The xml prefix is always bound. An unprefixed name takes the default
// namespace when one is declared and is returned bare otherwise.
func ExpandQName(name QName, ns Namespaces) (string, error) {
	switch name.Prefix {
	case "xml":
		return rdf.XMLNamespace + name.Local, nil
	case "":
		if iri := ns[""]; iri != "" {
			return iri + name.Local, nil
		}
		return name.Local, nil
	}

	iri, ok := ns[name.Prefix]
	if !ok || iri == "" {
		return "", fmt.Errorf("%w: %q in %s", ErrUnboundPrefix, name.Prefix, name)
	}
	return iri + name.Local, nil
}

// ExpandAttrName expands an attribute name. Unprefixed attributes are never
// in the default namespace, so they come back as their bare local name.
func ExpandAttrName(name QName, ns Namespaces) (string, error) {
	if name.Prefix == "" {
		return name.Local, nil
	}
	return ExpandQName(name, ns)
}

func isNamespaceDecl(name QName) bool {
	return name.Prefix == "xmlns" || (name.Prefix == "" && name.Local == "xmlns")
}

// isNCName reports whether s is a non-colonized XML name, the lexical
// form required of rdf:ID and rdf:nodeID values.
func isNCName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i == 0 {
			return false
		}
		if r == '-' || r == '.' || r == 0xB7 || unicode.IsDigit(r) ||
			unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Nl) {
			continue
		}
		return false
	}
	return true
}
