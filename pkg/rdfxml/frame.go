package rdfxml

import (
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// role is the grammar role of an open element
type role uint8

const (
	roleRoot     role = iota + 1 // rdf:RDF wrapper
	roleNode                     // node element, or a parseType="Resource" property
	roleProperty                 // property element
	roleLiteral                  // element inside an XML literal value
)

func (r role) String() string {
	switch r {
	case roleRoot:
		return "root"
	case roleNode:
		return "node"
	case roleProperty:
		return "property"
	case roleLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// frame is the parse state of one open element. Only the frame itself
// and its direct children mutate it.
type frame struct {
	role role
	name QName
	base string
	lang string

	// subject of a node frame, or the subject a property frame hangs off
	subject rdf.Term

	// members counts rdf:li children of a node frame
	members int

	predicate rdf.Term
	reify     string // rdf:ID statement IRI of a property frame
	datatype  string

	// object is set once the relation triple of a property frame is out
	object rdf.Term

	// terminal property frames take no element content and ignore text
	terminal bool
	// propAttrs marks a terminal frame whose object came from property
	// attributes; it must stay empty
	propAttrs bool

	text     strings.Builder
	nonBlank bool

	list    *collection
	literal *literalWriter
}

func newFrame(r role, name QName, parent *frame, base string) *frame {
	f := &frame{role: r, name: name, base: base}
	if parent != nil {
		f.base = parent.base
		f.lang = parent.lang
	}
	return f
}

// capturing reports whether events below this frame belong to an XML literal
func (f *frame) capturing() bool {
	return f.literal != nil
}

// expectsNode reports whether a child element of this frame is a node element
func (f *frame) expectsNode() bool {
	return f.role == roleRoot || f.role == roleProperty
}

func isXMLSpace(s string) bool {
	return strings.Trim(s, " \t\r\n") == ""
}
