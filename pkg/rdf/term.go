package rdf

// TermType tags the concrete kind of a Term
type TermType byte

const (
	TermTypeNamedNode TermType = iota + 1
	TermTypeBlankNode
	TermTypeLiteral

	// Storage distinguishes literal forms; terms themselves report TermTypeLiteral
	TermTypeStringLiteral
	TermTypeLangStringLiteral
	TermTypeTypedLiteral
)

// Term is an IRI, a blank node or a literal.
// String renders the term in N-Triples syntax.
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// NamedNode is an IRI term
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType { return TermTypeNamedNode }

func (n *NamedNode) String() string { return formatTerm(n) }

func (n *NamedNode) Equals(other Term) bool {
	o, ok := other.(*NamedNode)
	return ok && o.IRI == n.IRI
}

// BlankNode is identified by ID within one graph
type BlankNode struct {
	ID string
}

func NewBlankNode(id string) *BlankNode {
	return &BlankNode{ID: id}
}

func (b *BlankNode) Type() TermType { return TermTypeBlankNode }

func (b *BlankNode) String() string { return formatTerm(b) }

func (b *BlankNode) Equals(other Term) bool {
	o, ok := other.(*BlankNode)
	return ok && o.ID == b.ID
}

// Literal is a lexical value with either a language tag or a datatype.
// With neither, the datatype is xsd:string.
type Literal struct {
	Value    string
	Language string
	Datatype *NamedNode
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: language}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

// DatatypeIRI returns the effective datatype: rdf:langString for tagged
// literals, xsd:string when none was given.
func (l *Literal) DatatypeIRI() string {
	switch {
	case l.Language != "":
		return RDFLangString
	case l.Datatype != nil:
		return l.Datatype.IRI
	default:
		return XSDString
	}
}

func (l *Literal) Type() TermType { return TermTypeLiteral }

func (l *Literal) String() string { return formatLiteral(l) }

// Equals compares value, language tag and effective datatype, so a plain
// literal equals the same value typed as xsd:string.
func (l *Literal) Equals(other Term) bool {
	o, ok := other.(*Literal)
	return ok &&
		o.Value == l.Value &&
		o.Language == l.Language &&
		o.DatatypeIRI() == l.DatatypeIRI()
}

// Triple is one RDF statement
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(subject, predicate, object Term) *Triple {
	return &Triple{Subject: subject, Predicate: predicate, Object: object}
}

// String renders the triple as one N-Triples line without the newline
func (t *Triple) String() string {
	return FormatTriple(t)
}

// Equals reports whether both triples have equal terms in every position
func (t *Triple) Equals(other *Triple) bool {
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}
