package rdf

// Factory constructs the terms and triples produced by parsers.
// Implementations may intern terms or map them onto another data model;
// parsers only rely on the methods below.
type Factory interface {
	// NamedNode builds an IRI term from an absolute IRI
	NamedNode(iri string) Term

	// BlankNode builds a blank node term with the given identifier
	BlankNode(id string) Term

	// Literal builds a literal; language and datatype are never both set
	Literal(value, language, datatype string) Term

	// Triple builds a triple from three terms
	Triple(subject, predicate, object Term) *Triple
}

// DefaultFactory builds the term types of this package.
var DefaultFactory Factory = defaultFactory{}

type defaultFactory struct{}

func (defaultFactory) NamedNode(iri string) Term {
	return NewNamedNode(iri)
}

func (defaultFactory) BlankNode(id string) Term {
	return NewBlankNode(id)
}

func (defaultFactory) Literal(value, language, datatype string) Term {
	if datatype != "" {
		return NewLiteralWithDatatype(value, NewNamedNode(datatype))
	}
	if language != "" {
		return NewLiteralWithLanguage(value, language)
	}
	return NewLiteral(value)
}

func (defaultFactory) Triple(subject, predicate, object Term) *Triple {
	return NewTriple(subject, predicate, object)
}
