package rdf

import "strconv"

const (
	// RDFNamespace is the RDF syntax namespace
	RDFNamespace = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"

	// XMLNamespace is bound to the reserved xml prefix
	XMLNamespace = "http://www.w3.org/XML/1998/namespace"

	// XSDNamespace is the XML Schema datatypes namespace
	XSDNamespace = "http://www.w3.org/2001/XMLSchema#"
)

// RDF vocabulary IRIs
const (
	RDFType       = RDFNamespace + "type"
	RDFFirst      = RDFNamespace + "first"
	RDFRest       = RDFNamespace + "rest"
	RDFNil        = RDFNamespace + "nil"
	RDFStatement  = RDFNamespace + "Statement"
	RDFSubject    = RDFNamespace + "subject"
	RDFPredicate  = RDFNamespace + "predicate"
	RDFObject     = RDFNamespace + "object"
	RDFXMLLiteral = RDFNamespace + "XMLLiteral"
	RDFLangString = RDFNamespace + "langString"
	XSDString     = XSDNamespace + "string"
)

// ContainerMembership returns the rdf:_n membership property IRI.
func ContainerMembership(n int) string {
	return RDFNamespace + "_" + strconv.Itoa(n)
}
