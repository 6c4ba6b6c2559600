package rdfxml

import (
	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// emitter builds triples through the factory and hands each one to the
// sink as soon as it is known
type emitter struct {
	factory rdf.Factory
	sink    func(*rdf.Triple)
	count   int
}

func (e *emitter) iri(value string) rdf.Term {
	return e.factory.NamedNode(value)
}

func (e *emitter) triple(subject, predicate, object rdf.Term) {
	e.count++
	e.sink(e.factory.Triple(subject, predicate, object))
}

// relation emits subject-predicate-object and, when reify names a
// statement IRI, the four rdf:Statement triples describing it
func (e *emitter) relation(subject, predicate, object rdf.Term, reify string) {
	e.triple(subject, predicate, object)
	if reify == "" {
		return
	}

	statement := e.iri(reify)
	e.triple(statement, e.iri(rdf.RDFType), e.iri(rdf.RDFStatement))
	e.triple(statement, e.iri(rdf.RDFSubject), subject)
	e.triple(statement, e.iri(rdf.RDFPredicate), predicate)
	e.triple(statement, e.iri(rdf.RDFObject), object)
}

// collection tracks the tail cell of a parseType="Collection" list
type collection struct {
	last rdf.Term
}

// add appends item as a new cell. The first cell is linked from the owning
// property, later cells from the previous cell's rdf:rest.
func (c *collection) add(e *emitter, blanks *BlankNodeAllocator, owner *frame, item rdf.Term) {
	cell := blanks.Fresh()
	if c.last == nil {
		e.relation(owner.subject, owner.predicate, cell, owner.reify)
	} else {
		e.triple(c.last, e.iri(rdf.RDFRest), cell)
	}
	e.triple(cell, e.iri(rdf.RDFFirst), item)
	c.last = cell
}

// close terminates the list with rdf:nil. An empty list is rdf:nil itself.
func (c *collection) close(e *emitter, owner *frame) {
	nilList := e.iri(rdf.RDFNil)
	if c.last == nil {
		e.relation(owner.subject, owner.predicate, nilList, owner.reify)
		return
	}
	e.triple(c.last, e.iri(rdf.RDFRest), nilList)
}
