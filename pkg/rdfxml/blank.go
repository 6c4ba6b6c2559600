package rdfxml

import (
	"strconv"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// BlankNodeAllocator hands out blank nodes for one parser.
//
// Generated identifiers are "<prefix>b<n>" with a counter that only ever
// grows, so two Fresh calls never alias, not even across documents.
// Author labels (rdf:nodeID) are mapped onto generated identifiers and
// therefore never collide with them.
type BlankNodeAllocator struct {
	factory rdf.Factory
	prefix  string
	counter uint64
	labels  map[string]rdf.Term
}

// NewBlankNodeAllocator creates an allocator. A nil factory means rdf.DefaultFactory.
func NewBlankNodeAllocator(factory rdf.Factory, prefix string) *BlankNodeAllocator {
	if factory == nil {
		factory = rdf.DefaultFactory
	}
	return &BlankNodeAllocator{
		factory: factory,
		prefix:  prefix,
		labels:  make(map[string]rdf.Term),
	}
}

// Fresh returns a blank node that has never been returned before.
func (a *BlankNodeAllocator) Fresh() rdf.Term {
	a.counter++
	return a.factory.BlankNode(a.prefix + "b" + strconv.FormatUint(a.counter, 10))
}

// ForLabel returns the blank node registered for label in the current
// document, allocating one on first use.
func (a *BlankNodeAllocator) ForLabel(label string) rdf.Term {
	if term, ok := a.labels[label]; ok {
		return term
	}
	term := a.Fresh()
	a.labels[label] = term
	return term
}

// Reset forgets the labels of the previous document. The counter is kept.
func (a *BlankNodeAllocator) Reset() {
	clear(a.labels)
}
