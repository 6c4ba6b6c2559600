package rdfxml

import (
	"log/slog"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// Option configures a Parser or Decoder.
type Option func(*options)

type options struct {
	factory     rdf.Factory
	baseIRI     string
	blankPrefix string
	typedNodes  bool
	logger      *slog.Logger
}

func defaultOptions() options {
	return options{
		factory: rdf.DefaultFactory,
		logger:  slog.Default(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithFactory sets the term factory. Nil keeps rdf.DefaultFactory.
func WithFactory(factory rdf.Factory) Option {
	return func(o *options) {
		if factory != nil {
			o.factory = factory
		}
	}
}

// WithBaseIRI sets the document base IRI used until an xml:base overrides it.
// An empty base means relative references fail unless the document declares one.
func WithBaseIRI(base string) Option {
	return func(o *options) {
		o.baseIRI = base
	}
}

// WithBlankNodePrefix prefixes every generated blank node identifier.
func WithBlankNodePrefix(prefix string) Option {
	return func(o *options) {
		o.blankPrefix = prefix
	}
}

// WithNodeElementTypes makes a node element named other than rdf:Description
// also state (subject, rdf:type, element IRI), as the W3C grammar does for
// typed node elements such as rdf:Seq. It is off by default: the element
// name then only selects the node role.
func WithNodeElementTypes(enabled bool) Option {
	return func(o *options) {
		o.typedNodes = enabled
	}
}

// WithLogger sets the logger. Nil keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
