package rdfio

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
	"github.com/aleksaelezovic/rdfxml/pkg/rdfxml"
)

// ErrUnsupportedFormat is returned for content types and file names no
// parser handles
var ErrUnsupportedFormat = errors.New("unsupported format")

// RDFParser turns one serialized document into triples
type RDFParser interface {
	// Triples streams the triples of a document. Triples before an error
	// are valid; the error is the last element.
	Triples(reader io.Reader) iter.Seq2[*rdf.Triple, error]

	// ContentType returns the MIME type this parser handles
	ContentType() string
}

var extensions = map[string]string{
	".rdf": "application/rdf+xml",
	".owl": "application/rdf+xml",
	".xml": "application/xml",
}

// NewParser creates an RDF parser based on the content type. The options
// are handed to the RDF/XML decoder.
func NewParser(contentType string, opts ...rdfxml.Option) (RDFParser, error) {
	switch normalize(contentType) {
	case "application/rdf+xml", "application/xml", "text/xml":
		return &RDFXMLParser{opts: opts}, nil
	default:
		return nil, fmt.Errorf("%w: content type %s", ErrUnsupportedFormat, contentType)
	}
}

// ContentTypeForFile maps a file name extension to a content type
func ContentTypeForFile(name string) (string, error) {
	if ct, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("%w: no parser for file %s", ErrUnsupportedFormat, name)
}

// ForFile picks a parser from a file name extension
func ForFile(name string, opts ...rdfxml.Option) (RDFParser, error) {
	ct, err := ContentTypeForFile(name)
	if err != nil {
		return nil, err
	}
	return NewParser(ct, opts...)
}

// normalize drops parameters like charset
func normalize(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if idx := strings.Index(ct, ";"); idx != -1 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return ct
}

// RDFXMLParser parses RDF/XML
type RDFXMLParser struct {
	opts []rdfxml.Option
}

func (p *RDFXMLParser) ContentType() string {
	return "application/rdf+xml"
}

func (p *RDFXMLParser) Triples(reader io.Reader) iter.Seq2[*rdf.Triple, error] {
	return rdfxml.NewDecoder(reader, p.opts...).All()
}

// GetSupportedContentTypes returns a list of all supported content types
func GetSupportedContentTypes() []string {
	return []string{
		"application/rdf+xml",
		"application/xml",
		"text/xml",
	}
}
