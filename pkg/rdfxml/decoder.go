package rdfxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"regexp"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// Decoder reads RDF/XML from a reader and yields triples lazily.
//
// It feeds encoding/xml tokens to a Parser one at a time and only reads
// more input once the triples produced so far have been consumed.
type Decoder struct {
	tokens *xml.Decoder
	parser *Parser
	queue  []*rdf.Triple
	head   int
	scopes []Namespaces
	err    error
}

// NewDecoder creates a decoder reading from r.
func NewDecoder(r io.Reader, opts ...Option) *Decoder {
	d := &Decoder{
		tokens: xml.NewDecoder(r),
		scopes: []Namespaces{{}},
	}
	d.parser = NewParser(d.enqueue, opts...)
	return d
}

func (d *Decoder) enqueue(triple *rdf.Triple) {
	d.queue = append(d.queue, triple)
}

// Next returns the next triple. It returns io.EOF after the last triple
// of a well-formed document and the terminal parse error otherwise; both
// are returned again on every later call.
func (d *Decoder) Next() (*rdf.Triple, error) {
	for {
		if d.head < len(d.queue) {
			triple := d.queue[d.head]
			d.queue[d.head] = nil
			d.head++
			return triple, nil
		}
		d.queue = d.queue[:0]
		d.head = 0

		if d.err != nil {
			return nil, d.err
		}
		d.err = d.step()
	}
}

// All returns the remaining triples as a one-shot sequence. A parse error
// is yielded once as the final element.
func (d *Decoder) All() iter.Seq2[*rdf.Triple, error] {
	return func(yield func(*rdf.Triple, error) bool) {
		for {
			triple, err := d.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(triple, nil) {
				return
			}
		}
	}
}

// Parse reads a whole document. The triples read before an error are
// returned along with it.
func Parse(r io.Reader, opts ...Option) ([]*rdf.Triple, error) {
	var triples []*rdf.Triple
	for triple, err := range NewDecoder(r, opts...).All() {
		if err != nil {
			return triples, err
		}
		triples = append(triples, triple)
	}
	return triples, nil
}

// step delivers one token to the parser
func (d *Decoder) step() error {
	tok, err := d.tokens.RawToken()
	if err == io.EOF {
		if err := d.parser.Finish(); err != nil {
			return err
		}
		return io.EOF
	}
	if err != nil {
		return d.malformed(err)
	}

	switch t := tok.(type) {
	case xml.StartElement:
		return d.startElement(t)
	case xml.EndElement:
		if len(d.scopes) > 1 {
			d.scopes = d.scopes[:len(d.scopes)-1]
		}
		return d.parser.EndElement(QName{Prefix: t.Name.Space, Local: t.Name.Local}, d.pos())
	case xml.CharData:
		return d.parser.Text(string(t), d.pos())
	case xml.Directive:
		d.declareEntities(t)
	}
	return nil
}

func (d *Decoder) startElement(t xml.StartElement) error {
	ns := d.scopes[len(d.scopes)-1]
	cloned := false
	bind := func(prefix, iri string) {
		if !cloned {
			ns = maps.Clone(ns)
			cloned = true
		}
		if iri == "" {
			delete(ns, prefix)
		} else {
			ns[prefix] = iri
		}
	}

	attrs := make([]Attribute, 0, len(t.Attr))
	for _, a := range t.Attr {
		switch {
		case a.Name.Space == "xmlns":
			if a.Value == "" {
				return d.malformed(fmt.Errorf("prefix %q cannot be undeclared", a.Name.Local))
			}
			bind(a.Name.Local, a.Value)
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			bind("", a.Value)
		default:
			attrs = append(attrs, Attribute{
				Name:  QName{Prefix: a.Name.Space, Local: a.Name.Local},
				Value: a.Value,
			})
		}
	}

	d.scopes = append(d.scopes, ns)
	return d.parser.StartElement(QName{Prefix: t.Name.Space, Local: t.Name.Local}, ns, attrs, d.pos())
}

var entityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%]+)\s+(?:"([^"]*)"|'([^']*)')\s*>`)

// declareEntities registers the internal general entities of a DOCTYPE
// so references to them expand in text and attribute values
func (d *Decoder) declareEntities(directive xml.Directive) {
	for _, m := range entityDecl.FindAllSubmatch(directive, -1) {
		if d.tokens.Entity == nil {
			d.tokens.Entity = make(map[string]string)
		}
		value := m[2]
		if value == nil {
			value = m[3]
		}
		d.tokens.Entity[string(m[1])] = string(value)
	}
}

func (d *Decoder) pos() Position {
	line, column := d.tokens.InputPos()
	return Position{Line: line, Column: column}
}

// malformed tags a tokenizer failure and latches it in the parser
func (d *Decoder) malformed(err error) error {
	pos := d.pos()
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		pos = Position{Line: syntaxErr.Line}
	}
	return d.parser.fail(pos, "", fmt.Errorf("%w: %w", ErrMalformedInput, err))
}
