package rdfxml

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// Attribute is one attribute of an element, in source order.
type Attribute struct {
	Name  QName
	Value string
}

// Position is a source location reported by the tokenizer. Zero means unknown.
type Position struct {
	Line   int
	Column int
}

// Parser turns XML structural events into triples.
//
// It holds all state in an explicit frame stack, so the caller may stop
// delivering events at any point and resume later. The first error is
// latched: every later call returns it again. Triples emitted before the
// error remain valid.
type Parser struct {
	opts   options
	logger *slog.Logger
	out    *emitter
	blanks *BlankNodeAllocator

	stack []*frame
	ids   map[string]struct{} // rdf:ID statement and subject IRIs in this document

	started bool
	closed  bool
	last    Position
	err     error
}

// NewParser creates a parser that passes every triple to emit.
func NewParser(emit func(*rdf.Triple), opts ...Option) *Parser {
	o := buildOptions(opts)
	return &Parser{
		opts:   o,
		logger: o.logger,
		out:    &emitter{factory: o.factory, sink: emit},
		blanks: NewBlankNodeAllocator(o.factory, o.blankPrefix),
		ids:    make(map[string]struct{}),
	}
}

// Reset prepares the parser for a new document. Blank node labels of the
// previous document are forgotten; generated identifiers keep counting.
func (p *Parser) Reset() {
	clear(p.stack)
	p.stack = p.stack[:0]
	clear(p.ids)
	p.blanks.Reset()
	p.out.count = 0
	p.started = false
	p.closed = false
	p.last = Position{}
	p.err = nil
}

// Depth returns the number of open elements.
func (p *Parser) Depth() int {
	return len(p.stack)
}

// Err returns the latched error, if any.
func (p *Parser) Err() error {
	return p.err
}

// StartElement handles an element open event. ns holds every binding in
// scope at the element; namespace declarations need not appear in attrs.
func (p *Parser) StartElement(name QName, ns Namespaces, attrs []Attribute, pos Position) error {
	if p.err != nil {
		return p.err
	}
	p.last = pos
	if err := p.startElement(name, ns, attrs); err != nil {
		return p.fail(pos, name.String(), err)
	}
	return nil
}

// EndElement handles an element close event.
func (p *Parser) EndElement(name QName, pos Position) error {
	if p.err != nil {
		return p.err
	}
	p.last = pos
	if err := p.endElement(name); err != nil {
		return p.fail(pos, name.String(), err)
	}
	return nil
}

// Text handles character data. One text node may arrive in several calls.
func (p *Parser) Text(content string, pos Position) error {
	if p.err != nil {
		return p.err
	}
	p.last = pos
	if err := p.text(content); err != nil {
		element := ""
		if f := p.top(); f != nil {
			element = f.name.String()
		}
		return p.fail(pos, element, err)
	}
	return nil
}

// Finish signals the end of input. Every element must have been closed.
func (p *Parser) Finish() error {
	if p.err != nil {
		return p.err
	}
	if f := p.top(); f != nil {
		return p.fail(p.last, f.name.String(), fmt.Errorf("%w: unexpected end of input", ErrMalformedInput))
	}
	if !p.started {
		return p.fail(p.last, "", fmt.Errorf("%w: no document element", ErrMalformedInput))
	}
	p.logger.Debug("rdfxml document parsed", "triples", p.out.count)
	return nil
}

func (p *Parser) fail(pos Position, element string, err error) error {
	parseErr := newParseError(pos, element, err)
	p.err = parseErr
	p.logger.Warn("rdfxml parse failed",
		"kind", parseErr.Kind.String(),
		"line", pos.Line,
		"column", pos.Column,
		"error", err)
	return parseErr
}

func (p *Parser) top() *frame {
	if len(p.stack) == 0 {
		return nil
	}
	return p.stack[len(p.stack)-1]
}

func (p *Parser) push(r role, name QName, parent *frame) *frame {
	f := newFrame(r, name, parent, p.opts.baseIRI)
	p.stack = append(p.stack, f)
	return f
}

func (p *Parser) startElement(name QName, ns Namespaces, attrs []Attribute) error {
	parent := p.top()
	if parent == nil && p.closed {
		return fmt.Errorf("%w: content after the document element", ErrMalformedInput)
	}

	if parent != nil && parent.capturing() {
		f := p.push(roleLiteral, name, parent)
		f.literal = parent.literal
		return f.literal.start(name, ns, attrs)
	}

	iri, err := ExpandQName(name, ns)
	if err != nil {
		return err
	}

	if parent == nil {
		p.started = true
		if iri == rdf.RDFNamespace+"RDF" {
			f := p.push(roleRoot, name, nil)
			return p.applyXMLAttrs(f, attrs)
		}
	}

	if parent == nil || parent.expectsNode() {
		return p.startNode(parent, name, iri, ns, attrs)
	}
	return p.startProperty(parent, name, iri, ns, attrs)
}

// startNode opens a node element: determines its subject, links it to the
// enclosing property and emits its type and property attributes
func (p *Parser) startNode(parent *frame, name QName, iri string, ns Namespaces, attrs []Attribute) error {
	if local, ok := strings.CutPrefix(iri, rdf.RDFNamespace); ok && forbiddenNodeNames[local] {
		return fmt.Errorf("%w: rdf:%s cannot be used as a node element", ErrGrammar, local)
	}

	f := p.push(roleNode, name, parent)
	set, err := p.scanAttributes(f, ns, attrs)
	if err != nil {
		return err
	}
	for _, kind := range []attrKind{attrResource, attrParseType, attrDatatype} {
		if set.present[kind] {
			return fmt.Errorf("%w: %s is not allowed on a node element", ErrGrammar, kind)
		}
	}

	subject, err := p.nodeSubject(f, set)
	if err != nil {
		return err
	}
	f.subject = subject

	if parent != nil && parent.role == roleProperty {
		if err := p.attach(parent, subject); err != nil {
			return err
		}
	}

	if p.opts.typedNodes && iri != rdf.RDFNamespace+"Description" {
		p.out.triple(subject, p.out.iri(rdf.RDFType), p.out.iri(iri))
	}
	return p.propertyAttributes(f, subject, set.props)
}

func (p *Parser) nodeSubject(f *frame, set attributeSet) (rdf.Term, error) {
	subjects := 0
	for _, kind := range []attrKind{attrAbout, attrID, attrNodeID} {
		if set.present[kind] {
			subjects++
		}
	}
	if subjects > 1 {
		return nil, fmt.Errorf("%w: only one of rdf:about, rdf:ID and rdf:nodeID is allowed", ErrConflictingSubjectAttributes)
	}

	switch {
	case set.present[attrAbout]:
		iri, err := ResolveIRI(f.base, set.values[attrAbout])
		if err != nil {
			return nil, err
		}
		return p.out.iri(iri), nil
	case set.present[attrID]:
		iri, err := p.declareID(f, set.values[attrID])
		if err != nil {
			return nil, err
		}
		return p.out.iri(iri), nil
	case set.present[attrNodeID]:
		return p.labelled(set.values[attrNodeID])
	default:
		return p.blanks.Fresh(), nil
	}
}

// attach reports the subject of a node element to the property element
// that contains it
func (p *Parser) attach(owner *frame, subject rdf.Term) error {
	if owner.list != nil {
		owner.list.add(p.out, p.blanks, owner, subject)
		return nil
	}

	switch {
	case owner.terminal:
		return fmt.Errorf("%w: property element with a resource object cannot contain a node element", ErrAmbiguousPropertyContent)
	case owner.object != nil:
		return fmt.Errorf("%w: more than one node element in a property element", ErrAmbiguousPropertyContent)
	case owner.nonBlank:
		return fmt.Errorf("%w: text mixed with a node element", ErrAmbiguousPropertyContent)
	case owner.datatype != "":
		return fmt.Errorf("%w: rdf:datatype on a property element containing a node element", ErrAmbiguousPropertyContent)
	}

	owner.object = subject
	p.out.relation(owner.subject, owner.predicate, subject, owner.reify)
	return nil
}

// startProperty opens a property element under a node frame
func (p *Parser) startProperty(parent *frame, name QName, iri string, ns Namespaces, attrs []Attribute) error {
	if local, ok := strings.CutPrefix(iri, rdf.RDFNamespace); ok && forbiddenPropertyNames[local] {
		return fmt.Errorf("%w: rdf:%s cannot be used as a property element", ErrGrammar, local)
	}

	f := p.push(roleProperty, name, parent)
	f.subject = parent.subject

	set, err := p.scanAttributes(f, ns, attrs)
	if err != nil {
		return err
	}
	if set.present[attrAbout] {
		return fmt.Errorf("%w: %s is not allowed on a property element", ErrGrammar, attrAbout)
	}

	if iri == rdf.RDFNamespace+"li" {
		parent.members++
		iri = rdf.ContainerMembership(parent.members)
	}
	f.predicate = p.out.iri(iri)

	if set.present[attrID] {
		if f.reify, err = p.declareID(f, set.values[attrID]); err != nil {
			return err
		}
	}

	if err := checkPropertyAttributes(set); err != nil {
		return err
	}

	switch {
	case set.present[attrParseType]:
		return p.startParseType(f, set.values[attrParseType])

	case set.present[attrResource] || set.present[attrNodeID] || len(set.props) > 0:
		var object rdf.Term
		switch {
		case set.present[attrResource]:
			ref, err := ResolveIRI(f.base, set.values[attrResource])
			if err != nil {
				return err
			}
			object = p.out.iri(ref)
		case set.present[attrNodeID]:
			if object, err = p.labelled(set.values[attrNodeID]); err != nil {
				return err
			}
		default:
			object = p.blanks.Fresh()
		}
		f.object = object
		f.terminal = true
		f.propAttrs = len(set.props) > 0
		p.out.relation(f.subject, f.predicate, object, f.reify)
		return p.propertyAttributes(f, object, set.props)

	case set.present[attrDatatype]:
		datatype, err := ResolveIRI(f.base, set.values[attrDatatype])
		if err != nil {
			return err
		}
		f.datatype = datatype
	}
	return nil
}

func checkPropertyAttributes(set attributeSet) error {
	switch {
	case set.present[attrResource] && set.present[attrNodeID]:
		return fmt.Errorf("%w: rdf:resource and rdf:nodeID on the same element", ErrAmbiguousPropertyContent)
	case set.present[attrParseType] && (set.present[attrResource] || set.present[attrNodeID]):
		return fmt.Errorf("%w: rdf:parseType with rdf:resource or rdf:nodeID", ErrAmbiguousPropertyContent)
	case set.present[attrDatatype] && (set.present[attrResource] || set.present[attrNodeID] || set.present[attrParseType]):
		return fmt.Errorf("%w: rdf:datatype on a property element without a literal value", ErrAmbiguousPropertyContent)
	case len(set.props) > 0 && (set.present[attrParseType] || set.present[attrDatatype]):
		return fmt.Errorf("%w: property attributes with rdf:parseType or rdf:datatype", ErrAmbiguousPropertyContent)
	}
	return nil
}

func (p *Parser) startParseType(f *frame, parseType string) error {
	switch parseType {
	case "Resource":
		object := p.blanks.Fresh()
		p.out.relation(f.subject, f.predicate, object, f.reify)
		// The element now describes its object, so its children are properties.
		f.role = roleNode
		f.subject = object
		f.object = object
	case "Collection":
		f.list = &collection{}
	default:
		// "Literal" and every unknown value capture markup
		f.literal = newLiteralWriter()
	}
	return nil
}

// labelled returns the blank node for an rdf:nodeID value
func (p *Parser) labelled(label string) (rdf.Term, error) {
	if !isNCName(label) {
		return nil, fmt.Errorf("%w: rdf:nodeID %q is not an XML name", ErrGrammar, label)
	}
	return p.blanks.ForLabel(label), nil
}

// declareID resolves an rdf:ID value and checks it is unique in the document
func (p *Parser) declareID(f *frame, id string) (string, error) {
	if !isNCName(id) {
		return "", fmt.Errorf("%w: rdf:ID %q is not an XML name", ErrGrammar, id)
	}
	iri, err := ResolveIRI(f.base, "#"+id)
	if err != nil {
		return "", err
	}
	if _, seen := p.ids[iri]; seen {
		return "", fmt.Errorf("%w: rdf:ID %q is used twice", ErrGrammar, id)
	}
	p.ids[iri] = struct{}{}
	return iri, nil
}

// propertyAttributes emits one triple per property attribute. rdf:type
// values are IRIs, everything else a literal in the frame's language.
func (p *Parser) propertyAttributes(f *frame, subject rdf.Term, props []propertyAttr) error {
	for _, a := range props {
		var object rdf.Term
		if a.iri == rdf.RDFType {
			ref, err := ResolveIRI(f.base, a.value)
			if err != nil {
				return err
			}
			object = p.out.iri(ref)
		} else {
			object = p.out.factory.Literal(a.value, f.lang, "")
		}
		p.out.triple(subject, p.out.iri(a.iri), object)
	}
	return nil
}

func (p *Parser) endElement(name QName) error {
	f := p.top()
	if f == nil {
		return fmt.Errorf("%w: unexpected end tag", ErrMalformedInput)
	}
	if f.name != name {
		return fmt.Errorf("%w: element <%s> closed by </%s>", ErrMalformedInput, f.name, name)
	}

	p.stack[len(p.stack)-1] = nil
	p.stack = p.stack[:len(p.stack)-1]
	if len(p.stack) == 0 {
		p.closed = true
	}

	switch f.role {
	case roleLiteral:
		f.literal.end(name)
	case roleProperty:
		p.endProperty(f)
	}
	return nil
}

// endProperty emits the value of a property element whose object could
// only be known from its content
func (p *Parser) endProperty(f *frame) {
	switch {
	case f.literal != nil:
		object := p.out.factory.Literal(f.literal.String(), "", rdf.RDFXMLLiteral)
		p.out.relation(f.subject, f.predicate, object, f.reify)
	case f.list != nil:
		f.list.close(p.out, f)
	case f.terminal || f.object != nil:
	default:
		lang := f.lang
		if f.datatype != "" {
			lang = ""
		}
		object := p.out.factory.Literal(f.text.String(), lang, f.datatype)
		p.out.relation(f.subject, f.predicate, object, f.reify)
	}
}

func (p *Parser) text(content string) error {
	f := p.top()
	blank := isXMLSpace(content)

	switch {
	case f == nil:
		if !blank {
			return fmt.Errorf("%w: text outside the document element", ErrMalformedInput)
		}
	case f.capturing():
		f.literal.text(content)
	case f.role == roleRoot || f.role == roleNode:
		if !blank {
			return fmt.Errorf("%w: text directly inside a node element", ErrGrammar)
		}
	case f.propAttrs:
		if !blank {
			return fmt.Errorf("%w: text in a property element with property attributes", ErrAmbiguousPropertyContent)
		}
	case f.terminal:
		// the resource object wins over text
	case f.list != nil || f.object != nil:
		if !blank {
			return fmt.Errorf("%w: text mixed with a node element", ErrAmbiguousPropertyContent)
		}
	default:
		f.text.WriteString(content)
		if !blank {
			f.nonBlank = true
		}
	}
	return nil
}

// applyXMLAttrs applies xml:lang and xml:base to a frame. The base is
// resolved against the inherited one before it takes effect.
func (p *Parser) applyXMLAttrs(f *frame, attrs []Attribute) error {
	for _, a := range attrs {
		if a.Name.Prefix != "xml" {
			continue
		}
		switch a.Name.Local {
		case "lang":
			f.lang = a.Value
		case "base":
			base, err := ResolveIRI(f.base, a.Value)
			if err != nil {
				return err
			}
			f.base = base
		}
	}
	return nil
}
