package rdfxml

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

const (
	documentHeader = `<?xml version="1.0"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns:ex="http://ex/">
`
	documentFooter = `
</rdf:RDF>`
)

func document(body string) string {
	return documentHeader + body + documentFooter
}

func iri(value string) *rdf.NamedNode {
	return rdf.NewNamedNode(value)
}

func ex(local string) *rdf.NamedNode {
	return rdf.NewNamedNode("http://ex/" + local)
}

func blank(id string) *rdf.BlankNode {
	return rdf.NewBlankNode(id)
}

func lit(value string) *rdf.Literal {
	return rdf.NewLiteral(value)
}

func triple(s, p, o rdf.Term) *rdf.Triple {
	return rdf.NewTriple(s, p, o)
}

func mustParse(t *testing.T, input string, opts ...Option) []*rdf.Triple {
	t.Helper()
	triples, err := Parse(strings.NewReader(input), opts...)
	require.NoError(t, err)
	return triples
}

func assertGraph(t *testing.T, expected, actual []*rdf.Triple) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, rdf.WriteNTriples(&buf, actual))
	require.Len(t, actual, len(expected), "got:\n%s", buf.String())
	assert.True(t, rdf.AreGraphsIsomorphic(expected, actual), "got:\n%s", buf.String())
}

func assertTriples(t *testing.T, expected, actual []*rdf.Triple) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		assert.True(t, expected[i].Equals(actual[i]), "triple %d: expected %s, got %s", i, expected[i], actual[i])
	}
}

func TestParse_AttributeShorthand(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description rdf:about="http://ex/a" ex:name="Ann"/>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("name"), lit("Ann")),
	}, triples)
}

func TestParse_AttributesKeepSourceOrder(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description rdf:about="http://ex/a" ex:z="1" ex:a="2" ex:m="3"/>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("z"), lit("1")),
		triple(ex("a"), ex("a"), lit("2")),
		triple(ex("a"), ex("m"), lit("3")),
	}, triples)
}

func TestParse_NestedResource(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:knows><ex:Person ex:name="Bob"/></ex:knows>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("knows"), blank("b1")),
		triple(blank("b1"), ex("name"), lit("Bob")),
	}, triples)
}

func TestParse_TypedNodeElementOption(t *testing.T) {
	input := document(`<ex:Person rdf:about="http://ex/bob" ex:name="Bob"/>`)

	assertGraph(t, []*rdf.Triple{
		triple(ex("bob"), ex("name"), lit("Bob")),
	}, mustParse(t, input))

	assertGraph(t, []*rdf.Triple{
		triple(ex("bob"), iri(rdf.RDFType), ex("Person")),
		triple(ex("bob"), ex("name"), lit("Bob")),
	}, mustParse(t, input, WithNodeElementTypes(true)))
}

func TestParse_PropertyElements(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/alice">
    <ex:name>Alice</ex:name>
    <ex:homepage rdf:resource="http://ex/home"/>
    <ex:age rdf:datatype="http://www.w3.org/2001/XMLSchema#integer">30</ex:age>
    <ex:note>  padded  </ex:note>
    <ex:empty/>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("alice"), ex("name"), lit("Alice")),
		triple(ex("alice"), ex("homepage"), ex("home")),
		triple(ex("alice"), ex("age"), rdf.NewLiteralWithDatatype("30", iri(rdf.XSDNamespace+"integer"))),
		triple(ex("alice"), ex("note"), lit("  padded  ")),
		triple(ex("alice"), ex("empty"), lit("")),
	}, triples)
}

func TestParse_ResourceIgnoresText(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:p rdf:resource="http://ex/b">ignored</ex:p>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{triple(ex("a"), ex("p"), ex("b"))}, triples)
}

func TestParse_Language(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a" xml:lang="en" ex:label="colour">
    <ex:title>Hello</ex:title>
    <ex:title xml:lang="de">Hallo</ex:title>
    <ex:title xml:lang="">plain</ex:title>
    <ex:count rdf:datatype="http://www.w3.org/2001/XMLSchema#int">1</ex:count>
    <ex:knows>
      <rdf:Description ex:name="Bob"/>
    </ex:knows>
  </rdf:Description>
  <rdf:Description rdf:about="http://ex/b" ex:label="untagged"/>`))

	assertGraph(t, []*rdf.Triple{
		triple(ex("a"), ex("label"), rdf.NewLiteralWithLanguage("colour", "en")),
		triple(ex("a"), ex("title"), rdf.NewLiteralWithLanguage("Hello", "en")),
		triple(ex("a"), ex("title"), rdf.NewLiteralWithLanguage("Hallo", "de")),
		triple(ex("a"), ex("title"), lit("plain")),
		triple(ex("a"), ex("count"), rdf.NewLiteralWithDatatype("1", iri(rdf.XSDNamespace+"int"))),
		triple(ex("a"), ex("knows"), blank("x")),
		triple(blank("x"), ex("name"), rdf.NewLiteralWithLanguage("Bob", "en")),
		triple(ex("b"), ex("label"), lit("untagged")),
	}, triples)
}

func TestParse_NodeIDSharing(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:nodeID="n1" ex:name="first"/>
  <rdf:Description rdf:nodeID="n1" ex:age="2"/>
  <rdf:Description rdf:about="http://ex/a">
    <ex:knows rdf:nodeID="n1"/>
  </rdf:Description>`))

	require.Len(t, triples, 3)
	assert.True(t, triples[0].Subject.Equals(triples[1].Subject))
	assert.True(t, triples[0].Subject.Equals(triples[2].Object))
	_, isBlank := triples[0].Subject.(*rdf.BlankNode)
	assert.True(t, isBlank)
}

func TestParse_AnonymousNodesNeverShared(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description ex:name="one"/>
  <rdf:Description ex:name="two"/>
  <rdf:Description rdf:nodeID="b2" ex:name="three"/>`))

	require.Len(t, triples, 3)
	assert.False(t, triples[0].Subject.Equals(triples[1].Subject))
	assert.False(t, triples[1].Subject.Equals(triples[2].Subject), "author labels must not collide with generated ids")
}

func TestParse_Collection(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/s">
    <ex:list rdf:parseType="Collection">
      <rdf:Description rdf:about="http://ex/a"/>
      <rdf:Description rdf:about="http://ex/b"/>
      <rdf:Description rdf:about="http://ex/c"/>
    </ex:list>
  </rdf:Description>`))

	require.Len(t, triples, 7)

	objects := make(map[string]rdf.Term)
	var anchor rdf.Term
	for _, tr := range triples {
		if tr.Subject.Equals(ex("s")) {
			require.True(t, tr.Predicate.Equals(ex("list")))
			anchor = tr.Object
			continue
		}
		objects[tr.Subject.String()+" "+tr.Predicate.String()] = tr.Object
	}
	require.NotNil(t, anchor)

	var items []string
	cells := make(map[string]bool)
	cell := anchor
	for !cell.Equals(iri(rdf.RDFNil)) {
		_, isBlank := cell.(*rdf.BlankNode)
		require.True(t, isBlank, "list cell %s is not a blank node", cell)
		cells[cell.String()] = true

		first, ok := objects[cell.String()+" <"+rdf.RDFFirst+">"]
		require.True(t, ok)
		items = append(items, first.(*rdf.NamedNode).IRI)

		rest, ok := objects[cell.String()+" <"+rdf.RDFRest+">"]
		require.True(t, ok)
		cell = rest
	}

	assert.Equal(t, []string{"http://ex/a", "http://ex/b", "http://ex/c"}, items)
	assert.Len(t, cells, 3)
}

func TestParse_EmptyCollection(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/s">
    <ex:list rdf:parseType="Collection"></ex:list>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{triple(ex("s"), ex("list"), iri(rdf.RDFNil))}, triples)
}

func TestParse_CollectionOfBlankNodes(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/s">
    <ex:list rdf:parseType="Collection">
      <rdf:Description ex:name="x"/>
    </ex:list>
  </rdf:Description>`))

	assertGraph(t, []*rdf.Triple{
		triple(ex("s"), ex("list"), blank("cell")),
		triple(blank("cell"), iri(rdf.RDFFirst), blank("item")),
		triple(blank("item"), ex("name"), lit("x")),
		triple(blank("cell"), iri(rdf.RDFRest), iri(rdf.RDFNil)),
	}, triples)
}

func TestParse_ContainerMembership(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Seq rdf:about="http://ex/seq">
    <rdf:li>one</rdf:li>
    <rdf:li rdf:resource="http://ex/two"/>
    <rdf:li><rdf:Description ex:name="three"/></rdf:li>
  </rdf:Seq>
  <rdf:Bag rdf:about="http://ex/bag">
    <rdf:li>again</rdf:li>
  </rdf:Bag>`), WithNodeElementTypes(true))

	assertGraph(t, []*rdf.Triple{
		triple(ex("seq"), iri(rdf.RDFType), iri(rdf.RDFNamespace+"Seq")),
		triple(ex("seq"), iri(rdf.ContainerMembership(1)), lit("one")),
		triple(ex("seq"), iri(rdf.ContainerMembership(2)), ex("two")),
		triple(ex("seq"), iri(rdf.ContainerMembership(3)), blank("x")),
		triple(blank("x"), ex("name"), lit("three")),
		triple(ex("bag"), iri(rdf.RDFType), iri(rdf.RDFNamespace+"Bag")),
		triple(ex("bag"), iri(rdf.ContainerMembership(1)), lit("again")),
	}, triples)
}

func TestParse_ContainerCounterIsPerParent(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/outer">
    <rdf:li>a</rdf:li>
    <ex:inner rdf:parseType="Resource">
      <rdf:li>b</rdf:li>
      <rdf:li>c</rdf:li>
    </ex:inner>
    <rdf:li>d</rdf:li>
  </rdf:Description>`))

	var outer []string
	var inner []string
	for _, tr := range triples {
		p := tr.Predicate.(*rdf.NamedNode).IRI
		if !strings.HasPrefix(p, rdf.RDFNamespace+"_") {
			continue
		}
		if tr.Subject.Equals(ex("outer")) {
			outer = append(outer, p)
		} else {
			inner = append(inner, p)
		}
	}

	assert.Equal(t, []string{rdf.ContainerMembership(1), rdf.ContainerMembership(2)}, outer)
	assert.Equal(t, []string{rdf.ContainerMembership(1), rdf.ContainerMembership(2)}, inner)
}

func TestParse_Reification(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:says rdf:ID="claim">hello</ex:says>
  </rdf:Description>`), WithBaseIRI("http://ex/doc"))

	statement := iri("http://ex/doc#claim")
	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("says"), lit("hello")),
		triple(statement, iri(rdf.RDFType), iri(rdf.RDFStatement)),
		triple(statement, iri(rdf.RDFSubject), ex("a")),
		triple(statement, iri(rdf.RDFPredicate), ex("says")),
		triple(statement, iri(rdf.RDFObject), lit("hello")),
	}, triples)
}

func TestParse_ReificationOfEveryPropertyForm(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:r rdf:ID="r1" rdf:resource="http://ex/b"/>
    <ex:n rdf:ID="r2"><rdf:Description rdf:about="http://ex/c"/></ex:n>
    <ex:t rdf:ID="r3" rdf:parseType="Resource"><ex:q>v</ex:q></ex:t>
    <ex:l rdf:ID="r4" rdf:parseType="Literal"><b>x</b></ex:l>
    <ex:c rdf:ID="r5" rdf:parseType="Collection"/>
  </rdf:Description>`), WithBaseIRI("http://ex/doc"))

	statements := make(map[string]int)
	for _, tr := range triples {
		if tr.Predicate.Equals(iri(rdf.RDFType)) && tr.Object.Equals(iri(rdf.RDFStatement)) {
			statements[tr.Subject.(*rdf.NamedNode).IRI]++
		}
	}
	assert.Equal(t, map[string]int{
		"http://ex/doc#r1": 1,
		"http://ex/doc#r2": 1,
		"http://ex/doc#r3": 1,
		"http://ex/doc#r4": 1,
		"http://ex/doc#r5": 1,
	}, statements)

	// 5 relations, 20 reification triples and the nested ex:q
	assert.Len(t, triples, 26)
}

func TestParse_ParseTypeResource(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:address rdf:parseType="Resource">
      <ex:city>Berlin</ex:city>
      <ex:zip>10115</ex:zip>
    </ex:address>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("address"), blank("b1")),
		triple(blank("b1"), ex("city"), lit("Berlin")),
		triple(blank("b1"), ex("zip"), lit("10115")),
	}, triples)
}

func TestParse_ParseTypeLiteral(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:body rdf:parseType="Literal"><p xmlns="http://www.w3.org/1999/xhtml" class="x">a &lt; <em>b</em></p><ex:q ex:z="1" a="2"/></ex:body>
  </rdf:Description>`))

	require.Len(t, triples, 1)
	object, ok := triples[0].Object.(*rdf.Literal)
	require.True(t, ok)
	assert.Equal(t, rdf.RDFXMLLiteral, object.Datatype.IRI)
	assert.Equal(t,
		`<p xmlns="http://www.w3.org/1999/xhtml" class="x">a &lt; <em>b</em></p><ex:q xmlns:ex="http://ex/" a="2" ex:z="1"></ex:q>`,
		object.Value)
}

func TestParse_UnknownParseTypeIsLiteral(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:body rdf:parseType="Other">text</ex:body>
  </rdf:Description>`))

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("body"), rdf.NewLiteralWithDatatype("text", iri(rdf.RDFXMLLiteral))),
	}, triples)
}

func TestParse_PropertyAttributesOnEmptyProperty(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="http://ex/a">
    <ex:knows ex:name="Bob"/>
    <ex:likes rdf:resource="http://ex/c" ex:name="Carol" rdf:type="http://ex/Person"/>
  </rdf:Description>`))

	assertGraph(t, []*rdf.Triple{
		triple(ex("a"), ex("knows"), blank("x")),
		triple(blank("x"), ex("name"), lit("Bob")),
		triple(ex("a"), ex("likes"), ex("c")),
		triple(ex("c"), ex("name"), lit("Carol")),
		triple(ex("c"), iri(rdf.RDFType), ex("Person")),
	}, triples)
}

func TestParse_TypeAttribute(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description rdf:about="http://ex/a" rdf:type="Person"/>`), WithBaseIRI("http://ex/"))

	assertTriples(t, []*rdf.Triple{triple(ex("a"), iri(rdf.RDFType), ex("Person"))}, triples)
}

func TestParse_NodeID(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description rdf:ID="me" ex:name="Me"/>`), WithBaseIRI("http://ex/doc"))

	assertTriples(t, []*rdf.Triple{triple(iri("http://ex/doc#me"), ex("name"), lit("Me"))}, triples)
}

func TestParse_BaseScoping(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description rdf:about="a" xml:base="http://one/dir/">
    <ex:p rdf:resource="b"/>
    <ex:p xml:base="http://two/" rdf:resource="c"/>
    <ex:p rdf:resource="d"/>
  </rdf:Description>
  <rdf:Description rdf:about="e">
    <ex:p rdf:resource="#f"/>
  </rdf:Description>`), WithBaseIRI("http://root/doc"))

	assertTriples(t, []*rdf.Triple{
		triple(iri("http://one/dir/a"), ex("p"), iri("http://one/dir/b")),
		triple(iri("http://one/dir/a"), ex("p"), iri("http://two/c")),
		triple(iri("http://one/dir/a"), ex("p"), iri("http://one/dir/d")),
		triple(iri("http://root/e"), ex("p"), iri("http://root/doc#f")),
	}, triples)
}

func TestParse_RelativeBaseResolvesAgainstParent(t *testing.T) {
	triples := mustParse(t, document(`
  <rdf:Description xml:base="sub/" rdf:about="x" ex:v="1"/>`), WithBaseIRI("http://ex/root/doc"))

	assertTriples(t, []*rdf.Triple{triple(iri("http://ex/root/sub/x"), ex("v"), lit("1"))}, triples)
}

func TestParse_DocumentBaseOnRoot(t *testing.T) {
	input := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://ex/" xml:base="http://ex/base/">
  <rdf:Description rdf:about="a" ex:v="1"/>
</rdf:RDF>`

	assertTriples(t, []*rdf.Triple{triple(iri("http://ex/base/a"), ex("v"), lit("1"))}, mustParse(t, input))
}

func TestParse_RootNodeElement(t *testing.T) {
	input := `<rdf:Description xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:ex="http://ex/"
    rdf:about="http://ex/a" ex:name="Ann"><ex:age>3</ex:age></rdf:Description>`

	assertTriples(t, []*rdf.Triple{
		triple(ex("a"), ex("name"), lit("Ann")),
		triple(ex("a"), ex("age"), lit("3")),
	}, mustParse(t, input))
}

func TestParse_UnqualifiedAttributes(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description about="http://ex/a" name="Ann"/>`))

	assertTriples(t, []*rdf.Triple{triple(ex("a"), iri("name"), lit("Ann"))}, triples)
}

func TestParse_DoctypeEntities(t *testing.T) {
	input := `<?xml version="1.0"?>
<!DOCTYPE rdf:RDF [
  <!ENTITY ex "http://ex/">
  <!ENTITY rdfns 'http://www.w3.org/1999/02/22-rdf-syntax-ns#'>
]>
<rdf:RDF xmlns:rdf="&rdfns;" xmlns:ex="&ex;">
  <rdf:Description rdf:about="&ex;a" ex:name="&ex;"/>
</rdf:RDF>`

	assertTriples(t, []*rdf.Triple{triple(ex("a"), ex("name"), lit("http://ex/"))}, mustParse(t, input))
}

func TestParse_CommentsAndProcessingInstructions(t *testing.T) {
	triples := mustParse(t, document(`
  <!-- a comment -->
  <?app instruction?>
  <rdf:Description rdf:about="http://ex/a"><ex:p>v<!-- inside --></ex:p></rdf:Description>`))

	assertTriples(t, []*rdf.Triple{triple(ex("a"), ex("p"), lit("v"))}, triples)
}

func TestParse_BlankNodePrefix(t *testing.T) {
	triples := mustParse(t, document(`<rdf:Description ex:name="x"/>`), WithBlankNodePrefix("doc1-"))

	require.Len(t, triples, 1)
	assert.Equal(t, "doc1-b1", triples[0].Subject.(*rdf.BlankNode).ID)
}

type countingFactory struct {
	rdf.Factory
	triples int
}

func (f *countingFactory) Triple(s, p, o rdf.Term) *rdf.Triple {
	f.triples++
	return f.Factory.Triple(s, p, o)
}

func TestParse_CustomFactory(t *testing.T) {
	factory := &countingFactory{Factory: rdf.DefaultFactory}
	triples := mustParse(t, document(`<rdf:Description rdf:about="http://ex/a" ex:x="1" ex:y="2"/>`), WithFactory(factory))

	assert.Len(t, triples, 2)
	assert.Equal(t, 2, factory.triples)
}

func TestDecoder_NextIsLazyAndSticky(t *testing.T) {
	dec := NewDecoder(strings.NewReader(document(`
  <rdf:Description rdf:about="http://ex/a" ex:x="1"/>
  <rdf:Description rdf:about="http://ex/b" ex:x="2"/>`)))

	first, err := dec.Next()
	require.NoError(t, err)
	assert.True(t, first.Subject.Equals(ex("a")))

	second, err := dec.Next()
	require.NoError(t, err)
	assert.True(t, second.Subject.Equals(ex("b")))

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestDecoder_AllStopsEarly(t *testing.T) {
	dec := NewDecoder(strings.NewReader(document(`
  <rdf:Description rdf:about="http://ex/a" ex:x="1" ex:y="2" ex:z="3"/>`)))

	seen := 0
	for _, err := range dec.All() {
		require.NoError(t, err)
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)

	rest, err := dec.Next()
	require.NoError(t, err)
	assert.True(t, rest.Predicate.Equals(ex("z")))
}

func TestParse_PartialOutputBeforeError(t *testing.T) {
	triples, err := Parse(strings.NewReader(document(`
  <rdf:Description rdf:about="http://ex/a" ex:x="1"/>
  <rdf:Description rdf:about="http://ex/b" rdf:nodeID="n"/>`)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflictingSubjectAttributes)
	assertTriples(t, []*rdf.Triple{triple(ex("a"), ex("x"), lit("1"))}, triples)
}

func TestParse_RelativeReferenceWithoutBase(t *testing.T) {
	triples, err := Parse(strings.NewReader(document(`<rdf:Description rdf:about="relative" ex:name="Ann"/>`)))

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidReference)
	assert.Equal(t, KindInvalidReference, KindOf(err))
	assert.Empty(t, triples)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ErrorKind
		err   error
	}{
		{
			name:  "two node elements in one property",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p><rdf:Description/><rdf:Description/></ex:p></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "text in property element with property attributes",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p ex:q="v">text</ex:p></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "text before node element",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p>text<rdf:Description/></ex:p></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "text after node element",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p><rdf:Description/>text</ex:p></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "resource and nodeID",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p rdf:resource="http://ex/b" rdf:nodeID="n"/></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "parseType with resource",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p rdf:parseType="Resource" rdf:resource="http://ex/b"/></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "node element inside resource property",
			input: document(`<rdf:Description rdf:about="http://ex/a"><ex:p rdf:resource="http://ex/b"><rdf:Description/></ex:p></rdf:Description>`),
			kind:  KindAmbiguousPropertyContent,
			err:   ErrAmbiguousPropertyContent,
		},
		{
			name:  "about and nodeID",
			input: document(`<rdf:Description rdf:about="http://ex/a" rdf:nodeID="n"/>`),
			kind:  KindConflictingSubjectAttributes,
			err:   ErrConflictingSubjectAttributes,
		},
		{
			name:  "unbound element prefix",
			input: document(`<foo:Thing/>`),
			kind:  KindUnboundPrefix,
			err:   ErrUnboundPrefix,
		},
		{
			name:  "unbound attribute prefix",
			input: document(`<rdf:Description foo:bar="x"/>`),
			kind:  KindUnboundPrefix,
			err:   ErrUnboundPrefix,
		},
		{
			name:  "mismatched end tag",
			input: document(`<rdf:Description></rdf:Thing>`),
			kind:  KindMalformedInput,
			err:   ErrMalformedInput,
		},
		{
			name:  "truncated document",
			input: documentHeader + `<rdf:Description rdf:about="http://ex/a">`,
			kind:  KindMalformedInput,
			err:   ErrMalformedInput,
		},
		{
			name:  "broken markup",
			input: document(`<rdf:Description <`),
			kind:  KindMalformedInput,
			err:   ErrMalformedInput,
		},
		{
			name:  "empty input",
			input: "",
			kind:  KindMalformedInput,
			err:   ErrMalformedInput,
		},
		{
			name:  "second document element",
			input: document(``) + `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`,
			kind:  KindMalformedInput,
			err:   ErrMalformedInput,
		},
		{
			name:  "li as node element",
			input: document(`<rdf:li/>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "Description as property element",
			input: document(`<rdf:Description rdf:about="http://ex/a"><rdf:Description/></rdf:Description>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "bagID attribute",
			input: document(`<rdf:Description rdf:bagID="x"/>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "duplicate rdf:ID",
			input: document(`<rdf:Description rdf:ID="x"/><rdf:Description rdf:ID="x"/>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "nodeID is not a name",
			input: document(`<rdf:Description rdf:nodeID="1x"/>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "text inside node element",
			input: document(`<rdf:Description>text</rdf:Description>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
		{
			name:  "parseType on node element",
			input: document(`<rdf:Description rdf:parseType="Resource"/>`),
			kind:  KindGrammar,
			err:   ErrGrammar,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input), WithBaseIRI("http://ex/doc"))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, tt.kind, KindOf(err))

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParse_ErrorPosition(t *testing.T) {
	input := `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
<rdf:Description>
</rdf:RDF>`

	_, err := Parse(strings.NewReader(input))
	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, KindMalformedInput, parseErr.Kind)
	assert.Equal(t, 3, parseErr.Line)
	assert.Equal(t, "rdf:RDF", parseErr.Element)
	assert.Contains(t, parseErr.Error(), "rdfxml:3:")
}
