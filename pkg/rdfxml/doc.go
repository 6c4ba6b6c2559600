// Package rdfxml extracts RDF triples from RDF/XML.
//
// Parser is the event-driven core. It consumes element open, element
// close and text events and emits each triple as soon as its subject,
// predicate and object are known. Decoder connects a Parser to an
// encoding/xml tokenizer and exposes the triples as a lazy sequence:
//
//	dec := rdfxml.NewDecoder(r, rdfxml.WithBaseIRI("http://example.org/doc"))
//	for triple, err := range dec.All() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(triple)
//	}
//
// Each Parser owns its frame stack and blank node allocator, so documents
// may be parsed concurrently with one parser per document.
package rdfxml
