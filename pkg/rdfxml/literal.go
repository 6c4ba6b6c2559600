package rdfxml

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/aleksaelezovic/rdfxml/pkg/rdf"
)

// literalWriter serializes the content of a parseType="Literal" property
// in exclusive canonical form: namespaces are declared on the outermost
// element that uses them, attributes are sorted, empty elements get an end
// tag. Comments and processing instructions never reach it.
type literalWriter struct {
	buf strings.Builder

	// namespace declarations written on each open element
	scopes []map[string]string
}

func newLiteralWriter() *literalWriter {
	return &literalWriter{}
}

type literalAttr struct {
	name      QName
	namespace string
	value     string
}

func (w *literalWriter) start(name QName, ns Namespaces, attrs []Attribute) error {
	used := make(map[string]string)
	if err := w.use(used, name.Prefix, ns); err != nil {
		return err
	}

	sorted := make([]literalAttr, 0, len(attrs))
	for _, a := range attrs {
		if isNamespaceDecl(a.Name) {
			continue
		}
		namespace := ""
		if a.Name.Prefix != "" {
			if err := w.use(used, a.Name.Prefix, ns); err != nil {
				return err
			}
			namespace = used[a.Name.Prefix]
			if a.Name.Prefix == "xml" {
				namespace = rdf.XMLNamespace
			}
		}
		sorted = append(sorted, literalAttr{name: a.Name, namespace: namespace, value: a.Value})
	}
	slices.SortFunc(sorted, func(a, b literalAttr) int {
		return cmp.Or(cmp.Compare(a.namespace, b.namespace), cmp.Compare(a.name.Local, b.name.Local))
	})

	declared := make(map[string]string)
	for prefix, iri := range used {
		if current, _ := w.rendered(prefix); current != iri {
			declared[prefix] = iri
		}
	}
	prefixes := make([]string, 0, len(declared))
	for prefix := range declared {
		prefixes = append(prefixes, prefix)
	}
	slices.Sort(prefixes)

	w.buf.WriteByte('<')
	w.buf.WriteString(name.String())
	for _, prefix := range prefixes {
		if prefix == "" {
			w.buf.WriteString(` xmlns="`)
		} else {
			w.buf.WriteString(` xmlns:`)
			w.buf.WriteString(prefix)
			w.buf.WriteString(`="`)
		}
		w.buf.WriteString(escapeAttrValue(declared[prefix]))
		w.buf.WriteByte('"')
	}
	for _, a := range sorted {
		w.buf.WriteByte(' ')
		w.buf.WriteString(a.name.String())
		w.buf.WriteString(`="`)
		w.buf.WriteString(escapeAttrValue(a.value))
		w.buf.WriteByte('"')
	}
	w.buf.WriteByte('>')

	w.scopes = append(w.scopes, declared)
	return nil
}

// use records the namespace a visibly used prefix is bound to
func (w *literalWriter) use(used map[string]string, prefix string, ns Namespaces) error {
	if prefix == "xml" {
		return nil
	}
	if prefix == "" {
		used[""] = ns[""]
		return nil
	}
	iri, ok := ns[prefix]
	if !ok || iri == "" {
		return fmt.Errorf("%w: %q in XML literal", ErrUnboundPrefix, prefix)
	}
	used[prefix] = iri
	return nil
}

// rendered returns the binding of prefix in the output written so far
func (w *literalWriter) rendered(prefix string) (string, bool) {
	for i := len(w.scopes) - 1; i >= 0; i-- {
		if iri, ok := w.scopes[i][prefix]; ok {
			return iri, true
		}
	}
	return "", false
}

func (w *literalWriter) end(name QName) {
	w.buf.WriteString("</")
	w.buf.WriteString(name.String())
	w.buf.WriteByte('>')
	w.scopes = w.scopes[:len(w.scopes)-1]
}

func (w *literalWriter) text(content string) {
	w.buf.WriteString(escapeText(content))
}

func (w *literalWriter) String() string {
	return w.buf.String()
}

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\r", "&#xD;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		`"`, "&quot;",
		"\t", "&#x9;",
		"\n", "&#xA;",
		"\r", "&#xD;",
	)
)

func escapeText(s string) string {
	return textEscaper.Replace(s)
}

func escapeAttrValue(s string) string {
	return attrEscaper.Replace(s)
}
