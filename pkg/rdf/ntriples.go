package rdf

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FormatTriple serializes a triple as one canonical N-Triples line (without newline)
func FormatTriple(triple *Triple) string {
	var builder strings.Builder
	builder.WriteString(formatTerm(triple.Subject))
	builder.WriteString(" ")
	builder.WriteString(formatTerm(triple.Predicate))
	builder.WriteString(" ")
	builder.WriteString(formatTerm(triple.Object))
	builder.WriteString(" .")
	return builder.String()
}

// WriteNTriples writes triples in canonical N-Triples format.
// Input order is preserved.
func WriteNTriples(w io.Writer, triples []*Triple) error {
	bw := bufio.NewWriter(w)
	for _, triple := range triples {
		if _, err := bw.WriteString(FormatTriple(triple)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// formatTerm serializes a single RDF term in canonical format
func formatTerm(term Term) string {
	switch t := term.(type) {
	case *NamedNode:
		return "<" + escapeIRI(t.IRI) + ">"
	case *BlankNode:
		return "_:" + t.ID
	case *Literal:
		return formatLiteral(t)
	case nil:
		return ""
	default:
		return term.String()
	}
}

// formatLiteral serializes a literal in canonical format
func formatLiteral(lit *Literal) string {
	escaped := escapeString(lit.Value)

	if lit.Language != "" {
		return fmt.Sprintf(`"%s"@%s`, escaped, strings.ToLower(lit.Language))
	}

	// xsd:string is implicit
	if lit.Datatype != nil && lit.Datatype.IRI != XSDString {
		return fmt.Sprintf(`"%s"^^<%s>`, escaped, escapeIRI(lit.Datatype.IRI))
	}

	return `"` + escaped + `"`
}

// escapeString escapes a string value for canonical N-Triples output:
// named escapes for \t \b \n \r \f \" \\ and \uXXXX for other control characters.
func escapeString(s string) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, r := range s {
		switch r {
		case '\t':
			builder.WriteString(`\t`)
		case '\b':
			builder.WriteString(`\b`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\f':
			builder.WriteString(`\f`)
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		default:
			if r < 0x20 || r == 0x7F || r == 0xFFFE || r == 0xFFFF {
				fmt.Fprintf(&builder, `\u%04X`, r)
			} else {
				builder.WriteRune(r)
			}
		}
	}

	return builder.String()
}

// escapeIRI escapes the characters N-Triples forbids inside IRIREF.
// Parsers only hand out validated IRIs, so this rarely changes anything.
func escapeIRI(iri string) string {
	if !strings.ContainsAny(iri, "<>\"{}|^`\\ ") {
		return iri
	}
	var builder strings.Builder
	for _, r := range iri {
		switch r {
		case '<', '>', '"', '{', '}', '|', '^', '`', '\\', ' ':
			fmt.Fprintf(&builder, `\u%04X`, r)
		default:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
