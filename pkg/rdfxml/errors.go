package rdfxml

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidReference reports an IRI reference that cannot be parsed or resolved
	ErrInvalidReference = errors.New("invalid IRI reference")

	// ErrUnboundPrefix reports a qualified name whose prefix has no binding in scope
	ErrUnboundPrefix = errors.New("unbound namespace prefix")

	// ErrAmbiguousPropertyContent reports a property element whose value cannot be determined
	ErrAmbiguousPropertyContent = errors.New("ambiguous property element content")

	// ErrConflictingSubjectAttributes reports a node element with more than one subject attribute
	ErrConflictingSubjectAttributes = errors.New("conflicting subject attributes")

	// ErrMalformedInput reports ill-formed XML
	ErrMalformedInput = errors.New("malformed XML input")

	// ErrGrammar reports any other violation of the RDF/XML grammar
	ErrGrammar = errors.New("RDF/XML grammar violation")
)

// ErrorKind classifies parse failures.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindInvalidReference
	KindUnboundPrefix
	KindAmbiguousPropertyContent
	KindConflictingSubjectAttributes
	KindMalformedInput
	KindGrammar
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidReference:
		return "InvalidReference"
	case KindUnboundPrefix:
		return "UnboundPrefix"
	case KindAmbiguousPropertyContent:
		return "AmbiguousPropertyContent"
	case KindConflictingSubjectAttributes:
		return "ConflictingSubjectAttributes"
	case KindMalformedInput:
		return "MalformedInput"
	case KindGrammar:
		return "Grammar"
	default:
		return "Unknown"
	}
}

// ParseError is the terminal error of a parse. It carries the approximate
// position of the offending element when the tokenizer supplies one.
type ParseError struct {
	Kind    ErrorKind
	Line    int    // 1-based, 0 if unknown
	Column  int    // 1-based, 0 if unknown
	Element string // qualified name of the offending element, if any
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("rdfxml")
	if e.Line > 0 {
		fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
	}
	if e.Element != "" {
		fmt.Fprintf(&b, " <%s>", e.Element)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a parse failure, or KindUnknown.
func KindOf(err error) ErrorKind {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		return parseErr.Kind
	}
	return kindOf(err)
}

func kindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrInvalidReference):
		return KindInvalidReference
	case errors.Is(err, ErrUnboundPrefix):
		return KindUnboundPrefix
	case errors.Is(err, ErrAmbiguousPropertyContent):
		return KindAmbiguousPropertyContent
	case errors.Is(err, ErrConflictingSubjectAttributes):
		return KindConflictingSubjectAttributes
	case errors.Is(err, ErrMalformedInput):
		return KindMalformedInput
	case errors.Is(err, ErrGrammar):
		return KindGrammar
	}
	return KindUnknown
}

func newParseError(pos Position, element string, err error) *ParseError {
	return &ParseError{
		Kind:    kindOf(err),
		Line:    pos.Line,
		Column:  pos.Column,
		Element: element,
		Err:     err,
	}
}
