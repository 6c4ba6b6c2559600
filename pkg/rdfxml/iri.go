package rdfxml

import (
	"fmt"
	"strings"
)

// ResolveIRI resolves ref against base following RFC 3986 section 5.2.
// Resolution works on the string form so non-ASCII characters stay as they
// are. An empty reference resolves to the base without its fragment.
func ResolveIRI(base, ref string) (string, error) {
	r, err := parseIRIRef(ref)
	if err != nil {
		return "", err
	}
	if r.hasScheme {
		r.path = removeDotSegments(r.path)
		return r.String(), nil
	}

	if base == "" {
		return "", fmt.Errorf("%w: relative reference %q with no base IRI", ErrInvalidReference, ref)
	}
	b, err := parseIRIRef(base)
	if err != nil {
		return "", err
	}
	if !b.hasScheme {
		return "", fmt.Errorf("%w: base %q is not an absolute IRI", ErrInvalidReference, base)
	}

	t := iriRef{scheme: b.scheme, hasScheme: true}
	switch {
	case r.hasAuthority:
		t.authority, t.hasAuthority = r.authority, true
		t.path = removeDotSegments(r.path)
		t.query, t.hasQuery = r.query, r.hasQuery
	case r.path == "":
		t.authority, t.hasAuthority = b.authority, b.hasAuthority
		t.path = b.path
		if r.hasQuery {
			t.query, t.hasQuery = r.query, true
		} else {
			t.query, t.hasQuery = b.query, b.hasQuery
		}
	default:
		t.authority, t.hasAuthority = b.authority, b.hasAuthority
		if strings.HasPrefix(r.path, "/") {
			t.path = removeDotSegments(r.path)
		} else {
			t.path = removeDotSegments(mergePaths(b, r.path))
		}
		t.query, t.hasQuery = r.query, r.hasQuery
	}
	t.fragment, t.hasFragment = r.fragment, r.hasFragment

	return t.String(), nil
}

// iriRef holds the five components of an IRI reference
type iriRef struct {
	scheme    string
	authority string
	path      string
	query     string
	fragment  string

	hasScheme    bool
	hasAuthority bool
	hasQuery     bool
	hasFragment  bool
}

func (r iriRef) String() string {
	var b strings.Builder
	if r.hasScheme {
		b.WriteString(r.scheme)
		b.WriteByte(':')
	}
	if r.hasAuthority {
		b.WriteString("//")
		b.WriteString(r.authority)
	}
	b.WriteString(r.path)
	if r.hasQuery {
		b.WriteByte('?')
		b.WriteString(r.query)
	}
	if r.hasFragment {
		b.WriteByte('#')
		b.WriteString(r.fragment)
	}
	return b.String()
}

// parseIRIRef splits s the way RFC 3986 appendix B does and rejects
// characters that may not appear in an IRI reference
func parseIRIRef(s string) (iriRef, error) {
	var r iriRef
	if err := checkIRIChars(s); err != nil {
		return r, err
	}

	rest := s
	if i := strings.IndexAny(rest, ":/?#"); i >= 0 && rest[i] == ':' {
		if !isScheme(rest[:i]) {
			return r, fmt.Errorf("%w: %q has an invalid scheme", ErrInvalidReference, s)
		}
		r.scheme, r.hasScheme = rest[:i], true
		rest = rest[i+1:]
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		r.authority, r.hasAuthority = rest[:end], true
		rest = rest[end:]
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		r.fragment, r.hasFragment = rest[i+1:], true
		rest = rest[:i]
		if strings.IndexByte(r.fragment, '#') >= 0 {
			return r, fmt.Errorf("%w: %q has more than one fragment", ErrInvalidReference, s)
		}
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		r.query, r.hasQuery = rest[i+1:], true
		rest = rest[:i]
	}
	r.path = rest

	return r, nil
}

func checkIRIChars(s string) error {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c < 0x20 || c == 0x7F:
			return fmt.Errorf("%w: %q contains a control character", ErrInvalidReference, s)
		case c == ' ' || c == '<' || c == '>' || c == '"' || c == '{' || c == '}' ||
			c == '|' || c == '\\' || c == '^' || c == '`':
			return fmt.Errorf("%w: %q contains %q", ErrInvalidReference, s, c)
		case c == '%':
			if i+2 >= len(s) || !isHex(s[i+1]) || !isHex(s[i+2]) {
				return fmt.Errorf("%w: %q has a bad percent-escape", ErrInvalidReference, s)
			}
		}
	}
	return nil
}

func isScheme(s string) bool {
	if s == "" || !isAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if !isAlpha(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// mergePaths implements RFC 3986 section 5.2.3
func mergePaths(base iriRef, path string) string {
	if base.hasAuthority && base.path == "" {
		return "/" + path
	}
	i := strings.LastIndexByte(base.path, '/')
	if i < 0 {
		return path
	}
	return base.path[:i+1] + path
}

// removeDotSegments implements RFC 3986 section 5.2.4. Each output entry
// is one segment together with its leading slash.
func removeDotSegments(path string) string {
	if !strings.Contains(path, ".") {
		return path
	}

	var out []string
	pop := func() {
		if len(out) > 0 {
			out = out[:len(out)-1]
		}
	}

	in := path
	for in != "" {
		switch {
		case strings.HasPrefix(in, "../"):
			in = in[3:]
		case strings.HasPrefix(in, "./"):
			in = in[2:]
		case strings.HasPrefix(in, "/./"):
			in = in[2:]
		case in == "/.":
			in = "/"
		case strings.HasPrefix(in, "/../"):
			in = in[3:]
			pop()
		case in == "/..":
			in = "/"
			pop()
		case in == "." || in == "..":
			in = ""
		default:
			start := 0
			if in[0] == '/' {
				start = 1
			}
			end := strings.IndexByte(in[start:], '/')
			if end < 0 {
				end = len(in)
			} else {
				end += start
			}
			out = append(out, in[:end])
			in = in[end:]
		}
	}

	return strings.Join(out, "")
}
