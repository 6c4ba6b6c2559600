package rdf

import (
	"slices"
	"strings"
)

// AreGraphsIsomorphic reports whether two triple sets describe the same graph
// up to a renaming of blank nodes. Duplicate triples count once.
//
// Each blank node gets a signature built from the triples it occurs in, with
// other blank nodes masked. Only nodes with equal signatures are tried against
// each other, and each candidate is checked against the triples it touches.
func AreGraphsIsomorphic(expected, actual []*Triple) bool {
	from, to := indexGraph(expected), indexGraph(actual)
	if len(from.keys) != len(to.keys) || len(from.touching) != len(to.touching) {
		return false
	}

	for _, t := range from.ground {
		if _, ok := to.keys[tripleKey(t, nil)]; !ok {
			return false
		}
	}

	candidates := make(map[string][]string)
	for id, sig := range to.signatures {
		candidates[sig] = append(candidates[sig], id)
	}
	order := make([]string, 0, len(from.signatures))
	for id, sig := range from.signatures {
		if len(candidates[sig]) == 0 {
			return false
		}
		order = append(order, id)
	}
	// Rarest signatures first, label as tie-breaker for determinism
	slices.SortFunc(order, func(a, b string) int {
		na, nb := len(candidates[from.signatures[a]]), len(candidates[from.signatures[b]])
		if na != nb {
			return na - nb
		}
		return strings.Compare(a, b)
	})

	b := &bijection{
		from:       from,
		to:         to,
		order:      order,
		candidates: candidates,
		forward:    make(map[string]string, len(order)),
		taken:      make(map[string]bool, len(order)),
	}
	return b.extend(0)
}

// graphIndex is a deduplicated view of a triple set
type graphIndex struct {
	keys       map[string]struct{}
	ground     []*Triple
	touching   map[string][]*Triple
	signatures map[string]string
}

func indexGraph(triples []*Triple) *graphIndex {
	g := &graphIndex{
		keys:       make(map[string]struct{}, len(triples)),
		touching:   make(map[string][]*Triple),
		signatures: make(map[string]string),
	}

	for _, t := range triples {
		key := tripleKey(t, nil)
		if _, dup := g.keys[key]; dup {
			continue
		}
		g.keys[key] = struct{}{}

		s, sBlank := t.Subject.(*BlankNode)
		o, oBlank := t.Object.(*BlankNode)
		if sBlank {
			g.touching[s.ID] = append(g.touching[s.ID], t)
		}
		if oBlank && (!sBlank || o.ID != s.ID) {
			g.touching[o.ID] = append(g.touching[o.ID], t)
		}
		if !sBlank && !oBlank {
			g.ground = append(g.ground, t)
		}
	}

	for id, ts := range g.touching {
		parts := make([]string, len(ts))
		for i, t := range ts {
			parts[i] = maskTerm(t.Subject, id) + " " + formatTerm(t.Predicate) + " " + maskTerm(t.Object, id)
		}
		slices.Sort(parts)
		g.signatures[id] = strings.Join(parts, "\n")
	}
	return g
}

// maskTerm hides blank node labels: self is "@", any other blank node "_"
func maskTerm(term Term, self string) string {
	if b, ok := term.(*BlankNode); ok {
		if b.ID == self {
			return "@"
		}
		return "_"
	}
	return formatTerm(term)
}

// bijection is the state of one backtracking search
type bijection struct {
	from, to   *graphIndex
	order      []string
	candidates map[string][]string
	forward    map[string]string
	taken      map[string]bool
}

func (b *bijection) extend(i int) bool {
	if i == len(b.order) {
		return true
	}

	id := b.order[i]
	for _, c := range b.candidates[b.from.signatures[id]] {
		if b.taken[c] {
			continue
		}
		b.forward[id] = c
		b.taken[c] = true

		if b.fits(id) && b.extend(i+1) {
			return true
		}

		delete(b.forward, id)
		delete(b.taken, c)
	}
	return false
}

// fits checks the fully mapped triples around id against the other graph.
// Every blank triple is checked once its last blank node is mapped, and the
// mapping is injective, so success at the last node proves equality.
func (b *bijection) fits(id string) bool {
	for _, t := range b.from.touching[id] {
		if !b.isMapped(t.Subject) || !b.isMapped(t.Object) {
			continue
		}
		if _, ok := b.to.keys[tripleKey(t, b.forward)]; !ok {
			return false
		}
	}
	return true
}

func (b *bijection) isMapped(term Term) bool {
	if bn, ok := term.(*BlankNode); ok {
		_, done := b.forward[bn.ID]
		return done
	}
	return true
}

// tripleKey renders a triple with blank nodes renamed through mapping
func tripleKey(t *Triple, mapping map[string]string) string {
	return renameTerm(t.Subject, mapping) + " " +
		renameTerm(t.Predicate, mapping) + " " +
		renameTerm(t.Object, mapping)
}

func renameTerm(term Term, mapping map[string]string) string {
	if bn, ok := term.(*BlankNode); ok {
		if target, ok := mapping[bn.ID]; ok {
			return "_:" + target
		}
	}
	return formatTerm(term)
}
