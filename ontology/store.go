// Package ontology provides the in-memory triple store for the explorer.
// Turtle files are decoded with the knakk/rdf parser and flattened into
// indexed string triples; the store is read-only after load and a reload
// swaps the whole store atomically.
package ontology

import (
	"sort"
	"strings"

	"github.com/katalvlaran/lvlath/core"
)

// Well-known IRIs from the standard RDF vocabularies.
const (
	RDFType          = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFSLabel        = "http://www.w3.org/2000/01/rdf-schema#label"
	RDFSComment      = "http://www.w3.org/2000/01/rdf-schema#comment"
	RDFSSubClassOf   = "http://www.w3.org/2000/01/rdf-schema#subClassOf"
	OWLClass         = "http://www.w3.org/2002/07/owl#Class"
	OWLObjectProp    = "http://www.w3.org/2002/07/owl#ObjectProperty"
	OWLDatatypeProp  = "http://www.w3.org/2002/07/owl#DatatypeProperty"
	XSDNamespace     = "http://www.w3.org/2001/XMLSchema#"
	RDFNamespace     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace    = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace     = "http://www.w3.org/2002/07/owl#"
)

// TermKind discriminates RDF term types after decoding.
type TermKind int

const (
	// KindIRI is a resource identifier.
	KindIRI TermKind = iota
	// KindLiteral is a literal value (string form).
	KindLiteral
	// KindBlank is a blank node.
	KindBlank
)

// Term is an RDF object term flattened to its string form.
type Term struct {
	Value string
	Kind  TermKind
}

// IsResource reports whether the term can appear as a graph node
// (IRI or blank node, not a literal).
func (t Term) IsResource() bool { return t.Kind != KindLiteral }

// Triple is a subject-predicate-object statement. Subjects and predicates
// are always resources, so only the object carries a kind.
type Triple struct {
	Subject   string
	Predicate string
	Object    Term
}

// Store holds the merged ontology graph with lookup indexes. Loading
// populates it once; afterwards it is treated as read-only, so
// concurrent readers need no locking.
type Store struct {
	triples     []Triple
	bySubject   map[string][]Triple
	byPredicate map[string][]Triple
	byType      map[string][]string

	// resourceGraph projects resource-to-resource triples for path queries.
	// Built lazily by ResourceGraph.
	resourceGraph *core.Graph
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		bySubject:   make(map[string][]Triple),
		byPredicate: make(map[string][]Triple),
		byType:      make(map[string][]string),
	}
}

// Add appends a triple and updates the indexes.
func (s *Store) Add(t Triple) {
	s.triples = append(s.triples, t)
	s.bySubject[t.Subject] = append(s.bySubject[t.Subject], t)
	s.byPredicate[t.Predicate] = append(s.byPredicate[t.Predicate], t)
	if t.Predicate == RDFType && t.Object.IsResource() {
		s.byType[t.Object.Value] = append(s.byType[t.Object.Value], t.Subject)
	}
	s.resourceGraph = nil
}

// Merge copies all triples from other into s.
func (s *Store) Merge(other *Store) {
	for _, t := range other.triples {
		s.Add(t)
	}
}

// Len returns the number of triples in the store.
func (s *Store) Len() int { return len(s.triples) }

// Triples returns the underlying triple slice. Callers must not mutate it.
func (s *Store) Triples() []Triple { return s.triples }

// SubjectTriples returns all triples with the given subject.
func (s *Store) SubjectTriples(subject string) []Triple {
	return s.bySubject[subject]
}

// PredicateTriples returns all triples with the given predicate.
func (s *Store) PredicateTriples(predicate string) []Triple {
	return s.byPredicate[predicate]
}

// Objects returns all object terms for a subject/predicate pair.
func (s *Store) Objects(subject, predicate string) []Term {
	var out []Term
	for _, t := range s.bySubject[subject] {
		if t.Predicate == predicate {
			out = append(out, t.Object)
		}
	}
	return out
}

// FirstObject returns the first object term for a subject/predicate pair.
func (s *Store) FirstObject(subject, predicate string) (Term, bool) {
	for _, t := range s.bySubject[subject] {
		if t.Predicate == predicate {
			return t.Object, true
		}
	}
	return Term{}, false
}

// FirstLiteral returns the first literal object value for the pair.
func (s *Store) FirstLiteral(subject, predicate string) (string, bool) {
	for _, t := range s.bySubject[subject] {
		if t.Predicate == predicate && t.Object.Kind == KindLiteral {
			return t.Object.Value, true
		}
	}
	return "", false
}

// FirstResource returns the first resource object value for the pair.
func (s *Store) FirstResource(subject, predicate string) (string, bool) {
	for _, t := range s.bySubject[subject] {
		if t.Predicate == predicate && t.Object.IsResource() {
			return t.Object.Value, true
		}
	}
	return "", false
}

// SubjectsOfType returns all subjects with an rdf:type assertion for class.
func (s *Store) SubjectsOfType(class string) []string {
	return s.byType[class]
}

// SubjectsWithObject returns all subjects carrying predicate with the
// given resource object.
func (s *Store) SubjectsWithObject(predicate, object string) []string {
	var out []string
	for _, t := range s.byPredicate[predicate] {
		if t.Object.IsResource() && t.Object.Value == object {
			out = append(out, t.Subject)
		}
	}
	return out
}

// SubClassClosure returns root and every transitive subclass of it,
// following rdfs:subClassOf edges, in sorted order. The zero-length
// path counts, so root is always a member of its own closure.
func (s *Store) SubClassClosure(root string) []string {
	seen := map[string]bool{root: true}
	frontier := []string{root}
	for len(frontier) > 0 {
		next := frontier[0]
		frontier = frontier[1:]
		for _, sub := range s.SubjectsWithObject(RDFSSubClassOf, next) {
			if !seen[sub] {
				seen[sub] = true
				frontier = append(frontier, sub)
			}
		}
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// IsSystemResource reports whether an IRI belongs to the RDF, RDFS, OWL,
// or XSD namespaces. System resources are excluded from visualization and
// path queries.
func IsSystemResource(iri string) bool {
	return strings.HasPrefix(iri, RDFNamespace) ||
		strings.HasPrefix(iri, RDFSNamespace) ||
		strings.HasPrefix(iri, OWLNamespace) ||
		strings.HasPrefix(iri, XSDNamespace)
}

// ResourceGraph returns an undirected, unweighted graph over all
// resource-to-resource triples, excluding system resources. The graph is
// memoized; the store must not be mutated afterwards.
func (s *Store) ResourceGraph() *core.Graph {
	if s.resourceGraph != nil {
		return s.resourceGraph
	}
	g := core.NewGraph()
	for _, t := range s.triples {
		if !t.Object.IsResource() {
			continue
		}
		if IsSystemResource(t.Subject) || IsSystemResource(t.Object.Value) {
			continue
		}
		if t.Subject == t.Object.Value {
			continue
		}
		// Duplicate edges come back as ErrMultiEdgeNotAllowed; the
		// projection only needs connectivity, so ignore them.
		_, _ = g.AddEdge(t.Subject, t.Object.Value, 0)
	}
	s.resourceGraph = g
	return g
}
