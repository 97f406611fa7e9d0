// Package export serializes the loaded graph back to RDF text formats.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dr-rosen-rosen/bioTDMS-explainer/ontology"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/evid"
	"github.com/dr-rosen-rosen/bioTDMS-explainer/vocabulary/meas"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"
)

// ParseFormat maps user input (including common file extensions) to a
// Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "ntriples", "n-triples", "nt":
		return FormatNTriples, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Exporter serializes a triple store.
type Exporter struct {
	store    *ontology.Store
	prefixes map[string]string
}

// NewExporter creates an exporter with the project's standard prefixes.
func NewExporter(store *ontology.Store) *Exporter {
	return &Exporter{
		store: store,
		prefixes: map[string]string{
			"rdf":  ontology.RDFNamespace,
			"rdfs": ontology.RDFSNamespace,
			"owl":  ontology.OWLNamespace,
			"xsd":  ontology.XSDNamespace,
			"meas": meas.Namespace,
			"evid": evid.Namespace,
			"inst": evid.InstanceNamespace,
		},
	}
}

// Export serializes the store to the requested format.
func (e *Exporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		return e.toTurtle(), nil
	case FormatNTriples:
		return e.toNTriples(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// toTurtle groups triples by subject and abbreviates IRIs with the
// registered prefixes.
func (e *Exporter) toTurtle() string {
	var sb strings.Builder

	for _, prefix := range sortedKeys(e.prefixes) {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", prefix, e.prefixes[prefix])
	}
	sb.WriteString("\n")

	bySubject := make(map[string][]ontology.Triple)
	for _, t := range e.store.Triples() {
		bySubject[t.Subject] = append(bySubject[t.Subject], t)
	}

	for _, subject := range sortedKeys(bySubject) {
		triples := bySubject[subject]
		sb.WriteString(e.term(subject))
		for i, t := range triples {
			pred := e.term(t.Predicate)
			if t.Predicate == ontology.RDFType {
				pred = "a"
			}
			fmt.Fprintf(&sb, "\n    %s %s", pred, e.object(t.Object))
			if i < len(triples)-1 {
				sb.WriteString(" ;")
			} else {
				sb.WriteString(" .")
			}
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

func (e *Exporter) toNTriples() string {
	var sb strings.Builder
	triples := e.store.Triples()
	sorted := make([]ontology.Triple, len(triples))
	copy(sorted, triples)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Subject != sorted[j].Subject {
			return sorted[i].Subject < sorted[j].Subject
		}
		if sorted[i].Predicate != sorted[j].Predicate {
			return sorted[i].Predicate < sorted[j].Predicate
		}
		return sorted[i].Object.Value < sorted[j].Object.Value
	})
	for _, t := range sorted {
		fmt.Fprintf(&sb, "<%s> <%s> %s .\n", t.Subject, t.Predicate, ntObject(t.Object))
	}
	return sb.String()
}

// term renders a resource with a prefix when one applies, otherwise as
// a full IRI.
func (e *Exporter) term(iri string) string {
	for prefix, ns := range e.prefixes {
		if local, ok := strings.CutPrefix(iri, ns); ok && validLocalName(local) {
			return prefix + ":" + local
		}
	}
	return "<" + iri + ">"
}

func (e *Exporter) object(t ontology.Term) string {
	switch t.Kind {
	case ontology.KindLiteral:
		return quoteLiteral(t.Value)
	case ontology.KindBlank:
		return "_:" + t.Value
	default:
		return e.term(t.Value)
	}
}

func ntObject(t ontology.Term) string {
	switch t.Kind {
	case ontology.KindLiteral:
		return quoteLiteral(t.Value)
	case ontology.KindBlank:
		return "_:" + t.Value
	default:
		return "<" + t.Value + ">"
	}
}

func quoteLiteral(v string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return `"` + r.Replace(v) + `"`
}

// validLocalName rejects locals that would need escaping in Turtle.
func validLocalName(local string) bool {
	if local == "" {
		return false
	}
	for _, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
